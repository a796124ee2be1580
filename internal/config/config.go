package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ndanilov/inventory_api/internal/hash"
	"github.com/ndanilov/inventory_api/internal/models"
)

type Config struct {
	DB_HOST        string
	DB_PORT        string
	DB_USER        string
	DB_PASSWORD    string
	DB_NAME        string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	JWT_SECRET     string
	JWT_ISSUER     string
	JWT_AUDIENCE   string
	KAFKA_ADDRESS  string
	ADMIN_PASSWORD string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:        os.Getenv("DB_HOST"),
		DB_PORT:        os.Getenv("DB_PORT"),
		DB_USER:        os.Getenv("DB_USER"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		JWT_ISSUER:     getenvDefault("JWT_ISSUER", "inventory_api"),
		JWT_AUDIENCE:   getenvDefault("JWT_AUDIENCE", "inventory_api_clients"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		ADMIN_PASSWORD: getenvDefault("ADMIN_PASSWORD", "admin123"),
		LOG_LEVEL:      os.Getenv("LOG_LEVEL"),
	}

	if config.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return config, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := Migrate(db, cfg.ADMIN_PASSWORD); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema and seeds the admin account. Seeding is
// idempotent so restarts leave an existing admin untouched.
func Migrate(db *gorm.DB, adminPassword string) error {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	pwHash, err := hash.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("cannot hash admin password: %w", err)
	}
	admin := models.User{
		Username:     "admin",
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
	}
	if err := db.Where(models.User{Username: "admin"}).FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("cannot seed admin user: %w", err)
	}
	return nil
}
