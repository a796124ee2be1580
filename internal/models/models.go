package models

import (
	"time"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Administrator"
)

type Product struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Email        string `json:"email,omitempty"`
	Role         string `gorm:"not null"                 json:"role"`
}
