package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ndanilov/inventory_api/internal/config"
	"github.com/ndanilov/inventory_api/internal/es"
	"github.com/ndanilov/inventory_api/internal/httpserver"
	"github.com/ndanilov/inventory_api/internal/logging"
	"github.com/ndanilov/inventory_api/internal/middleware"
	"github.com/ndanilov/inventory_api/internal/mykafka"
	"github.com/ndanilov/inventory_api/internal/repo"
	"github.com/ndanilov/inventory_api/internal/service"
	"github.com/ndanilov/inventory_api/internal/token"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	issuer := &token.Issuer{
		Secret:   []byte(configuration.JWT_SECRET),
		Issuer:   configuration.JWT_ISSUER,
		Audience: configuration.JWT_AUDIENCE,
	}

	authSvc := &service.AuthService{
		Users:    &repo.UserRepo{DB: db},
		Tokens:   issuer,
		Producer: publisherOrNil(producer),
	}
	productSvc := &service.ProductService{
		Products: &repo.ProductRepo{DB: db},
		Producer: publisherOrNil(producer),
		ES:       esClient,
		ESIndex:  es.ProductIndex,
	}
	searchSvc := &service.SearchService{ES: esClient, Index: es.ProductIndex}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &httpserver.AuthHandler{Service: authSvc},
		ProductHandler: &httpserver.ProductHandler{Service: productSvc},
		SearchHandler:  &httpserver.SearchHandler{Service: searchSvc},
		Gate:           &middleware.Gate{Tokens: issuer},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}

// publisherOrNil keeps a nil *Producer from hiding inside a non-nil interface.
func publisherOrNil(p *mykafka.Producer) service.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
