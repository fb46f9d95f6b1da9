package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/codekart/codekart/internal/config"
	"github.com/codekart/codekart/internal/es"
	"github.com/codekart/codekart/internal/handlers"
	"github.com/codekart/codekart/internal/handlers/order"
	"github.com/codekart/codekart/internal/logging"
	"github.com/codekart/codekart/internal/mailer"
	auth "github.com/codekart/codekart/internal/middleware/auth"
	"github.com/codekart/codekart/internal/mykafka"
	"github.com/codekart/codekart/internal/notify"
	"github.com/codekart/codekart/internal/payments"
	httpserver "github.com/codekart/codekart/internal/transport/http"
	"github.com/codekart/codekart/internal/upload"
	"github.com/codekart/codekart/internal/validation"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	producer := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	smtp, err := mailer.NewSMTP(configuration)
	if err != nil {
		log.Fatalf("mailer init error: %v", err)
	}

	dispatcher := notify.NewDispatcher(smtp, producer, logger)
	checkout := payments.NewStripe(configuration.STRIPE_SECRET_KEY, configuration.FRONTEND_URL)
	tokens := &auth.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Validator = validation.New()

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{
			DB:            db,
			JWTSecret:     jwtSecret,
			RefreshSecret: refreshSecret,
			Producer:      producer,
		},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: producer, ES: esClient},
		SearchHandler:   &handlers.SearchHandler{ES: esClient},
		SettingsHandler: &handlers.SettingsHandler{DB: db, Uploads: upload.NewStore(configuration.UPLOAD_DIR)},
		OrderHandler: &order.Handler{
			DB:         db,
			Checkout:   checkout,
			Dispatcher: dispatcher,
			Uploads:    upload.NewStore(filepath.Join(configuration.UPLOAD_DIR, "payments")),
		},
		Tokens: tokens,
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

	dispatcher.Close()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
