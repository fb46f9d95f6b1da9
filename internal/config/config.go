package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/models"
)

type Config struct {
	DB_HOST           string
	DB_PORT           string
	DB_USER           string
	DB_PASSWORD       string
	DB_NAME           string
	ES_URL            string
	ES_USER           string
	ES_PASSWORD       string
	JWT_SECRET        string
	REFRESH_SECRET    string
	KAFKA_ADDRESS     string
	SMTP_HOST         string
	SMTP_PORT         string
	SMTP_USER         string
	SMTP_PASSWORD     string
	ADMIN_EMAIL       string
	STRIPE_SECRET_KEY string
	FRONTEND_URL      string
	UPLOAD_DIR        string
	LOG_LEVEL         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:           os.Getenv("DB_HOST"),
		DB_PORT:           os.Getenv("DB_PORT"),
		DB_USER:           os.Getenv("DB_USER"),
		DB_PASSWORD:       os.Getenv("DB_PASSWORD"),
		DB_NAME:           os.Getenv("DB_NAME"),
		ES_URL:            os.Getenv("ES_URL"),
		ES_USER:           os.Getenv("ES_USER"),
		ES_PASSWORD:       os.Getenv("ES_PASSWORD"),
		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		REFRESH_SECRET:    os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:     os.Getenv("KAFKA_ADDRESS"),
		SMTP_HOST:         os.Getenv("SMTP_HOST"),
		SMTP_PORT:         os.Getenv("SMTP_PORT"),
		SMTP_USER:         os.Getenv("SMTP_USER"),
		SMTP_PASSWORD:     os.Getenv("SMTP_PASSWORD"),
		ADMIN_EMAIL:       os.Getenv("ADMIN_EMAIL"),
		STRIPE_SECRET_KEY: os.Getenv("STRIPE_SECRET_KEY"),
		FRONTEND_URL:      os.Getenv("FRONTEND_URL"),
		UPLOAD_DIR:        os.Getenv("UPLOAD_DIR"),
		LOG_LEVEL:         os.Getenv("LOG_LEVEL"),
	}

	if config.UPLOAD_DIR == "" {
		config.UPLOAD_DIR = "uploads"
	}

	return config, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	configurePool(sqlDB)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.RefreshToken{},
		&models.Order{},
		&models.OrderItem{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
