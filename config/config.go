package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database connection. MySQL in normal operation; set
// DB_DRIVER=sqlite for a local file database during development.
func InitDB() (*gorm.DB, error) {
	if GetEnv("DB_DRIVER", "mysql") == "sqlite" {
		return gorm.Open(sqlite.Open(GetEnv("DB_PATH", "merendar.db")), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		GetEnv("DB_USER", "merendar"),
		GetEnv("DB_PASSWORD", "merendar"),
		GetEnv("DB_HOST", "127.0.0.1"),
		GetEnv("DB_PORT", "3306"),
		GetEnv("DB_NAME", "merendar"),
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// GetEnv returns the variable value or a fallback when unset.
func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
