package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the bookings database. On Cloud Run the Cloud SQL unix
// socket is used; anywhere else a TCP DSN is built from DB_HOST/DB_PORT,
// defaulting to a local postgres.
func Connect() {
	var err error

	dbUser := envOr("DB_USER", "postgres")
	dbPass := os.Getenv("DB_PASS")
	dbName := envOr("DB_NAME", "bookingbot")

	var dsn string
	if instance := os.Getenv("INSTANCE_CONNECTION_NAME"); instance != "" {
		dsn = fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			instance, dbUser, dbPass, dbName)
		log.Printf("Opening bookings database via Cloud SQL socket %s", instance)
	} else {
		dbHost := envOr("DB_HOST", "localhost")
		dbPort := envOr("DB_PORT", "5432")
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			dbHost, dbUser, dbPass, dbName, dbPort)
		log.Printf("Opening bookings database at %s:%s/%s", dbHost, dbPort, dbName)
	}

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Printf("Failed to open bookings database: %v", err)
		panic(err)
	}

	log.Println("✅ Bookings database ready")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
