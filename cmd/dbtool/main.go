package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"

	"transport-roadmap-service/internal/adapters/repositories"
	"transport-roadmap-service/internal/config"
	"transport-roadmap-service/internal/platform/db"
)

// dbtool initializes the schema and loads the demo dataset. It runs
// against the same database the server would use.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	database, driver, err := openDatabase()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/appointments.json")
	ctx := context.Background()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, database, driver); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, database, driver, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

func openDatabase() (*sql.DB, string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		database, err := db.Open(url)
		return database, db.DriverPostgres, err
	}

	database, err := db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	return database, db.DriverSQLite, err
}
