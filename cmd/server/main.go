package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"transport-roadmap-service/internal/adapters/cache"
	"transport-roadmap-service/internal/adapters/distance"
	"transport-roadmap-service/internal/adapters/repositories"
	"transport-roadmap-service/internal/api"
	"transport-roadmap-service/internal/config"
	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/platform/db"
	"transport-roadmap-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQL storage, OSRM, Redis) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	database, driver, err := openDatabase()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	repo := repositories.NewSQLRepository(database, driver)

	travelCache := newTravelTimeCache(database, driver)
	provider, err := newTravelTimeProvider(travelCache)
	if err != nil {
		log.Fatal(err)
	}

	cfg := api.Config{
		Depot: domain.Coordinate{
			Lat: config.GetFloat("DEPOT_LAT", -23.5505),
			Lon: config.GetFloat("DEPOT_LON", -46.6333),
		},
		Epsilon:      config.GetFloat("DBSCAN_EPSILON", 0.5),
		MinSamples:   config.GetInt("DBSCAN_MIN_SAMPLES", 2),
		SolverBudget: time.Duration(config.GetInt("SOLVER_BUDGET_SECONDS", 30)) * time.Second,
	}

	router := api.NewRouter(repo, repo, repo, provider, cfg)

	// Timeouts are tuned for cold-cache suggestion runs (external routing
	// API latency dominates).
	log.Printf("Server listening addr=:%s db=%s", port, driver)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openDatabase picks PostgreSQL when DATABASE_URL is set, otherwise an
// embedded SQLite file for local runs.
func openDatabase() (*sql.DB, string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		database, err := db.Open(url)
		return database, db.DriverPostgres, err
	}

	database, err := db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	return database, db.DriverSQLite, err
}

// newTravelTimeCache prefers a shared Redis instance and falls back to the
// SQL travel_time_cache table.
func newTravelTimeCache(database *sql.DB, driver string) ports.TravelTimeCache {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ttl := time.Duration(config.GetInt("REDIS_TTL_HOURS", 24)) * time.Hour
		log.Printf("Travel-time cache backend=redis addr=%s", addr)
		return cache.NewRedisTravelTimeCache(client, ttl)
	}

	log.Printf("Travel-time cache backend=sql driver=%s", driver)
	return cache.NewSQLTravelTimeCache(database, driver)
}

// newTravelTimeProvider uses OSRM when configured and otherwise estimates
// from straight-line distance, which keeps the service usable offline.
func newTravelTimeProvider(travelCache ports.TravelTimeCache) (ports.TravelTimeProvider, error) {
	if baseURL := os.Getenv("OSRM_BASE_URL"); baseURL != "" {
		rps := config.GetFloat("OSRM_RPS", 1)
		return distance.NewOSRMTravelTimeProvider(baseURL, rps, travelCache)
	}

	log.Println("OSRM_BASE_URL not set, estimating travel times from straight-line distance")
	return distance.NewHaversineTravelTimeProvider(config.GetFloat("AVG_SPEED_KPH", 40)), nil
}
