package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/platform/db"
	"transport-roadmap-service/internal/platform/obs"
)

// SQLTravelTimeCache is a SQL-backed cache for origin->destination travel
// times, keyed by coordinates rounded to six decimals (~0.1m, well below
// routing precision).
type SQLTravelTimeCache struct {
	DB     *sql.DB
	Driver string
}

func NewSQLTravelTimeCache(database *sql.DB, driver string) *SQLTravelTimeCache {
	return &SQLTravelTimeCache{DB: database, Driver: driver}
}

func (s *SQLTravelTimeCache) Get(ctx context.Context, origin, destination domain.Coordinate) (_ int, _ bool, err error) {
	defer obs.Time(ctx, "traveltime.cache.Get")(&err)

	if s.DB == nil {
		return 0, false, errors.New("travel time cache: db is nil")
	}

	query := db.Rebind(s.Driver, `
	SELECT duration_seconds
	FROM travel_time_cache
	WHERE origin = ? AND destination = ?;
	`)

	var seconds int
	err = s.DB.QueryRowContext(ctx, query, coordKey(origin), coordKey(destination)).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("travel time cache: get: %w", err)
	}
	return seconds, true, nil
}

func (s *SQLTravelTimeCache) Put(ctx context.Context, origin, destination domain.Coordinate, seconds int) (err error) {
	defer obs.Time(ctx, "traveltime.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("travel time cache: db is nil")
	}

	query := db.Rebind(s.Driver, `
	INSERT INTO travel_time_cache (origin, destination, duration_seconds)
	VALUES (?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE SET duration_seconds = excluded.duration_seconds;
	`)

	if _, err := s.DB.ExecContext(ctx, query, coordKey(origin), coordKey(destination), seconds); err != nil {
		return fmt.Errorf("travel time cache: put: %w", err)
	}
	return nil
}

func coordKey(c domain.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
