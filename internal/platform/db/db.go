package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Open connects to PostgreSQL via the pgx stdlib driver.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open(DriverPostgres, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

// OpenSQLite opens (and creates if missing) an embedded SQLite database
// for local runs.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", path, err)
	}

	return db, nil
}

// Rebind rewrites `?` placeholders into the `$n` form PostgreSQL expects.
// Queries are written once with `?` and adapted per driver at call sites.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
