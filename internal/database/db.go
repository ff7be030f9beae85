package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	// sslmode=disable matches local/dev deployments; production overrides
	// via PGSSLMODE.
	dsn := fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
		url.UserPassword(user, pass).String(), host, port, name)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
