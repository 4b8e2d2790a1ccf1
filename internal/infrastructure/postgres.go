package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}
	if err := client.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return client, nil
}

func (p *PostgresClient) Migrate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id INT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			title_simple VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			description2 TEXT NOT NULL DEFAULT '',
			description3 TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '',
			technologies JSONB NOT NULL DEFAULT '[]',
			date VARCHAR(50) NOT NULL,
			categorie JSONB NOT NULL DEFAULT '[]',
			image TEXT NOT NULL DEFAULT '',
			image_simple TEXT NOT NULL DEFAULT '',
			images JSONB NOT NULL DEFAULT '[]',
			type VARCHAR(255) NOT NULL DEFAULT '',
			vue TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create projects table: %w", err)
	}

	// One row per day and answer source
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_usage (
			date DATE NOT NULL,
			source VARCHAR(20) NOT NULL,
			answered INT NOT NULL DEFAULT 0,
			PRIMARY KEY (date, source)
		);
	`)
	if err != nil {
		return fmt.Errorf("create chat_usage table: %w", err)
	}
	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
