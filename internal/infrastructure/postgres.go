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

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	// Users Table (craftsmen accounts)
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(100),
			phone VARCHAR(20),
			role VARCHAR(20) DEFAULT 'user',
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	// Products Table
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			description TEXT,
			price DECIMAL(15, 2) NOT NULL,
			category VARCHAR(100),
			image_path VARCHAR(500),
			ai_generated_caption TEXT,
			facebook_post_id VARCHAR(100),
			instagram_post_id VARCHAR(100),
			is_active BOOLEAN DEFAULT TRUE,
			owner_id INT REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create products table: %w", err)
	}

	// Orders + items
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			total_amount DECIMAL(15, 2) NOT NULL,
			status VARCHAR(50) DEFAULT 'pending',
			customer_name VARCHAR(100) NOT NULL,
			customer_phone VARCHAR(20) NOT NULL,
			customer_email VARCHAR(100),
			delivery_address TEXT,
			notes TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT REFERENCES orders(id),
			product_id INT REFERENCES products(id),
			quantity INT NOT NULL,
			price DECIMAL(15, 2) NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create order_items table: %w", err)
	}

	// Published posts registered for comment monitoring
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS social_media_posts (
			id SERIAL PRIMARY KEY,
			platform VARCHAR(50) NOT NULL,
			post_id VARCHAR(100) NOT NULL,
			product_id INT REFERENCES products(id),
			caption TEXT,
			monitored BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (platform, post_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("create social_media_posts table: %w", err)
	}

	// Automated reply log, feeds engagement stats
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS auto_replies (
			id SERIAL PRIMARY KEY,
			platform VARCHAR(50) NOT NULL,
			post_id VARCHAR(100),
			comment_id VARCHAR(100) UNIQUE,
			original_text TEXT,
			reply_text TEXT,
			success BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create auto_replies table: %w", err)
	}

	// Runtime-adjustable business settings (hours override etc.)
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS business_settings (
			key VARCHAR(50) PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create business_settings table: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
