package timetabledb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Client gives read-only access to a timetable dataset. The underlying pool
// is opened on first use and shared by all callers; a failed open is not
// cached, so a dataset that appears later is picked up by the next call.
type Client struct {
	config Config
	logger *slog.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewClient creates a new Client with the provided configuration. No file
// access happens until the first query.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		logger: config.logger(),
	}
}

// Open creates a client and opens the dataset immediately.
func Open(ctx context.Context, config Config) (*Client, error) {
	client := NewClient(config)
	if _, err := client.handle(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Ping reports whether the dataset can be opened.
func (c *Client) Ping(ctx context.Context) error {
	db, err := c.handle(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// DB exposes the pool for diagnostics.
func (c *Client) DB(ctx context.Context) (*sql.DB, error) {
	return c.handle(ctx)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Client) handle(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	db, err := openReadOnly(ctx, c.config)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

func openReadOnly(ctx context.Context, config Config) (*sql.DB, error) {
	if config.DBPath == "" {
		return nil, fmt.Errorf("%w: no dataset path configured", ErrStorageUnavailable)
	}

	info, err := os.Stat(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrStorageUnavailable, config.DBPath)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(config.DBPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	configureConnectionPool(db, config.maxOpenConns())

	// A file that is not a SQLite database opens fine and only fails on the
	// first read.
	var tables int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, config.DBPath, err)
	}

	return db, nil
}

func readOnlyDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)", path)
}

func configureConnectionPool(db *sql.DB, maxOpen int) {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(maxIdleConns, maxOpen))
	db.SetConnMaxLifetime(connMaxLifetime)
}
