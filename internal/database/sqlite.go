package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/jengzang/smartcity-backend-go/internal/logger"
)

// Supported dialects
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

var (
	db   *DB
	once sync.Once
)

// Config holds database configuration
type Config struct {
	URL string // file path, sqlite://path, postgres://... or postgresql://...
}

// DB wraps sql.DB with the dialect needed for placeholder rewriting
type DB struct {
	*sql.DB
	Dialect string
}

// ParseURL splits a database URL into driver dialect and DSN
func ParseURL(url string) (dialect, dsn string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, url
	case strings.HasPrefix(url, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite://")
	default:
		return DialectSQLite, url
	}
}

// Open opens a connection pool and applies pending migrations
func Open(cfg Config) (*DB, error) {
	dialect, dsn := ParseURL(cfg.URL)

	if dialect == DialectSQLite {
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database dir: %w", err)
			}
		}
		// busy_timeout is per connection, so it goes in the DSN
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=busy_timeout(5000)"
		}
	}

	conn, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	d := &DB{DB: conn, Dialect: dialect}

	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)

		// Enable WAL mode for better concurrency
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	} else {
		conn.SetMaxOpenConns(50)
		conn.SetMaxIdleConns(25)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := NewMigrationManager(d).RunMigrations(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.For("database").Info("database_ready", "dialect", dialect)
	return d, nil
}

// Init initializes the process-wide database
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		db, err = Open(cfg)
	})
	return err
}

// GetDB returns the process-wide database instance
func GetDB() *DB {
	if db == nil {
		panic("database not initialized, call Init() first")
	}
	return db
}

// Close closes the process-wide database
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Rebind rewrites ? placeholders into $n for Postgres
func (d *DB) Rebind(query string) string {
	if d.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Transaction executes a function within a database transaction
func (d *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
