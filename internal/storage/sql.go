package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a database/sql driver and its quoting rules.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect maps a backend name onto a supported dialect.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(name); d {
	case DialectMySQL, DialectPostgres, DialectSQLite:
		return d, nil
	}
	return "", fmt.Errorf("unsupported sql dialect %q", name)
}

// SQLClient reads the log tables directly from the database the bot writes to.
type SQLClient struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLClient wires a sql.DB; pass a configured instance from Open.
func NewSQLClient(db *sql.DB, dialect Dialect) *SQLClient {
	return &SQLClient{db: db, dialect: dialect}
}

// Open connects with the pool settings the API server uses.
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(60 * time.Minute)
	if dialect == DialectSQLite {
		// A single writer connection keeps in-memory databases coherent.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", dialect, err)
	}
	return db, nil
}

// Close releases the underlying pool.
func (c *SQLClient) Close() error {
	return c.db.Close()
}
