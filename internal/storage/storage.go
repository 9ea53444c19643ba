// Package storage persists teams, players and play events and serves them
// back through query-by-predicate reads. SQLite is the default backend;
// PostgreSQL is selected with the "postgres" driver.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps a sql.DB for the event store.
type DB struct {
	conn   *sql.DB
	driver string
	logger zerolog.Logger
}

// Options selects the backend. An empty Driver means SQLite.
type Options struct {
	Driver string
	DSN    string
	Logger zerolog.Logger
}

// Open opens (or creates) the SQLite database at the given path and migrates it.
func Open(path string) (*DB, error) {
	return OpenWith(Options{Driver: DriverSQLite, DSN: path, Logger: zerolog.Nop()})
}

// OpenWith opens the configured backend and applies pending migrations.
func OpenWith(opts Options) (*DB, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var dsn string
	switch driver {
	case DriverSQLite:
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", opts.DSN)
	case DriverPostgres:
		dsn = opts.DSN
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == DriverSQLite {
		// A second connection to :memory: would see an empty database.
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn, driver: driver, logger: opts.Logger}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return db, nil
}

func (db *DB) migrate() error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{db.logger})

	dialect, dir := "sqlite3", "migrations/sqlite"
	if db.driver == DriverPostgres {
		dialect, dir = "postgres", "migrations/postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.Up(db.conn, dir)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Driver reports the backend in use.
func (db *DB) Driver() string { return db.driver }

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
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

// gooseLogger routes migration output through zerolog so stdout stays clean.
type gooseLogger struct{ l zerolog.Logger }

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.l.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.l.Fatal().Msgf(strings.TrimSpace(format), v...)
}
