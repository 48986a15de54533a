package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

// DefaultURL is used when neither the --database-url option nor the
// DATABASE_URL environment variable is set: a SQLite file in the working
// directory.
const DefaultURL = "sqlite:///./dev.db"

const sqliteScheme = "sqlite://"

// ErrNoPool is returned when a connection is requested but no database has
// been configured.
var ErrNoPool = errors.New("database connection pool is nil")

// Row is the result of QueryRow; pgx.Row and *sql.Row both satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Conn is a single connection borrowed from the pool for one request.
type Conn interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// DB is a connection pool, backed either by pgx (postgres:// URLs) or by
// database/sql with the SQLite driver (sqlite:// URLs).
type DB struct {
	pg   *pgxpool.Pool
	lite *sql.DB
	desc string
}

// ResolveURL picks the connection string: explicit value first, then the
// DATABASE_URL environment variable, then DefaultURL.
func ResolveURL(explicit string) string {
	if url := strings.TrimSpace(explicit); url != "" {
		return url
	}
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		return url
	}
	return DefaultURL
}

// Open parses url and creates a connection pool. No connection is made here;
// the pool dials on first use, so an unreachable database does not prevent
// start-up.
func Open(ctx context.Context, url string) (*DB, error) {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, sqliteScheme) {
		return openSQLite(url)
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("database: parse config: %w", err)
	}
	config.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("database: create pool: %w", err)
	}
	cc := config.ConnConfig
	return &DB{
		pg:   pool,
		desc: fmt.Sprintf("%s@%s:%d/%s", cc.User, cc.Host, cc.Port, cc.Database),
	}, nil
}

// sqlitePath maps SQLAlchemy-style URLs to a file name:
// sqlite:///./dev.db is ./dev.db, sqlite:////tmp/x.db is /tmp/x.db and
// sqlite:// or sqlite:///:memory: is an in-memory database.
func sqlitePath(url string) string {
	rest := strings.TrimPrefix(url, sqliteScheme)
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return ":memory:"
	}
	return rest
}

func openSQLite(url string) (*DB, error) {
	path := sqlitePath(url)
	lite, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database: open sqlite %q: %w", path, err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		lite.SetMaxOpenConns(1)
	}
	return &DB{lite: lite, desc: "sqlite:" + path}, nil
}

// WithConn acquires one connection for the duration of fn and releases it
// afterwards, whether fn fails or not.
func WithConn(ctx context.Context, db *DB, fn func(conn Conn) error) error {
	if db == nil {
		return ErrNoPool
	}
	if db.pg != nil {
		conn, err := db.pg.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("database: acquire connection: %w", err)
		}
		defer conn.Release()
		return fn(pgConn{conn})
	}

	conn, err := db.lite.Conn(ctx)
	if err != nil {
		return fmt.Errorf("database: acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()
	return fn(sqlConn{conn})
}

// Ping checks that a connection can be acquired and answers.
func Ping(ctx context.Context, db *DB) error {
	return WithConn(ctx, db, func(conn Conn) error {
		return conn.Ping(ctx)
	})
}

// Describe returns the database without credentials, for logging.
func (db *DB) Describe() string {
	if db == nil {
		return "<none>"
	}
	return db.desc
}

// InUse is the number of connections currently borrowed.
func (db *DB) InUse() int {
	if db == nil {
		return 0
	}
	if db.pg != nil {
		return int(db.pg.Stat().AcquiredConns())
	}
	return db.lite.Stats().InUse
}

// OpenConns is the number of open connections, borrowed or idle.
func (db *DB) OpenConns() int {
	if db == nil {
		return 0
	}
	if db.pg != nil {
		return int(db.pg.Stat().TotalConns())
	}
	return db.lite.Stats().OpenConnections
}

// Close closes all connections of the pool.
func (db *DB) Close() {
	if db == nil {
		return
	}
	if db.pg != nil {
		db.pg.Close()
		return
	}
	_ = db.lite.Close()
}

type pgConn struct {
	conn *pgxpool.Conn
}

func (c pgConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c pgConn) QueryRow(ctx context.Context, query string, args ...any) Row {
	return c.conn.QueryRow(ctx, query, args...)
}

type sqlConn struct {
	conn *sql.Conn
}

func (c sqlConn) Ping(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

func (c sqlConn) QueryRow(ctx context.Context, query string, args ...any) Row {
	return c.conn.QueryRowContext(ctx, query, args...)
}
