package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/mwhitt/bloglite/shared/db"
)

// PostgresDB implements the db.Database interface for Postgres. It is used
// when DATABASE_URL is set; SQLite remains the default backend.
type PostgresDB struct {
	dsn string
	db  *sql.DB
}

func NewPostgresDB(dsn string) *PostgresDB {
	return &PostgresDB{
		dsn: dsn,
	}
}

var _ db.Database = (*PostgresDB)(nil)

const schema = `
	CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		subtitle TEXT NOT NULL,
		author TEXT NOT NULL,
		img_url TEXT NOT NULL,
		body TEXT NOT NULL,
		date TEXT NOT NULL
	)
`

// Connect opens the connection pool and ensures the posts table exists.
func (p *PostgresDB) Connect() error {
	if p.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := sql.Open("postgres", p.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	p.db = conn
	return nil
}

func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	return err
}

func (p *PostgresDB) DB() *sql.DB {
	return p.db
}
