package db

import (
	"database/sql"
)

// Database abstracts a connected SQL backend so the server can run against
// SQLite or Postgres without the stores caring which.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
