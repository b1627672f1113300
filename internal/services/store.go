package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store is the persistence layer over the partner tables. Every read goes to
// the database; nothing is cached between calls.
type Store struct {
	DB  *sqlx.DB
	Now func() time.Time
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// Ping is used by the health check.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
