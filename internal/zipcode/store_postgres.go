package zipcode

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore persists the zipcode allow-list. It doubles as a Source for
// Load.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed zipcode store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return "postgres" }

// Codes returns every stored code.
func (s *PostgresStore) Codes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM zipcodes ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query zipcodes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan zipcode: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate zipcodes: %w", err)
	}
	return codes, nil
}

// Upsert inserts codes that are not stored yet and returns how many were new.
// Codes are normalised before storage.
func (s *PostgresStore) Upsert(ctx context.Context, codes []string) (int, error) {
	normalized := NewSet(codes...).Codes()
	if len(normalized) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO zipcodes (code)
		SELECT unnest($1::text[])
		ON CONFLICT (code) DO NOTHING
	`, pq.Array(normalized))
	if err != nil {
		return 0, fmt.Errorf("upsert zipcodes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("upsert zipcodes rows affected: %w", err)
	}
	return int(n), nil
}
