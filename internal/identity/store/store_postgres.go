package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"residency/internal/identity/models"
	id "residency/pkg/domain"
	txcontext "residency/pkg/platform/tx"
)

// PostgresStore keeps the document index in PostgreSQL. The primary key on
// document_bindings serialises concurrent binds for the same document.
// Lookups and binds join a transaction carried in the context, so a binding
// rolls back with the citizen update it belongs to.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed document index.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindBoundCitizen(ctx context.Context, doc id.DocumentIdentity) (id.CitizenID, bool, error) {
	var holder uuid.UUID
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT citizen_id
		FROM document_bindings
		WHERE document_type = $1 AND document_number = $2
	`, string(doc.Type), doc.Number).Scan(&holder)
	if errors.Is(err, sql.ErrNoRows) {
		return id.CitizenID{}, false, nil
	}
	if err != nil {
		return id.CitizenID{}, false, fmt.Errorf("find bound citizen: %w", err)
	}
	return id.CitizenID(holder), true, nil
}

// Bind inserts the binding if neither the document nor the citizen is bound.
// On conflict it reads back the holder to tell a self-bind (no-op) from a
// document held by someone else.
func (s *PostgresStore) Bind(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO document_bindings (document_type, document_number, citizen_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, string(doc.Type), doc.Number, uuid.UUID(citizenID))
	if err != nil {
		return fmt.Errorf("bind document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bind document rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	holder, ok, err := s.FindBoundCitizen(ctx, doc)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrCitizenHasDocument
	}
	if holder == citizenID {
		return nil
	}
	return &models.AlreadyBoundError{Document: doc, Holder: holder}
}

func (s *PostgresStore) HasPriorClaim(ctx context.Context, doc id.DocumentIdentity) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM document_claims
			WHERE document_type = $1 AND document_number = $2
		)
	`, string(doc.Type), doc.Number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check prior claim: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) RecordClaim(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO document_claims (document_type, document_number, citizen_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, string(doc.Type), doc.Number, uuid.UUID(citizenID))
	if err != nil {
		return fmt.Errorf("record claim: %w", err)
	}
	return nil
}
