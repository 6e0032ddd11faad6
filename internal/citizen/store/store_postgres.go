package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"residency/internal/citizen/models"
	id "residency/pkg/domain"
	"residency/pkg/platform/sentinel"
	txcontext "residency/pkg/platform/tx"
)

// PostgresStore persists citizens in PostgreSQL. Writes join a transaction
// carried in the context.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed citizen store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, citizen *models.Citizen) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO citizens (id, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(citizen.ID), string(citizen.Level), citizen.CreatedAt, citizen.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create citizen: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, citizenID id.CitizenID) (*models.Citizen, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, level, document_type, document_number, date_of_birth, postal_code,
			verified_at, manual_review_requested_at, created_at, updated_at
		FROM citizens
		WHERE id = $1
	`, uuid.UUID(citizenID))
	citizen, err := scanCitizen(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find citizen by id: %w", err)
	}
	return citizen, nil
}

// UpdateVerification writes the citizen's new state only if the stored level
// may still move to it. Zero affected rows on an existing citizen means a
// concurrent attempt changed the level first: sentinel.ErrInvalidState.
func (s *PostgresStore) UpdateVerification(ctx context.Context, citizen *models.Citizen) error {
	var docType, docNumber sql.NullString
	if citizen.Document != nil {
		docType = sql.NullString{String: string(citizen.Document.Type), Valid: true}
		docNumber = sql.NullString{String: citizen.Document.Number, Valid: true}
	}
	var postalCode sql.NullString
	if citizen.PostalCode != "" {
		postalCode = sql.NullString{String: citizen.PostalCode, Valid: true}
	}
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE citizens
		SET level = $2,
			document_type = $3,
			document_number = $4,
			date_of_birth = $5,
			postal_code = $6,
			verified_at = $7,
			manual_review_requested_at = $8,
			updated_at = $9
		WHERE id = $1 AND level = ANY($10)
	`,
		uuid.UUID(citizen.ID),
		string(citizen.Level),
		docType,
		docNumber,
		nullTime(citizen.DateOfBirth),
		postalCode,
		nullTime(citizen.VerifiedAt),
		nullTime(citizen.ManualReviewRequestedAt),
		citizen.UpdatedAt,
		pq.Array(levelStrings(citizen.Level.Predecessors())),
	)
	if err != nil {
		return fmt.Errorf("update citizen verification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update citizen verification rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	var stored string
	err = txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT level FROM citizens WHERE id = $1`, uuid.UUID(citizen.ID),
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read citizen level: %w", err)
	}
	return fmt.Errorf("citizen is %s, cannot become %s: %w", stored, citizen.Level, sentinel.ErrInvalidState)
}

func levelStrings(levels []models.Level) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCitizen(row rowScanner) (*models.Citizen, error) {
	var (
		citizenID               uuid.UUID
		level                   string
		docType, docNumber      sql.NullString
		dateOfBirth             sql.NullTime
		postalCode              sql.NullString
		verifiedAt              sql.NullTime
		manualReviewRequestedAt sql.NullTime
		c                       models.Citizen
	)
	if err := row.Scan(
		&citizenID, &level, &docType, &docNumber, &dateOfBirth, &postalCode,
		&verifiedAt, &manualReviewRequestedAt, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.ID = id.CitizenID(citizenID)
	c.Level = models.Level(level)
	if docType.Valid && docNumber.Valid {
		c.Document = &id.DocumentIdentity{Type: id.DocumentType(docType.String), Number: docNumber.String}
	}
	c.DateOfBirth = timePtr(dateOfBirth)
	c.PostalCode = postalCode.String
	c.VerifiedAt = timePtr(verifiedAt)
	c.ManualReviewRequestedAt = timePtr(manualReviewRequestedAt)
	return &c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
