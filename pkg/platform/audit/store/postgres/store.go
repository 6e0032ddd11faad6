package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "residency/pkg/domain"
	audit "residency/pkg/platform/audit"
	txcontext "residency/pkg/platform/tx"
)

// Store implements audit.Store on the audit_events table. Appends join a
// transaction carried in the context, so an event commits together with the
// state change it describes.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts an audit event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	var citizenID *uuid.UUID
	if !event.CitizenID.IsNil() {
		cid := uuid.UUID(event.CitizenID)
		citizenID = &cid
	}

	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_events (
			id, category, timestamp, citizen_id, action,
			decision, reason, subject_id_hash, prior_claim, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		uuid.New(),
		string(category),
		event.Timestamp,
		citizenID,
		event.Action,
		event.Decision,
		event.Reason,
		event.SubjectIDHash,
		event.PriorClaim,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByCitizen returns events for a citizen, oldest first.
func (s *Store) ListByCitizen(ctx context.Context, citizenID id.CitizenID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, timestamp, citizen_id, action,
			decision, reason, subject_id_hash, prior_claim, request_id
		FROM audit_events
		WHERE citizen_id = $1
		ORDER BY timestamp ASC
	`, uuid.UUID(citizenID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			category string
			cid      uuid.NullUUID
			event    audit.Event
		)
		if err := rows.Scan(
			&category,
			&event.Timestamp,
			&cid,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.SubjectIDHash,
			&event.PriorClaim,
			&event.RequestID,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if cid.Valid {
			event.CitizenID = id.CitizenID(cid.UUID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
