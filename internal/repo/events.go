package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"clubreg/internal/model"
)

// EventRepo is the Postgres-backed EventStore.
type EventRepo struct {
	db *dbpg.DB
}

const eventColumns = `
	id, slug, title, description, location, date_time, registration_deadline,
	max_capacity, registration_form_schema, status, created_at, updated_at
`

func (r *EventRepo) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	return scanEvent(r.db.QueryRowContext(ctx, query, slug))
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *EventRepo) UpdateFormSchema(ctx context.Context, id uuid.UUID, schema model.RegistrationFormSchema) error {
	payload, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal form schema: %w", err)
	}

	query := `
		UPDATE events
		SET registration_form_schema = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`
	var updated uuid.UUID
	if err := r.db.QueryRowContext(ctx, query, string(payload), id).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to update form schema: %w", err)
	}
	return nil
}

func scanEvent(row *sql.Row) (*model.Event, error) {
	var (
		e         model.Event
		deadline  sql.NullTime
		capacity  sql.NullInt64
		rawSchema []byte
		desc      sql.NullString
		loc       sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.Slug, &e.Title, &desc, &loc, &e.DateTime, &deadline,
		&capacity, &rawSchema, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	e.Description = desc.String
	e.Location = loc.String
	if deadline.Valid {
		t := deadline.Time
		e.RegistrationDeadline = &t
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		e.MaxCapacity = &c
	}
	if len(rawSchema) > 0 {
		if err := json.Unmarshal(rawSchema, &e.FormSchema); err != nil {
			return nil, fmt.Errorf("failed to decode form schema: %w", err)
		}
	}
	return &e, nil
}
