package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"clubreg/internal/model"
)

// RegistrationRepo is the Postgres-backed RegistrationStore. Status
// transitions are expressed as conditional updates so that concurrent
// writers cannot move a registration out of an already-observed status.
type RegistrationRepo struct {
	db *dbpg.DB
}

const registrationColumns = `
	id, event_id, form_data, status, submitted_at, reviewed_by, reviewed_at,
	confirmed_at, checked_in, checked_in_at, checked_in_by, created_at, updated_at
`

func (r *RegistrationRepo) Create(ctx context.Context, eventID uuid.UUID, formData map[string]any, status model.Status) (*model.Registration, error) {
	payload, err := json.Marshal(formData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form data: %w", err)
	}

	query := `
		INSERT INTO registrations (event_id, form_data, status)
		VALUES ($1, $2, $3)
		RETURNING ` + registrationColumns
	return scanRegistration(r.db.QueryRowContext(ctx, query, eventID, string(payload), status))
}

func (r *RegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return scanRegistration(r.db.QueryRowContext(ctx, query, id))
}

func (r *RegistrationRepo) GetPublic(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1 AND status IN ('accepted', 'confirmed', 'not_attending')
	`
	return scanRegistration(r.db.QueryRowContext(ctx, query, id))
}

func (r *RegistrationRepo) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepo) List(ctx context.Context, eventID uuid.UUID, status string, page, limit int, search string) ([]model.Registration, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where := `WHERE event_id = $1`
	args := []any{eventID}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (form_data->>'fullName' ILIKE $%d OR form_data->>'email' ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM registrations ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		`SELECT %s FROM registrations %s ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d`,
		registrationColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistrationRow(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, *reg)
	}
	return regs, total, nil
}

func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status, reviewerID uuid.UUID, reviewedAt time.Time) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, to, reviewerID, reviewedAt, id, from))
	if errors.Is(err, ErrRegistrationNotFound) {
		return nil, ErrNothingUpdated
	}
	return reg, err
}

func (r *RegistrationRepo) Confirm(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET status = 'confirmed', confirmed_at = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'accepted'
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, confirmedAt, id))
	if errors.Is(err, ErrRegistrationNotFound) {
		return nil, ErrNothingUpdated
	}
	return reg, err
}

func (r *RegistrationRepo) SetNotAttending(ctx context.Context, id uuid.UUID, declinedAt time.Time) (*model.Registration, error) {
	// The decline timestamp lands in confirmed_at as well.
	query := `
		UPDATE registrations
		SET status = 'not_attending', confirmed_at = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ('accepted', 'confirmed')
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, declinedAt, id))
	if errors.Is(err, ErrRegistrationNotFound) {
		return nil, ErrNothingUpdated
	}
	return reg, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row *sql.Row) (*model.Registration, error) {
	return scanRegistrationRow(row)
}

func scanRegistrationRow(row rowScanner) (*model.Registration, error) {
	var (
		reg         model.Registration
		rawFormData []byte
		reviewedBy  uuid.NullUUID
		reviewedAt  sql.NullTime
		confirmedAt sql.NullTime
		checkedInAt sql.NullTime
		checkedInBy uuid.NullUUID
	)
	err := row.Scan(
		&reg.ID, &reg.EventID, &rawFormData, &reg.Status, &reg.SubmittedAt,
		&reviewedBy, &reviewedAt, &confirmedAt, &reg.CheckedIn,
		&checkedInAt, &checkedInBy, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}

	if len(rawFormData) > 0 {
		if err := json.Unmarshal(rawFormData, &reg.FormData); err != nil {
			return nil, fmt.Errorf("failed to decode form data: %w", err)
		}
	}
	if reviewedBy.Valid {
		id := reviewedBy.UUID
		reg.ReviewedBy = &id
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		reg.ReviewedAt = &t
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		reg.ConfirmedAt = &t
	}
	if checkedInAt.Valid {
		t := checkedInAt.Time
		reg.CheckedInAt = &t
	}
	if checkedInBy.Valid {
		id := checkedInBy.UUID
		reg.CheckedInBy = &id
	}
	return &reg, nil
}
