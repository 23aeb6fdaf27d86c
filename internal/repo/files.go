package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"clubreg/internal/model"
)

// FileRepo is the Postgres-backed FileStore.
type FileRepo struct {
	db *dbpg.DB
}

const fileColumns = `
	id, event_id, registration_id, field_name, file_url, file_name,
	file_size, mime_type, upload_session_id, uploaded_at, scheduled_deletion_date
`

func (r *FileRepo) Create(ctx context.Context, f *model.FileAttachment) (*model.FileAttachment, error) {
	query := `
		INSERT INTO registration_files
			(event_id, field_name, file_url, file_name, file_size, mime_type, upload_session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, query,
		f.EventID, f.FieldName, f.FileURL, f.FileName, f.FileSize, f.MimeType, f.UploadSessionID,
	)
	return scanFile(row)
}

func (r *FileRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.FileAttachment, error) {
	query := `SELECT ` + fileColumns + ` FROM registration_files WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, query, id))
}

func (r *FileRepo) GetByUploadSession(ctx context.Context, uploadSessionID string) ([]model.FileAttachment, error) {
	query := `SELECT ` + fileColumns + ` FROM registration_files WHERE upload_session_id = $1`
	return r.queryFiles(ctx, query, uploadSessionID)
}

func (r *FileRepo) GetByRegistration(ctx context.Context, registrationID uuid.UUID) ([]model.FileAttachment, error) {
	query := `SELECT ` + fileColumns + ` FROM registration_files WHERE registration_id = $1`
	return r.queryFiles(ctx, query, registrationID)
}

func (r *FileRepo) LinkToRegistration(ctx context.Context, uploadSessionID string, registrationID uuid.UUID, scheduledDeletion time.Time) (int, error) {
	query := `
		UPDATE registration_files
		SET registration_id = $1, scheduled_deletion_date = $2
		WHERE upload_session_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, registrationID, scheduledDeletion, uploadSessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to link files to registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *FileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registration_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *FileRepo) queryFiles(ctx context.Context, query string, arg any) ([]model.FileAttachment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []model.FileAttachment
	for rows.Next() {
		f, err := scanFileRow(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, nil
}

func scanFile(row *sql.Row) (*model.FileAttachment, error) {
	return scanFileRow(row)
}

func scanFileRow(row rowScanner) (*model.FileAttachment, error) {
	var (
		f        model.FileAttachment
		regID    uuid.NullUUID
		deleteAt sql.NullTime
	)
	err := row.Scan(
		&f.ID, &f.EventID, &regID, &f.FieldName, &f.FileURL, &f.FileName,
		&f.FileSize, &f.MimeType, &f.UploadSessionID, &f.UploadedAt, &deleteAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan file: %w", err)
	}
	if regID.Valid {
		id := regID.UUID
		f.RegistrationID = &id
	}
	if deleteAt.Valid {
		t := deleteAt.Time
		f.ScheduledDeletionDate = &t
	}
	return &f, nil
}
