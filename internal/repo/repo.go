package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"clubreg/internal/model"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrFileNotFound         = errors.New("file not found")
	// ErrNothingUpdated means a conditional update matched no rows, i.e.
	// the record was gone or its status changed underneath us.
	ErrNothingUpdated = errors.New("no rows updated")
)

type EventStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	UpdateFormSchema(ctx context.Context, id uuid.UUID, schema model.RegistrationFormSchema) error
}

type RegistrationStore interface {
	Create(ctx context.Context, eventID uuid.UUID, formData map[string]any, status model.Status) (*model.Registration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Registration, error)
	// GetPublic only returns registrations whose status is publicly
	// visible (accepted, confirmed, not_attending).
	GetPublic(ctx context.Context, id uuid.UUID) (*model.Registration, error)
	List(ctx context.Context, eventID uuid.UUID, status string, page, limit int, search string) ([]model.Registration, int, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	// UpdateStatus transitions from the expected current status only.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status, reviewerID uuid.UUID, reviewedAt time.Time) (*model.Registration, error)
	// Confirm succeeds only while the current status is accepted.
	Confirm(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (*model.Registration, error)
	// SetNotAttending succeeds only from accepted or confirmed.
	SetNotAttending(ctx context.Context, id uuid.UUID, declinedAt time.Time) (*model.Registration, error)
}

type FileStore interface {
	Create(ctx context.Context, f *model.FileAttachment) (*model.FileAttachment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.FileAttachment, error)
	GetByUploadSession(ctx context.Context, uploadSessionID string) ([]model.FileAttachment, error)
	GetByRegistration(ctx context.Context, registrationID uuid.UUID) ([]model.FileAttachment, error)
	LinkToRegistration(ctx context.Context, uploadSessionID string, registrationID uuid.UUID, scheduledDeletion time.Time) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	// GetSubscribedEmails returns the e-mail addresses of users who have
	// enabled the given notification preference.
	GetSubscribedEmails(ctx context.Context, preference string) ([]string, error)
}

// Repository bundles the Postgres implementations of the store contracts
// over one connection pool.
type Repository struct {
	Events        *EventRepo
	Registrations *RegistrationRepo
	Files         *FileRepo
	Users         *UserRepo

	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &Repository{
		Events:        &EventRepo{db: db},
		Registrations: &RegistrationRepo{db: db},
		Files:         &FileRepo{db: db},
		Users:         &UserRepo{db: db},
		db:            db,
		log:           log,
	}, nil
}

func (r *Repository) MigrateUp(migrationsDir string) error {
	return r.applyMigrations(filepath.Join(migrationsDir, "*.up.sql"))
}

func (r *Repository) MigrateDown(migrationsDir string) error {
	return r.applyMigrations(filepath.Join(migrationsDir, "*.down.sql"))
}

func (r *Repository) applyMigrations(pattern string) error {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied from %s", pattern)
	return nil
}
