package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clubreg/internal/dto"
	"clubreg/internal/forms"
	"clubreg/internal/model"
	"clubreg/internal/repo"
)

// Uploaded files are kept for a month past the event before cleanup.
const fileRetentionDays = 30

// Publisher pushes notification payloads to the broker. The second
// argument is a delivery delay in seconds.
type Publisher interface {
	Publish(message []byte, delaySeconds int) error
}

// Service implements the registration lifecycle: submission with form
// validation and capacity-aware auto-accept, staff review, and
// attendee RSVP with its time gates.
type Service struct {
	events repo.EventStore
	regs   repo.RegistrationStore
	files  repo.FileStore
	pub    Publisher
	log    *zerolog.Logger
	now    func() time.Time
}

func NewService(events repo.EventStore, regs repo.RegistrationStore, files repo.FileStore, pub Publisher, log *zerolog.Logger) *Service {
	return &Service{
		events: events,
		regs:   regs,
		files:  files,
		pub:    pub,
		log:    log,
		now:    time.Now,
	}
}

// publishedEvent resolves an event by slug. Events that exist but are
// not published do not take registrations.
func (s *Service) publishedEvent(ctx context.Context, slug string) (*model.Event, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if errors.Is(err, repo.ErrEventNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventPublished {
		return nil, ErrRegistrationClosed
	}
	return event, nil
}

// Submit validates form data against the event schema, creates the
// registration in its initial status and queues the matching
// notification.
func (s *Service) Submit(ctx context.Context, slug string, formData map[string]any, uploadSessionID string) (*model.Registration, error) {
	event, err := s.publishedEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	if event.RegistrationDeadline != nil && s.now().After(*event.RegistrationDeadline) {
		return nil, ErrDeadlinePassed
	}

	sessionFiles, err := s.files.GetByUploadSession(ctx, uploadSessionID)
	if err != nil {
		return nil, err
	}
	filesByField := make(map[string][]model.FileAttachment)
	for _, f := range sessionFiles {
		filesByField[f.FieldName] = append(filesByField[f.FieldName], f)
	}

	if fieldErrs := forms.Validate(formData, event.FormSchema.Fields, filesByField); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	status := initialStatus(event.FormSchema.AutoAccept)
	reg, err := s.regs.Create(ctx, event.ID, formData, status)
	if err != nil {
		return nil, err
	}

	if len(sessionFiles) > 0 {
		deleteAt := event.DateTime.AddDate(0, 0, fileRetentionDays)
		if _, err := s.files.LinkToRegistration(ctx, uploadSessionID, reg.ID, deleteAt); err != nil {
			s.log.Error().Err(err).
				Str("registration_id", reg.ID.String()).
				Msg("failed to link uploaded files")
		}
	}

	s.maybeDisableAutoAccept(ctx, event)

	if status == model.StatusAccepted {
		s.notify(dto.NotifyRegistrationConfirmed, reg.ID, "")
	} else {
		s.notify(dto.NotifyApplicationReceived, reg.ID, "")
	}
	return reg, nil
}

// Accept moves a submitted registration to accepted.
func (s *Service) Accept(ctx context.Context, id, reviewerID uuid.UUID) (*model.Registration, error) {
	return s.review(ctx, id, reviewerID, model.StatusAccepted, dto.NotifyAccepted)
}

// Reject moves a submitted registration to rejected.
func (s *Service) Reject(ctx context.Context, id, reviewerID uuid.UUID) (*model.Registration, error) {
	return s.review(ctx, id, reviewerID, model.StatusRejected, dto.NotifyRejected)
}

func (s *Service) review(ctx context.Context, id, reviewerID uuid.UUID, target model.Status, kind string) (*model.Registration, error) {
	reg, err := s.regs.GetByID(ctx, id)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	// Review happens once: no re-review, not even to the same outcome.
	if !reg.Status.CanTransitionTo(target) {
		return nil, ErrAlreadyReviewed
	}

	updated, err := s.regs.UpdateStatus(ctx, id, reg.Status, target, reviewerID, s.now())
	if errors.Is(err, repo.ErrNothingUpdated) {
		return nil, ErrNothingUpdated
	}
	if err != nil {
		return nil, err
	}
	s.notify(kind, updated.ID, "")
	return updated, nil
}

// GetRegistration returns the full registration with its attachments.
func (s *Service) GetRegistration(ctx context.Context, id uuid.UUID) (*model.Registration, []model.FileAttachment, error) {
	reg, err := s.regs.GetByID(ctx, id)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		return nil, nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	files, err := s.files.GetByRegistration(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return reg, files, nil
}

// ListRegistrations pages through an event's registrations with
// optional status and name/email search filters.
func (s *Service) ListRegistrations(ctx context.Context, slug, status string, page, limit int, search string) ([]model.Registration, int, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if errors.Is(err, repo.ErrEventNotFound) {
		return nil, 0, ErrEventNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return s.regs.List(ctx, event.ID, status, page, limit, search)
}

// notify queues a notification for the mail worker. Delivery failures
// never fail the triggering operation.
func (s *Service) notify(kind string, registrationID uuid.UUID, previousStatus string) {
	msg := dto.NotificationMessage{
		Kind:           kind,
		RegistrationID: registrationID,
		PreviousStatus: previousStatus,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Str("kind", kind).Msg("failed to marshal notification")
		return
	}
	if err := s.pub.Publish(body, 0); err != nil {
		s.log.Error().Err(err).
			Str("kind", kind).
			Str("registration_id", registrationID.String()).
			Msg("failed to publish notification")
	}
}
