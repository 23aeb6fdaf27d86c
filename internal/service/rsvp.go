package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"clubreg/internal/dto"
	"clubreg/internal/model"
	"clubreg/internal/repo"
)

// Attendance changes close this long before the event starts.
const rsvpCutoff = 24 * time.Hour

// RSVPMetadata tells the attendee page which actions are still open.
type RSVPMetadata struct {
	CurrentStatus    model.Status `json:"current_status"`
	CanConfirm       bool         `json:"can_confirm"`
	CanDecline       bool         `json:"can_decline"`
	IsFinal          bool         `json:"is_final"`
	EventHasPassed   bool         `json:"event_has_passed"`
	WithinRSVPCutoff bool         `json:"within_rsvp_cutoff"`
}

func (s *Service) eventHasPassed(event *model.Event) bool {
	return s.now().After(event.DateTime)
}

// withinRSVPCutoff reports whether the cutoff window has started. The
// boundary instant itself already blocks changes.
func (s *Service) withinRSVPCutoff(event *model.Event) bool {
	return !s.now().Before(event.DateTime.Add(-rsvpCutoff))
}

// rsvpRegistration loads a registration for an attendee-facing page
// through the visibility-filtered read. A registration that exists but
// has not reached a visible status comes back as not accessible, so
// the review outcome never leaks through the error.
func (s *Service) rsvpRegistration(ctx context.Context, id uuid.UUID) (*model.Registration, *model.Event, error) {
	reg, err := s.regs.GetPublic(ctx, id)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		if _, idErr := s.regs.GetByID(ctx, id); idErr == nil {
			return nil, nil, ErrNotAccessible
		}
		return nil, nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	event, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, nil, err
	}
	return reg, event, nil
}

// RSVPDetails returns the attendee view of a registration together
// with the action flags for the RSVP page.
func (s *Service) RSVPDetails(ctx context.Context, id uuid.UUID) (*model.Registration, *model.Event, RSVPMetadata, error) {
	reg, event, err := s.rsvpRegistration(ctx, id)
	if err != nil {
		return nil, nil, RSVPMetadata{}, err
	}

	passed := s.eventHasPassed(event)
	cutoff := s.withinRSVPCutoff(event)
	changeable := !passed && !cutoff
	meta := RSVPMetadata{
		CurrentStatus:    reg.Status,
		CanConfirm:       changeable && reg.Status == model.StatusAccepted,
		CanDecline:       changeable && (reg.Status == model.StatusAccepted || reg.Status == model.StatusConfirmed),
		IsFinal:          reg.Status.IsTerminal(),
		EventHasPassed:   passed,
		WithinRSVPCutoff: cutoff,
	}
	return reg, event, meta, nil
}

// RSVPConfirm marks an accepted registration as attending. Confirming
// twice is a no-op.
func (s *Service) RSVPConfirm(ctx context.Context, id uuid.UUID) (*model.Registration, *model.Event, error) {
	reg, event, err := s.rsvpRegistration(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.eventHasPassed(event) {
		return nil, nil, ErrEventPassed
	}
	if s.withinRSVPCutoff(event) {
		return nil, nil, ErrCutoffPassed
	}
	if reg.Status == model.StatusConfirmed {
		return reg, event, nil
	}
	if reg.Status != model.StatusAccepted {
		return nil, nil, ErrNotEligible
	}

	updated, err := s.regs.Confirm(ctx, id, s.now())
	if errors.Is(err, repo.ErrNothingUpdated) {
		return nil, nil, ErrNothingUpdated
	}
	if err != nil {
		return nil, nil, err
	}
	s.notify(dto.NotifyAttendanceConfirmed, updated.ID, "")
	return updated, event, nil
}

// RSVPDecline marks a registration as not attending. Declining twice
// is a no-op. The previous status is returned so callers can tell a
// confirmed-seat withdrawal from a plain decline.
func (s *Service) RSVPDecline(ctx context.Context, id uuid.UUID) (*model.Registration, model.Status, *model.Event, error) {
	reg, event, err := s.rsvpRegistration(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	if s.eventHasPassed(event) {
		return nil, "", nil, ErrEventPassed
	}
	if s.withinRSVPCutoff(event) {
		return nil, "", nil, ErrCutoffPassed
	}
	if reg.Status == model.StatusNotAttending {
		return reg, model.StatusNotAttending, event, nil
	}
	if reg.Status != model.StatusAccepted && reg.Status != model.StatusConfirmed {
		return nil, "", nil, ErrNotEligible
	}

	previous := reg.Status
	updated, err := s.regs.SetNotAttending(ctx, id, s.now())
	if errors.Is(err, repo.ErrNothingUpdated) {
		return nil, "", nil, ErrNothingUpdated
	}
	if err != nil {
		return nil, "", nil, err
	}

	s.notify(dto.NotifyAttendanceDeclined, updated.ID, string(previous))
	if previous == model.StatusConfirmed {
		// A confirmed seat freeing up is what staff wants to hear about.
		s.notify(dto.NotifyStaffDecline, updated.ID, string(previous))
	}
	return updated, previous, event, nil
}
