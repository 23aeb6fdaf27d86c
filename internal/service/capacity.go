package service

import (
	"context"

	"clubreg/internal/model"
)

// initialStatus decides where a new registration enters the lifecycle.
// Auto-accept skips manual review entirely; capacity is handled
// separately by maybeDisableAutoAccept after the fact.
func initialStatus(autoAccept bool) model.Status {
	if autoAccept {
		return model.StatusAccepted
	}
	return model.StatusSubmitted
}

// maybeDisableAutoAccept turns auto-accept off once the event is full.
// The registration that fills the last slot is still accepted; only
// later ones fall back to manual review. The count and the flag flip
// are not atomic against concurrent submissions, which is fine because
// manual review is the fail-safe, not a hard cap.
func (s *Service) maybeDisableAutoAccept(ctx context.Context, event *model.Event) {
	if event.MaxCapacity == nil || !event.FormSchema.AutoAccept {
		return
	}

	count, err := s.regs.CountByEvent(ctx, event.ID)
	if err != nil {
		s.log.Error().Err(err).
			Str("event_id", event.ID.String()).
			Msg("failed to count registrations for auto-accept check")
		return
	}
	if count < *event.MaxCapacity {
		return
	}

	schema := event.FormSchema
	schema.AutoAccept = false
	if err := s.events.UpdateFormSchema(ctx, event.ID, schema); err != nil {
		s.log.Error().Err(err).
			Str("event_id", event.ID.String()).
			Msg("failed to disable auto-accept")
		return
	}
	s.log.Info().
		Str("event_id", event.ID.String()).
		Int("capacity", *event.MaxCapacity).
		Msg("event reached capacity, auto-accept disabled")
}
