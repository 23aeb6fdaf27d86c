package model

// Status is the lifecycle status of a registration.
type Status string

const (
	StatusSubmitted    Status = "submitted"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusConfirmed    Status = "confirmed"
	StatusNotAttending Status = "not_attending"
)

// validTransitions defines the allowed status transitions.
// Key is current status, value is the list of allowed next statuses.
var validTransitions = map[Status][]Status{
	StatusSubmitted:    {StatusAccepted, StatusRejected},
	StatusAccepted:     {StatusConfirmed, StatusNotAttending},
	StatusConfirmed:    {StatusNotAttending},
	StatusRejected:     {}, // Terminal status
	StatusNotAttending: {}, // Terminal status
}

// IsTerminal returns true if no further status change is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusNotAttending
}

// IsValid returns true if the status is a known registration status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if moving to the target status is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, next := range allowed {
		if next == target {
			return true
		}
	}
	return false
}

// PubliclyVisible reports whether a registration in this status may be
// shown through the public RSVP endpoints. Submitted and rejected
// registrations stay hidden so the review outcome does not leak.
func (s Status) PubliclyVisible() bool {
	switch s {
	case StatusAccepted, StatusConfirmed, StatusNotAttending:
		return true
	}
	return false
}
