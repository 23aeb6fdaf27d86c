package model

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPending   EventStatus = "pending"
	EventPublished EventStatus = "published"
	EventArchived  EventStatus = "archived"
)

type Event struct {
	ID                   uuid.UUID              `db:"id" json:"id"`
	Slug                 string                 `db:"slug" json:"slug"`
	Title                string                 `db:"title" json:"title"`
	Description          string                 `db:"description,omitempty" json:"description,omitempty"`
	Location             string                 `db:"location,omitempty" json:"location,omitempty"`
	DateTime             time.Time              `db:"date_time" json:"date_time"`
	RegistrationDeadline *time.Time             `db:"registration_deadline" json:"registration_deadline,omitempty"`
	MaxCapacity          *int                   `db:"max_capacity" json:"max_capacity,omitempty"`
	FormSchema           RegistrationFormSchema `db:"registration_form_schema" json:"registration_form_schema"`
	Status               EventStatus            `db:"status" json:"status"`
	CreatedAt            time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time              `db:"updated_at" json:"updated_at"`
}

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
)

// FieldValidation holds the type-specific constraints of a form field.
// Only the subset matching the field type is ever set.
type FieldValidation struct {
	MinLength    *int     `json:"minLength,omitempty"`
	MaxLength    *int     `json:"maxLength,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	MaxSize      *int64   `json:"maxSize,omitempty"`
	AllowedTypes []string `json:"allowedTypes,omitempty"`
}

type FieldDefinition struct {
	ID         string          `json:"id"`
	Type       FieldType       `json:"type"`
	Label      string          `json:"label"`
	Required   bool            `json:"required"`
	Options    []string        `json:"options,omitempty"`
	Validation FieldValidation `json:"validation"`
}

// RegistrationFormSchema is configured per event and drives dynamic
// validation of submitted form data.
type RegistrationFormSchema struct {
	Fields     []FieldDefinition `json:"fields"`
	AutoAccept bool              `json:"auto_accept"`
}

type Registration struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	EventID     uuid.UUID      `db:"event_id" json:"event_id"`
	FormData    map[string]any `db:"form_data" json:"form_data"`
	Status      Status         `db:"status" json:"status"`
	SubmittedAt time.Time      `db:"submitted_at" json:"submitted_at"`
	ReviewedBy  *uuid.UUID     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time     `db:"reviewed_at" json:"reviewed_at,omitempty"`
	// ConfirmedAt records the RSVP confirmation time, and is reused to
	// record the decline time when the registrant opts out.
	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`
	CheckedIn   bool       `db:"checked_in" json:"checked_in"`
	CheckedInAt *time.Time `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CheckedInBy *uuid.UUID `db:"checked_in_by" json:"checked_in_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// FileAttachment is metadata for a file uploaded against a file-type form
// field. It is created under an upload session before the registration
// exists and linked to the registration after a successful submission.
type FileAttachment struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	EventID               uuid.UUID  `db:"event_id" json:"event_id"`
	RegistrationID        *uuid.UUID `db:"registration_id" json:"registration_id,omitempty"`
	FieldName             string     `db:"field_name" json:"field_name"`
	FileURL               string     `db:"file_url" json:"file_url"`
	FileName              string     `db:"file_name" json:"file_name"`
	FileSize              int64      `db:"file_size" json:"file_size"`
	MimeType              string     `db:"mime_type" json:"mime_type"`
	UploadSessionID       string     `db:"upload_session_id" json:"upload_session_id"`
	UploadedAt            time.Time  `db:"uploaded_at" json:"uploaded_at"`
	ScheduledDeletionDate *time.Time `db:"scheduled_deletion_date" json:"scheduled_deletion_date,omitempty"`
}
