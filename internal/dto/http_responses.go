package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"

	"clubreg/internal/forms"
	"clubreg/internal/model"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	EventNotFound        = "EVENT_NOT_FOUND"
	RegistrationNotFound = "REGISTRATION_NOT_FOUND"
	RegistrationClosed   = "REGISTRATION_CLOSED"
	DeadlinePassed       = "DEADLINE_PASSED"
	ValidationFailed     = "VALIDATION_FAILED"
	NotAccessible        = "NOT_ACCESSIBLE"
	RSVPEventPassed      = "EVENT_PASSED"
	RSVPCutoffPassed     = "CUTOFF_PASSED"
	NotEligible          = "NOT_ELIGIBLE"
	FileNotFound         = "FILE_NOT_FOUND"
	FileRejected         = "FILE_REJECTED"
)

type SubmitRegistrationRequest struct {
	FormData        map[string]any `json:"form_data" validate:"required"`
	UploadSessionID string         `json:"upload_session_id" validate:"required,uploadsession"`
}

type ReviewRequest struct {
	ReviewerID uuid.UUID `json:"reviewer_id" validate:"required"`
}

type FileUploadRequest struct {
	UploadSessionID string `json:"upload_session_id" validate:"required,uploadsession"`
	FieldName       string `json:"field_name" validate:"required"`
	FileURL         string `json:"file_url" validate:"required"`
	FileName        string `json:"file_name" validate:"required"`
	FileSize        int64  `json:"file_size" validate:"required,positive"`
	MimeType        string `json:"mime_type" validate:"required"`
}

type FileDeleteRequest struct {
	UploadSessionID string `json:"upload_session_id" validate:"required,uploadsession"`
	FieldName       string `json:"field_name" validate:"required"`
}

// Notification kinds carried on the queue between the lifecycle service
// and the mail worker.
const (
	NotifyApplicationReceived   = "application_received"
	NotifyRegistrationConfirmed = "registration_confirmed"
	NotifyAccepted              = "accepted"
	NotifyRejected              = "rejected"
	NotifyAttendanceConfirmed   = "attendance_confirmed"
	NotifyAttendanceDeclined    = "attendance_declined"
	NotifyStaffDecline          = "staff_decline_notice"
)

type NotificationMessage struct {
	Kind           string    `json:"kind"`
	RegistrationID uuid.UUID `json:"registration_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
}

type RegistrationResponse struct {
	ID          uuid.UUID      `json:"id"`
	EventID     uuid.UUID      `json:"event_id"`
	FormData    map[string]any `json:"form_data"`
	Status      model.Status   `json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
	ReviewedBy  *uuid.UUID     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty"`
	CheckedIn   bool           `json:"checked_in"`
}

func NewRegistrationResponse(reg *model.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:          reg.ID,
		EventID:     reg.EventID,
		FormData:    reg.FormData,
		Status:      reg.Status,
		SubmittedAt: reg.SubmittedAt,
		ReviewedBy:  reg.ReviewedBy,
		ReviewedAt:  reg.ReviewedAt,
		ConfirmedAt: reg.ConfirmedAt,
		CheckedIn:   reg.CheckedIn,
	}
}

type RegistrationWithFilesResponse struct {
	RegistrationResponse
	Files []model.FileAttachment `json:"files"`
}

// PublicRegistrationResponse is the restricted view exposed on RSVP pages.
type PublicRegistrationResponse struct {
	ID          uuid.UUID    `json:"id"`
	Status      model.Status `json:"status"`
	SubmittedAt time.Time    `json:"submitted_at"`
	ConfirmedAt *time.Time   `json:"confirmed_at,omitempty"`
}

type EventSummaryResponse struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Location string    `json:"location,omitempty"`
	DateTime time.Time `json:"date_time"`
}

type RSVPDetailsResponse struct {
	Registration PublicRegistrationResponse `json:"registration"`
	Event        EventSummaryResponse       `json:"event"`
	Metadata     any                        `json:"metadata,omitempty"`
}

func NewPublicRegistrationResponse(reg *model.Registration) PublicRegistrationResponse {
	return PublicRegistrationResponse{
		ID:          reg.ID,
		Status:      reg.Status,
		SubmittedAt: reg.SubmittedAt,
		ConfirmedAt: reg.ConfirmedAt,
	}
}

func NewEventSummaryResponse(event *model.Event) EventSummaryResponse {
	return EventSummaryResponse{
		Slug:     event.Slug,
		Title:    event.Title,
		Location: event.Location,
		DateTime: event.DateTime,
	}
}

type FileUploadResponse struct {
	Success bool      `json:"success"`
	FileID  uuid.UUID `json:"file_id"`
}

type FileDeleteResponse struct {
	Success bool `json:"success"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

type RegistrationListResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	Pagination    Pagination             `json:"pagination"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code    string             `json:"code"`
	Desc    string             `json:"desc"`
	Details []forms.FieldError `json:"details,omitempty"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func ValidationFailedError(c *ginext.Context, details []forms.FieldError) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code:    ValidationFailed,
			Desc:    "Validation failed",
			Details: details,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
