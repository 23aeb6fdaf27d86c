package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"

	"clubreg/internal/dto"
	"clubreg/internal/model"
	"clubreg/internal/service"
	"clubreg/pkg/validator"
)

func (h *Handler) SubmitRegistration(c *ginext.Context) {
	var req dto.SubmitRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid request body")
		return
	}
	if err := validator.Validate(c.Request.Context(), req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, err.Error())
		return
	}

	reg, err := h.svc.Submit(c.Request.Context(), c.Param("slug"), req.FormData, req.UploadSessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, dto.NewRegistrationResponse(reg))
}

func (h *Handler) GetRegistration(c *ginext.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reg, files, err := h.svc.GetRegistration(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.RegistrationWithFilesResponse{
		RegistrationResponse: dto.NewRegistrationResponse(reg),
		Files:                files,
	})
}

func (h *Handler) ListRegistrations(c *ginext.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")
	search := c.Query("search")

	if status != "" && !model.Status(status).IsValid() {
		dto.BadResponseError(c, dto.FieldIncorrect, "Unknown status filter")
		return
	}

	regs, total, err := h.svc.ListRegistrations(c.Request.Context(), c.Param("slug"), status, page, limit, search)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		items = append(items, dto.NewRegistrationResponse(&regs[i]))
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	dto.SuccessResponse(c, dto.RegistrationListResponse{
		Registrations: items,
		Pagination: dto.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}

func (h *Handler) AcceptRegistration(c *ginext.Context) {
	h.reviewRegistration(c, h.svc.Accept)
}

func (h *Handler) RejectRegistration(c *ginext.Context) {
	h.reviewRegistration(c, h.svc.Reject)
}

func (h *Handler) reviewRegistration(c *ginext.Context, op func(ctx context.Context, id, reviewerID uuid.UUID) (*model.Registration, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid request body")
		return
	}
	if req.ReviewerID == uuid.Nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "reviewer_id is required")
		return
	}

	reg, err := op(c.Request.Context(), id, req.ReviewerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewRegistrationResponse(reg))
}

func (h *Handler) UploadFile(c *ginext.Context) {
	var req dto.FileUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid request body")
		return
	}
	if err := validator.Validate(c.Request.Context(), req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, err.Error())
		return
	}

	f, err := h.svc.UploadFile(c.Request.Context(), c.Param("slug"), &model.FileAttachment{
		FieldName:       req.FieldName,
		FileURL:         req.FileURL,
		FileName:        req.FileName,
		FileSize:        req.FileSize,
		MimeType:        req.MimeType,
		UploadSessionID: req.UploadSessionID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, dto.FileUploadResponse{Success: true, FileID: f.ID})
}

func (h *Handler) DeleteFile(c *ginext.Context) {
	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid file id")
		return
	}

	var req dto.FileDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid request body")
		return
	}
	if err := validator.Validate(c.Request.Context(), req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, err.Error())
		return
	}

	if err := h.svc.DeleteUploadedFile(c.Request.Context(), c.Param("slug"), fileID, req.UploadSessionID, req.FieldName); err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.FileDeleteResponse{Success: true})
}

func (h *Handler) RSVPDetails(c *ginext.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reg, event, meta, err := h.svc.RSVPDetails(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.RSVPDetailsResponse{
		Registration: dto.NewPublicRegistrationResponse(reg),
		Event:        dto.NewEventSummaryResponse(event),
		Metadata:     meta,
	})
}

func (h *Handler) RSVPConfirm(c *ginext.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reg, event, err := h.svc.RSVPConfirm(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventPassed) {
			dto.BadResponseError(c, dto.RSVPEventPassed, "This event has already taken place")
			return
		}
		h.writeError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.RSVPDetailsResponse{
		Registration: dto.NewPublicRegistrationResponse(reg),
		Event:        dto.NewEventSummaryResponse(event),
	})
}

func (h *Handler) RSVPDecline(c *ginext.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reg, _, event, err := h.svc.RSVPDecline(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventPassed) {
			dto.BadResponseError(c, dto.RSVPEventPassed, "Cannot change attendance for a past event")
			return
		}
		h.writeError(c, err)
		return
	}
	dto.SuccessResponse(c, dto.RSVPDetailsResponse{
		Registration: dto.NewPublicRegistrationResponse(reg),
		Event:        dto.NewEventSummaryResponse(event),
	})
}

func parseID(c *ginext.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid registration id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(c *ginext.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		dto.ValidationFailedError(c, vErr.Fields)
	case errors.Is(err, service.ErrEventNotFound):
		dto.NotFoundError(c, dto.EventNotFound, "Event not found")
	case errors.Is(err, service.ErrRegistrationNotFound):
		dto.NotFoundError(c, dto.RegistrationNotFound, "Registration not found")
	case errors.Is(err, service.ErrNotAccessible):
		dto.NotFoundError(c, dto.NotAccessible, "Registration not found")
	case errors.Is(err, service.ErrRegistrationClosed):
		dto.BadResponseError(c, dto.RegistrationClosed, "Registration is not open for this event")
	case errors.Is(err, service.ErrDeadlinePassed):
		dto.BadResponseError(c, dto.DeadlinePassed, "Registration deadline has passed")
	case errors.Is(err, service.ErrCutoffPassed):
		dto.BadResponseError(c, dto.RSVPCutoffPassed, "Attendance can no longer be changed within 24 hours of the event")
	case errors.Is(err, service.ErrNotEligible):
		dto.BadResponseError(c, dto.NotEligible, "This registration cannot be changed to the requested state")
	case errors.Is(err, service.ErrAlreadyReviewed):
		dto.BadResponseError(c, dto.NotEligible, "Registration has already been reviewed")
	case errors.Is(err, service.ErrNothingUpdated):
		dto.BadResponseError(c, dto.NotEligible, "Registration changed concurrently, please retry")
	case errors.Is(err, service.ErrFileTooLarge):
		dto.BadResponseError(c, dto.FileRejected, "File exceeds the 2MB limit")
	case errors.Is(err, service.ErrFileType):
		dto.BadResponseError(c, dto.FileRejected, "Only PDF files are accepted")
	case errors.Is(err, service.ErrFileMismatch):
		dto.BadResponseError(c, dto.FileRejected, "File does not belong to this upload session")
	case errors.Is(err, service.ErrFileNotFound):
		dto.NotFoundError(c, dto.FileNotFound, "File not found")
	default:
		dto.InternalServerError(c)
	}
}
