package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"clubreg/internal/model"
	"clubreg/internal/repo"
)

const (
	maxUploadSize   = 2 << 20
	allowedMimeType = "application/pdf"
)

// UploadFile records a file uploaded ahead of submission, keyed by the
// client-generated upload session so it can be linked to the
// registration later.
func (s *Service) UploadFile(ctx context.Context, slug string, req *model.FileAttachment) (*model.FileAttachment, error) {
	event, err := s.publishedEvent(ctx, slug)
	if err != nil {
		return nil, err
	}
	if req.FileSize > maxUploadSize {
		return nil, ErrFileTooLarge
	}
	if req.MimeType != allowedMimeType {
		return nil, ErrFileType
	}

	req.EventID = event.ID
	return s.files.Create(ctx, req)
}

// DeleteUploadedFile removes a not-yet-linked upload. The caller must
// present the matching event, session and field, so one session cannot
// delete another's files.
func (s *Service) DeleteUploadedFile(ctx context.Context, slug string, fileID uuid.UUID, uploadSessionID, fieldName string) error {
	event, err := s.publishedEvent(ctx, slug)
	if err != nil {
		return err
	}

	f, err := s.files.GetByID(ctx, fileID)
	if errors.Is(err, repo.ErrFileNotFound) {
		return ErrFileNotFound
	}
	if err != nil {
		return err
	}
	if f.EventID != event.ID || f.UploadSessionID != uploadSessionID || f.FieldName != fieldName {
		return ErrFileMismatch
	}
	if f.RegistrationID != nil {
		return ErrFileMismatch
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		if errors.Is(err, repo.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}
