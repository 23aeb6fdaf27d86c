package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubreg/internal/dto"
	"clubreg/internal/model"
	"clubreg/internal/repo"
)

type fakeEvents struct {
	bySlug        map[string]*model.Event
	byID          map[uuid.UUID]*model.Event
	schemaUpdates []model.RegistrationFormSchema
}

func newFakeEvents(events ...*model.Event) *fakeEvents {
	f := &fakeEvents{
		bySlug: make(map[string]*model.Event),
		byID:   make(map[uuid.UUID]*model.Event),
	}
	for _, e := range events {
		f.bySlug[e.Slug] = e
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEvents) GetBySlug(_ context.Context, slug string) (*model.Event, error) {
	if e, ok := f.bySlug[slug]; ok {
		return e, nil
	}
	return nil, repo.ErrEventNotFound
}

func (f *fakeEvents) GetByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, repo.ErrEventNotFound
}

func (f *fakeEvents) UpdateFormSchema(_ context.Context, id uuid.UUID, schema model.RegistrationFormSchema) error {
	e, ok := f.byID[id]
	if !ok {
		return repo.ErrEventNotFound
	}
	e.FormSchema = schema
	f.schemaUpdates = append(f.schemaUpdates, schema)
	return nil
}

type fakeRegs struct {
	byID  map[uuid.UUID]*model.Registration
	count int
}

func newFakeRegs(regs ...*model.Registration) *fakeRegs {
	f := &fakeRegs{byID: make(map[uuid.UUID]*model.Registration)}
	for _, r := range regs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeRegs) Create(_ context.Context, eventID uuid.UUID, formData map[string]any, status model.Status) (*model.Registration, error) {
	reg := &model.Registration{
		ID:          uuid.New(),
		EventID:     eventID,
		FormData:    formData,
		Status:      status,
		SubmittedAt: time.Now(),
	}
	f.byID[reg.ID] = reg
	f.count++
	return reg, nil
}

func (f *fakeRegs) GetByID(_ context.Context, id uuid.UUID) (*model.Registration, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, repo.ErrRegistrationNotFound
}

func (f *fakeRegs) GetPublic(_ context.Context, id uuid.UUID) (*model.Registration, error) {
	r, ok := f.byID[id]
	if !ok || !r.Status.PubliclyVisible() {
		return nil, repo.ErrRegistrationNotFound
	}
	return r, nil
}

func (f *fakeRegs) List(_ context.Context, eventID uuid.UUID, status string, page, limit int, search string) ([]model.Registration, int, error) {
	var out []model.Registration
	for _, r := range f.byID {
		if r.EventID != eventID {
			continue
		}
		if status != "" && string(r.Status) != status {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (f *fakeRegs) CountByEvent(_ context.Context, eventID uuid.UUID) (int, error) {
	return f.count, nil
}

func (f *fakeRegs) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.Status, reviewerID uuid.UUID, reviewedAt time.Time) (*model.Registration, error) {
	r, ok := f.byID[id]
	if !ok || r.Status != from {
		return nil, repo.ErrNothingUpdated
	}
	r.Status = to
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &reviewedAt
	return r, nil
}

func (f *fakeRegs) Confirm(_ context.Context, id uuid.UUID, confirmedAt time.Time) (*model.Registration, error) {
	r, ok := f.byID[id]
	if !ok || r.Status != model.StatusAccepted {
		return nil, repo.ErrNothingUpdated
	}
	r.Status = model.StatusConfirmed
	r.ConfirmedAt = &confirmedAt
	return r, nil
}

func (f *fakeRegs) SetNotAttending(_ context.Context, id uuid.UUID, declinedAt time.Time) (*model.Registration, error) {
	r, ok := f.byID[id]
	if !ok || (r.Status != model.StatusAccepted && r.Status != model.StatusConfirmed) {
		return nil, repo.ErrNothingUpdated
	}
	r.Status = model.StatusNotAttending
	r.ConfirmedAt = &declinedAt
	return r, nil
}

type fakeFiles struct {
	byID      map[uuid.UUID]*model.FileAttachment
	bySession map[string][]model.FileAttachment
	linked    []string
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{
		byID:      make(map[uuid.UUID]*model.FileAttachment),
		bySession: make(map[string][]model.FileAttachment),
	}
}

func (f *fakeFiles) add(file model.FileAttachment) *model.FileAttachment {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	f.byID[file.ID] = &file
	f.bySession[file.UploadSessionID] = append(f.bySession[file.UploadSessionID], file)
	return &file
}

func (f *fakeFiles) Create(_ context.Context, file *model.FileAttachment) (*model.FileAttachment, error) {
	return f.add(*file), nil
}

func (f *fakeFiles) GetByID(_ context.Context, id uuid.UUID) (*model.FileAttachment, error) {
	if file, ok := f.byID[id]; ok {
		return file, nil
	}
	return nil, repo.ErrFileNotFound
}

func (f *fakeFiles) GetByUploadSession(_ context.Context, uploadSessionID string) ([]model.FileAttachment, error) {
	return f.bySession[uploadSessionID], nil
}

func (f *fakeFiles) GetByRegistration(_ context.Context, registrationID uuid.UUID) ([]model.FileAttachment, error) {
	var out []model.FileAttachment
	for _, file := range f.byID {
		if file.RegistrationID != nil && *file.RegistrationID == registrationID {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (f *fakeFiles) LinkToRegistration(_ context.Context, uploadSessionID string, registrationID uuid.UUID, scheduledDeletion time.Time) (int, error) {
	f.linked = append(f.linked, uploadSessionID)
	n := 0
	for _, file := range f.byID {
		if file.UploadSessionID == uploadSessionID {
			id := registrationID
			del := scheduledDeletion
			file.RegistrationID = &id
			file.ScheduledDeletionDate = &del
			n++
		}
	}
	return n, nil
}

func (f *fakeFiles) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return repo.ErrFileNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePub struct {
	messages []dto.NotificationMessage
}

func (f *fakePub) Publish(body []byte, delaySeconds int) error {
	var msg dto.NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakePub) kinds() []string {
	var out []string
	for _, m := range f.messages {
		out = append(out, m.Kind)
	}
	return out
}

type testEnv struct {
	svc    *Service
	events *fakeEvents
	regs   *fakeRegs
	files  *fakeFiles
	pub    *fakePub
}

func newTestEnv(t *testing.T, events ...*model.Event) *testEnv {
	t.Helper()
	env := &testEnv{
		events: newFakeEvents(events...),
		regs:   newFakeRegs(),
		files:  newFakeFiles(),
		pub:    &fakePub{},
	}
	log := zerolog.Nop()
	env.svc = NewService(env.events, env.regs, env.files, env.pub, &log)
	return env
}

func intPtr(v int) *int { return &v }

func testEvent(autoAccept bool, capacity *int) *model.Event {
	return &model.Event{
		ID:       uuid.New(),
		Slug:     "summer-meetup",
		Title:    "Summer Meetup",
		DateTime: time.Now().Add(30 * 24 * time.Hour),
		Status:   model.EventPublished,
		FormSchema: model.RegistrationFormSchema{
			Fields: []model.FieldDefinition{
				{ID: "fullName", Type: model.FieldText, Label: "fullName", Required: true},
			},
			AutoAccept: autoAccept,
		},
		MaxCapacity: capacity,
	}
}

func TestSubmitManualReview(t *testing.T) {
	env := newTestEnv(t, testEvent(false, nil))

	reg, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, reg.Status)
	assert.Equal(t, []string{dto.NotifyApplicationReceived}, env.pub.kinds())
}

func TestSubmitAutoAccept(t *testing.T) {
	env := newTestEnv(t, testEvent(true, nil))

	reg, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, reg.Status)
	assert.Equal(t, []string{dto.NotifyRegistrationConfirmed}, env.pub.kinds())
}

func TestSubmitUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Submit(context.Background(), "nope", map[string]any{}, "sess-1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSubmitUnpublishedEvent(t *testing.T) {
	event := testEvent(false, nil)
	event.Status = model.EventDraft
	env := newTestEnv(t, event)

	_, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "sess-1")
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestSubmitDeadlinePassed(t *testing.T) {
	event := testEvent(false, nil)
	deadline := time.Now().Add(-time.Hour)
	event.RegistrationDeadline = &deadline
	env := newTestEnv(t, event)

	_, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "sess-1")
	assert.ErrorIs(t, err, ErrDeadlinePassed)
	assert.Empty(t, env.pub.kinds())
}

func TestSubmitValidationFailure(t *testing.T) {
	env := newTestEnv(t, testEvent(false, nil))

	_, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{}, "sess-1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "fullName", vErr.Fields[0].Field)
	assert.Empty(t, env.pub.kinds(), "no notification for failed submissions")
}

func TestSubmitLinksUploadedFiles(t *testing.T) {
	env := newTestEnv(t, testEvent(false, nil))
	env.files.add(model.FileAttachment{UploadSessionID: "sess-1", FieldName: "resume", MimeType: "application/pdf"})

	reg, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sess-1"}, env.files.linked)

	files, err := env.files.GetByRegistration(context.Background(), reg.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NotNil(t, files[0].ScheduledDeletionDate)
}

func TestSubmitAutoAcceptFullEventFallsBackToReview(t *testing.T) {
	event := testEvent(true, intPtr(1))
	env := newTestEnv(t, event)

	first, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, first.Status)
	assert.False(t, event.FormSchema.AutoAccept, "auto-accept disabled at capacity")

	second, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Bob"}, "s2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, second.Status)
	assert.Equal(t, []string{dto.NotifyRegistrationConfirmed, dto.NotifyApplicationReceived}, env.pub.kinds())
}

func TestAcceptAndReject(t *testing.T) {
	env := newTestEnv(t, testEvent(false, nil))
	reviewer := uuid.New()

	submitted, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "s1")
	require.NoError(t, err)

	accepted, err := env.svc.Accept(context.Background(), submitted.ID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.ReviewedBy)
	assert.Equal(t, reviewer, *accepted.ReviewedBy)

	// No re-review, not even to the same outcome.
	_, err = env.svc.Accept(context.Background(), submitted.ID, reviewer)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	_, err = env.svc.Reject(context.Background(), submitted.ID, reviewer)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	assert.Equal(t, []string{dto.NotifyApplicationReceived, dto.NotifyAccepted}, env.pub.kinds())
}

func TestRejectSubmitted(t *testing.T) {
	env := newTestEnv(t, testEvent(false, nil))
	reviewer := uuid.New()

	submitted, err := env.svc.Submit(context.Background(), "summer-meetup", map[string]any{"fullName": "Ada"}, "s1")
	require.NoError(t, err)

	rejected, err := env.svc.Reject(context.Background(), submitted.ID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Equal(t, []string{dto.NotifyApplicationReceived, dto.NotifyRejected}, env.pub.kinds())
}

func TestReviewUnknownRegistration(t *testing.T) {
	env := newTestEnv(t, testEvent(false, nil))

	_, err := env.svc.Accept(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestUploadFileChecks(t *testing.T) {
	env := newTestEnv(t, testEvent(false, nil))

	t.Run("too large", func(t *testing.T) {
		_, err := env.svc.UploadFile(context.Background(), "summer-meetup", &model.FileAttachment{
			FileSize: maxUploadSize + 1, MimeType: "application/pdf", UploadSessionID: "s1",
		})
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := env.svc.UploadFile(context.Background(), "summer-meetup", &model.FileAttachment{
			FileSize: 100, MimeType: "image/png", UploadSessionID: "s1",
		})
		assert.ErrorIs(t, err, ErrFileType)
	})

	t.Run("accepted", func(t *testing.T) {
		f, err := env.svc.UploadFile(context.Background(), "summer-meetup", &model.FileAttachment{
			FileSize: 100, MimeType: "application/pdf", UploadSessionID: "s1", FieldName: "resume",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, f.ID)
	})
}

func TestDeleteUploadedFile(t *testing.T) {
	event := testEvent(false, nil)
	env := newTestEnv(t, event)
	f := env.files.add(model.FileAttachment{
		EventID: event.ID, UploadSessionID: "s1", FieldName: "resume", MimeType: "application/pdf",
	})

	t.Run("session mismatch", func(t *testing.T) {
		err := env.svc.DeleteUploadedFile(context.Background(), "summer-meetup", f.ID, "other", "resume")
		assert.ErrorIs(t, err, ErrFileMismatch)
	})

	t.Run("field mismatch", func(t *testing.T) {
		err := env.svc.DeleteUploadedFile(context.Background(), "summer-meetup", f.ID, "s1", "avatar")
		assert.ErrorIs(t, err, ErrFileMismatch)
	})

	t.Run("linked file cannot be deleted", func(t *testing.T) {
		regID := uuid.New()
		f.RegistrationID = &regID
		err := env.svc.DeleteUploadedFile(context.Background(), "summer-meetup", f.ID, "s1", "resume")
		assert.ErrorIs(t, err, ErrFileMismatch)
		f.RegistrationID = nil
	})

	t.Run("deleted", func(t *testing.T) {
		err := env.svc.DeleteUploadedFile(context.Background(), "summer-meetup", f.ID, "s1", "resume")
		require.NoError(t, err)
		err = env.svc.DeleteUploadedFile(context.Background(), "summer-meetup", f.ID, "s1", "resume")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}
