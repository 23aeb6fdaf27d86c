package notifyworker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"clubreg/internal/dto"
	"clubreg/internal/mailer"
	"clubreg/internal/rabbit"
	"clubreg/internal/repo"
)

// Reader consumes queued notifications and turns them into emails.
// Handler errors are logged and swallowed so a bad message never loops
// back onto the queue.
type Reader struct {
	RMQ     *rabbit.Client
	events  repo.EventStore
	regs    repo.RegistrationStore
	users   repo.UserStore
	mail    *mailer.Mailer
	baseURL string
	done    chan struct{}
	cancel  context.CancelFunc
}

func NewReader(rmq *rabbit.Client, events repo.EventStore, regs repo.RegistrationStore, users repo.UserStore, mail *mailer.Mailer, baseURL string) *Reader {
	return &Reader{
		RMQ:     rmq,
		events:  events,
		regs:    regs,
		users:   users,
		mail:    mail,
		baseURL: baseURL,
		done:    make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification worker started")

	go func() {
		defer close(r.done)

		if err := r.RMQ.Consume(func(body []byte) error {
			r.handle(cctx, body)
			return nil
		}); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Reader) handle(ctx context.Context, body []byte) {
	var msg dto.NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		zlog.Logger.Error().
			Err(err).
			Msgf("Failed to unmarshal message: %s", string(body))
		return
	}

	zlog.Logger.Info().
		Str("kind", msg.Kind).
		Str("registration_id", msg.RegistrationID.String()).
		Msg("received notification message")

	reg, err := r.regs.GetByID(ctx, msg.RegistrationID)
	if err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("registration_id", msg.RegistrationID.String()).
			Msg("Failed to get registration from DB in worker")
		return
	}

	event, err := r.events.GetByID(ctx, reg.EventID)
	if err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("event_id", reg.EventID.String()).
			Msg("Failed to get event from DB in worker")
		return
	}

	name := extractName(reg.FormData)
	eventDate := event.DateTime.Format("Monday, January 2, 2006 at 15:04")
	rsvpURL := fmt.Sprintf("%s/rsvp/%s", r.baseURL, reg.ID.String())

	if msg.Kind == dto.NotifyStaffDecline {
		r.notifyStaff(ctx, name, event.Title, eventDate)
		return
	}

	email := extractEmail(reg.FormData)
	if email == "" {
		zlog.Logger.Warn().
			Str("registration_id", reg.ID.String()).
			Msg("registration has no email field, skipping notification")
		return
	}

	rendered, ok := mailer.Render(msg.Kind, name, event.Title, eventDate, rsvpURL)
	if !ok {
		zlog.Logger.Warn().
			Str("kind", msg.Kind).
			Msg("unknown notification kind, skipping")
		return
	}

	if err := r.mail.Send(email, rendered.Subject, rendered.Body); err != nil {
		zlog.Logger.Warn().
			Err(err).
			Str("email", email).
			Msg("Failed to send notification email")
	}
}

func (r *Reader) notifyStaff(ctx context.Context, attendeeName, eventTitle, eventDate string) {
	emails, err := r.users.GetSubscribedEmails(ctx, "rsvp_changes")
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to load staff subscribers")
		return
	}

	rendered := mailer.RenderStaffDecline(attendeeName, eventTitle, eventDate)
	for _, email := range emails {
		if err := r.mail.Send(email, rendered.Subject, rendered.Body); err != nil {
			zlog.Logger.Warn().
				Err(err).
				Str("email", email).
				Msg("Failed to send staff notice")
		}
	}
}

// extractName digs the attendee's name out of the free-form answers,
// trying the field names club forms actually use.
func extractName(formData map[string]any) string {
	for _, key := range []string{"fullName", "full_name", "name"} {
		if v, ok := formData[key].(string); ok && v != "" {
			return v
		}
	}
	first, _ := formData["firstName"].(string)
	last, _ := formData["lastName"].(string)
	if first != "" && last != "" {
		return first + " " + last
	}
	if first != "" {
		return first
	}
	return ""
}

func extractEmail(formData map[string]any) string {
	if v, ok := formData["email"].(string); ok {
		return v
	}
	return ""
}
