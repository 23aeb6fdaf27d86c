package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     int
	From     string
	FromName string
	Password string
}

// Mailer sends notification emails over SMTP. All sends pass through
// the limiter so bursts of status changes do not trip provider rate
// limits.
type Mailer struct {
	cfg     Config
	limiter *SendLimiter
	log     *zerolog.Logger
}

func New(cfg Config, limiter *SendLimiter, log *zerolog.Logger) *Mailer {
	return &Mailer{
		cfg:     cfg,
		limiter: limiter,
		log:     log,
	}
}

func (m *Mailer) Send(recipient, subject, body string) error {
	m.limiter.Wait()

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.FromName, m.cfg.From, recipient, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", recipient, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("email sent to %s (subject: %s)", recipient, subject)
	return nil
}
