package mailer

import (
	"sync"
	"time"
)

// DefaultSendInterval keeps outgoing mail just under two messages per
// second, which is what the upstream SMTP relay tolerates.
const DefaultSendInterval = 555 * time.Millisecond

// SendLimiter spaces out sends by a minimum interval. Safe for use
// from multiple goroutines.
type SendLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func NewSendLimiter(interval time.Duration) *SendLimiter {
	if interval <= 0 {
		interval = DefaultSendInterval
	}
	return &SendLimiter{interval: interval}
}

// Wait blocks until at least the configured interval has elapsed since
// the previous send.
func (l *SendLimiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if wakeAt := l.last.Add(l.interval); wakeAt.After(now) {
		time.Sleep(wakeAt.Sub(now))
		now = time.Now()
	}
	l.last = now
}
