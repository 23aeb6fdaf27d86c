package mailer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendLimiterSpacesCalls(t *testing.T) {
	l := NewSendLimiter(50 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		l.Wait()
	}
	elapsed := time.Since(start)

	// First call is free, the next two wait 50ms each.
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestSendLimiterConcurrent(t *testing.T) {
	l := NewSendLimiter(20 * time.Millisecond)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Wait()
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestSendLimiterDefaultInterval(t *testing.T) {
	l := NewSendLimiter(0)
	assert.Equal(t, DefaultSendInterval, l.interval)
}
