package validation

import (
	"sync"
	"time"
)

// RateLimiter is a per-client token bucket. The status server keys it by
// remote host so a polling dashboard cannot starve the trainer.
type RateLimiter struct {
	burst   int
	window  time.Duration
	now     func() time.Time
	clients map[string]*bucket
	mu      sync.Mutex

	sweep *time.Ticker
	done  chan struct{}
	once  sync.Once
}

// bucket holds the tokens left for one client. Tokens refill continuously
// at burst per window.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter allows burst requests per window for each client and
// starts a goroutine that forgets idle clients. Call Close to stop it.
func NewRateLimiter(burst int, window time.Duration) *RateLimiter {
	rl := newRateLimiter(burst, window, time.Now)
	rl.sweep = time.NewTicker(window)
	go rl.sweepLoop()
	return rl
}

func newRateLimiter(burst int, window time.Duration, now func() time.Time) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &RateLimiter{
		burst:   burst,
		window:  window,
		now:     now,
		clients: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
}

// Allow consumes a token for clientID and reports whether one was left.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.clients[clientID]
	if !ok {
		b = &bucket{tokens: float64(rl.burst), lastSeen: now}
		rl.clients[clientID] = b
	}

	if elapsed := now.Sub(b.lastSeen); elapsed > 0 {
		b.tokens += float64(rl.burst) * float64(elapsed) / float64(rl.window)
		if b.tokens > float64(rl.burst) {
			b.tokens = float64(rl.burst)
		}
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) sweepLoop() {
	for {
		select {
		case <-rl.sweep.C:
			rl.forgetIdle()
		case <-rl.done:
			return
		}
	}
}

// forgetIdle drops clients not seen for two windows; their buckets would
// be full again anyway.
func (rl *RateLimiter) forgetIdle() {
	cutoff := rl.now().Add(-2 * rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, b := range rl.clients {
		if b.lastSeen.Before(cutoff) {
			delete(rl.clients, id)
		}
	}
}

// Close stops the idle-client sweep. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() {
		close(rl.done)
		if rl.sweep != nil {
			rl.sweep.Stop()
		}
	})
}
