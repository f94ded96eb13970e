package http

import "time"

// rateLimiter caps inbound socket messages per connection over a sliding
// one-minute window. It is touched only from the connection's read loop, so
// no locking is needed.
type rateLimiter struct {
	limit       int
	counter     int
	windowStart time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: limit}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	now := time.Now()
	if now.Sub(r.windowStart) >= time.Minute {
		r.windowStart = now
		r.counter = 0
	}

	r.counter++
	return r.counter <= r.limit
}
