// Package ratelimit implements per-account token-bucket limits on
// amount per minute and packet count per minute.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeJamon/ilpconnectord/internal/ilpaddr"
	"github.com/LeJamon/ilpconnectord/internal/service"
)

// bucket is a continuously-refilling token bucket: capacity tokens
// refill linearly over one minute, avoiding a per-packet lock held
// across a clock read and a reset.
type bucket struct {
	capacity   float64
	tokens     float64
	lastRefill time.Time
}

func newBucket(capacity float64, now time.Time) *bucket {
	return &bucket{capacity: capacity, tokens: capacity, lastRefill: now}
}

func (b *bucket) take(now time.Time, cost float64) bool {
	elapsed := now.Sub(b.lastRefill)
	if elapsed > 0 {
		b.tokens += elapsed.Seconds() / 60 * b.capacity
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefill = now
	}
	if b.tokens < cost {
		return false
	}
	b.tokens -= cost
	return true
}

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time

// Limiter holds the per-account buckets for both limit dimensions.
type Limiter struct {
	mu      sync.Mutex
	amount  map[uuid.UUID]*bucket
	packets map[uuid.UUID]*bucket
	clock   Clock
}

// New constructs an empty Limiter.
func New(clock Clock) *Limiter {
	if clock == nil {
		clock = time.Now
	}
	return &Limiter{
		amount:  make(map[uuid.UUID]*bucket),
		packets: make(map[uuid.UUID]*bucket),
		clock:   clock,
	}
}

// Allow reports whether a accounts's Prepare of the given amount fits
// within both of its configured limits, consuming tokens if so.
func (l *Limiter) Allow(accountID uuid.UUID, amountLimit, packetLimit *uint64, amount uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()

	if amountLimit != nil {
		b, ok := l.amount[accountID]
		if !ok {
			b = newBucket(float64(*amountLimit), now)
			l.amount[accountID] = b
		}
		if !b.take(now, float64(amount)) {
			return false
		}
	}
	if packetLimit != nil {
		b, ok := l.packets[accountID]
		if !ok {
			b = newBucket(float64(*packetLimit), now)
			l.packets[accountID] = b
		}
		if !b.take(now, 1) {
			return false
		}
	}
	return true
}

// Incoming returns an IncomingMiddleware enforcing req.From's
// amount-per-minute and packets-per-minute limits.
func Incoming(limiter *Limiter, nodeAddress ilpaddr.Address) service.IncomingMiddleware {
	return func(next service.IncomingService) service.IncomingService {
		return service.IncomingHandler(func(ctx context.Context, req *service.Request) (*service.Response, error) {
			if !limiter.Allow(req.From.ID, req.From.AmountPerMinuteLimit, req.From.PacketsPerMinuteLimit, req.Prepare.Amount) {
				return service.Reject(service.CodeRateLimited, nodeAddress, "account rate limit exceeded"), nil
			}
			return next.Handle(ctx, req)
		})
	}
}
