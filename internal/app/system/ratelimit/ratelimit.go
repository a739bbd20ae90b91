// internal/app/system/ratelimit/ratelimit.go
//
// Package ratelimit throttles password attempts. A Limiter counts hits per
// key in fixed windows; LoginLimiter combines one keyed by client IP with
// one keyed by login ID.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter allows at most limit hits per key in each window. It is safe for
// concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
	sweptAt time.Time
}

type window struct {
	hits    int
	resetAt time.Time
}

// New creates a limiter allowing limit hits per key per period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a hit for key. When the key is over its limit it returns
// false and how long until its window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.windows[key] = &window{hits: 1, resetAt: now.Add(l.period)}
		return true, 0
	}
	if w.hits >= l.limit {
		return false, w.resetAt.Sub(now)
	}
	w.hits++
	return true, 0
}

// Reset forgets key's window.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// sweep drops expired windows at most once per period. Callers hold mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.sweptAt) < l.period {
		return
	}
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
	l.sweptAt = now
}

// ClientIP returns the first X-Forwarded-For address, then X-Real-IP, then
// the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Decision is the outcome of a login attempt check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string
}

// LoginLimiter limits password attempts per client IP and per login ID.
type LoginLimiter struct {
	byIP      *Limiter
	byAccount *Limiter
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 attempts per
// login ID per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

func NewLoginLimiterWithConfig(ipLimit int, ipPeriod time.Duration, accountLimit int, accountPeriod time.Duration) *LoginLimiter {
	return &LoginLimiter{
		byIP:      New(ipLimit, ipPeriod),
		byAccount: New(accountLimit, accountPeriod),
	}
}

// Check records an attempt by r's client for loginID.
func (ll *LoginLimiter) Check(r *http.Request, loginID string) Decision {
	if ok, wait := ll.byIP.Allow(ClientIP(r)); !ok {
		return Decision{RetryAfter: wait, Reason: "Too many login attempts. Please wait a minute before trying again."}
	}
	if key := accountKey(loginID); key != "" {
		if ok, wait := ll.byAccount.Allow(key); !ok {
			return Decision{RetryAfter: wait, Reason: "Too many login attempts for this account. Please wait a few minutes."}
		}
	}
	return Decision{Allowed: true}
}

// ResetAccount clears the per-account count after a successful login.
func (ll *LoginLimiter) ResetAccount(loginID string) {
	if key := accountKey(loginID); key != "" {
		ll.byAccount.Reset(key)
	}
}

func accountKey(loginID string) string {
	return strings.ToLower(strings.TrimSpace(loginID))
}
