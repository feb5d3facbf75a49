package network

import "time"

// RegistrationContext tracks the single in-flight device registration the
// station supports at any one time — at most one registration may be
// open at once.
type RegistrationContext struct {
	Name     string
	DevMAC   uint32
	Duration time.Duration
	Start    time.Time
}

// InProgress reports whether a registration is currently open. A
// zero-value context (DevMAC == 0), which a Network starts with and
// returns to after completion or expiry, is never "in progress" —
// mirroring the original's dev_mac != 0 check.
func (r RegistrationContext) InProgress() bool {
	return r.DevMAC != 0
}

// Expired reports whether the registration window has elapsed.
func (r RegistrationContext) Expired() bool {
	if r.Start.IsZero() {
		return true
	}
	return time.Since(r.Start) >= r.Duration
}

// newRegistrationContext opens a registration window for (name, devMAC)
// starting now.
func newRegistrationContext(name string, devMAC uint32, duration time.Duration) RegistrationContext {
	return RegistrationContext{
		Name:     name,
		DevMAC:   devMAC,
		Duration: duration,
		Start:    time.Now(),
	}
}
