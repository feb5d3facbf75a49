// Package driver defines the radio transceiver port the Network state
// machine talks to, plus a Mock implementation for tests and an SX1278
// implementation for real hardware.
package driver

import "time"

// Driver is the capability set the Network requires of a radio
// transceiver: best-effort send, a blocking receive with timeout, and a
// report of the last failure.
type Driver interface {
	// Send transmits data best-effort; failures are absorbed into
	// LastError rather than returned.
	Send(data []byte)

	// Recv blocks up to timeout for an inbound frame, returning nil on
	// timeout or error.
	Recv(timeout time.Duration) []byte

	// LastError reports the most recent failure. Whether reading it
	// consumes it, and what is returned when there is none, depends on the
	// implementation: SX1278 returns the last error ("" if none) without
	// clearing it; Mock pops a queued error and returns "OK" if none.
	LastError() string
}
