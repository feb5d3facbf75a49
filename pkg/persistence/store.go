// Package persistence defines the storage port the Network state machine
// uses to record devices, status reports, locations, and alerts, plus a
// Redis-backed implementation for production and an in-memory one for
// tests, built on top of pkg/redis's connection wrapper.
package persistence

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get-style lookups when no record exists.
var ErrNotFound = errors.New("persistence: not found")

// Device mirrors original_source's station.db.Device model: one row per
// registered wearable, keyed by its radio MAC.
type Device struct {
	MAC     uint32
	Name    string
	Version string
}

// Status mirrors station.db.Status: a single telemetry snapshot.
type Status struct {
	DeviceMAC  uint32
	Timestamp  time.Time
	Flags      uint8
	ResetCause uint8
	ResetCount uint8
	CPUTemp    int8
	BPM        uint8
	AvgBPM     uint8
}

// Location mirrors station.db.Location. Latitude/Longitude hold the raw
// ASCII field's numeric value divided by 100 (done at the ingestion
// boundary, not in the wire codec); they are not converted to signed
// decimal degrees, and the direction letters are kept in LatDir/LongDir.
type Location struct {
	DeviceMAC  uint32
	Timestamp  time.Time
	LatDir     string
	Latitude   float64
	LongDir    string
	Longitude  float64
}

// Alert mirrors station.db.Alert.
type Alert struct {
	DeviceMAC uint32
	Timestamp time.Time
	Trigger   uint8
}

// Store is the persistence port the Network depends on. All methods must
// be safe for concurrent use from the radio goroutine's dedicated
// connection.
type Store interface {
	DeviceGet(mac uint32) (Device, error)
	DeviceCreate(dev Device) error
	DeviceDelete(mac uint32) error

	StatusAppend(s Status) error
	LocationAppend(l Location) error
	AlertAppend(a Alert) error

	// EnsureDefaultUser creates the default admin account if no user of
	// that name exists yet, matching station.db.init's admin seed.
	EnsureDefaultUser() error

	Close() error
}
