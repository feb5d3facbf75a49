package persistence

import (
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	redisclient "github.com/maxrt101/life-monitor/pkg/redis"
)

// Redis key layout, following pkg/redis's flat hash-per-entity
// convention (WriteString/WriteFields/GetAll over HSet/HGetAll):
//
//	device:<mac>            hash{name, version}
//	device:<mac>:status     list of encoded Status rows
//	device:<mac>:location   list of encoded Location rows
//	device:<mac>:alert      list of encoded Alert rows
//	user:<username>         hash{password_hash}
const (
	deviceKeyPrefix   = "device:"
	statusKeySuffix   = ":status"
	locationKeySuffix = ":location"
	alertKeySuffix    = ":alert"
	userKeyPrefix     = "user:"

	defaultAdminUser     = "admin"
	defaultAdminPassword = "admin"

	// historyCap bounds how many telemetry rows are retained per device
	// per list, trimmed on every append so a misbehaving or compromised
	// device cannot grow its history unboundedly.
	historyCap = 1000
)

// RedisStore is the production Store, backed by a dedicated pkg/redis
// connection: the radio goroutine owns its own connection, separate
// from any web-facing one.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore dials addr via pkg/redis.New, the station's shared
// connection helper.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client, err := redisclient.New(addr, password, db)
	if err != nil {
		return nil, fmt.Errorf("persistence: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func deviceKey(mac uint32) string {
	return fmt.Sprintf("%s%d", deviceKeyPrefix, mac)
}

func (s *RedisStore) DeviceGet(mac uint32) (Device, error) {
	vals, err := s.client.GetAll(deviceKey(mac))
	if err != nil {
		return Device{}, fmt.Errorf("persistence: device %d: %w", mac, err)
	}
	if len(vals) == 0 {
		return Device{}, ErrNotFound
	}
	return Device{
		MAC:     mac,
		Name:    vals["name"],
		Version: vals["version"],
	}, nil
}

func (s *RedisStore) DeviceCreate(dev Device) error {
	if err := s.client.WriteFields(deviceKey(dev.MAC), "name", dev.Name, "version", dev.Version); err != nil {
		return fmt.Errorf("persistence: create device %d: %w", dev.MAC, err)
	}
	return nil
}

// DeviceDelete removes the device hash and cascades to its Status,
// Location, and Alert history so a later re-registration never leaves
// orphaned telemetry behind.
func (s *RedisStore) DeviceDelete(mac uint32) error {
	base := deviceKey(mac)
	if err := s.client.Del(base, base+statusKeySuffix, base+locationKeySuffix, base+alertKeySuffix); err != nil {
		return fmt.Errorf("persistence: delete device %d: %w", mac, err)
	}
	return nil
}

func (s *RedisStore) StatusAppend(st Status) error {
	key := deviceKey(st.DeviceMAC) + statusKeySuffix
	row := fmt.Sprintf("%d|%d|%d|%d|%d|%d|%d",
		st.Timestamp.Unix(), st.Flags, st.ResetCause, st.ResetCount, st.CPUTemp, st.BPM, st.AvgBPM)
	if err := s.client.LPushTrim(key, row, historyCap); err != nil {
		return fmt.Errorf("persistence: append %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) LocationAppend(l Location) error {
	key := deviceKey(l.DeviceMAC) + locationKeySuffix
	row := fmt.Sprintf("%d|%s|%s|%s|%s",
		l.Timestamp.Unix(), l.LatDir, strconv.FormatFloat(l.Latitude, 'f', 2, 64),
		l.LongDir, strconv.FormatFloat(l.Longitude, 'f', 2, 64))
	if err := s.client.LPushTrim(key, row, historyCap); err != nil {
		return fmt.Errorf("persistence: append %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) AlertAppend(a Alert) error {
	key := deviceKey(a.DeviceMAC) + alertKeySuffix
	row := fmt.Sprintf("%d|%d", a.Timestamp.Unix(), a.Trigger)
	if err := s.client.LPushTrim(key, row, historyCap); err != nil {
		return fmt.Errorf("persistence: append %s: %w", key, err)
	}
	return nil
}

// EnsureDefaultUser creates the "admin" account with a bcrypt-hashed
// password if no user of that name exists, matching station.db.init's
// unconditional seed (originally werkzeug's generate_password_hash; this
// port uses bcrypt, the hashing library the rest of the corpus reaches
// for).
func (s *RedisStore) EnsureDefaultUser() error {
	key := userKeyPrefix + defaultAdminUser
	exists, err := s.client.Exists(key)
	if err != nil {
		return fmt.Errorf("persistence: check default user: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("persistence: hash default password: %w", err)
	}

	if err := s.client.WriteString(key, "password_hash", string(hash)); err != nil {
		return fmt.Errorf("persistence: create default user: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
