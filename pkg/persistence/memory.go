package persistence

import "sync"

// MemoryStore is an in-process Store for tests: no network, no
// serialization, just guarded maps and slices.
type MemoryStore struct {
	mu sync.Mutex

	devices   map[uint32]Device
	statuses  map[uint32][]Status
	locations map[uint32][]Location
	alerts    map[uint32][]Alert
	users     map[string]bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		devices:   make(map[uint32]Device),
		statuses:  make(map[uint32][]Status),
		locations: make(map[uint32][]Location),
		alerts:    make(map[uint32][]Alert),
		users:     make(map[string]bool),
	}
}

func (m *MemoryStore) DeviceGet(mac uint32) (Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dev, ok := m.devices[mac]
	if !ok {
		return Device{}, ErrNotFound
	}
	return dev, nil
}

func (m *MemoryStore) DeviceCreate(dev Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[dev.MAC] = dev
	return nil
}

func (m *MemoryStore) DeviceDelete(mac uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.devices, mac)
	delete(m.statuses, mac)
	delete(m.locations, mac)
	delete(m.alerts, mac)
	return nil
}

func (m *MemoryStore) StatusAppend(s Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[s.DeviceMAC] = append(m.statuses[s.DeviceMAC], s)
	return nil
}

func (m *MemoryStore) LocationAppend(l Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[l.DeviceMAC] = append(m.locations[l.DeviceMAC], l)
	return nil
}

func (m *MemoryStore) AlertAppend(a Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[a.DeviceMAC] = append(m.alerts[a.DeviceMAC], a)
	return nil
}

func (m *MemoryStore) EnsureDefaultUser() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users["admin"] = true
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Statuses returns a copy of the recorded Status rows for mac, newest last.
func (m *MemoryStore) Statuses(mac uint32) []Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Status, len(m.statuses[mac]))
	copy(out, m.statuses[mac])
	return out
}

// Locations returns a copy of the recorded Location rows for mac.
func (m *MemoryStore) Locations(mac uint32) []Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Location, len(m.locations[mac]))
	copy(out, m.locations[mac])
	return out
}

// Alerts returns a copy of the recorded Alert rows for mac.
func (m *MemoryStore) Alerts(mac uint32) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.alerts[mac]))
	copy(out, m.alerts[mac])
	return out
}
