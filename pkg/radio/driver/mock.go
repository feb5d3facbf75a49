package driver

import (
	"sync"
	"time"
)

// Mock is an in-memory Driver backed by two FIFO queues — inbound frames
// and injected errors — plus last-in/last-out buffers for test assertions.
// It is the direct translation of station/radio/driver/mock.py's
// MockDriver, used throughout the test suite.
type Mock struct {
	mu sync.Mutex

	packets [][]byte
	errors  []string

	lastIn  []byte
	lastOut []byte
}

// NewMock creates an empty Mock driver.
func NewMock() *Mock {
	return &Mock{}
}

// NextPacket enqueues data to be returned by a future Recv call.
func (m *Mock) NextPacket(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packets = append(m.packets, data)
}

// NextError enqueues a string to be returned by a future LastError call.
func (m *Mock) NextError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, err)
}

// Send records data as the last outbound frame.
func (m *Mock) Send(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOut = data
}

// Recv pops the next queued packet, if any, ignoring the timeout — the
// mock never actually blocks.
func (m *Mock) Recv(timeout time.Duration) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.packets) == 0 {
		m.lastIn = nil
		return nil
	}

	data := m.packets[0]
	m.packets = m.packets[1:]
	m.lastIn = data
	return data
}

// LastError pops the next queued error, or reports "OK" if none is queued —
// matching MockDriver.get_last_error's behaviour in the original source.
func (m *Mock) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.errors) == 0 {
		return "OK"
	}
	err := m.errors[0]
	m.errors = m.errors[1:]
	return err
}

// LastOutPacket returns the most recent frame handed to Send, for test
// assertions.
func (m *Mock) LastOutPacket() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOut
}

// LastInPacket returns the most recent frame returned by Recv.
func (m *Mock) LastInPacket() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastIn
}
