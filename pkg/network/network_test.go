package network

import (
	"testing"
	"time"

	"github.com/maxrt101/life-monitor/pkg/persistence"
	"github.com/maxrt101/life-monitor/pkg/radio"
	"github.com/maxrt101/life-monitor/pkg/radio/driver"
	"github.com/maxrt101/life-monitor/pkg/radio/packet"
	"github.com/maxrt101/life-monitor/pkg/radio/payload"
)

const (
	testStationMAC = radio.MAC(0xBADCAFE0)
	testDevMAC     = radio.MAC(0xEBAC0C42)
)

func newTestNetwork(t *testing.T) (*Network, *driver.Mock, *persistence.MemoryStore) {
	t.Helper()
	packet.ResetPacketIDForTest()

	mock := driver.NewMock()
	store := persistence.NewMemoryStore()

	var netKey, defaultKey radio.Key
	for i := range netKey {
		netKey[i] = byte(i + 1)
	}

	net := New(mock, store, testStationMAC, netKey, defaultKey, 10*time.Second, 10*time.Millisecond)
	return net, mock, store
}

func TestRegistrationSucceedsWithConfirmingPing(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	mock.NextPacket(packet.Create(radio.CommandRegister, radio.TransportUnicast, testDevMAC, 0, net.defaultKey, payload.Register{
		HWVersion: 1, SWMajor: 2, SWMinor: 3, SWPatch: 4,
	}).Encode(net.defaultKey))

	mock.NextPacket(packet.Create(radio.CommandPing, radio.TransportUnicast, testDevMAC, testStationMAC, net.netKey, payload.Empty{}).Encode(net.netKey))

	net.StartRegistration("Test", uint32(testDevMAC))
	net.Cycle(nil)

	dev, err := store.DeviceGet(uint32(testDevMAC))
	if err != nil {
		t.Fatalf("expected device to be registered: %v", err)
	}
	if dev.Version != "1.2.3.4" {
		t.Errorf("Device.Version = %q, want %q", dev.Version, "1.2.3.4")
	}
	if net.Registration().InProgress() {
		t.Errorf("registration context should be cleared after a successful registration")
	}
}

func TestRegistrationIgnoredWhenNotStarted(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	mock.NextPacket(packet.Create(radio.CommandRegister, radio.TransportUnicast, testDevMAC, 0, net.defaultKey, payload.Register{
		HWVersion: 1, SWMajor: 2, SWMinor: 3, SWPatch: 4,
	}).Encode(net.defaultKey))

	net.Cycle(nil)

	if _, err := store.DeviceGet(uint32(testDevMAC)); err != persistence.ErrNotFound {
		t.Errorf("expected device to remain unregistered, got err=%v", err)
	}
}

func TestRegistrationRejectedOnMismatchedMAC(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	mock.NextPacket(packet.Create(radio.CommandRegister, radio.TransportUnicast, testDevMAC, 0, net.defaultKey, payload.Register{
		HWVersion: 1, SWMajor: 2, SWMinor: 3, SWPatch: 4,
	}).Encode(net.defaultKey))

	net.StartRegistration("Test", uint32(testDevMAC)+1)
	net.Cycle(nil)

	if _, err := store.DeviceGet(uint32(testDevMAC)); err != persistence.ErrNotFound {
		t.Errorf("expected device to remain unregistered, got err=%v", err)
	}

	decoded, err := packet.Decode(mock.LastOutPacket(), net.defaultKey)
	if err != nil {
		t.Fatalf("decoding the station's reply: %v", err)
	}
	if decoded.Header.Command != radio.CommandReject {
		t.Errorf("reply command = %s, want REJECT", decoded.Header.Command)
	}
}

func TestPingSendsConfirm(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	if err := store.DeviceCreate(persistence.Device{MAC: uint32(testDevMAC), Name: "Test", Version: "1.0.1.0"}); err != nil {
		t.Fatalf("DeviceCreate: %v", err)
	}

	mock.NextPacket(packet.Create(radio.CommandPing, radio.TransportUnicast, testDevMAC, testStationMAC, net.netKey, payload.Empty{}).Encode(net.netKey))

	net.Cycle(nil)

	decoded, err := packet.Decode(mock.LastOutPacket(), net.netKey)
	if err != nil {
		t.Fatalf("decoding the station's reply: %v", err)
	}
	if decoded.Header.Command != radio.CommandConfirm {
		t.Errorf("reply command = %s, want CONFIRM", decoded.Header.Command)
	}
	if decoded.Header.Target != testDevMAC {
		t.Errorf("reply target = 0x%X, want 0x%X", decoded.Header.Target, testDevMAC)
	}
}

func TestStatusPersistsForKnownDevice(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	if err := store.DeviceCreate(persistence.Device{MAC: uint32(testDevMAC), Name: "Test", Version: "1.0.1.0"}); err != nil {
		t.Fatalf("DeviceCreate: %v", err)
	}

	mock.NextPacket(packet.Create(radio.CommandStatus, radio.TransportUnicast, testDevMAC, testStationMAC, net.netKey, payload.Status{
		ResetReason: radio.ResetWDG, ResetCount: 8, CPUTemp: 5, BPM: 0x42, AvgBPM: 0x69,
	}).Encode(net.netKey))

	net.Cycle(nil)

	rows := store.Statuses(uint32(testDevMAC))
	if len(rows) != 1 {
		t.Fatalf("got %d status rows, want 1", len(rows))
	}
	if rows[0].BPM != 0x42 || rows[0].AvgBPM != 0x69 {
		t.Errorf("status row = %+v, unexpected BPM/AvgBPM", rows[0])
	}
}

func TestStatusDroppedForUnknownDevice(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	mock.NextPacket(packet.Create(radio.CommandStatus, radio.TransportUnicast, testDevMAC, testStationMAC, net.netKey, payload.Status{}).Encode(net.netKey))

	net.Cycle(nil)

	if rows := store.Statuses(uint32(testDevMAC)); len(rows) != 0 {
		t.Errorf("expected no status rows for an unregistered device, got %d", len(rows))
	}
}

func TestLocationStoresAsciiDividedBy100(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	if err := store.DeviceCreate(persistence.Device{MAC: uint32(testDevMAC), Name: "Test", Version: "1.0.1.0"}); err != nil {
		t.Fatalf("DeviceCreate: %v", err)
	}

	mock.NextPacket(packet.Create(radio.CommandLocation, radio.TransportUnicast, testDevMAC, testStationMAC, net.netKey, payload.Location{
		LatDir: "N", Lat: "4943.97313", LongDir: "E", Long: "02340.25276",
	}).Encode(net.netKey))

	net.Cycle(nil)

	rows := store.Locations(uint32(testDevMAC))
	if len(rows) != 1 {
		t.Fatalf("got %d location rows, want 1", len(rows))
	}
	if rows[0].Latitude < 49.43 || rows[0].Latitude > 49.44 {
		t.Errorf("Latitude = %v, want ~49.4397313", rows[0].Latitude)
	}
}

func TestAlertPersistsTrigger(t *testing.T) {
	net, mock, store := newTestNetwork(t)

	if err := store.DeviceCreate(persistence.Device{MAC: uint32(testDevMAC), Name: "Test", Version: "1.0.1.0"}); err != nil {
		t.Fatalf("DeviceCreate: %v", err)
	}

	mock.NextPacket(packet.Create(radio.CommandAlert, radio.TransportUnicast, testDevMAC, testStationMAC, net.netKey, payload.Alert{
		Trigger: radio.AlertSuddenMovement,
	}).Encode(net.netKey))

	net.Cycle(nil)

	rows := store.Alerts(uint32(testDevMAC))
	if len(rows) != 1 {
		t.Fatalf("got %d alert rows, want 1", len(rows))
	}
	if rows[0].Trigger != uint8(radio.AlertSuddenMovement) {
		t.Errorf("Trigger = %d, want %d", rows[0].Trigger, radio.AlertSuddenMovement)
	}
}

func TestRegistrationExpires(t *testing.T) {
	net, _, _ := newTestNetwork(t)

	net.registrationDuration = time.Millisecond
	net.StartRegistration("Test", uint32(testDevMAC))
	time.Sleep(5 * time.Millisecond)

	net.Cycle(nil)

	if net.Registration().InProgress() {
		t.Errorf("expected expired registration to be cleared")
	}
}

type fakeCommandSource struct {
	cmd Command
	ok  bool
}

func (f *fakeCommandSource) TryDrain() (Command, bool) {
	if !f.ok {
		return Command{}, false
	}
	f.ok = false
	return f.cmd, true
}

func TestCycleDrainsAtMostOneCommand(t *testing.T) {
	net, _, _ := newTestNetwork(t)

	src := &fakeCommandSource{cmd: Command{Kind: CommandKindRegister, Name: "Test", MAC: uint32(testDevMAC)}, ok: true}

	net.Cycle(src)
	if !net.Registration().InProgress() {
		t.Fatalf("expected the drained register command to start a registration")
	}
	if src.ok {
		t.Errorf("command source should be drained exactly once")
	}
}

func TestCycleIgnoresUnrecognisedCommandKind(t *testing.T) {
	net, _, _ := newTestNetwork(t)

	src := &fakeCommandSource{cmd: Command{Kind: "bogus", MAC: uint32(testDevMAC)}, ok: true}
	net.Cycle(src)

	if net.Registration().InProgress() {
		t.Errorf("an unrecognised command kind must not start a registration")
	}
}
