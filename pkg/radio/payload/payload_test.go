package payload

import (
	"testing"

	"github.com/maxrt101/life-monitor/pkg/radio"
)

func TestNewReturnsSizedZeroValue(t *testing.T) {
	cases := []struct {
		cmd      radio.Command
		wantSize int
	}{
		{radio.CommandPing, 0},
		{radio.CommandConfirm, 0},
		{radio.CommandReject, RejectSize},
		{radio.CommandRegister, RegisterSize},
		{radio.CommandRegistrationData, RegistrationDataSize},
		{radio.CommandStatus, StatusSize},
		{radio.CommandLocation, LocationSize},
		{radio.CommandAlert, AlertSize},
	}

	for _, c := range cases {
		p, err := New(c.cmd)
		if err != nil {
			t.Fatalf("New(%s): %v", c.cmd, err)
		}
		if p.Size() != c.wantSize {
			t.Errorf("New(%s).Size() = %d, want %d", c.cmd, p.Size(), c.wantSize)
		}
	}
}

func TestNewUnknownCommand(t *testing.T) {
	if _, err := New(radio.Command(200)); err == nil {
		t.Fatalf("expected an error for an unregistered command")
	}
}

func TestDecodeEmptyRejectsNonEmpty(t *testing.T) {
	if _, err := Decode(radio.CommandPing, []byte{0x01}); err == nil {
		t.Fatalf("expected an error decoding a non-empty PING payload")
	}
}
