// Package payload implements the seven command-specific wire payloads of
// the life-monitor radio protocol. Each Command gets its own Go type
// satisfying Payload — a tagged sum in place of the original's runtime
// class registry.
package payload

import (
	"fmt"

	"github.com/maxrt101/life-monitor/pkg/radio"
)

// Payload is the capability set every command's payload type implements:
// encode and report its own encoded size. Decoding is done by Decode,
// which dispatches on the command.
type Payload interface {
	Size() int
	Encode() []byte
}

// Empty is the zero-length payload used by PING and CONFIRM. The original
// source also defines a ConfirmPayload{station_mac, key}, but the network
// path never constructs it with arguments, so CONFIRM's on-air payload is
// treated as empty and no ConfirmPayload type exists here.
type Empty struct{}

func (Empty) Size() int      { return 0 }
func (Empty) Encode() []byte { return nil }

func decodeEmpty(data []byte) (Empty, error) {
	if len(data) != 0 {
		return Empty{}, fmt.Errorf("payload: expected empty payload, got %d bytes", len(data))
	}
	return Empty{}, nil
}

// New returns the zero-valued payload type registered for command, or an
// error if command is not one of the seven known commands.
func New(command radio.Command) (Payload, error) {
	switch command {
	case radio.CommandPing, radio.CommandConfirm:
		return Empty{}, nil
	case radio.CommandReject:
		return Reject{}, nil
	case radio.CommandRegister:
		return Register{}, nil
	case radio.CommandRegistrationData:
		return RegistrationData{}, nil
	case radio.CommandStatus:
		return Status{}, nil
	case radio.CommandLocation:
		return Location{}, nil
	case radio.CommandAlert:
		return Alert{}, nil
	default:
		return nil, fmt.Errorf("payload: no payload registered for command %s", command)
	}
}

// Decode parses data (exactly header.Size bytes) into the payload type for
// command. Under/over-length data is a decode error.
func Decode(command radio.Command, data []byte) (Payload, error) {
	switch command {
	case radio.CommandPing, radio.CommandConfirm:
		return decodeEmpty(data)
	case radio.CommandReject:
		return decodeReject(data)
	case radio.CommandRegister:
		return decodeRegister(data)
	case radio.CommandRegistrationData:
		return decodeRegistrationData(data)
	case radio.CommandStatus:
		return decodeStatus(data)
	case radio.CommandLocation:
		return decodeLocation(data)
	case radio.CommandAlert:
		return decodeAlert(data)
	default:
		return nil, fmt.Errorf("payload: no payload registered for command %s", command)
	}
}
