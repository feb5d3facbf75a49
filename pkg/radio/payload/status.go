package payload

import (
	"fmt"

	"github.com/maxrt101/life-monitor/pkg/radio"
)

// StatusSize is the fixed encoded size of a Status payload.
const StatusSize = 6

// Status is a device's periodic health telemetry: sensor-failure flags,
// the reason for its last reset, CPU temperature, and pulse readings.
type Status struct {
	Flags       uint8
	ResetReason radio.ResetReason
	ResetCount  uint8
	CPUTemp     int8
	BPM         uint8
	AvgBPM      uint8
}

func (s Status) Size() int { return StatusSize }

func (s Status) Encode() []byte {
	return []byte{
		s.Flags,
		uint8(s.ResetReason),
		s.ResetCount,
		byte(s.CPUTemp),
		s.BPM,
		s.AvgBPM,
	}
}

func decodeStatus(data []byte) (Status, error) {
	if len(data) != StatusSize {
		return Status{}, fmt.Errorf("payload: STATUS wants %d bytes, got %d", StatusSize, len(data))
	}

	reason := radio.ResetReason(data[1])
	if !reason.Valid() {
		return Status{}, fmt.Errorf("payload: invalid reset reason %d", data[1])
	}

	return Status{
		Flags:       data[0],
		ResetReason: reason,
		ResetCount:  data[2],
		CPUTemp:     int8(data[3]),
		BPM:         data[4],
		AvgBPM:      data[5],
	}, nil
}
