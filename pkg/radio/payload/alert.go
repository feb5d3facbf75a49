package payload

import (
	"fmt"

	"github.com/maxrt101/life-monitor/pkg/radio"
)

// AlertSize is the fixed encoded size of an Alert payload.
const AlertSize = 1

// Alert reports a device-side trigger: an abnormal pulse threshold or a
// sudden-movement (fall) detection.
type Alert struct {
	Trigger radio.AlertTrigger
}

func (a Alert) Size() int { return AlertSize }

func (a Alert) Encode() []byte {
	return []byte{uint8(a.Trigger)}
}

func decodeAlert(data []byte) (Alert, error) {
	if len(data) != AlertSize {
		return Alert{}, fmt.Errorf("payload: ALERT wants %d bytes, got %d", AlertSize, len(data))
	}
	trigger := radio.AlertTrigger(data[0])
	if !trigger.Valid() {
		return Alert{}, fmt.Errorf("payload: invalid alert trigger %d", data[0])
	}
	return Alert{Trigger: trigger}, nil
}
