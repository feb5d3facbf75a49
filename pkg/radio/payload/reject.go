package payload

import "fmt"

// RejectSize is the fixed encoded size of a Reject payload.
const RejectSize = 1

// Reject is the REJECT payload: a single opaque reason byte. Reason 0 is
// used throughout the Network state machine for "registration not
// accepted"; no other reason codes are defined by this protocol revision.
type Reject struct {
	Reason uint8
}

func (r Reject) Size() int { return RejectSize }

func (r Reject) Encode() []byte {
	return []byte{r.Reason}
}

func decodeReject(data []byte) (Reject, error) {
	if len(data) != RejectSize {
		return Reject{}, fmt.Errorf("payload: REJECT wants %d bytes, got %d", RejectSize, len(data))
	}
	return Reject{Reason: data[0]}, nil
}
