package payload

import (
	"encoding/binary"
	"fmt"

	"github.com/maxrt101/life-monitor/pkg/radio"
)

// RegistrationDataSize is the fixed encoded size of a RegistrationData payload.
const RegistrationDataSize = 4 + radio.KeySize

// RegistrationData is the station's reply to REGISTER: its own MAC and the
// network key the device should adopt for all subsequent traffic.
type RegistrationData struct {
	StationMAC radio.MAC
	NetKey     radio.Key
}

func (r RegistrationData) Size() int { return RegistrationDataSize }

func (r RegistrationData) Encode() []byte {
	buf := make([]byte, RegistrationDataSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(r.StationMAC))
	copy(buf[4:], r.NetKey[:])
	return buf
}

func decodeRegistrationData(data []byte) (RegistrationData, error) {
	if len(data) != RegistrationDataSize {
		return RegistrationData{}, fmt.Errorf("payload: REGISTRATION_DATA wants %d bytes, got %d", RegistrationDataSize, len(data))
	}
	var r RegistrationData
	r.StationMAC = radio.MAC(binary.BigEndian.Uint32(data[0:4]))
	copy(r.NetKey[:], data[4:])
	return r, nil
}
