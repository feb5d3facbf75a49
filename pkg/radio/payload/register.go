package payload

import "fmt"

// RegisterSize is the fixed encoded size of a Register payload.
const RegisterSize = 4

// Register is the REGISTER payload a device broadcasts, encrypted with the
// default key, when its registration button is held: hardware revision and
// semantic firmware version.
type Register struct {
	HWVersion  uint8
	SWMajor    uint8
	SWMinor    uint8
	SWPatch    uint8
}

func (r Register) Size() int { return RegisterSize }

func (r Register) Encode() []byte {
	return []byte{r.HWVersion, r.SWMajor, r.SWMinor, r.SWPatch}
}

// Version formats the device version string as "{hw}.{maj}.{min}.{patch}",
// the exact form persisted as Device.Version.
func (r Register) Version() string {
	return fmt.Sprintf("%d.%d.%d.%d", r.HWVersion, r.SWMajor, r.SWMinor, r.SWPatch)
}

func decodeRegister(data []byte) (Register, error) {
	if len(data) != RegisterSize {
		return Register{}, fmt.Errorf("payload: REGISTER wants %d bytes, got %d", RegisterSize, len(data))
	}
	return Register{
		HWVersion: data[0],
		SWMajor:   data[1],
		SWMinor:   data[2],
		SWPatch:   data[3],
	}, nil
}
