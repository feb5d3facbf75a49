package payload

import (
	"bytes"
	"fmt"
)

// Location field widths and the fixed total encoded size.
const (
	locationDirSize = 1
	locationValSize = 14
	LocationSize    = (locationDirSize + locationValSize) * 2
)

// Location is a raw NMEA-style GPS fix: direction letter and ASCII
// DDMM.mmmm value for latitude and longitude. The numeric conversion
// (float64(ascii)/100) is left to the persistence boundary — this type
// only carries what was on the wire.
type Location struct {
	LatDir  string
	Lat     string
	LongDir string
	Long    string
}

func (l Location) Size() int { return LocationSize }

func (l Location) Encode() []byte {
	buf := make([]byte, LocationSize)
	copy(buf[0:locationDirSize], l.LatDir)
	copy(buf[locationDirSize:locationDirSize+locationValSize], l.Lat)
	off := locationDirSize + locationValSize
	copy(buf[off:off+locationDirSize], l.LongDir)
	copy(buf[off+locationDirSize:off+locationDirSize+locationValSize], l.Long)
	return buf
}

func decodeLocation(data []byte) (Location, error) {
	if len(data) != LocationSize {
		return Location{}, fmt.Errorf("payload: LOCATION wants %d bytes, got %d", LocationSize, len(data))
	}

	off := locationDirSize + locationValSize
	return Location{
		LatDir:  string(data[0:locationDirSize]),
		Lat:     stripNull(data[locationDirSize : locationDirSize+locationValSize]),
		LongDir: string(data[off : off+locationDirSize]),
		Long:    stripNull(data[off+locationDirSize : off+locationDirSize+locationValSize]),
	}, nil
}

func stripNull(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
