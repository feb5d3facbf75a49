package radio

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed, wire-exact size of an encoded Header in bytes.
const HeaderSize = 14

// Header is the fixed 14-byte, big-endian frame header shared by every
// on-air packet.
type Header struct {
	Command   Command
	Size      uint8
	PacketID  uint16
	Repeat    uint8
	Transport TransportType
	Origin    MAC
	Target    MAC
}

// Equal compares headers the way Packet equality is defined: every field
// except Size, which is derived from the payload's encoded length rather
// than being independent state, so it is left to payload comparison.
func (h Header) Equal(o Header) bool {
	return h.Command == o.Command &&
		h.PacketID == o.PacketID &&
		h.Repeat == o.Repeat &&
		h.Transport == o.Transport &&
		h.Origin == o.Origin &&
		h.Target == o.Target
}

func (h Header) String() string {
	return fmt.Sprintf("%s #%d r%d %s 0x%X -> 0x%X", h.Command, h.PacketID, h.Repeat, h.Transport, h.Origin, h.Target)
}

// Encode serialises the header to exactly HeaderSize bytes.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = uint8(h.Command)
	buf[1] = h.Size
	binary.BigEndian.PutUint16(buf[2:4], h.PacketID)
	buf[4] = h.Repeat
	buf[5] = uint8(h.Transport)
	binary.BigEndian.PutUint32(buf[6:10], uint32(h.Origin))
	binary.BigEndian.PutUint32(buf[10:14], uint32(h.Target))
	return buf
}

// DecodeHeader parses the first HeaderSize bytes of data into a Header. It
// validates the command and transport discriminants but does not check
// Size against the remaining buffer length — that is a packet-level
// concern.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("radio: header too small (have %d, need %d)", len(data), HeaderSize)
	}

	cmd := Command(data[0])
	if !cmd.Valid() {
		return Header{}, fmt.Errorf("radio: unknown command %d", data[0])
	}

	transport := TransportType(data[5])
	if !transport.Valid() {
		return Header{}, fmt.Errorf("radio: unknown transport %d", data[5])
	}

	return Header{
		Command:   cmd,
		Size:      data[1],
		PacketID:  binary.BigEndian.Uint16(data[2:4]),
		Repeat:    data[4],
		Transport: transport,
		Origin:    MAC(binary.BigEndian.Uint32(data[6:10])),
		Target:    MAC(binary.BigEndian.Uint32(data[10:14])),
	}, nil
}
