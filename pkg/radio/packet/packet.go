// Package packet assembles and tears down on-air frames: header, payload,
// CRC, and the salted-XOR obfuscation layer, plus the process-wide packet
// id counter every sender draws from.
package packet

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/maxrt101/life-monitor/pkg/radio"
	"github.com/maxrt101/life-monitor/pkg/radio/payload"
)

// saltSize is the length of the two random salt bytes Encrypt prefixes to
// every on-air frame (radio.Encrypt).
const saltSize = 2

// MinSize and MaxSize bound a legal on-air frame as it appears on the
// wire: salt + header + CRC at minimum, 64 bytes at most.
const (
	MinSize = saltSize + radio.HeaderSize + radio.CRCSize
	MaxSize = 64
)

// packetIDCounter is the process-wide monotonically increasing counter
// every Create call draws from, wrapping at 2^16. It is only ever touched
// by senders running on the radio goroutine, but it is an atomic.Uint32
// so that concurrent senders would still be safe.
var packetIDCounter atomic.Uint32

// NextPacketID returns the next packet id and advances the counter,
// wrapping modulo 2^16.
func NextPacketID() uint16 {
	v := packetIDCounter.Add(1) - 1
	return uint16(v % (1 << 16))
}

// ResetPacketIDForTest rewinds the shared counter to zero. It exists only
// for tests that need deterministic packet ids and must not be called from
// production code.
func ResetPacketIDForTest() {
	packetIDCounter.Store(0)
}

// Packet is the decoded (plaintext-domain) representation of a frame:
// header, typed payload, and the key it was (or will be) obfuscated with.
type Packet struct {
	Header  radio.Header
	Payload payload.Payload
	Key     radio.Key
}

// Equal compares two packets over command, packet id, repeat, transport,
// origin, target, and payload fields — never CRC or salt, since those
// are wire-only artifacts.
func (p Packet) Equal(o Packet) bool {
	if !p.Header.Equal(o.Header) {
		return false
	}
	return payloadBytesEqual(p.Payload, o.Payload)
}

func payloadBytesEqual(a, b payload.Payload) bool {
	ab, bb := a.Encode(), b.Encode()
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}

func (p Packet) String() string {
	return fmt.Sprintf("%s: %v", p.Header, p.Payload)
}

// Create allocates a fresh packet id, zero-initialises repeat, and binds
// payload to command — the payload's concrete type must match command or
// Encode will panic via payload mismatch at send time.
func Create(command radio.Command, transport radio.TransportType, origin, target radio.MAC, key radio.Key, p payload.Payload) Packet {
	return Packet{
		Header: radio.Header{
			Command:   command,
			Size:      uint8(p.Size()),
			PacketID:  NextPacketID(),
			Repeat:    0,
			Transport: transport,
			Origin:    origin,
			Target:    target,
		},
		Payload: p,
		Key:     key,
	}
}

// Encode produces header‖payload‖CRC16 and obfuscates the whole buffer with
// key, prefixing the two salt bytes. It panics if the payload's concrete
// type is not the one payload.New returns for the header's command — a
// programmer error, not a wire error, so it is not returned as one.
func (p Packet) Encode(key radio.Key) []byte {
	expected, err := payload.New(p.Header.Command)
	if err != nil {
		panic(fmt.Sprintf("packet: %v", err))
	}
	if reflect.TypeOf(expected) != reflect.TypeOf(p.Payload) {
		panic(fmt.Sprintf("packet: command %s does not match payload type %T", p.Header.Command, p.Payload))
	}

	h := p.Header
	h.Size = uint8(p.Payload.Size())

	buf := append(h.Encode(), p.Payload.Encode()...)
	crc := radio.CRC16(buf)
	buf = append(buf, byte(crc>>8), byte(crc))

	return radio.Encrypt(buf, key)
}

// Decode enforces the [MinSize,MaxSize] bound, decrypts with key, checks
// the CRC, parses the header, and parses exactly header.Size bytes of
// payload. A header.Size that disagrees with the remaining buffer is a
// decode error.
func Decode(data []byte, key radio.Key) (Packet, error) {
	if len(data) < MinSize {
		return Packet{}, fmt.Errorf("packet: too small (min=%d, got=%d)", MinSize, len(data))
	}
	if len(data) > MaxSize {
		return Packet{}, fmt.Errorf("packet: too big (max=%d, got=%d)", MaxSize, len(data))
	}

	plain := radio.Decrypt(data, key)

	if !radio.CRCCheck(plain) {
		return Packet{}, fmt.Errorf("packet: CRC mismatch (expected=%04x actual=%04x)",
			radio.CRCExtract(plain), radio.CRC16(plain[:len(plain)-radio.CRCSize]))
	}

	header, err := radio.DecodeHeader(plain)
	if err != nil {
		return Packet{}, err
	}

	payloadBytes := plain[radio.HeaderSize : len(plain)-radio.CRCSize]
	if len(payloadBytes) != int(header.Size) {
		return Packet{}, fmt.Errorf("packet: payload size mismatch (header says %d, got %d)", header.Size, len(payloadBytes))
	}

	p, err := payload.Decode(header.Command, payloadBytes)
	if err != nil {
		return Packet{}, err
	}

	return Packet{Header: header, Payload: p, Key: key}, nil
}
