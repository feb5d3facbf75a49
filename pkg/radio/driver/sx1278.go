package driver

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SX1278 register addresses used by this driver. Naming and the register
// map itself follow the common Semtech SX127x layout (grounded on
// _examples/other_examples/.../sx1276.go and _examples/michcald-nrf24's
// periph.io adapter for the SPI/GPIO wiring style).
const (
	regFIFO        = 0x00
	regOpMode      = 0x01
	regFrfMSB      = 0x06
	regFrfMID      = 0x07
	regFrfLSB      = 0x08
	regPAConfig    = 0x09
	regPADAC       = 0x4D
	regFIFOAddrPtr = 0x0D
	regFIFOTxBase  = 0x0E
	regFIFORxBase  = 0x0F
	regFIFORxCurr  = 0x10
	regIRQFlags    = 0x12
	regRxNbBytes   = 0x13
	regPayloadLen  = 0x22
	regVersion     = 0x42

	opModeLongRangeMode = 0x80
	opModeSleep         = 0x00
	opModeStandby       = 0x01
	opModeTx            = 0x03
	opModeRxContinuous  = 0x05

	irqTxDoneMask = 0x08
	irqRxDoneMask = 0x40

	writeBit = 0x80
)

// MaxPA is the maximum output power, in dBm, the SX1278 driver configures
// the radio to transmit at.
const MaxPA = 20

// fstep is the synthesizer step size in Hz: FXOSC/2^19, per the SX127x
// datasheet's Frf register definition.
const fstep = 32000000.0 / 524288.0

// defaultFrequencyHz is the carrier frequency used when SX1278Config does
// not specify one: the 433 MHz ISM band, a common choice for this module.
const defaultFrequencyHz = 433_000_000

// txBaseAddr and rxBaseAddr are the fixed FIFO base addresses this driver
// programs at init, splitting the 256-byte FIFO in half between TX and RX.
const (
	txBaseAddr = 0x80
	rxBaseAddr = 0x00
)

// pollInterval is how often Recv polls the IRQ flags register while
// waiting for RxDone; the real hardware would normally be wired to an
// interrupt-capable GPIO (DIO0), but polling keeps this driver usable on
// boards where that pin is not broken out.
const pollInterval = 2 * time.Millisecond

// SX1278 drives a Semtech SX1278 LoRa transceiver over SPI via periph.io.
type SX1278 struct {
	mu sync.Mutex

	port  spi.PortCloser
	conn  spi.Conn
	reset gpio.PinIO

	lastError string
}

// SX1278Config names the SPI bus and optional reset GPIO pin.
type SX1278Config struct {
	// SPIDev is the SPI bus device path, e.g. "/dev/spidev0.0".
	SPIDev string
	// ResetPin is the GPIO pin name (periph.io naming, e.g. "GPIO25") wired
	// to the module's RESET line. Optional; skipped if empty.
	ResetPin string
	// ClockHz is the SPI clock frequency; defaults to 1MHz if zero.
	ClockHz int
	// FrequencyHz is the carrier frequency; defaults to 433 MHz if zero.
	FrequencyHz int
}

// NewSX1278 opens the SPI bus, resets and configures the transceiver for
// max output power, and returns a ready Driver.
func NewSX1278(cfg SX1278Config) (*SX1278, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("sx1278: periph.io host init: %w", err)
	}

	port, err := spireg.Open(cfg.SPIDev)
	if err != nil {
		return nil, fmt.Errorf("sx1278: open SPI port %s: %w", cfg.SPIDev, err)
	}

	clock := cfg.ClockHz
	if clock == 0 {
		clock = 1_000_000
	}

	conn, err := port.Connect(physic.Frequency(clock)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("sx1278: connect SPI: %w", err)
	}

	d := &SX1278{port: port, conn: conn}

	if cfg.ResetPin != "" {
		pin := gpioreg.ByName(cfg.ResetPin)
		if pin == nil {
			port.Close()
			return nil, fmt.Errorf("sx1278: reset pin %s not found", cfg.ResetPin)
		}
		d.reset = pin
		d.hardwareReset()
	}

	if err := d.setMode(opModeLongRangeMode | opModeStandby); err != nil {
		port.Close()
		return nil, err
	}

	freq := cfg.FrequencyHz
	if freq == 0 {
		freq = defaultFrequencyHz
	}
	d.setFrequency(freq)

	d.writeReg(regFIFOTxBase, txBaseAddr)
	d.writeReg(regFIFORxBase, rxBaseAddr)

	d.setPower(MaxPA)

	return d, nil
}

// setFrequency programs the RegFrfMsb/Mid/Lsb triplet from a frequency in
// Hz, per the SX127x datasheet: Frf = freqHz / FSTEP, written MSB-first.
func (d *SX1278) setFrequency(freqHz int) {
	frf := uint32(float64(freqHz) / fstep)
	d.writeReg(regFrfMSB, byte(frf>>16))
	d.writeReg(regFrfMID, byte(frf>>8))
	d.writeReg(regFrfLSB, byte(frf))
}

func (d *SX1278) hardwareReset() {
	_ = d.reset.Out(gpio.Low)
	time.Sleep(1 * time.Millisecond)
	_ = d.reset.Out(gpio.High)
	time.Sleep(5 * time.Millisecond)
}

func (d *SX1278) readReg(addr byte) byte {
	w := []byte{addr &^ writeBit, 0x00}
	r := make([]byte, 2)
	_ = d.conn.Tx(w, r)
	return r[1]
}

func (d *SX1278) writeReg(addr, value byte) {
	w := []byte{addr | writeBit, value}
	r := make([]byte, 2)
	_ = d.conn.Tx(w, r)
}

func (d *SX1278) setMode(mode byte) error {
	d.writeReg(regOpMode, mode)
	return nil
}

// setPower configures PA_BOOST output up to the module's documented
// 20 dBm ceiling, following the +3dB PA_DAC offset trick used by
// other_examples' sx1276 driver for the top power band.
func (d *SX1278) setPower(dBm int) {
	if dBm > 20 {
		dBm = 20
	}
	if dBm >= 18 {
		d.writeReg(regPADAC, 0x07)
		d.writeReg(regPAConfig, 0x80|byte(0xf0+dBm-5))
	} else {
		d.writeReg(regPADAC, 0x04)
		d.writeReg(regPAConfig, 0x80|byte(0xf0+dBm-2))
	}
}

// Send writes data into the FIFO and triggers a transmit. Failures are
// absorbed into lastError rather than returned, per the Driver contract.
func (d *SX1278) Send(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(data) > 255 {
		d.lastError = fmt.Sprintf("sx1278: payload too large for FIFO (%d bytes)", len(data))
		return
	}

	d.writeReg(regFIFOAddrPtr, d.readReg(regFIFOTxBase))
	d.writeReg(regPayloadLen, byte(len(data)))

	w := append([]byte{regFIFO | writeBit}, data...)
	r := make([]byte, len(w))
	if err := d.conn.Tx(w, r); err != nil {
		d.lastError = fmt.Sprintf("sx1278: FIFO write: %v", err)
		return
	}

	d.writeReg(regIRQFlags, 0xff)
	if err := d.setMode(opModeLongRangeMode | opModeTx); err != nil {
		d.lastError = err.Error()
		return
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.readReg(regIRQFlags)&irqTxDoneMask != 0 {
			d.writeReg(regIRQFlags, 0xff)
			return
		}
		time.Sleep(pollInterval)
	}
	d.lastError = "sx1278: TxDone timeout"
}

// Recv puts the radio in continuous-receive mode and polls the IRQ flags
// register for RxDone up to timeout, returning nil on timeout.
func (d *SX1278) Recv(timeout time.Duration) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.writeReg(regIRQFlags, 0xff)
	if err := d.setMode(opModeLongRangeMode | opModeRxContinuous); err != nil {
		d.lastError = err.Error()
		return nil
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.readReg(regIRQFlags)&irqRxDoneMask != 0 {
			n := d.readReg(regRxNbBytes)
			d.writeReg(regFIFOAddrPtr, d.readReg(regFIFORxCurr))

			w := make([]byte, int(n)+1)
			w[0] = regFIFO &^ writeBit
			r := make([]byte, len(w))
			if err := d.conn.Tx(w, r); err != nil {
				d.lastError = fmt.Sprintf("sx1278: FIFO read: %v", err)
				return nil
			}

			d.writeReg(regIRQFlags, 0xff)
			return r[1:]
		}
		time.Sleep(pollInterval)
	}

	return nil
}

// LastError returns the most recent failure recorded by Send or Recv.
func (d *SX1278) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

// Close puts the module into sleep mode and releases the SPI port.
func (d *SX1278) Close() error {
	d.mu.Lock()
	_ = d.setMode(opModeLongRangeMode | opModeSleep)
	d.mu.Unlock()
	return d.port.Close()
}

// Version reads the SX1278 silicon version register, useful for a startup
// sanity check that the SPI wiring is correct.
func (d *SX1278) Version() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readReg(regVersion)
}
