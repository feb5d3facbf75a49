// Package network implements the station's single-instance state machine:
// registration lifecycle, per-command dispatch, and telemetry ingestion
// over a half-duplex radio link, grounded on station/radio/net.py.
package network

import (
	"fmt"
	"log"
	"time"

	"github.com/maxrt101/life-monitor/pkg/persistence"
	"github.com/maxrt101/life-monitor/pkg/radio"
	"github.com/maxrt101/life-monitor/pkg/radio/driver"
	"github.com/maxrt101/life-monitor/pkg/radio/packet"
	"github.com/maxrt101/life-monitor/pkg/radio/payload"
)

// CommandSource is anything the radio loop can non-blockingly drain one
// queued Command from per cycle, non-blocking. commandqueue.Queue
// satisfies this.
type CommandSource interface {
	TryDrain() (Command, bool)
}

// Network is the station's state machine: one registration slot, a radio
// driver, and a persistence connection dedicated to this goroutine.
type Network struct {
	driver driver.Driver
	store  persistence.Store

	stationMAC radio.MAC
	netKey     radio.Key
	defaultKey radio.Key

	registrationDuration time.Duration
	listenDuration       time.Duration

	registration RegistrationContext
}

// New constructs a Network ready to run cycles.
func New(d driver.Driver, store persistence.Store, stationMAC radio.MAC, netKey, defaultKey radio.Key, registrationDuration, listenDuration time.Duration) *Network {
	return &Network{
		driver:               d,
		store:                store,
		stationMAC:           stationMAC,
		netKey:               netKey,
		defaultKey:           defaultKey,
		registrationDuration: registrationDuration,
		listenDuration:       listenDuration,
	}
}

// StartRegistration replaces the registration context unconditionally; no
// concurrency guard is needed because commands and cycles run on the same
// goroutine.
func (n *Network) StartRegistration(name string, devMAC uint32) {
	n.registration = newRegistrationContext(name, devMAC, n.registrationDuration)
	log.Printf("network: starting registration for %q (0x%X) for %s", name, devMAC, n.registrationDuration)
}

// Registration exposes the current registration context, mainly for tests.
func (n *Network) Registration() RegistrationContext {
	return n.registration
}

// Cycle runs one iteration of the radio loop: drain at most one queued
// command, listen once, dispatch if something arrived, then check for
// registration expiry.
func (n *Network) Cycle(commands CommandSource) {
	if commands != nil {
		if cmd, ok := commands.TryDrain(); ok {
			n.handleCommand(cmd)
		}
	}

	if p, ok := n.RecvPacket(n.listenDuration); ok {
		n.dispatch(p)
	}

	if n.registration.InProgress() && n.registration.Expired() {
		log.Printf("network: registration for 0x%X expired", n.registration.DevMAC)
		n.registration = RegistrationContext{}
	}
}

func (n *Network) handleCommand(cmd Command) {
	switch cmd.Kind {
	case CommandKindRegister:
		n.StartRegistration(cmd.Name, cmd.MAC)
	default:
		log.Printf("network: unrecognised command kind %q, ignoring", cmd.Kind)
	}
}

// RecvPacket blocks up to timeout for a frame and tries to parse it first
// with the network key, then with the default key, matching the original's
// two-key retry order.
func (n *Network) RecvPacket(timeout time.Duration) (packet.Packet, bool) {
	raw := n.driver.Recv(timeout)
	if raw == nil {
		return packet.Packet{}, false
	}

	p, err := packet.Decode(raw, n.netKey)
	if err == nil {
		return p, true
	}
	errNetKey := err

	p, err = packet.Decode(raw, n.defaultKey)
	if err == nil {
		return p, true
	}

	log.Printf("network: failed to parse packet: (net key) %v; (default key) %v", errNetKey, err)
	return packet.Packet{}, false
}

func (n *Network) dispatch(p packet.Packet) {
	switch p.Header.Command {
	case radio.CommandPing:
		n.handlePing(p)
	case radio.CommandRegister:
		n.handleRegister(p)
	case radio.CommandStatus:
		n.handleStatus(p)
	case radio.CommandLocation:
		n.handleLocation(p)
	case radio.CommandAlert:
		n.handleAlert(p)
	default:
		log.Printf("network: unexpected command %s from 0x%X, dropping", p.Header.Command, p.Header.Origin)
	}
}

func (n *Network) send(command radio.Command, target radio.MAC, key radio.Key, pl payload.Payload) {
	pkt := packet.Create(command, radio.TransportUnicast, n.stationMAC, target, key, pl)
	n.driver.Send(pkt.Encode(key))
}

func (n *Network) sendConfirm(devMAC radio.MAC, key radio.Key) {
	n.send(radio.CommandConfirm, devMAC, key, payload.Empty{})
}

func (n *Network) sendReject(devMAC radio.MAC, key radio.Key) {
	n.send(radio.CommandReject, devMAC, key, payload.Reject{Reason: 0})
}

func (n *Network) handlePing(p packet.Packet) {
	if p.Header.Target != n.stationMAC {
		log.Printf("network: PING addressed to another node (0x%X), ignoring", p.Header.Target)
		return
	}
	n.sendConfirm(p.Header.Origin, p.Key)
	log.Printf("network: received PING from 0x%X", p.Header.Origin)
}

// handleRegister drives the full handshake described in station/radio/net.py:
// a REGISTER must match an in-flight context, gets a REGISTRATION_DATA
// reply, and the device must confirm with a PING before the station
// persists the device. This is the one place two recvs happen in a single
// cycle.
func (n *Network) handleRegister(p packet.Packet) {
	devMAC := radio.MAC(p.Header.Origin)

	if !n.registration.InProgress() {
		log.Printf("network: received registration from 0x%X, but no registration is in progress; rejecting", devMAC)
		n.sendReject(devMAC, p.Key)
		return
	}

	if uint32(devMAC) != n.registration.DevMAC {
		log.Printf("network: mismatching registration device MACs: 0x%X != 0x%X; rejecting", n.registration.DevMAC, devMAC)
		n.sendReject(devMAC, p.Key)
		return
	}

	reg, ok := p.Payload.(payload.Register)
	if !ok {
		log.Printf("network: REGISTER packet carries wrong payload type %T", p.Payload)
		return
	}

	if _, err := n.store.DeviceGet(uint32(devMAC)); err == nil {
		log.Printf("network: device 0x%X already registered, replacing", devMAC)
		if err := n.store.DeviceDelete(uint32(devMAC)); err != nil {
			log.Printf("network: failed to delete existing device 0x%X: %v", devMAC, err)
		}
	}

	n.send(radio.CommandRegistrationData, devMAC, p.Key, payload.RegistrationData{
		StationMAC: n.stationMAC,
		NetKey:     n.netKey,
	})

	ping, ok := n.RecvPacket(n.listenDuration)
	if !ok {
		log.Printf("network: failed to register 0x%X, no response", devMAC)
		return
	}
	if ping.Header.Command != radio.CommandPing || ping.Header.Origin != devMAC {
		log.Printf("network: failed to register 0x%X, expected PING but got %s", devMAC, ping.Header)
		return
	}

	n.handlePing(ping)

	if err := n.store.DeviceCreate(persistence.Device{
		MAC:     uint32(devMAC),
		Name:    n.registration.Name,
		Version: reg.Version(),
	}); err != nil {
		log.Printf("network: failed to persist device 0x%X: %v", devMAC, err)
		return
	}

	log.Printf("network: registered 0x%X", devMAC)
	n.registration = RegistrationContext{}
}

func (n *Network) handleStatus(p packet.Packet) {
	if p.Header.Target != n.stationMAC {
		log.Printf("network: STATUS addressed to another node (0x%X), ignoring", p.Header.Target)
		return
	}

	st, ok := p.Payload.(payload.Status)
	if !ok {
		log.Printf("network: STATUS packet carries wrong payload type %T", p.Payload)
		return
	}

	if _, err := n.store.DeviceGet(uint32(p.Header.Origin)); err != nil {
		log.Printf("network: failed to save STATUS from 0x%X: %v", p.Header.Origin, err)
		return
	}

	if err := n.store.StatusAppend(persistence.Status{
		DeviceMAC:  uint32(p.Header.Origin),
		Timestamp:  time.Now(),
		Flags:      st.Flags,
		ResetCause: uint8(st.ResetReason),
		ResetCount: st.ResetCount,
		CPUTemp:    st.CPUTemp,
		BPM:        st.BPM,
		AvgBPM:     st.AvgBPM,
	}); err != nil {
		log.Printf("network: failed to save STATUS from 0x%X: %v", p.Header.Origin, err)
		return
	}

	log.Printf("network: received STATUS from 0x%X: %+v", p.Header.Origin, st)
}

func (n *Network) handleLocation(p packet.Packet) {
	if p.Header.Target != n.stationMAC {
		log.Printf("network: LOCATION addressed to another node (0x%X), ignoring", p.Header.Target)
		return
	}

	loc, ok := p.Payload.(payload.Location)
	if !ok {
		log.Printf("network: LOCATION packet carries wrong payload type %T", p.Payload)
		return
	}

	if _, err := n.store.DeviceGet(uint32(p.Header.Origin)); err != nil {
		log.Printf("network: failed to save LOCATION from 0x%X: %v", p.Header.Origin, err)
		return
	}

	lat, err := parseCoordinate(loc.Lat)
	if err != nil {
		log.Printf("network: failed to save LOCATION from 0x%X: %v", p.Header.Origin, err)
		return
	}
	long, err := parseCoordinate(loc.Long)
	if err != nil {
		log.Printf("network: failed to save LOCATION from 0x%X: %v", p.Header.Origin, err)
		return
	}

	if err := n.store.LocationAppend(persistence.Location{
		DeviceMAC: uint32(p.Header.Origin),
		Timestamp: time.Now(),
		LatDir:    loc.LatDir,
		Latitude:  lat,
		LongDir:   loc.LongDir,
		Longitude: long,
	}); err != nil {
		log.Printf("network: failed to save LOCATION from 0x%X: %v", p.Header.Origin, err)
		return
	}

	log.Printf("network: received LOCATION from 0x%X: %+v", p.Header.Origin, loc)
}

func (n *Network) handleAlert(p packet.Packet) {
	if p.Header.Target != n.stationMAC {
		log.Printf("network: ALERT addressed to another node (0x%X), ignoring", p.Header.Target)
		return
	}

	al, ok := p.Payload.(payload.Alert)
	if !ok {
		log.Printf("network: ALERT packet carries wrong payload type %T", p.Payload)
		return
	}

	if _, err := n.store.DeviceGet(uint32(p.Header.Origin)); err != nil {
		log.Printf("network: failed to save ALERT from 0x%X: %v", p.Header.Origin, err)
		return
	}

	if err := n.store.AlertAppend(persistence.Alert{
		DeviceMAC: uint32(p.Header.Origin),
		Timestamp: time.Now(),
		Trigger:   uint8(al.Trigger),
	}); err != nil {
		log.Printf("network: failed to save ALERT from 0x%X: %v", p.Header.Origin, err)
		return
	}

	log.Printf("network: received ALERT from 0x%X: %+v", p.Header.Origin, al)
}

// parseCoordinate converts a raw ASCII LOCATION field to the stored value
// float64(ascii)/100. For an NMEA DDMM.mmmm field this is not decimal
// degrees: the minutes are not converted and no sign is applied.
func parseCoordinate(ascii string) (float64, error) {
	var v float64
	if _, err := fmt.Sscanf(ascii, "%g", &v); err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: %w", ascii, err)
	}
	return v / 100, nil
}
