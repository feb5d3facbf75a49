// Package config parses the station's command-line flags into a single
// Config value, using a flat flag.String/flag.Int style.
package config

import (
	"encoding/hex"
	"flag"
	"fmt"
	"time"

	"github.com/maxrt101/life-monitor/pkg/radio"
)

// Config holds everything the station needs to run a radio cycle,
// matching station/config.py's module-level constants one-for-one plus
// the Redis connection flags the station binary adds.
type Config struct {
	StationMAC radio.MAC
	NetKey     radio.Key
	DefaultKey radio.Key

	RegistrationDuration time.Duration
	ListenDuration       time.Duration
	CyclePeriod          time.Duration

	Driver         string
	SX1278SPIDev   string
	SX1278ResetPin string

	RedisAddr string
	RedisPass string
	RedisDB   int
}

// defaultNetKeyHex and defaultDefaultKeyHex mirror station/config.py's
// CONFIG_RADIO_KEY and CONFIG_RADIO_DEFAULT_KEY byte literals.
const (
	defaultStationMAC    = 0xDEADBEEF
	defaultNetKeyHex     = "0102030405060708090a0b0c0d0e0f10"
	defaultDefaultKeyHex = "00000000000000000000000000000000"
)

// Parse reads os.Args via the flag package and returns a populated Config.
// Call flag.Parse is done internally so callers just invoke config.Parse()
// once from main.
func Parse() (Config, error) {
	stationMAC := flag.Uint("station-mac", defaultStationMAC, "this station's radio MAC address")
	netKeyHex := flag.String("net-key", defaultNetKeyHex, "16-byte network key, hex-encoded")
	defaultKeyHex := flag.String("default-key", defaultDefaultKeyHex, "16-byte default (pre-registration) key, hex-encoded")

	registrationSeconds := flag.Int("registration-duration", 10, "seconds a registration window stays open")
	listenMS := flag.Int("listen-ms", 200, "milliseconds the radio listens for a frame each cycle")
	cyclePeriodMS := flag.Int("cycle-period-ms", 500, "extra delay between cycles, in milliseconds")

	driver := flag.String("driver", "mock", `radio driver: "mock" or "sx1278"`)
	sx1278SPIDev := flag.String("sx1278-spidev", "/dev/spidev0.0", "SPI device path for the sx1278 driver")
	sx1278ResetPin := flag.String("sx1278-reset-pin", "", "GPIO pin name wired to the sx1278 RESET line")

	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	redisPass := flag.String("redis-pass", "", "Redis password")
	redisDB := flag.Int("redis-db", 0, "Redis database number")

	flag.Parse()

	netKey, err := parseKey(*netKeyHex)
	if err != nil {
		return Config{}, fmt.Errorf("config: -net-key: %w", err)
	}
	defaultKey, err := parseKey(*defaultKeyHex)
	if err != nil {
		return Config{}, fmt.Errorf("config: -default-key: %w", err)
	}

	return Config{
		StationMAC:           radio.MAC(*stationMAC),
		NetKey:               netKey,
		DefaultKey:           defaultKey,
		RegistrationDuration: time.Duration(*registrationSeconds) * time.Second,
		ListenDuration:       time.Duration(*listenMS) * time.Millisecond,
		CyclePeriod:          time.Duration(*cyclePeriodMS) * time.Millisecond,
		Driver:               *driver,
		SX1278SPIDev:         *sx1278SPIDev,
		SX1278ResetPin:       *sx1278ResetPin,
		RedisAddr:            *redisAddr,
		RedisPass:            *redisPass,
		RedisDB:              *redisDB,
	}, nil
}

func parseKey(s string) (radio.Key, error) {
	var key radio.Key
	b, err := hex.DecodeString(s)
	if err != nil {
		return key, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != radio.KeySize {
		return key, fmt.Errorf("want %d bytes, got %d", radio.KeySize, len(b))
	}
	copy(key[:], b)
	return key, nil
}
