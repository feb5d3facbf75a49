package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxrt101/life-monitor/pkg/commandqueue"
	"github.com/maxrt101/life-monitor/pkg/config"
	"github.com/maxrt101/life-monitor/pkg/network"
	"github.com/maxrt101/life-monitor/pkg/persistence"
	"github.com/maxrt101/life-monitor/pkg/radio/driver"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("Starting life-monitor station")
	log.Printf("Station MAC: 0x%X", cfg.StationMAC)
	log.Printf("Radio driver: %s", cfg.Driver)
	log.Printf("Redis address: %s", cfg.RedisAddr)

	store, err := persistence.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to Redis")

	if err := store.EnsureDefaultUser(); err != nil {
		log.Printf("Warning: failed to ensure default user: %v", err)
	}

	radioDriver, err := newDriver(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize radio driver: %v", err)
	}
	if closer, ok := radioDriver.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	net := network.New(radioDriver, store, cfg.StationMAC, cfg.NetKey, cfg.DefaultKey,
		cfg.RegistrationDuration, cfg.ListenDuration)

	queue := commandqueue.New(16)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	stopCh := make(chan struct{})

	go func() {
		<-sigCh
		log.Printf("Shutting down...")
		close(stopCh)
	}()

	log.Printf("Entering radio loop")
	for {
		net.Cycle(queue)

		select {
		case <-stopCh:
			log.Printf("Radio loop stopped")
			return
		case <-time.After(cfg.CyclePeriod):
		}
	}
}

// newDriver selects the configured radio transport. "mock" is intended for
// development and tests driven from elsewhere in the process; "sx1278" is
// the real transceiver.
func newDriver(cfg config.Config) (driver.Driver, error) {
	switch cfg.Driver {
	case "mock":
		return driver.NewMock(), nil
	case "sx1278":
		return driver.NewSX1278(driver.SX1278Config{
			SPIDev:   cfg.SX1278SPIDev,
			ResetPin: cfg.SX1278ResetPin,
		})
	default:
		log.Fatalf("Unknown radio driver %q", cfg.Driver)
		return nil, nil
	}
}
