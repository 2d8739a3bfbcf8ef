// Command deals-worker runs the deal ingestion pipeline on a 5-minute
// cadence, writes canonical deal documents to the analytics store, and
// emits deal.events to the message bus.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iaros/concierge/internal/bus"
	"github.com/iaros/concierge/internal/config"
	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/pipeline"
	"github.com/iaros/concierge/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Service:     "deals-worker",
		Environment: cfg.Environment,
		Format:      cfg.Logging.Format,
	})
	logging.InitGlobal(logger)

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var producer *bus.Producer
	if err := bus.ConnectWithRetry(ctx, cfg.Bus.BootstrapServers, logger); err != nil {
		logger.WithError(err).Warn("bus unreachable at startup, ticks will silently drop emitted events")
	} else {
		producer = bus.NewProducer(cfg.Bus.BootstrapServers, cfg.Bus.DealsTopic, logger)
		defer producer.Close()
	}

	sources := pipeline.Sources{
		AirbnbListingsPath: os.Getenv("CONCIERGE_AIRBNB_LISTINGS_CSV"),
		FlightPricesPath:   os.Getenv("CONCIERGE_FLIGHT_PRICES_CSV"),
		HotelBookingsPath:  os.Getenv("CONCIERGE_HOTEL_BOOKINGS_CSV"),
	}

	p := pipeline.New(st, noopOnNilProducer(producer), sources, logger)
	cronHandle := p.Start(ctx)
	defer cronHandle.Stop()

	logger.Info("deals-worker running ingestion pipeline every 5 minutes")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down deals-worker")
}

// noopOnNilProducer returns a Publisher that silently drops events when
// the bus was unreachable at startup, so a tick still runs end to end
// without a live bus connection.
func noopOnNilProducer(p *bus.Producer) pipeline.Publisher {
	if p != nil {
		return p
	}
	return droppingPublisher{}
}

type droppingPublisher struct{}

func (droppingPublisher) Publish(_ context.Context, _ models.DealEvent) error {
	return nil
}
