package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"example.com/workoutmap/internal/config"
	"example.com/workoutmap/internal/geo"
	"example.com/workoutmap/internal/persistence"
	"example.com/workoutmap/internal/persistence/memory"
	"example.com/workoutmap/internal/persistence/postgres"
	"example.com/workoutmap/internal/publisher"
	"example.com/workoutmap/internal/workout"
)

// openStore returns the configured key-value store and a func releasing it.
func openStore(ctx context.Context, cfg config.Config) (persistence.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		store := postgres.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newProvider(cfg config.Config) (geo.Provider, error) {
	switch cfg.GeoProvider {
	case config.GeoStatic:
		return geo.StaticProvider{Coords: workout.Coordinates{Lat: cfg.GeoLat, Lng: cfg.GeoLng}}, nil
	case config.GeoHTTP:
		return geo.NewHTTPProvider(cfg.GeoURL, cfg.HTTPTimeout), nil
	default:
		return nil, fmt.Errorf("unknown geo provider %q", cfg.GeoProvider)
	}
}

// newPublisher returns a Kafka publisher, or a no-op one when no brokers are configured.
func newPublisher(cfg config.Config) (publisher.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return publisher.Noop{}, func() {}
	}
	producer := publisher.NewKafkaProducer(cfg.KafkaBrokers)
	return publisher.NewKafkaPublisher(producer, cfg.EventsTopic), func() {
		if err := producer.Close(); err != nil {
			log.Warn().Err(err).Msg("close kafka producer")
		}
	}
}
