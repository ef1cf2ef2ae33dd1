package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDRESS", "STORE_DRIVER", "GEO_PROVIDER", "MAP_ZOOM", "TILE_URL", "KAFKA_BROKERS", "EVENTS_TOPIC"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, GeoStatic, cfg.GeoProvider)
	require.Equal(t, 13, cfg.MapZoom)
	require.Equal(t, DefaultTileURL, cfg.TileURL)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "workout_events", cfg.EventsTopic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("GEO_LAT", "10.5")
	t.Setenv("GEO_LNG", "not-a-number")
	t.Setenv("HTTP_TIMEOUT", "750ms")
	t.Setenv("MAP_ZOOM", "15")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")

	cfg := Load()
	require.Equal(t, StorePostgres, cfg.StoreDriver)
	require.Equal(t, 10.5, cfg.GeoLat)
	require.Equal(t, -0.09, cfg.GeoLng)
	require.Equal(t, 750*time.Millisecond, cfg.HTTPTimeout)
	require.Equal(t, 15, cfg.MapZoom)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}
