//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/workoutmap/internal/persistence"
	"example.com/workoutmap/internal/workout"
)

func TestStoreRoundTripsWorkoutLog(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("workoutmap"),
		postgrescontainer.WithUsername("workoutmap"),
		postgrescontainer.WithPassword("workoutmap"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	store := NewStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	_, ok, err := store.GetString(ctx, persistence.Key)
	require.NoError(t, err)
	require.False(t, ok)

	clock := func() time.Time { return time.Date(2024, time.June, 2, 7, 0, 0, 0, time.UTC) }
	records := []workout.Record{
		workout.NewRunning(clock, workout.Coordinates{Lat: 10, Lng: 20}, 5, 30, 150),
	}

	adapter := persistence.NewAdapter(store, zerolog.Nop())
	require.NoError(t, adapter.Save(ctx, records))
	require.NoError(t, adapter.Save(ctx, records))

	loaded, err := adapter.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, records, loaded)

	require.NoError(t, adapter.Clear(ctx))
	loaded, err = adapter.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(500 * time.Millisecond)
	}
}
