package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"example.com/workoutmap/internal/api"
	"example.com/workoutmap/internal/config"
	"example.com/workoutmap/internal/consumer"
	"example.com/workoutmap/internal/controller"
	"example.com/workoutmap/internal/events"
	"example.com/workoutmap/internal/export"
	"example.com/workoutmap/internal/mapview"
	"example.com/workoutmap/internal/persistence"
	httptransport "example.com/workoutmap/internal/transport/http"
	"example.com/workoutmap/internal/view"
)

func serve(c *cli.Context) error {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	pub, closePub := newPublisher(cfg)
	defer closePub()

	canvas := mapview.NewCanvas()
	htmlView := view.NewHTMLView()
	ctrl := controller.New(provider, canvas, persistence.NewAdapter(store, log.Logger), htmlView,
		controller.WithLogger(log.Logger.With().Str("component", "controller").Logger()),
		controller.WithPublisher(pub),
		controller.WithZoom(cfg.MapZoom),
		controller.WithTiles(cfg.TileURL, ""),
	)

	router := mux.NewRouter()
	api.NewHandler(ctrl, canvas, htmlView).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	handler := httptransport.RequestLogger(log.Logger)(httptransport.CORS(c.String("cors-origin"))(router))
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, handler)

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		log.Info().Str("address", cfg.HTTPAddress).Str("store", cfg.StoreDriver).Msg("serving")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return grp.Wait()
}

func reset(c *cli.Context) error {
	cfg := config.Load()
	store, closeStore, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	adapter := persistence.NewAdapter(store, log.Logger)
	records, err := adapter.Load(c.Context)
	if err != nil {
		return err
	}
	if err := adapter.Clear(c.Context); err != nil {
		return err
	}

	pub, closePub := newPublisher(cfg)
	defer closePub()
	if err := pub.LogCleared(c.Context, events.NewLogCleared(len(records), time.Now())); err != nil {
		log.Warn().Err(err).Msg("publish log cleared")
	}
	log.Info().Int("removed", len(records)).Msg("workout log cleared")
	return nil
}

func exportLog(c *cli.Context) error {
	cfg := config.Load()
	store, closeStore, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	records, err := persistence.NewAdapter(store, log.Logger).Load(c.Context)
	if err != nil {
		return err
	}

	out := c.String("out")
	fp, err := os.Create(out)
	if err != nil {
		return err
	}
	defer fp.Close()

	if err := export.Write(fp, records); err != nil {
		return fmt.Errorf("export %s: %w", out, err)
	}
	log.Info().Str("file", out).Int("workouts", len(records)).Msg("exported")
	return nil
}

func follow(c *cli.Context) error {
	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required to follow events")
	}
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.ConsumerGroupID,
		Topic:          cfg.EventsTopic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	handler := consumer.NewLogHandler(log.Logger)
	proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(log.Logger))

	log.Info().Str("topic", cfg.EventsTopic).Str("group", cfg.ConsumerGroupID).Msg("following")
	err := proc.Run(ctx)

	tally := handler.Tally()
	log.Info().
		Int("running", tally.Logged["running"]).
		Int("cycling", tally.Logged["cycling"]).
		Int("cleared", tally.Cleared).
		Msg("follow stopped")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:     "workoutmap",
		HelpName: "workoutmap",
		Usage:    "Log runs and rides on a map",
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			log.Error().Err(err).Msg(c.App.Name)
		},
		Before: func(c *cli.Context) error {
			level, err := zerolog.ParseLevel(config.Load().LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			zerolog.SetGlobalLevel(level)
			zerolog.DurationFieldUnit = time.Millisecond
			zerolog.DurationFieldInteger = false
			log.Logger = log.Output(
				zerolog.ConsoleWriter{
					Out:        c.App.ErrWriter,
					NoColor:    false,
					TimeFormat: time.RFC3339,
				},
			)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the workout map API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "cors-origin",
						Value:   "http://localhost:5173",
						Usage:   "origin allowed to call the API from a browser",
						EnvVars: []string{"CORS_ORIGIN"},
					},
				},
				Action: serve,
			},
			{
				Name:   "reset",
				Usage:  "remove the persisted workout log",
				Action: reset,
			},
			{
				Name:  "export",
				Usage: "write the persisted workout log to a spreadsheet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Value: "workouts.xlsx",
						Usage: "output file",
					},
				},
				Action: exportLog,
			},
			{
				Name:   "follow",
				Usage:  "log workout events as they are published",
				Action: follow,
			},
		},
	}
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
