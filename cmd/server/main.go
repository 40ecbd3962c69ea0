/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the building console server, and offers a few
  offline commands against the same database.

COMMANDS:
  serve    HTTP API server (default when no command is given)
  events   Print derived calendar events as JSON
  report   Write the monthly Excel report to a file

STARTUP SEQUENCE (serve):
  1. Load config from the environment, apply flag overrides
  2. Build the zap logger
  3. Parse the building definition (file or built-in demo)
  4. Open SQLite and restore the persisted snapshot
  5. Start chi router with graceful shutdown

FLAGS:
  --port        HTTP server port (PORT)
  --db          SQLite database path, ":memory:" for ephemeral (DB_PATH)
  --building    Building definition JSON (BUILDING_FILE)
  --log-level   debug|info|warn|error (LOG_LEVEL)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Snapshot persistence
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/building-console/api"
	"github.com/warp/building-console/building"
	"github.com/warp/building-console/calendar"
	"github.com/warp/building-console/config"
	"github.com/warp/building-console/factory"
	"github.com/warp/building-console/logging"
	"github.com/warp/building-console/report"
	"github.com/warp/building-console/store/sqlite"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// options are the flag overrides shared by every command.
type options struct {
	port     int
	dbPath   string
	building string
	logLevel string
}

func newRootCommand() *cobra.Command {
	var opts options

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), c, opts)
		},
	}

	root := &cobra.Command{
		Use:          "console",
		Short:        "Building management console: floors, viewings, applications and calendar",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().IntVar(&opts.port, "port", 0, "HTTP server port (overrides PORT)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides DB_PATH)")
	root.PersistentFlags().StringVar(&opts.building, "building", "", "Building definition JSON file (overrides BUILDING_FILE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(serve, newEventsCommand(&opts), newReportCommand(&opts))
	return root
}

// =============================================================================
// SHARED SETUP
// =============================================================================

type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *sqlite.Store
	store  *building.Store
}

func (a *app) Close() {
	a.db.Close()
	a.logger.Sync()
}

func setup(ctx context.Context, opts options) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.building != "" {
		cfg.BuildingFile = opts.building
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "building-console")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	f := factory.NewBuildingFactory()
	b, floors, err := f.ParseBuilding(factory.DefaultBuildingJSON)
	if cfg.BuildingFile != "" {
		b, floors, err = f.LoadFile(cfg.BuildingFile)
	}
	if err != nil {
		return nil, fmt.Errorf("load building: %w", err)
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	store, err := building.Open(ctx, b, floors,
		building.WithPersister(db),
		building.WithClock(cfg.Clock()),
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	fields := []zap.Field{
		zap.String("building", store.Building().Name),
		zap.Int("floors", len(store.Floors())),
		zap.String("db", cfg.DBPath),
		zap.String("timezone", cfg.Timezone),
	}
	if savedAt, ok, err := db.SavedAt(ctx, building.SnapshotKey); err != nil {
		logger.Warn("snapshot timestamp unavailable", zap.Error(err))
	} else if ok {
		fields = append(fields, zap.Time("restored_from", savedAt))
	}
	logger.Info("store ready", fields...)
	return &app{cfg: cfg, logger: logger, db: db, store: store}, nil
}

// =============================================================================
// SERVE
// =============================================================================

func runServe(ctx context.Context, c *cobra.Command, opts options) error {
	a, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := api.NewHandler(a.store, a.logger,
		api.WithSlots(building.HourlySlots(a.cfg.SlotStartHour, a.cfg.SlotEndHour)),
		api.WithClock(a.cfg.Clock()),
	)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Port),
		Handler:      api.NewRouter(handler, a.cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}

// =============================================================================
// OFFLINE COMMANDS
// =============================================================================

func newEventsCommand(opts *options) *cobra.Command {
	var year, month int
	var date string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print calendar events for a month (or one --date) as JSON",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := setup(c.Context(), *opts)
			if err != nil {
				return err
			}
			defer a.Close()

			now := a.cfg.Clock()
			events := calendar.NewTransformer(now).All(a.store.Snapshot())
			if date != "" {
				d, err := building.ParseDate(date)
				if err != nil {
					return err
				}
				events = calendar.EventsForDay(events, d)
			} else {
				y, m := resolveMonth(now(), year, month)
				events = calendar.EventsForMonth(events, y, m)
			}

			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default current)")
	cmd.Flags().StringVar(&date, "date", "", "Single day YYYY-MM-DD")
	return cmd
}

func newReportCommand(opts *options) *cobra.Command {
	var year, month int
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the floor roster and month events to an .xlsx file",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := setup(c.Context(), *opts)
			if err != nil {
				return err
			}
			defer a.Close()

			now := a.cfg.Clock()
			y, m := resolveMonth(now(), year, month)
			snap := a.store.Snapshot()
			data, err := report.Generate(report.Input{
				Snapshot: snap,
				Events:   calendar.NewTransformer(now).All(snap),
				Year:     y,
				Month:    m,
			})
			if err != nil {
				return err
			}
			if out == "" {
				out = report.Filename(snap.Building.ID, y, m)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			a.logger.Info("report written", zap.String("path", out))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default current)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default <building>-<yyyy>-<mm>.xlsx)")
	return cmd
}

func resolveMonth(now time.Time, year, month int) (int, time.Month) {
	y, m := now.Year(), now.Month()
	if year > 0 {
		y = year
	}
	if month >= 1 && month <= 12 {
		m = time.Month(month)
	}
	return y, m
}
