package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pretzelday/daylog/internal/config"
	"github.com/pretzelday/daylog/internal/device"
	"github.com/pretzelday/daylog/internal/logbook"
	"github.com/pretzelday/daylog/internal/mirror"
	"github.com/pretzelday/daylog/internal/remote"
)

var rootCmd = &cobra.Command{
	Use:   "daylog",
	Short: "Household activity logger",
	Long: `daylog records who did what today. Submissions within fifteen minutes
of the same subject's latest entry merge into it; everything syncs through a
syncd server when one is reachable and falls back to a local mirror when not.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editTimeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deleteActivityCmd)
	rootCmd.AddCommand(watchCmd)
}

// app wires the client-side collaborators for one invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	deviceID string
	client   *remote.Client
	mir      *mirror.Store
	store    *logbook.Store
}

func newApp(opts ...logbook.Option) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	deviceID, err := device.Identity(cfg.Client.StateDir)
	if err != nil {
		return nil, fmt.Errorf("device identity: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		deviceID: deviceID,
		mir:      mirror.New(cfg.Client.MirrorPath(), logger),
	}
	var rs logbook.RemoteStore
	if cfg.Client.RemoteURL != "" {
		a.client = remote.NewClient(cfg.Client.RemoteURL, logger)
		rs = a.client
	}
	a.store = logbook.NewStore(deviceID, rs, a.mir, logger, opts...)
	return a, nil
}

// bootstrap seeds the store for a one-shot command: the remote listing when
// the server answers, today's mirror otherwise.
func (a *app) bootstrap(ctx context.Context) {
	dateKey := a.store.DateKey()
	if a.client != nil {
		entries, err := a.client.List(ctx, dateKey)
		if err == nil {
			a.store.Seed(entries)
			return
		}
		a.logger.Warn("remote unreachable, using local mirror", "error", err)
	}
	entries, err := a.mir.Load(dateKey)
	if err != nil {
		a.logger.Warn("mirror load failed, starting empty", "error", err)
		return
	}
	a.store.Seed(entries)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
