package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"xpvcc/internal/config"
	"xpvcc/internal/daemon"
	"xpvcc/internal/deps"
	"xpvcc/internal/install"
	"xpvcc/internal/liveness"
	"xpvcc/internal/logging"
	"xpvcc/internal/store"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured level when set.
	LogLevel string
}

// Run starts the xpvcc daemon and blocks until it is signalled to stop.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logDependencySnapshot(logger, cfg)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open state store", logging.Error(err))
		return err
	}

	dispatcher := install.NewDispatcher(cfg, st, logger)
	confirmer := install.NewConfirmer(liveness.Shared(), st, logger)

	d, err := daemon.New(cfg, st, logger, dispatcher, confirmer)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that no other process uses "+cfg.Paths.APIBind),
		)
		return err
	}

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	<-signalCtx.Done()
	logger.Info("xpvcc daemon shutting down")
	return nil
}

func newLogger(cfg *config.Config, opts Options) (*slog.Logger, error) {
	if opts.LogLevel == "" {
		return logging.NewFromConfig(cfg)
	}
	override := *cfg
	override.Logging.Level = opts.LogLevel
	return logging.NewFromConfig(&override)
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

// ReadPIDFile returns the pid recorded by a running daemon.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(string(trimNewline(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pid file %s: %w", path, err)
	}
	return pid, nil
}

func trimNewline(data []byte) []byte {
	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return data
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	statuses := deps.CheckBinaries(deps.HubRequirements())
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("hub_enabled", cfg.Hub.Enabled),
		logging.Bool("hub_available", deps.HubAvailable(statuses)),
		logging.String("download_base", cfg.Download.BaseURL),
		logging.String("download_dir", cfg.Paths.DownloadDir),
		logging.Bool("api_token_present", cfg.Paths.APIToken != ""),
	}
	for _, status := range statuses {
		attrs = append(attrs, logging.Bool(status.Command+"_available", status.Available))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}
