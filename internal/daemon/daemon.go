package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"xpvcc/internal/config"
	"xpvcc/internal/deps"
	"xpvcc/internal/editor"
	"xpvcc/internal/install"
	"xpvcc/internal/logging"
	"xpvcc/internal/store"
	"xpvcc/internal/token"
)

// Dispatcher starts editor installs.
type Dispatcher interface {
	Dispatch(ctx context.Context, setting editor.InstallSetting) (token.Token, error)
}

// Daemon owns the API server and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	dispatch  Dispatcher
	confirmer *install.Confirmer
	api       *apiServer

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Bind         string
	StorePath    string
	LockFilePath string
	HubEnabled   bool
	Stats        store.Stats
	Dependencies []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, dispatcher Dispatcher, confirmer *install.Confirmer) (*Daemon, error) {
	if cfg == nil || st == nil || dispatcher == nil || confirmer == nil {
		return nil, errors.New("daemon requires config, store, dispatcher, and confirmer")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		dispatch:  dispatcher,
		confirmer: confirmer,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another xpvcc daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("xpvcc daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.addr()),
	)
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("xpvcc daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the address the API is listening on, or the configured bind
// address before Start.
func (d *Daemon) Addr() string {
	if addr := d.api.addr(); addr != "" {
		return addr
	}
	return d.cfg.Paths.APIBind
}

// Handler exposes the API routes, including middleware.
func (d *Daemon) Handler() http.Handler {
	return d.api.handler
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Bind:         d.Addr(),
		StorePath:    d.store.Path(),
		LockFilePath: d.lockPath,
		HubEnabled:   d.cfg.Hub.Enabled,
		Dependencies: deps.CheckBinaries(deps.HubRequirements()),
	}
	if stats, err := d.store.Stats(ctx); err != nil {
		d.logger.Warn("store stats unavailable", logging.Error(err))
	} else {
		status.Stats = stats
	}
	return status
}
