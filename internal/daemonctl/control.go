package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"xpvcc/internal/api"
	"xpvcc/internal/client"
	"xpvcc/internal/config"
	"xpvcc/internal/daemonrun"
	"xpvcc/internal/deps"
	"xpvcc/internal/store"
)

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	LogLevel   string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State  StartState
	PID    int
	Status *api.DaemonStatus
}

// ErrDaemonNotRunning indicates the daemon API is unreachable and no pid file exists.
var ErrDaemonNotRunning = errors.New("daemon not running")

// StopResult captures daemon stop/termination outcome.
type StopResult struct {
	ForcedKill bool
	PID        int
}

// Launch starts a detached xpvcc daemon process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"daemon"}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		args = append(args, "--log-level", level)
	}

	proc := exec.Command(executablePath, args...)
	proc.SysProcAttr = detachedAttr()
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// EnsureStarted launches the daemon unless its API already answers.
func EnsureStarted(ctx context.Context, c *client.Client, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	if status, err := c.Status(ctx); err == nil && status.Running {
		return StartResult{State: StartStateAlreadyRunning, PID: status.PID, Status: status}, nil
	}
	if err := Launch(executablePath, opts); err != nil {
		return StartResult{}, err
	}
	status, err := c.WaitForStatus(ctx, waitTimeout)
	if err != nil {
		return StartResult{}, err
	}
	return StartResult{State: StartStateStarted, PID: status.PID, Status: status}, nil
}

// Stop signals the daemon to exit and force-kills it if it is still
// answering after gracePeriod.
func Stop(ctx context.Context, c *client.Client, cfg *config.Config, gracePeriod time.Duration) (StopResult, error) {
	pid := 0
	if status, err := c.Status(ctx); err == nil {
		pid = status.PID
	}
	if pid <= 0 && cfg != nil {
		if filePID, err := daemonrun.ReadPIDFile(cfg.PIDPath()); err == nil {
			pid = filePID
		}
	}
	if pid <= 0 {
		return StopResult{}, ErrDaemonNotRunning
	}
	if pid == os.Getpid() {
		return StopResult{}, fmt.Errorf("refusing to stop current process (pid %d)", pid)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return StopResult{}, fmt.Errorf("locate daemon process %d: %w", pid, err)
	}
	result := StopResult{PID: pid}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			cleanupStale(cfg)
			return result, nil
		}
		// Windows cannot deliver SIGTERM.
		if killErr := proc.Kill(); killErr != nil {
			return result, fmt.Errorf("stop daemon process %d: %w", pid, killErr)
		}
		result.ForcedKill = true
		return result, WaitForShutdown(ctx, c, gracePeriod)
	}

	if err := WaitForShutdown(ctx, c, gracePeriod); err == nil {
		return result, nil
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return result, fmt.Errorf("kill daemon process %d: %w", pid, err)
	}
	cleanupStale(cfg)
	result.ForcedKill = true
	return result, nil
}

// WaitForShutdown waits for the daemon API to stop answering.
func WaitForShutdown(ctx context.Context, c *client.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := c.Status(ctx); err != nil {
			var apiErr *client.APIError
			if !errors.As(err, &apiErr) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return fmt.Errorf("daemon did not stop: timeout waiting for shutdown")
}

func cleanupStale(cfg *config.Config) {
	if cfg == nil {
		return
	}
	_ = os.Remove(cfg.PIDPath())
}

// Snapshot is the status view rendered by the CLI.
type Snapshot struct {
	Status  api.DaemonStatus
	Offline bool
}

// BuildStatusSnapshot asks the daemon for status and falls back to reading
// the state store directly when the daemon is not reachable.
func BuildStatusSnapshot(ctx context.Context, c *client.Client, cfg *config.Config) (Snapshot, error) {
	if status, err := c.Status(ctx); err == nil {
		return Snapshot{Status: *status}, nil
	}
	if cfg == nil {
		return Snapshot{}, errors.New("configuration not available")
	}

	snapshot := Snapshot{
		Offline: true,
		Status: api.DaemonStatus{
			Bind:         cfg.Paths.APIBind,
			StorePath:    cfg.StorePath(),
			LockFilePath: cfg.LockPath(),
			HubEnabled:   cfg.Hub.Enabled,
			Dependencies: api.FromDependencyStatuses(deps.CheckBinaries(deps.HubRequirements())),
		},
	}
	if _, err := os.Stat(cfg.StorePath()); err != nil {
		return snapshot, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	st, err := store.Open(cfg)
	if err != nil {
		return snapshot, nil
	}
	defer st.Close()
	if stats, err := st.Stats(queryCtx); err == nil {
		snapshot.Status.PendingDispatches = stats.PendingDispatches
		snapshot.Status.RedeemedDispatches = stats.RedeemedDispatches
		snapshot.Status.Installations = stats.Installations
	}
	return snapshot, nil
}
