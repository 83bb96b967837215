package install

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xpvcc/internal/editor"
	"xpvcc/internal/liveness"
	"xpvcc/internal/logging"
	"xpvcc/internal/store"
	"xpvcc/internal/token"
)

// InstallationStore redeems tokens and answers location queries.
type InstallationStore interface {
	Redeem(ctx context.Context, digest, path string, now time.Time) (*store.Installation, error)
	Installation(ctx context.Context, version editor.SupportedVersion, host editor.Host) (*store.Installation, error)
	Installations(ctx context.Context) ([]store.Installation, error)
	PendingDispatches(ctx context.Context) ([]store.Dispatch, error)
}

// PendingInstall is an unconfirmed dispatch with the latest observation of its
// installer process. Delegated dispatches have no process to observe.
type PendingInstall struct {
	store.Dispatch
	Running    bool
	Detail     string
	ObservedAt time.Time
}

// Confirmer accepts completion reports for dispatched installs.
type Confirmer struct {
	monitor *liveness.Monitor
	store   InstallationStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewConfirmer wires a Confirmer. A nil monitor uses liveness.Shared.
func NewConfirmer(monitor *liveness.Monitor, st InstallationStore, logger *slog.Logger) *Confirmer {
	if monitor == nil {
		monitor = liveness.Shared()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Confirmer{
		monitor: monitor,
		store:   st,
		logger:  logging.NewComponentLogger(logger, "confirmer"),
		now:     time.Now,
	}
}

// Confirm records claimedPath as the install location for the dispatch that
// issued tok. A process token is refused while its installer runs. The path
// must name an existing directory. Each token confirms at most once.
func (c *Confirmer) Confirm(ctx context.Context, tok token.Token, claimedPath string) (*store.Installation, error) {
	logger := logging.WithContext(ctx, c.logger)

	switch t := tok.(type) {
	case token.ProcessHandle:
		alive, err := c.monitor.Check(t.PID)
		if err != nil && !errors.Is(err, liveness.ErrInvalidPID) {
			logger.Warn("liveness probe failed; treating installer as running",
				logging.Int(logging.FieldPID, t.PID),
				logging.Error(err),
			)
		}
		if alive {
			return nil, ConflictError(t.PID)
		}
	case token.Delegated:
		// Unity Hub installs are not observable.
	default:
		return nil, InvalidRequestError("confirm", fmt.Errorf("unsupported token %T", tok))
	}

	path, err := verifyInstallDir(claimedPath)
	if err != nil {
		return nil, err
	}

	digest, err := token.Digest(tok)
	if err != nil {
		return nil, InvalidRequestError("confirm", err)
	}

	installation, err := c.store.Redeem(ctx, digest, path, c.now())
	switch {
	case err == nil:
	case errors.Is(err, store.ErrUnknownToken):
		return nil, newError(KindUnknownToken, "confirm", "Unknown completion token", err)
	case errors.Is(err, store.ErrAlreadyRedeemed):
		return nil, newError(KindAlreadyConfirmed, "confirm", "Installation was already confirmed for this token", err)
	default:
		logging.ErrorWithContext(logger, "installation not persisted", "confirm_persist_failed",
			logging.Error(err),
			logging.String("path", path),
		)
		return nil, newError(KindPersistence, "confirm", "failed to record installation", err)
	}

	logger.Info("installation confirmed",
		logging.String(logging.FieldVersion, installation.Version.QualifiedVersion()),
		logging.String(logging.FieldHost, string(installation.Host)),
		logging.String("path", installation.Path),
		logging.String("token_kind", string(tok.Kind())),
	)
	return installation, nil
}

// Lookup returns where version is installed on host.
func (c *Confirmer) Lookup(ctx context.Context, version editor.SupportedVersion, host editor.Host) (*store.Installation, error) {
	installation, err := c.store.Installation(ctx, version, host)
	if err != nil {
		return nil, newError(KindPersistence, "lookup", "failed to read installations", err)
	}
	if installation == nil {
		return nil, &Error{
			Kind:    KindNotFound,
			Op:      "lookup",
			Message: fmt.Sprintf("%s is not installed on %s", version.QualifiedVersion(), host),
		}
	}
	return installation, nil
}

// List returns every confirmed installation.
func (c *Confirmer) List(ctx context.Context) ([]store.Installation, error) {
	installations, err := c.store.Installations(ctx)
	if err != nil {
		return nil, newError(KindPersistence, "list", "failed to read installations", err)
	}
	return installations, nil
}

// Pending lists unconfirmed dispatches, re-probing each installer PID.
func (c *Confirmer) Pending(ctx context.Context) ([]PendingInstall, error) {
	dispatches, err := c.store.PendingDispatches(ctx)
	if err != nil {
		return nil, newError(KindPersistence, "pending", "failed to read dispatches", err)
	}
	out := make([]PendingInstall, 0, len(dispatches))
	for _, dispatch := range dispatches {
		pending := PendingInstall{Dispatch: dispatch}
		if dispatch.PID <= 0 {
			pending.Detail = "delegated to Unity Hub"
			out = append(out, pending)
			continue
		}
		entry, err := c.monitor.Observe(dispatch.PID)
		if err != nil {
			c.logger.Debug("liveness probe failed",
				logging.Int(logging.FieldPID, dispatch.PID),
				logging.Error(err),
			)
		}
		pending.Running = entry.Alive
		pending.Detail = entry.Detail
		pending.ObservedAt = entry.ObservedAt
		out = append(out, pending)
	}
	return out, nil
}

func verifyInstallDir(claimed string) (string, error) {
	trimmed := strings.TrimSpace(claimed)
	if trimmed == "" {
		return "", NotFoundError(claimed, errors.New("empty path"))
	}
	path, err := filepath.Abs(trimmed)
	if err != nil {
		return "", NotFoundError(claimed, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", NotFoundError(claimed, err)
	}
	if !info.IsDir() {
		return "", NotFoundError(claimed, fmt.Errorf("%s is not a directory", path))
	}
	return path, nil
}
