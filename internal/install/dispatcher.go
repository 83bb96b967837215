package install

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"xpvcc/internal/config"
	"xpvcc/internal/editor"
	"xpvcc/internal/logging"
	"xpvcc/internal/store"
	"xpvcc/internal/token"
)

// DispatchRecorder persists issued tokens so they can be confirmed later.
type DispatchRecorder interface {
	RecordDispatch(ctx context.Context, d store.Dispatch) error
}

// Dispatcher starts editor installs.
type Dispatcher struct {
	baseURL     string
	downloadDir string
	hubEnabled  bool
	fetcher     Fetcher
	spawner     Spawner
	opener      HubOpener
	recorder    DispatchRecorder
	logger      *slog.Logger
	now         func() time.Time
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithFetcher replaces the HTTP artifact fetcher.
func WithFetcher(f Fetcher) DispatcherOption {
	return func(d *Dispatcher) {
		if f != nil {
			d.fetcher = f
		}
	}
}

// WithSpawner replaces the process spawner.
func WithSpawner(s Spawner) DispatcherOption {
	return func(d *Dispatcher) {
		if s != nil {
			d.spawner = s
		}
	}
}

// WithHubOpener replaces the deep-link handler.
func WithHubOpener(o HubOpener) DispatcherOption {
	return func(d *Dispatcher) {
		if o != nil {
			d.opener = o
		}
	}
}

// WithDispatchClock replaces the clock used to stamp dispatch records.
func WithDispatchClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher builds a Dispatcher from configuration. recorder may be nil,
// in which case issued tokens are not persisted.
func NewDispatcher(cfg *config.Config, recorder DispatchRecorder, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Dispatcher{
		baseURL:     cfg.Download.BaseURL,
		downloadDir: cfg.Paths.DownloadDir,
		hubEnabled:  cfg.Hub.Enabled,
		spawner:     ExecSpawner{},
		opener:      SystemHubOpener{},
		recorder:    recorder,
		logger:      logging.NewComponentLogger(logger, "dispatcher"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.fetcher == nil {
		client := NewHTTPClient(ClientOptions{Timeout: cfg.DownloadTimeout()})
		d.fetcher = NewHTTPFetcher(client, cfg.Download.UserAgent)
	}
	if d.baseURL == "" {
		d.baseURL = editor.DefaultDownloadBase
	}
	return d
}

// Dispatch starts an install for setting and returns the token that will
// confirm it. Hub delegation, when requested and enabled, takes precedence;
// if the hub cannot be opened the direct download path runs instead. A
// failed fetch, write or spawn issues no token.
func (d *Dispatcher) Dispatch(ctx context.Context, setting editor.InstallSetting) (token.Token, error) {
	if err := setting.Validate(); err != nil {
		return nil, InvalidRequestError("dispatch", err)
	}
	logger := logging.WithContext(ctx, d.logger).With(
		logging.String(logging.FieldVersion, setting.Version.QualifiedVersion()),
		logging.String(logging.FieldHost, string(setting.Host)),
	)

	if setting.PreferExternalHub && d.hubEnabled {
		tok, err := d.delegate(ctx, setting, logger)
		if err == nil {
			return tok, nil
		}
		logging.WarnWithContext(logger, "unity hub unavailable", "hub_fallback",
			logging.Error(err),
			logging.String(logging.FieldImpact, "falling back to direct download"),
			logging.String(logging.FieldErrorHint, "install Unity Hub or disable hub.enabled"),
		)
	}

	return d.direct(ctx, setting, logger)
}

func (d *Dispatcher) delegate(ctx context.Context, setting editor.InstallSetting, logger *slog.Logger) (token.Token, error) {
	link := editor.HubDeepLink(setting.Version)
	if err := d.opener.Open(ctx, link); err != nil {
		return nil, fmt.Errorf("open %s: %w", link, err)
	}
	tok, err := token.NewDelegated()
	if err != nil {
		return nil, fmt.Errorf("issue delegated token: %w", err)
	}
	logger.Info("install delegated to unity hub", logging.String("link", link))
	d.record(ctx, tok, setting, "", "", logger)
	return tok, nil
}

func (d *Dispatcher) direct(ctx context.Context, setting editor.InstallSetting, logger *slog.Logger) (token.Token, error) {
	artifactURL := editor.LocateFrom(d.baseURL, setting.Host, setting.Version)

	started := d.now()
	data, err := d.fetcher.Fetch(ctx, artifactURL)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Op:      "fetch",
			Message: "failed to download Unity installer",
			Path:    artifactURL,
			Err:     err,
		}
	}
	logger.Info("installer downloaded",
		logging.String("url", artifactURL),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", d.now().Sub(started)),
	)

	path, err := writeInstaller(d.downloadDir, setting.Host, setting.Version, data)
	if err != nil {
		return nil, &Error{
			Kind:    KindFileSystem,
			Op:      "write",
			Message: "failed to save Unity installer",
			Path:    d.downloadDir,
			Err:     err,
		}
	}

	pid, err := d.spawner.Spawn(path)
	if err != nil {
		if pid <= 0 {
			_ = os.Remove(path)
		}
		return nil, &Error{
			Kind:    KindSpawn,
			Op:      "spawn",
			Message: "failed to start Unity installer",
			Path:    path,
			PID:     pid,
			Err:     err,
		}
	}
	logger.Info("installer started",
		logging.Int(logging.FieldPID, pid),
		logging.String("path", path),
	)

	tok := token.ProcessHandle{PID: pid}
	d.record(ctx, tok, setting, artifactURL, path, logger)
	return tok, nil
}

// record persists the dispatch. The install is already running, so a
// failure here is logged and the token is still returned.
func (d *Dispatcher) record(ctx context.Context, tok token.Token, setting editor.InstallSetting, sourceURL, installerPath string, logger *slog.Logger) {
	if d.recorder == nil {
		return
	}
	digest, err := token.Digest(tok)
	if err != nil {
		logger.Warn("dispatch not recorded", logging.Error(err))
		return
	}
	dispatch := store.Dispatch{
		TokenDigest:   digest,
		TokenKind:     string(tok.Kind()),
		Version:       setting.Version,
		Target:        setting.Target,
		Host:          setting.Host,
		PreferHub:     setting.PreferExternalHub,
		SourceURL:     sourceURL,
		InstallerPath: installerPath,
		IssuedAt:      d.now(),
	}
	if handle, ok := tok.(token.ProcessHandle); ok {
		dispatch.PID = handle.PID
	}
	if err := d.recorder.RecordDispatch(ctx, dispatch); err != nil {
		logging.WarnWithContext(logger, "dispatch not recorded", "dispatch_persist_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "confirmation will report an unknown token"),
		)
	}
}
