package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"xpvcc/internal/config"
	"xpvcc/internal/daemon"
	"xpvcc/internal/install"
	"xpvcc/internal/liveness"
	"xpvcc/internal/store"
	"xpvcc/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	server     *httptest.Server
	configPath string

	mu       sync.Mutex
	hubLinks []string
}

func (e *cliTestEnv) openedLinks() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.hubLinks...)
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XPVCC_API_TOKEN", "")
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)

	env := &cliTestEnv{cfg: cfg, store: st}
	dispatcher := install.NewDispatcher(cfg, st, nil,
		install.WithHubOpener(install.HubOpenerFunc(func(_ context.Context, link string) error {
			env.mu.Lock()
			env.hubLinks = append(env.hubLinks, link)
			env.mu.Unlock()
			return nil
		})),
	)
	confirmer := install.NewConfirmer(liveness.New(), st, nil)
	d, err := daemon.New(cfg, st, nil, dispatcher, confirmer)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	env.server = httptest.NewServer(d.Handler())
	t.Cleanup(env.server.Close)

	env.configPath = filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, env.configPath, cfg)
	return env
}

func runCLI(t *testing.T, args []string, server, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if server != "" {
		flags = append(flags, "--server", server)
	}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
