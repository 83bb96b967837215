package install_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"xpvcc/internal/editor"
	"xpvcc/internal/install"
	"xpvcc/internal/store"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	data  []byte
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSpawner struct {
	mu    sync.Mutex
	paths []string
	pid   int
	err   error
}

func (s *fakeSpawner) Spawn(path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	if s.err != nil {
		return 0, s.err
	}
	return s.pid, nil
}

func (s *fakeSpawner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

type fakeOpener struct {
	links []string
	err   error
}

func (o *fakeOpener) Open(_ context.Context, link string) error {
	o.links = append(o.links, link)
	return o.err
}

// failingStore simulates an unreachable database.
type failingStore struct{}

var errStoreDown = errors.New("database is closed")

func (failingStore) Redeem(context.Context, string, string, time.Time) (*store.Installation, error) {
	return nil, errStoreDown
}

func (failingStore) Installation(context.Context, editor.SupportedVersion, editor.Host) (*store.Installation, error) {
	return nil, errStoreDown
}

func (failingStore) Installations(context.Context) ([]store.Installation, error) {
	return nil, errStoreDown
}

func (failingStore) PendingDispatches(context.Context) ([]store.Dispatch, error) {
	return nil, errStoreDown
}

func linuxSetting(preferHub bool) editor.InstallSetting {
	return editor.InstallSetting{
		Version:           editor.R2022_3_6,
		Target:            editor.TargetWindowsMono,
		Host:              editor.HostLinux,
		PreferExternalHub: preferHub,
	}
}

func requireKind(t *testing.T, err error, kind install.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	got, ok := install.KindOf(err)
	if !ok || got != kind {
		t.Fatalf("expected %s error, got %v (%s)", kind, err, got)
	}
}
