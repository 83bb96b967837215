package testsupport

import (
	"context"
	"testing"
	"time"

	"xpvcc/internal/config"
	"xpvcc/internal/editor"
	"xpvcc/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// RecordDispatch stores a direct-download dispatch for the given digest and pid.
func RecordDispatch(t testing.TB, st *store.Store, digest string, pid int, version editor.SupportedVersion) store.Dispatch {
	t.Helper()

	dispatch := store.Dispatch{
		TokenDigest: digest,
		TokenKind:   "process",
		PID:         pid,
		Version:     version,
		Target:      editor.TargetWindowsMono,
		Host:        editor.HostLinux,
		IssuedAt:    time.Now().UTC(),
	}
	if err := st.RecordDispatch(context.Background(), dispatch); err != nil {
		t.Fatalf("store.RecordDispatch: %v", err)
	}
	return dispatch
}
