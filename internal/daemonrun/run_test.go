package daemonrun

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"xpvcc/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.APIToken = ""
	return &cfg
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()
	return addr
}

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.APIBind = freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, Options{LogLevel: "warn"}) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + cfg.Paths.APIBind + "/api/status")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("daemon never answered: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	pid, err := ReadPIDFile(cfg.PIDPath())
	if err != nil || pid != os.Getpid() {
		t.Fatalf("unexpected pid file: %d, %v", pid, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, err := os.Stat(cfg.PIDPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected pid file removed, stat err=%v", err)
	}
}

func TestRunFailsOnOccupiedPort(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer occupied.Close()

	cfg := testConfig(t)
	cfg.Paths.APIBind = occupied.Addr().String()
	if err := Run(context.Background(), cfg, Options{LogLevel: "error"}); err == nil {
		t.Fatal("expected Run to fail when the API port is taken")
	}
}

func TestReadPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xpvccd.pid")
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := ReadPIDFile(path)
	if err != nil || pid != os.Getpid() {
		t.Fatalf("ReadPIDFile = %d, %v", pid, err)
	}
	if err := os.WriteFile(path, []byte("abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPIDFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}
