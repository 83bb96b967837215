package install

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"xpvcc/internal/editor"
)

// Spawner starts an installer executable and returns its PID.
type Spawner interface {
	Spawn(path string) (int, error)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(path string) (int, error)

// Spawn calls f.
func (f SpawnerFunc) Spawn(path string) (int, error) {
	return f(path)
}

// ExecSpawner starts installers as detached processes. A background goroutine
// reaps each child once it exits; the daemon never signals or joins it.
type ExecSpawner struct{}

const (
	textBusyAttempts = 5
	textBusyDelay    = 20 * time.Millisecond
)

// Spawn starts path in its own process group with no stdio attached.
func (ExecSpawner) Spawn(path string) (int, error) {
	var lastErr error
	for attempt := 0; attempt < textBusyAttempts; attempt++ {
		cmd := exec.Command(path)
		cmd.Dir = filepath.Dir(path)
		cmd.SysProcAttr = detachedProcAttr()
		if err := cmd.Start(); err != nil {
			lastErr = err
			// A concurrent fork can briefly inherit the write descriptor of a
			// freshly written installer.
			if isTextBusy(err) {
				time.Sleep(textBusyDelay)
				continue
			}
			return 0, err
		}
		// Without a reaper an exited installer stays a zombie, and kill(pid, 0)
		// keeps succeeding on it.
		go func() { _ = cmd.Wait() }()
		return cmd.Process.Pid, nil
	}
	return 0, lastErr
}

// writeInstaller stores data in a new executable file under dir, keeping the
// artifact's extension so the host can run it.
func writeInstaller(dir string, host editor.Host, version editor.SupportedVersion, data []byte) (string, error) {
	name := editor.ArtifactFileName(host, version)
	suffix := editor.ArtifactSuffix(host)
	pattern := name[:len(name)-len(suffix)] + "-*" + suffix

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create download dir: %w", err)
		}
	}
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create installer file: %w", err)
	}
	path := file.Name()
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write installer file: %w", err)
	}
	if err := file.Chmod(0o755); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("mark installer executable: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close installer file: %w", err)
	}
	return path, nil
}
