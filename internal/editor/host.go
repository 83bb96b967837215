package editor

import (
	"fmt"
	"runtime"
)

// Host is the operating system the editor will run on. It only decides the
// installer naming convention.
type Host string

const (
	HostWindows Host = "windows"
	HostLinux   Host = "linux"
	HostMacOS   Host = "macos"
)

// Hosts returns every supported host.
func Hosts() []Host {
	return []Host{HostWindows, HostLinux, HostMacOS}
}

// HostFromGOOS maps a Go GOOS value to a Host.
func HostFromGOOS(goos string) (Host, bool) {
	switch goos {
	case "windows":
		return HostWindows, true
	case "linux":
		return HostLinux, true
	case "darwin":
		return HostMacOS, true
	default:
		return "", false
	}
}

// CurrentHost returns the host matching the running binary.
func CurrentHost() (Host, bool) {
	return HostFromGOOS(runtime.GOOS)
}

// Valid reports whether h is one of the known hosts.
func (h Host) Valid() bool {
	switch h {
	case HostWindows, HostLinux, HostMacOS:
		return true
	}
	return false
}

// ParseHost accepts host names case-insensitively, including the GOOS
// spelling and common aliases for macOS.
func ParseHost(value string) (Host, error) {
	switch fold(value) {
	case "windows", "win":
		return HostWindows, nil
	case "linux":
		return HostLinux, nil
	case "macos", "darwin", "osx", "mac":
		return HostMacOS, nil
	case "":
		return "", fmt.Errorf("editor host is required")
	default:
		return "", fmt.Errorf("unsupported editor host %q", value)
	}
}

// PlatformTarget is the build target the project will produce.
type PlatformTarget string

const (
	// TargetWindowsMono builds for Windows.
	TargetWindowsMono PlatformTarget = "windows_mono"
	// TargetAndroid builds for Meta Quest and Android phones.
	TargetAndroid PlatformTarget = "android"
)

// ParseTarget parses a platform target; an empty value selects Windows Mono.
func ParseTarget(value string) (PlatformTarget, error) {
	switch fold(value) {
	case "", "windows_mono", "windowsmono", "windows":
		return TargetWindowsMono, nil
	case "android", "quest":
		return TargetAndroid, nil
	default:
		return "", fmt.Errorf("unsupported platform target %q", value)
	}
}

// InstallSetting fully determines how one install is dispatched.
type InstallSetting struct {
	Version           SupportedVersion `json:"version"`
	Target            PlatformTarget   `json:"target"`
	Host              Host             `json:"host"`
	PreferExternalHub bool             `json:"preferHub"`
}

// Validate checks every field against the closed enums.
func (s InstallSetting) Validate() error {
	if !s.Version.Valid() {
		return fmt.Errorf("unsupported editor version %q", string(s.Version))
	}
	if !s.Host.Valid() {
		return fmt.Errorf("unsupported editor host %q", string(s.Host))
	}
	switch s.Target {
	case TargetWindowsMono, TargetAndroid:
	default:
		return fmt.Errorf("unsupported platform target %q", string(s.Target))
	}
	return nil
}
