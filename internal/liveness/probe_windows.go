//go:build windows

package liveness

import (
	"errors"

	"golang.org/x/sys/windows"
)

var platformProbe ProbeFunc = windowsProbe

// stillActive is the exit code Windows reports for a running process.
const stillActive = 259

func windowsProbe(pid int) (State, error) {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		switch {
		case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
			return State{Alive: false, Detail: "exited"}, nil
		case errors.Is(err, windows.ERROR_ACCESS_DENIED):
			return State{Alive: true, Detail: "running (access denied)"}, nil
		}
		return State{}, err
	}
	defer windows.CloseHandle(handle) //nolint:errcheck

	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return State{}, err
	}
	if code == stillActive {
		return State{Alive: true, Detail: "running"}, nil
	}
	return State{Alive: false, Detail: "exited"}, nil
}
