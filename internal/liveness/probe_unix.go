//go:build unix && !linux

package liveness

import (
	"errors"

	"golang.org/x/sys/unix"
)

var platformProbe ProbeFunc = signalProbe

// signalProbe sends signal 0, which checks existence without delivering
// anything. EPERM means the process exists but belongs to another user.
func signalProbe(pid int) (State, error) {
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return State{Alive: true, Detail: "running"}, nil
	case errors.Is(err, unix.ESRCH):
		return State{Alive: false, Detail: "exited"}, nil
	case errors.Is(err, unix.EPERM):
		return State{Alive: true, Detail: "running (other user)"}, nil
	default:
		return State{}, err
	}
}
