//go:build !unix && !windows

package liveness

import "errors"

var platformProbe ProbeFunc = func(int) (State, error) {
	return State{}, errors.ErrUnsupported
}
