//go:build linux

package liveness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var platformProbe = procProbe("/proc")

// procProbe reads the state field of /proc/<pid>/stat under root.
func procProbe(root string) ProbeFunc {
	return func(pid int) (State, error) {
		data, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), "stat"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return State{Alive: false, Detail: "exited"}, nil
			}
			return State{}, err
		}
		state, err := parseStatState(string(data))
		if err != nil {
			return State{}, err
		}
		switch state {
		case "Z":
			return State{Alive: false, Detail: "zombie"}, nil
		case "X", "x":
			return State{Alive: false, Detail: "dead"}, nil
		default:
			return State{Alive: true, Detail: state}, nil
		}
	}
}

// parseStatState extracts field 3 of a /proc stat line. The command name in
// field 2 may contain spaces and parentheses, so parsing starts after the
// last closing parenthesis.
func parseStatState(line string) (string, error) {
	end := strings.LastIndexByte(line, ')')
	if end < 0 || end+2 >= len(line) {
		return "", fmt.Errorf("unexpected stat format %q", line)
	}
	fields := strings.Fields(line[end+1:])
	if len(fields) == 0 {
		return "", fmt.Errorf("missing state in stat line %q", line)
	}
	return fields[0], nil
}
