//go:build !unix && !windows

package daemonctl

import "syscall"

func detachedAttr() *syscall.SysProcAttr { return nil }
