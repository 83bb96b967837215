//go:build !unix && !windows

package install

import "syscall"

func detachedProcAttr() *syscall.SysProcAttr {
	return nil
}

func isTextBusy(error) bool {
	return false
}
