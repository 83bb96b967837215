//go:build unix

package install

import (
	"errors"
	"syscall"
)

func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func isTextBusy(err error) bool {
	return errors.Is(err, syscall.ETXTBSY)
}
