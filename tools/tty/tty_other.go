// License: GPLv3 Copyright: 2026, The vtdrive authors

//go:build !linux

package tty

import (
	"golang.org/x/sys/unix"
)

// termios2 and custom baud rates are a Linux ABI
func ioctl_line_state(fd int, request uint, buf *LineStateBuffer) error {
	return unix.ENOTSUP
}
