// License: GPLv3 Copyright: 2026, The vtdrive authors

package tty

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

func ioctl_line_state(fd int, request uint, buf *LineStateBuffer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(request), uintptr(unsafe.Pointer(buf)))
	if errno != 0 {
		if errno == unix.EINTR {
			return errno
		}
		name := "TCGETS2"
		if request == TCSETS2 {
			name = "TCSETS2"
		}
		return os.NewSyscallError("ioctl "+name, errno)
	}
	return nil
}
