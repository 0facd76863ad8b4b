// License: GPLv3 Copyright: 2022, Kovid Goyal, <kovid at kovidgoyal.net>

package utils

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

type Selector struct {
	read_set, err_set unix.FdSet
	read_fds, err_fds map[int]bool
}

func CreateSelect(expected_number_of_fds int) *Selector {
	var ans Selector
	ans.read_fds = make(map[int]bool, expected_number_of_fds)
	ans.err_fds = make(map[int]bool, expected_number_of_fds)
	return &ans
}

func (self *Selector) RegisterRead(fd int) {
	self.read_fds[fd] = true
}

func (self *Selector) RegisterError(fd int) {
	self.err_fds[fd] = true
}

func (self *Selector) UnRegisterRead(fd int) {
	self.read_fds[fd] = false
}

func (self *Selector) UnRegisterError(fd int) {
	self.err_fds[fd] = false
}

// Wait blocks for at most timeout. A negative timeout waits forever.
func (self *Selector) Wait(timeout time.Duration) (num_ready int, err error) {
	max_fd_num := 0

	init_set := func(s *unix.FdSet, m map[int]bool) {
		s.Zero()
		for fd, enabled := range m {
			if fd > -1 && enabled {
				if max_fd_num < fd {
					max_fd_num = fd
				}
				s.Set(fd)
			}
		}
	}
	init_set(&self.read_set, self.read_fds)
	init_set(&self.err_set, self.err_fds)
	num_ready, err = Select(max_fd_num+1, &self.read_set, nil, &self.err_set, timeout)
	if err != nil {
		self.read_set.Zero()
		self.err_set.Zero()
		return 0, err
	}
	return
}

func (self *Selector) IsReadyToRead(fd int) bool {
	return fd > -1 && self.read_set.IsSet(fd)
}

func (self *Selector) IsErrored(fd int) bool {
	return fd > -1 && self.err_set.IsSet(fd)
}

func NsecToTimespec(d time.Duration) unix.Timespec {
	nv := syscall.NsecToTimespec(int64(d))
	return unix.Timespec{Sec: nv.Sec, Nsec: nv.Nsec}
}

func NsecToTimeval(d time.Duration) unix.Timeval {
	nv := syscall.NsecToTimeval(int64(d))
	return unix.Timeval{Sec: nv.Sec, Usec: nv.Usec}
}
