// License: GPLv3 Copyright: 2026, The vtdrive authors

package tty

import (
	"fmt"
)

var _ = fmt.Print

const (
	// Linux extended termios requests, _IOR('T', 0x2A, struct termios2) and
	// _IOW('T', 0x2B, struct termios2)
	TCGETS2 = 0x802C542A
	TCSETS2 = 0x402C542B

	NCCS             = 19
	LINE_STATE_WORDS = 11
)

// LineState mirrors struct termios2. It is never handed to the kernel
// directly, it goes through Encode/Decode so that the packing does not depend
// on Go struct layout.
type LineState struct {
	Iflag, Oflag, Cflag, Lflag uint32
	Line                       uint8
	Cc                         [NCCS]uint8
	Ispeed, Ospeed             uint32
}

type LineStateBuffer [LINE_STATE_WORDS]uint32

func pack_cc(a, b, c, d uint8) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

func unpack_cc(w uint32) (a, b, c, d uint8) {
	return uint8(w), uint8(w >> 8), uint8(w >> 16), uint8(w >> 24)
}

func (self *LineState) Encode() (buf LineStateBuffer) {
	buf[0] = self.Iflag
	buf[1] = self.Oflag
	buf[2] = self.Cflag
	buf[3] = self.Lflag
	buf[4] = pack_cc(self.Line, self.Cc[0], self.Cc[1], self.Cc[2])
	for w := 0; w < 4; w++ {
		i := 3 + w*4
		buf[5+w] = pack_cc(self.Cc[i], self.Cc[i+1], self.Cc[i+2], self.Cc[i+3])
	}
	buf[9] = self.Ispeed
	buf[10] = self.Ospeed
	return
}

func (self *LineState) Decode(buf LineStateBuffer) {
	self.Iflag = buf[0]
	self.Oflag = buf[1]
	self.Cflag = buf[2]
	self.Lflag = buf[3]
	self.Line, self.Cc[0], self.Cc[1], self.Cc[2] = unpack_cc(buf[4])
	for w := 0; w < 4; w++ {
		i := 3 + w*4
		self.Cc[i], self.Cc[i+1], self.Cc[i+2], self.Cc[i+3] = unpack_cc(buf[5+w])
	}
	self.Ispeed = buf[9]
	self.Ospeed = buf[10]
}

func (self LineState) String() string {
	return fmt.Sprintf("iflag=%#o oflag=%#o cflag=%#o lflag=%#o line=%d ispeed=%d ospeed=%d cc=%v",
		self.Iflag, self.Oflag, self.Cflag, self.Lflag, self.Line, self.Ispeed, self.Ospeed, self.Cc)
}

func GetLineState(fd int) (ans LineState, err error) {
	var buf LineStateBuffer
	if err = eintr_retry_noret(func() error { return ioctl_line_state(fd, TCGETS2, &buf) }); err != nil {
		return
	}
	ans.Decode(buf)
	return
}

func SetLineState(fd int, s *LineState) error {
	buf := s.Encode()
	return eintr_retry_noret(func() error { return ioctl_line_state(fd, TCSETS2, &buf) })
}
