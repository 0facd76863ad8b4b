// License: GPLv3 Copyright: 2022, Kovid Goyal, <kovid at kovidgoyal.net>

package tty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	pkgerrors "github.com/pkg/errors"

	"github.com/vtdrive/vtdrive/tools/utils"
)

const STDIN_ALIAS = "-"

// Link owns the descriptor used to talk to a terminal: either a device node
// opened read-write or the control side of a freshly allocated pty pair.
type Link struct {
	os_file   *os.File
	peer_file *os.File
	name      string
	peer_name string
	states    []LineState
	id        uuid.UUID
	log       *logrus.Entry
}

func eintr_retry_noret(f func() error) error {
	for {
		qerr := f()
		if qerr == unix.EINTR {
			continue
		}
		return qerr
	}
}

func eintr_retry_intret(f func() (int, error)) (int, error) {
	for {
		q, qerr := f()
		if qerr == unix.EINTR {
			continue
		}
		return q, qerr
	}
}

// IsTerminal reports whether fd refers to a device that accepts line state
// operations.
func IsTerminal(fd uintptr) bool {
	_, err := GetLineState(int(fd))
	return err == nil
}

type TermiosOperation func(t *LineState)

var SetRaw TermiosOperation = func(t *LineState) {
	// cfmakeraw(3)
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
}

// SetNoEcho stops the line discipline from echoing replies back to the
// device when the line is left in canonical mode.
var SetNoEcho TermiosOperation = func(t *LineState) {
	t.Lflag &^= unix.ECHO
}

// Ignore modem control lines and enable the receiver, what a three wire
// serial cable to a terminal needs.
var SetLocal TermiosOperation = func(t *LineState) {
	t.Cflag |= unix.CLOCAL | unix.CREAD
}

func canonical_name(fd int, fallback string) string {
	if q, err := os.Readlink(fmt.Sprintf("/proc/self/fd/%d", fd)); err == nil {
		return q
	}
	return fallback
}

func new_link(os_file *os.File, requested_name string) *Link {
	self := &Link{os_file: os_file, id: uuid.New()}
	self.name = canonical_name(self.Fd(), requested_name)
	self.log = logrus.WithFields(logrus.Fields{"link": self.id.String(), "path": self.name})
	return self
}

func WrapLink(fd int, name string, operations ...TermiosOperation) (self *Link, err error) {
	if name == "" {
		name = fmt.Sprintf("<fd: %d>", fd)
	}
	os_file := os.NewFile(uintptr(fd), name)
	if os_file == nil {
		return nil, os.ErrInvalid
	}
	self = new_link(os_file, name)
	err = self.ApplyOperations(operations...)
	if err != nil {
		self.Close()
		self = nil
	}
	return
}

// OpenLink opens a terminal device read-write. The name "-" refers to the
// device on standard input.
func OpenLink(name string, operations ...TermiosOperation) (self *Link, err error) {
	if name == STDIN_ALIAS {
		if !IsTerminal(os.Stdin.Fd()) {
			return nil, &os.PathError{Op: "open", Path: name, Err: unix.ENOTTY}
		}
		name = "/dev/stdin"
	}
	fd, err := eintr_retry_intret(func() (int, error) {
		return unix.Open(name, unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NONBLOCK|unix.O_RDWR, 0666)
	})
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	// O_NONBLOCK only so that open does not wait for carrier
	if err = unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, &os.PathError{Op: "fcntl", Path: name, Err: err}
	}
	return WrapLink(fd, name, operations...)
}

// OpenPtyLink allocates a pseudo-terminal pair. I/O happens on the control
// side, the companion stays open so reads do not fail with EIO before a peer
// attaches, and its path is available from PeerName().
func OpenPtyLink(operations ...TermiosOperation) (self *Link, err error) {
	ptmx, peer, err := pty.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to allocate a pseudo-terminal pair")
	}
	self = new_link(ptmx, ptmx.Name())
	self.peer_file = peer
	self.peer_name = canonical_name(int(peer.Fd()), peer.Name())
	self.log = self.log.WithField("peer", self.peer_name)
	if err = self.ApplyOperations(operations...); err != nil {
		self.Close()
		return nil, err
	}
	return self, nil
}

func (self *Link) Fd() int {
	if self.os_file == nil {
		return -1
	}
	return int(self.os_file.Fd())
}

func (self *Link) Name() string { return self.name }
func (self *Link) PeerName() string { return self.peer_name }
func (self *Link) IsPty() bool { return self.peer_file != nil }
func (self *Link) Logger() *logrus.Entry { return self.log }

// PeerFile is the companion side of a pty link, nil for device links
func (self *Link) PeerFile() *os.File { return self.peer_file }

func (self *Link) Close() error {
	var err error
	if self.peer_file != nil {
		err = eintr_retry_noret(func() error { return self.peer_file.Close() })
		self.peer_file = nil
	}
	if self.os_file == nil {
		return err
	}
	if cerr := eintr_retry_noret(func() error { return self.os_file.Close() }); cerr != nil {
		err = cerr
	}
	self.os_file = nil
	return err
}

func (self *Link) check_open() error {
	if self.os_file == nil {
		return os.ErrClosed
	}
	return nil
}

func (self *Link) GetLineState() (LineState, error) {
	if err := self.check_open(); err != nil {
		return LineState{}, err
	}
	ans, err := GetLineState(self.Fd())
	return ans, pkgerrors.Wrapf(err, "reading line state of %s", self.name)
}

func (self *Link) SetLineState(s *LineState) error {
	if err := self.check_open(); err != nil {
		return err
	}
	return pkgerrors.Wrapf(SetLineState(self.Fd(), s), "writing line state of %s", self.name)
}

func (self *Link) ApplyOperations(operations ...TermiosOperation) (err error) {
	if len(operations) == 0 {
		return
	}
	state, err := self.GetLineState()
	if err != nil {
		return
	}
	new_state := state
	for _, op := range operations {
		op(&new_state)
	}
	if err = self.SetLineState(&new_state); err == nil {
		self.states = append(self.states, state)
	}
	return
}

func (self *Link) PopState() (err error) {
	if len(self.states) == 0 {
		return nil
	}
	idx := len(self.states) - 1
	if err = self.SetLineState(&self.states[idx]); err == nil {
		self.states = self.states[:idx]
	}
	return
}

func (self *Link) Restore() (err error) {
	if len(self.states) == 0 {
		return nil
	}
	self.states = self.states[:1]
	return self.PopState()
}

func (self *Link) RestoreAndClose() error {
	_ = self.Restore()
	return self.Close()
}

// SetSpeed programs the line rate, using a custom rate when no standard rate
// is close enough. A pty has no physical rate so this is a no-op there, as is
// a speed of 0.
func (self *Link) SetSpeed(speed uint32) error {
	if self.IsPty() || speed == 0 {
		return nil
	}
	state, err := self.GetLineState()
	if err != nil {
		return err
	}
	ResolveBaud(&state, speed)
	self.log.WithFields(logrus.Fields{"speed": speed, "cflag": fmt.Sprintf("%#o", state.Cflag)}).Debug("setting line speed")
	return self.SetLineState(&state)
}

func (self *Link) GetSpeed() (uint32, error) {
	state, err := self.GetLineState()
	if err != nil {
		return 0, err
	}
	return OutputSpeed(&state), nil
}

func (self *Link) WaitReadable(d time.Duration) (bool, error) {
	if err := self.check_open(); err != nil {
		return false, err
	}
	fd := self.Fd()
	sel := utils.CreateSelect(1)
	sel.RegisterRead(fd)
	sel.RegisterError(fd)
	_, err := sel.Wait(d)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, pkgerrors.Wrapf(err, "polling %s", self.name)
	}
	if sel.IsErrored(fd) {
		return false, &os.PathError{Op: "poll", Path: self.name, Err: unix.EIO}
	}
	return sel.IsReadyToRead(fd), nil
}

// ReadWithTimeout polls once for at most d, returning os.ErrDeadlineExceeded
// if nothing arrived.
func (self *Link) ReadWithTimeout(b []byte, d time.Duration) (n int, err error) {
	ready, err := self.WaitReadable(d)
	if err != nil {
		return 0, err
	}
	if !ready {
		return 0, os.ErrDeadlineExceeded
	}
	return self.Read(b)
}

func is_temporary_read_error(err error) bool {
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

func (self *Link) Read(b []byte) (n int, err error) {
	if err = self.check_open(); err != nil {
		return
	}
	for {
		n, err = self.os_file.Read(b)
		if err != nil && is_temporary_read_error(err) && n <= 0 {
			continue
		}
		return
	}
}

func is_temporary_error(err error) bool {
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, io.ErrShortWrite)
}

// Write sends all of b, retrying interrupted and short writes.
func (self *Link) Write(b []byte) (written int, err error) {
	if err = self.check_open(); err != nil {
		return
	}
	for written < len(b) {
		n, werr := self.os_file.Write(b[written:])
		if n > 0 {
			written += n
		}
		if werr != nil && !is_temporary_error(werr) {
			return written, werr
		}
	}
	return
}

// Drain discards unread input until empty_polls consecutive polls of
// interval find nothing.
func (self *Link) Drain(interval time.Duration, empty_polls int) (discarded int, err error) {
	var buf [256]byte
	for count := 0; count < empty_polls; {
		n, rerr := self.ReadWithTimeout(buf[:], interval)
		switch {
		case errors.Is(rerr, os.ErrDeadlineExceeded):
			count++
		case rerr != nil:
			return discarded, rerr
		default:
			discarded += n
			count = 0
		}
	}
	return
}
