// License: GPLv3 Copyright: 2026, The vtdrive authors

// Package vt drives a VT100 class terminal over a slow byte channel, keeping
// a model of where the cursor is and checking it against the device.
package vt

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var _ = fmt.Print

// Conn is the byte channel to the device. *tty.Link satisfies it.
type Conn interface {
	io.Writer
	// ReadWithTimeout waits at most d for input and returns
	// os.ErrDeadlineExceeded if none arrived.
	ReadWithTimeout(b []byte, d time.Duration) (int, error)
	// IsPty is true when there is no physical line, so no settle delays
	IsPty() bool
}

// SpeedController is implemented by connections whose line rate can be
// changed.
type SpeedController interface {
	SetSpeed(speed uint32) error
	GetSpeed() (uint32, error)
}

type Options struct {
	// Line rate in bits per second, used for settle delays
	Speed  uint32
	Bounds Rect

	RepeatLimit       int
	PollTimeoutCycles int
	PollInterval      time.Duration
	DrainEmptyPolls   int
	WarmupBackoff     time.Duration
	MaxResponseBytes  int
	Starter           byte
	Fill              FillTable

	// Encoding used for text written with WriteText, UTF-8 if nil
	Encoding encoding.Encoding
	// NoVerify skips the position query after cursor movement
	NoVerify bool

	Log   *logrus.Entry
	Sleep func(time.Duration)
	Now   func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Speed:             9600,
		Bounds:            Rect{MinX: 1, MaxX: 80, MinY: 1, MaxY: 24},
		RepeatLimit:       5,
		PollTimeoutCycles: 4,
		PollInterval:      50 * time.Millisecond,
		DrainEmptyPolls:   4,
		WarmupBackoff:     10 * time.Millisecond,
		MaxResponseBytes:  256,
		Starter:           '[',
		Fill:              DefaultFillTable(),
		Encoding:          unicode.UTF8,
		Sleep:             time.Sleep,
		Now:               time.Now,
	}
}

func (self *Options) fill_defaults() {
	d := DefaultOptions()
	if self.Speed == 0 {
		self.Speed = d.Speed
	}
	if self.Bounds.Empty() {
		self.Bounds = d.Bounds
	}
	if self.RepeatLimit <= 0 {
		self.RepeatLimit = d.RepeatLimit
	}
	if self.PollTimeoutCycles <= 0 {
		self.PollTimeoutCycles = d.PollTimeoutCycles
	}
	if self.PollInterval <= 0 {
		self.PollInterval = d.PollInterval
	}
	if self.DrainEmptyPolls <= 0 {
		self.DrainEmptyPolls = d.DrainEmptyPolls
	}
	if self.WarmupBackoff < 0 {
		self.WarmupBackoff = 0
	}
	if self.MaxResponseBytes <= 0 {
		self.MaxResponseBytes = d.MaxResponseBytes
	}
	if self.Starter == 0 {
		self.Starter = d.Starter
	}
	if self.Fill == (FillTable{}) {
		self.Fill = d.Fill
	}
	if self.Encoding == nil {
		self.Encoding = d.Encoding
	}
	if self.Log == nil {
		self.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if self.Sleep == nil {
		self.Sleep = d.Sleep
	}
	if self.Now == nil {
		self.Now = d.Now
	}
}

type Engine struct {
	conn Conn
	opts Options
	log  *logrus.Entry

	cur          Position
	saved        Position
	cursor_saved bool
	wrap_pending bool
	bounds       Rect
	scroll       ScrollRegion
	tabs         map[int]bool

	autowrap    bool
	origin_mode bool

	repeat_count        int
	seen_valid_response bool
	quiet_until         time.Time
	parser              *ResponseParser
}

// New creates an engine that owns conn. The believed cursor position starts
// at the top left of opts.Bounds, nothing is sent until the first operation.
func New(conn Conn, opts Options) *Engine {
	opts.fill_defaults()
	self := &Engine{conn: conn, opts: opts, log: opts.Log, bounds: opts.Bounds}
	self.parser = NewResponseParser(opts.Starter, 'R')
	self.reset_model()
	return self
}

func (self *Engine) reset_model() {
	self.cur = Position{X: self.bounds.MinX, Y: self.bounds.MinY}
	self.saved = self.cur
	self.cursor_saved = false
	self.wrap_pending = false
	self.scroll = self.full_screen()
	self.autowrap = false
	self.origin_mode = false
	self.repeat_count = 0
	self.reset_tabs()
}

func (self *Engine) reset_tabs() {
	self.tabs = make(map[int]bool)
	for x := self.bounds.MinX + 8; x <= self.bounds.MaxX; x += 8 {
		self.tabs[x] = true
	}
}

func (self *Engine) Position() Position         { return self.cur }
func (self *Engine) Bounds() Rect               { return self.bounds }
func (self *Engine) ScrollRegion() ScrollRegion { return self.scroll }
func (self *Engine) AutowrapEnabled() bool      { return self.autowrap }
func (self *Engine) OriginModeEnabled() bool    { return self.origin_mode }
func (self *Engine) SeenValidResponse() bool    { return self.seen_valid_response }
func (self *Engine) Speed() uint32              { return self.opts.Speed }
func (self *Engine) Logger() *logrus.Entry      { return self.log }

// SavedPosition returns the snapshot taken by the last save and whether one
// was taken at all.
func (self *Engine) SavedPosition() (Position, bool) { return self.saved, self.cursor_saved }

// SetSpeed changes the line rate if the connection supports it and always
// updates the rate used for settle delays.
func (self *Engine) SetSpeed(speed uint32) error {
	if sc, ok := self.conn.(SpeedController); ok {
		if err := sc.SetSpeed(speed); err != nil {
			return &IOError{Op: "set speed", Err: err}
		}
	}
	if speed > 0 {
		self.opts.Speed = speed
	}
	return nil
}

func (self *Engine) GetSpeed() (uint32, error) {
	if sc, ok := self.conn.(SpeedController); ok {
		ans, err := sc.GetSpeed()
		if err != nil {
			return 0, &IOError{Op: "get speed", Err: err}
		}
		return ans, nil
	}
	return self.opts.Speed, nil
}

func (self *Engine) Close() error {
	if c, ok := self.conn.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (self *Engine) write_all(op string, b []byte) error {
	self.wait_settled()
	for len(b) > 0 {
		n, err := self.conn.Write(b)
		if err != nil {
			return &IOError{Op: op, Err: errors.WithStack(err)}
		}
		if n == 0 {
			return &IOError{Op: op, Err: io.ErrShortWrite}
		}
		b = b[n:]
	}
	return nil
}

// escape sends ESC followed by seq and starts the settle period for fill
// nominal characters.
func (self *Engine) escape(seq string, fill int) error {
	self.log.WithField("seq", strconv.Quote(seq)).Debug("emit")
	if err := self.write_all("escape "+strconv.Quote(seq), append([]byte{ESC}, seq...)); err != nil {
		return err
	}
	self.settle(fill)
	return nil
}

func (self *Engine) csi(fill int, format string, args ...any) error {
	return self.escape("["+fmt.Sprintf(format, args...), fill)
}
