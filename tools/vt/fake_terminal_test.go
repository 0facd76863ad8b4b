// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var _ = fmt.Print

// fake_terminal is a small VT100: it tracks the cursor, margins, origin mode
// and autowrap, and answers position, status and attribute queries.
type fake_terminal struct {
	width, height                  int
	x, y                           int
	top, bottom                    int
	origin, autowrap, wrap_pending bool
	saved_x, saved_y               int
	pty                            bool

	written []byte
	out     []byte

	status   int
	da_reply string
	// replies to drop, simulating a device that misses queries
	drop_replies int
	// CUP/HVP commands to ignore, simulating a lagging device
	ignore_moves int
	// ignore positioning outside the screen instead of clamping
	refuse_out_of_range bool
	// sent before the next reply
	noise []byte

	empty_polls int
	state       int
	params      []byte
}

func new_fake_terminal(width, height int) *fake_terminal {
	ans := &fake_terminal{width: width, height: height, pty: true, da_reply: "\x1b[?1;2c"}
	ans.reset()
	return ans
}

func (self *fake_terminal) reset() {
	self.x, self.y = 1, 1
	self.saved_x, self.saved_y = 1, 1
	self.top, self.bottom = 1, self.height
	self.origin, self.autowrap, self.wrap_pending = false, false, false
}

func (self *fake_terminal) IsPty() bool { return self.pty }

func (self *fake_terminal) ReadWithTimeout(b []byte, d time.Duration) (int, error) {
	if len(self.out) == 0 {
		self.empty_polls++
		return 0, os.ErrDeadlineExceeded
	}
	n := copy(b, self.out)
	self.out = self.out[n:]
	return n, nil
}

func (self *fake_terminal) Write(b []byte) (int, error) {
	self.written = append(self.written, b...)
	for _, ch := range b {
		self.feed(ch)
	}
	return len(b), nil
}

// take returns everything written since the last call
func (self *fake_terminal) take() string {
	ans := string(self.written)
	self.written = nil
	return ans
}

func (self *fake_terminal) pos() Position { return Position{self.x, self.y} }

func (self *fake_terminal) reply(s string) {
	if self.drop_replies > 0 {
		self.drop_replies--
		return
	}
	if len(self.noise) > 0 {
		self.out = append(self.out, self.noise...)
		self.noise = nil
	}
	self.out = append(self.out, s...)
}

func (self *fake_terminal) down(y, n int) int {
	limit := self.height
	if y >= self.top && y <= self.bottom {
		limit = self.bottom
	}
	return min(y+n, limit)
}

func (self *fake_terminal) up(y, n int) int {
	limit := 1
	if y >= self.top && y <= self.bottom {
		limit = self.top
	}
	return max(y-n, limit)
}

func (self *fake_terminal) home() {
	self.x, self.y = 1, 1
	if self.origin {
		self.y = self.top
	}
}

func (self *fake_terminal) feed(ch byte) {
	switch self.state {
	case 1:
		self.state = 0
		switch ch {
		case '[':
			self.state = 2
			self.params = self.params[:0]
			return
		case 'D':
			self.y = self.down(self.y, 1)
		case 'E':
			self.y = self.down(self.y, 1)
			self.x = 1
		case 'M':
			self.y = self.up(self.y, 1)
		case '7':
			self.saved_x, self.saved_y = self.x, self.y
		case '8':
			self.x, self.y = self.saved_x, self.saved_y
		case 'c':
			self.reset()
		default:
			return
		}
		self.wrap_pending = false
		return
	case 2:
		if ch >= 0x40 && ch <= 0x7e {
			self.state = 0
			self.csi(ch)
			return
		}
		self.params = append(self.params, ch)
		return
	}
	switch ch {
	case 0x1b:
		self.state = 1
	case '\n', '\v', '\f':
		self.y = self.down(self.y, 1)
		self.wrap_pending = false
	case '\r':
		self.x = 1
		self.wrap_pending = false
	case '\b':
		self.x = max(1, self.x-1)
		self.wrap_pending = false
	case '\t':
		self.x = min(((self.x-1)/8+1)*8+1, self.width)
		self.wrap_pending = false
	default:
		if ch < 0x20 || ch == 0x7f {
			return
		}
		if self.wrap_pending {
			self.x = 1
			self.y = self.down(self.y, 1)
			self.wrap_pending = false
		}
		if self.x < self.width {
			self.x++
		} else if self.autowrap {
			self.wrap_pending = true
		}
	}
}

func (self *fake_terminal) numbers() (private bool, ans []int) {
	p := string(self.params)
	if strings.HasPrefix(p, "?") {
		private = true
		p = p[1:]
	}
	if p == "" {
		return
	}
	for _, x := range strings.Split(p, ";") {
		n, _ := strconv.Atoi(x)
		ans = append(ans, n)
	}
	return
}

func param(nums []int, i, def int) int {
	if i < len(nums) && nums[i] > 0 {
		return nums[i]
	}
	return def
}

func (self *fake_terminal) csi(final byte) {
	private, n := self.numbers()
	switch final {
	case 'H', 'f':
		y, x := param(n, 0, 1), param(n, 1, 1)
		if self.ignore_moves > 0 {
			self.ignore_moves--
			return
		}
		if self.origin {
			y = min(y+self.top-1, self.bottom)
		}
		if self.refuse_out_of_range && (x > self.width || y > self.height) {
			return
		}
		self.x, self.y = min(x, self.width), min(y, self.height)
	case 'A':
		self.y = self.up(self.y, param(n, 0, 1))
	case 'B':
		self.y = self.down(self.y, param(n, 0, 1))
	case 'C':
		self.x = min(self.x+param(n, 0, 1), self.width)
	case 'D':
		self.x = max(self.x-param(n, 0, 1), 1)
	case 'r':
		top, bottom := param(n, 0, 1), param(n, 1, self.height)
		if top < bottom && bottom <= self.height {
			self.top, self.bottom = top, bottom
		}
		self.home()
	case 's':
		self.saved_x, self.saved_y = self.x, self.y
	case 'u':
		self.x, self.y = self.saved_x, self.saved_y
	case 'h', 'l':
		if private && len(n) > 0 {
			switch n[0] {
			case 6:
				self.origin = final == 'h'
				self.home()
			case 7:
				self.autowrap = final == 'h'
			}
		}
	case 'n':
		switch param(n, 0, 0) {
		case 5:
			self.reply(fmt.Sprintf("\x1b[%dn", self.status))
		case 6:
			y := self.y
			if self.origin {
				y -= self.top - 1
			}
			self.reply(fmt.Sprintf("\x1b[%d;%dR", y, self.x))
		}
		return
	case 'c':
		self.reply(self.da_reply)
		return
	default:
		return
	}
	self.wrap_pending = false
}

type fake_clock struct {
	now    time.Time
	sleeps []time.Duration
}

func (self *fake_clock) Now() time.Time { return self.now }

func (self *fake_clock) Sleep(d time.Duration) {
	self.sleeps = append(self.sleeps, d)
	self.now = self.now.Add(d)
}

func new_test_engine(ft *fake_terminal) (*Engine, *fake_clock, *test.Hook) {
	clock := &fake_clock{now: time.Unix(1700000000, 0)}
	opts := DefaultOptions()
	opts.Bounds = Rect{MinX: 1, MaxX: ft.width, MinY: 1, MaxY: ft.height}
	opts.Sleep = clock.Sleep
	opts.Now = clock.Now
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts.Log = logrus.NewEntry(logger)
	return New(ft, opts), clock, hook
}
