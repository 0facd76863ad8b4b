// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var _ = fmt.Print

const ESC = 0x1b

type response_state uint8

const (
	awaiting_esc response_state = iota
	awaiting_starter
	accumulating
)

func (self response_state) String() string {
	switch self {
	case awaiting_esc:
		return "awaiting ESC"
	case awaiting_starter:
		return "awaiting starter"
	default:
		return "accumulating"
	}
}

type FeedResult uint8

const (
	NeedMore FeedResult = iota
	Complete
	Unexpected
)

// max value of a single numeric field, anything larger is saturated
const max_field_value = 1 << 20

// ResponseParser recognizes replies of the form
//
//	ESC starter [digits[;digits...]] terminator
//
// one byte at a time. Bytes that do not fit the current state are reported
// as Unexpected and otherwise ignored.
type ResponseParser struct {
	state      response_state
	starter    byte
	terminator byte
	fields     []int
	current    int
	in_field   bool
}

func NewResponseParser(starter, terminator byte) *ResponseParser {
	ans := &ResponseParser{}
	ans.Reset(starter, terminator)
	return ans
}

func (self *ResponseParser) Reset(starter, terminator byte) {
	self.starter = starter
	self.terminator = terminator
	self.state = awaiting_esc
	self.restart_fields()
}

func (self *ResponseParser) restart_fields() {
	self.fields = self.fields[:0]
	self.current = 0
	self.in_field = false
}

// empty fields take the VT default of 1
const default_field_value = 1

func (self *ResponseParser) close_field() {
	if !self.in_field {
		self.current = default_field_value
	}
	self.fields = append(self.fields, self.current)
	self.current = 0
	self.in_field = false
}

// Fields returns the numbers of the last complete reply, in the order the
// device sent them.
func (self *ResponseParser) Fields() []int {
	return append([]int(nil), self.fields...)
}

func (self *ResponseParser) State() string { return self.state.String() }

func (self *ResponseParser) Feed(ch byte) FeedResult {
	switch self.state {
	case awaiting_esc:
		if ch == ESC {
			self.state = awaiting_starter
			return NeedMore
		}
		return Unexpected
	case awaiting_starter:
		switch ch {
		case self.starter:
			self.state = accumulating
			self.restart_fields()
			return NeedMore
		case ESC:
			return NeedMore
		}
		self.state = awaiting_esc
		return Unexpected
	case accumulating:
		switch {
		case '0' <= ch && ch <= '9':
			self.current = min(self.current*10+int(ch-'0'), max_field_value)
			self.in_field = true
			return NeedMore
		case ch == ';':
			self.close_field()
			return NeedMore
		case ch == self.terminator:
			if self.in_field || len(self.fields) > 0 {
				self.close_field()
			}
			self.state = awaiting_esc
			return Complete
		case ch == ESC:
			// a new reply started before this one finished
			self.state = awaiting_starter
			self.restart_fields()
			return Unexpected
		}
		return Unexpected
	}
	return Unexpected
}

// Parse feeds data until a reply completes, returning the number of bytes
// consumed.
func (self *ResponseParser) Parse(data []byte) (fields []int, consumed int, complete bool) {
	for i, ch := range data {
		if self.Feed(ch) == Complete {
			return self.Fields(), i + 1, true
		}
	}
	return nil, len(data), false
}

func is_empty_poll(n int, err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded) || (err == nil && n == 0)
}

func (self *Engine) unexpected_byte(op string, ch byte, state string) {
	if self.seen_valid_response {
		self.log.WithFields(logrus.Fields{"op": op, "byte": fmt.Sprintf("%#02x", ch), "state": state}).Warn("unexpected byte in reply")
		return
	}
	// the device is still warming up, ignore quietly
	self.opts.Sleep(self.opts.WarmupBackoff)
}

func (self *Engine) read_byte(op string, empty *int) (ch byte, err error) {
	var buf [1]byte
	for {
		n, rerr := self.conn.ReadWithTimeout(buf[:], self.opts.PollInterval)
		if is_empty_poll(n, rerr) {
			*empty++
			if *empty >= self.opts.PollTimeoutCycles {
				return 0, &TimeoutError{Op: op, Polls: *empty, Interval: self.opts.PollInterval}
			}
			continue
		}
		if rerr != nil {
			return 0, &IOError{Op: op, Err: errors.WithStack(rerr)}
		}
		*empty = 0
		return buf[0], nil
	}
}

// read_response runs the reply automaton until terminator, returning the
// numeric fields of the reply.
func (self *Engine) read_response(op string, terminator byte) ([]int, error) {
	self.wait_settled()
	self.parser.Reset(self.opts.Starter, terminator)
	empty := 0
	for total := 0; ; {
		ch, err := self.read_byte(op, &empty)
		if err != nil {
			return nil, err
		}
		if total++; total > self.opts.MaxResponseBytes {
			return nil, &ProtocolError{Op: op, Msg: fmt.Sprintf("no complete reply within %d bytes", self.opts.MaxResponseBytes)}
		}
		state := self.parser.State()
		switch self.parser.Feed(ch) {
		case Complete:
			self.seen_valid_response = true
			return self.parser.Fields(), nil
		case Unexpected:
			self.unexpected_byte(op, ch, state)
		}
	}
}

// read_exact reads exactly n bytes with the same empty poll budget as
// read_response, used for replies with fixed framing.
func (self *Engine) read_exact(op string, n int) ([]byte, error) {
	self.wait_settled()
	ans := make([]byte, 0, n)
	empty := 0
	for len(ans) < n {
		ch, err := self.read_byte(op, &empty)
		if err != nil {
			return ans, err
		}
		ans = append(ans, ch)
	}
	return ans, nil
}

// Drain discards whatever is waiting to be read, stopping after
// DrainEmptyPolls consecutive empty polls.
func (self *Engine) Drain() (discarded int, err error) {
	var buf [64]byte
	for count := 0; count < self.opts.DrainEmptyPolls; {
		n, rerr := self.conn.ReadWithTimeout(buf[:], self.opts.PollInterval)
		switch {
		case is_empty_poll(n, rerr):
			count++
		case rerr != nil:
			return discarded, &IOError{Op: "drain", Err: errors.WithStack(rerr)}
		default:
			discarded += n
			count = 0
		}
	}
	if discarded > 0 {
		self.log.WithField("bytes", discarded).Debug("drained unread input")
	}
	return
}
