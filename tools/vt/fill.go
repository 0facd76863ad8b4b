// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
)

var _ = fmt.Print

// FillTable holds the nominal character cost of each operation that needs
// the device to settle before further I/O. Zero means no settle time.
type FillTable struct {
	Default          int
	CursorPosition   int
	EraseDisplay     int
	EraseLine        int
	Reset            int
	Mode             int
	ScrollRegion     int
	PositionQuery    int
	StatusQuery      int
	AttributesQuery  int
	SaveRestoreAttrs int
	SaveRestore      int
}

func DefaultFillTable() FillTable {
	return FillTable{
		Default:          400,
		CursorPosition:   4000,
		EraseDisplay:     400,
		EraseLine:        200,
		Reset:            80000,
		Mode:             400,
		ScrollRegion:     400,
		PositionQuery:    1600,
		StatusQuery:      1600,
		AttributesQuery:  1600,
		SaveRestoreAttrs: 80,
		SaveRestore:      80,
	}
}

const fill_factor = 1.2

// FillDelay is the settle time for chars nominal characters at speed bits
// per second.
func FillDelay(chars int, speed uint32) time.Duration {
	if chars <= 0 || speed == 0 {
		return 0
	}
	return time.Duration(float64(chars) * fill_factor / float64(speed) * float64(time.Second))
}

func (self *Engine) settle(chars int) {
	if self.conn.IsPty() {
		return
	}
	d := FillDelay(chars, self.opts.Speed)
	if d <= 0 {
		return
	}
	until := self.opts.Now().Add(d)
	if until.After(self.quiet_until) {
		self.quiet_until = until
	}
}

// wait_settled blocks until the quiet period of the last operation is over
func (self *Engine) wait_settled() {
	if self.quiet_until.IsZero() {
		return
	}
	d := self.quiet_until.Sub(self.opts.Now())
	self.quiet_until = time.Time{}
	if d > 0 {
		self.log.WithField("fill", durafmt.Parse(d).String()).Debug("waiting for device to settle")
		self.opts.Sleep(d)
	}
}
