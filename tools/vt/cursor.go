// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

var _ = fmt.Print

func check_count(op string, n int) error {
	if n < 1 {
		return validation_error(op, "count must be at least one, not %d", n)
	}
	return nil
}

// relative sends a cursor movement and applies its effect to the believed
// position.
func (self *Engine) relative(op string, n int, final byte, apply func(n int)) error {
	if err := check_count(op, n); err != nil {
		return err
	}
	if err := self.csi(self.opts.Fill.Default, "%d%c", n, final); err != nil {
		return err
	}
	self.repeat_count = 0
	self.wrap_pending = false
	apply(n)
	return self.verify(op)
}

// CUU moves the cursor up n lines, stopping at the top margin.
func (self *Engine) CUU(n int) error {
	return self.relative("CUU", n, 'A', func(n int) { self.cur.Y = self.line_up(self.cur.Y, n) })
}

// CUD moves the cursor down n lines, stopping at the bottom margin.
func (self *Engine) CUD(n int) error {
	return self.relative("CUD", n, 'B', func(n int) { self.cur.Y = self.line_down(self.cur.Y, n) })
}

func (self *Engine) CUF(n int) error {
	return self.relative("CUF", n, 'C', func(n int) { self.cur.X = min(self.cur.X+n, self.bounds.MaxX) })
}

func (self *Engine) CUB(n int) error {
	return self.relative("CUB", n, 'D', func(n int) { self.cur.X = max(self.cur.X-n, self.bounds.MinX) })
}

// position implements CUP and HVP. Coordinates are relative to the scroll
// region in origin mode. Requesting the believed position again is a no-op
// that counts towards the repeat limit.
func (self *Engine) position(op string, final byte, x, y int) error {
	if x == 1 && y == 1 {
		if err := self.escape(string([]byte{'[', final}), self.opts.Fill.CursorPosition); err != nil {
			return err
		}
		self.move_to(self.home())
		return self.verify(op)
	}
	if !self.addressable().Contains(Position{x, y}) {
		return validation_error(op, "position %s outside %s", Position{x, y}, self.addressable())
	}
	target := self.from_device(Position{x, y})
	if target == self.cur {
		self.repeat_count++
		if self.repeat_count > self.opts.RepeatLimit {
			return &ConsistencyError{Op: op, Target: target, Count: self.repeat_count}
		}
		return nil
	}
	self.repeat_count = 0
	if err := self.csi(self.opts.Fill.CursorPosition, "%d;%d%c", y, x, final); err != nil {
		return err
	}
	self.move_to(target)
	return self.verify(op)
}

// CUP moves the cursor to column x, row y.
func (self *Engine) CUP(x, y int) error { return self.position("CUP", 'H', x, y) }

func (self *Engine) HVP(x, y int) error { return self.position("HVP", 'f', x, y) }

func (self *Engine) GotoXY(x, y int) error { return self.CUP(x, y) }

func (self *Engine) Home() error { return self.CUP(1, 1) }

// ForcePosition sends x, y without range checks. The believed position is
// the request clamped to the screen, or to the scroll region in origin mode,
// which is what the device does too.
func (self *Engine) ForcePosition(x, y int) error {
	if err := self.csi(self.opts.Fill.CursorPosition, "%d;%dH", max(y, 0), max(x, 0)); err != nil {
		return err
	}
	self.repeat_count = 0
	target := self.from_device(Position{max(x, 1), max(y, 1)})
	if self.origin_mode {
		target.Y = max(self.scroll.Top, min(target.Y, self.scroll.Bottom))
	}
	self.move_to(target)
	return self.verify("ForcePosition")
}

func (self *Engine) line_op(op string, final byte, apply func()) error {
	if err := self.escape(string(final), self.opts.Fill.Default); err != nil {
		return err
	}
	self.repeat_count = 0
	self.wrap_pending = false
	apply()
	return self.verify(op)
}

// IND moves down one line, scrolling the region at the bottom margin.
func (self *Engine) IND() error {
	return self.line_op("IND", 'D', func() { self.cur.Y = self.line_down(self.cur.Y, 1) })
}

// NEL moves to the first column of the next line.
func (self *Engine) NEL() error {
	return self.line_op("NEL", 'E', func() {
		self.cur.Y = self.line_down(self.cur.Y, 1)
		self.cur.X = self.bounds.MinX
	})
}

// RI moves up one line, scrolling the region at the top margin.
func (self *Engine) RI() error {
	return self.line_op("RI", 'M', func() { self.cur.Y = self.line_up(self.cur.Y, 1) })
}

func (self *Engine) save(seq string, fill int) error {
	if err := self.escape(seq, fill); err != nil {
		return err
	}
	self.saved = self.cur
	self.cursor_saved = true
	return nil
}

func (self *Engine) restore(op, seq string, fill int) error {
	if err := self.escape(seq, fill); err != nil {
		return err
	}
	self.repeat_count = 0
	// without a save the device restores to home
	if self.cursor_saved {
		self.move_to(self.saved)
	} else {
		self.move_to(self.home())
	}
	return self.verify(op)
}

// SaveCursor saves the position with ESC [ s, replacing any earlier save.
func (self *Engine) SaveCursor() error { return self.save("[s", self.opts.Fill.SaveRestore) }

func (self *Engine) RestoreCursor() error {
	return self.restore("RestoreCursor", "[u", self.opts.Fill.SaveRestore)
}

// SaveCursorWithAttrs saves position and attributes with ESC 7.
func (self *Engine) SaveCursorWithAttrs() error {
	return self.save("7", self.opts.Fill.SaveRestoreAttrs)
}

func (self *Engine) RestoreCursorWithAttrs() error {
	return self.restore("RestoreCursorWithAttrs", "8", self.opts.Fill.SaveRestoreAttrs)
}

// WriteText writes at most limit characters of text, padding with spaces to
// exactly limit characters. A negative limit means up to the last column.
// Control characters in text move the believed position the way the device
// moves its cursor.
func (self *Engine) WriteText(text string, limit int) error {
	if limit < 0 {
		limit = max(0, self.bounds.MaxX-self.cur.X)
	}
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	out := string(runes) + strings.Repeat(" ", limit-len(runes))
	if out == "" {
		return nil
	}
	enc := encoding.ReplaceUnsupported(self.opts.Encoding.NewEncoder())
	b, err := enc.Bytes([]byte(out))
	if err != nil {
		return &IOError{Op: "write", Err: errors.Wrap(err, "encoding text")}
	}
	self.log.WithField("chars", limit).Debug("write text")
	if err = self.write_all("write", b); err != nil {
		return err
	}
	self.repeat_count = 0
	for _, r := range out {
		self.advance(r)
	}
	return self.verify("write")
}

// WriteRaw sends b as is. The believed position is not updated so callers
// must re-establish it, with ForcePosition or CUP.
func (self *Engine) WriteRaw(b []byte) error {
	return self.write_all("write raw", b)
}
