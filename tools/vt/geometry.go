// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
)

var _ = fmt.Print

// Position is a 1-based cursor location, X is the column and Y the row.
type Position struct {
	X, Y int
}

func (self Position) String() string { return fmt.Sprintf("(%d, %d)", self.X, self.Y) }

// Rect is an inclusive range of columns and rows.
type Rect struct {
	MinX, MaxX, MinY, MaxY int
}

func (self Rect) Empty() bool { return self.MaxX < self.MinX || self.MaxY < self.MinY || self == Rect{} }

func (self Rect) Contains(p Position) bool {
	return self.MinX <= p.X && p.X <= self.MaxX && self.MinY <= p.Y && p.Y <= self.MaxY
}

func (self Rect) Clamp(p Position) Position {
	return Position{X: max(self.MinX, min(p.X, self.MaxX)), Y: max(self.MinY, min(p.Y, self.MaxY))}
}

func (self Rect) Width() int  { return self.MaxX - self.MinX + 1 }
func (self Rect) Height() int { return self.MaxY - self.MinY + 1 }

func (self Rect) String() string {
	return fmt.Sprintf("%d..%d x %d..%d", self.MinX, self.MaxX, self.MinY, self.MaxY)
}

// ScrollRegion is the inclusive range of lines between the top and bottom
// margins. When not Enabled it covers the whole screen.
type ScrollRegion struct {
	Top, Bottom int
	Enabled     bool
}

func (self *Engine) full_screen() ScrollRegion {
	return ScrollRegion{Top: self.bounds.MinY, Bottom: self.bounds.MaxY}
}

func (self *Engine) home() Position {
	ans := Position{X: self.bounds.MinX, Y: self.bounds.MinY}
	if self.origin_mode {
		ans.Y = self.scroll.Top
	}
	return ans
}

// line_down moves y down n lines. Inside the scroll region the bottom margin
// stops the cursor, the device scrolls instead.
func (self *Engine) line_down(y, n int) int {
	limit := self.bounds.MaxY
	if y >= self.scroll.Top && y <= self.scroll.Bottom {
		limit = self.scroll.Bottom
	}
	return min(y+n, limit)
}

func (self *Engine) line_up(y, n int) int {
	limit := self.bounds.MinY
	if y >= self.scroll.Top && y <= self.scroll.Bottom {
		limit = self.scroll.Top
	}
	return max(y-n, limit)
}

// move_to updates the believed position, clamped to the screen.
func (self *Engine) move_to(p Position) {
	self.cur = self.bounds.Clamp(p)
	self.wrap_pending = false
}

// to_device converts an absolute position into the coordinates the device
// expects in the current origin mode.
func (self *Engine) to_device(p Position) Position {
	if self.origin_mode {
		p.Y -= self.scroll.Top - 1
	}
	return p
}

func (self *Engine) from_device(p Position) Position {
	if self.origin_mode {
		p.Y += self.scroll.Top - 1
	}
	return p
}

// addressable is the rectangle valid for absolute positioning requests
func (self *Engine) addressable() Rect {
	if self.origin_mode {
		return Rect{MinX: self.bounds.MinX, MaxX: self.bounds.MaxX, MinY: 1, MaxY: self.scroll.Bottom - self.scroll.Top + 1}
	}
	return self.bounds
}

func (self *Engine) next_tab(x int) int {
	for q := x + 1; q < self.bounds.MaxX; q++ {
		if self.tabs[q] {
			return q
		}
	}
	return self.bounds.MaxX
}

// advance applies the effect of one written character to the believed
// position. Printing in the last column leaves the cursor there with a wrap
// pending, the next printable character wraps when autowrap is on.
func (self *Engine) advance(r rune) {
	switch r {
	case '\n', '\v', '\f':
		self.cur.Y = self.line_down(self.cur.Y, 1)
		self.wrap_pending = false
	case '\r':
		self.cur.X = self.bounds.MinX
		self.wrap_pending = false
	case '\b':
		self.cur.X = max(self.bounds.MinX, self.cur.X-1)
		self.wrap_pending = false
	case '\t':
		self.cur.X = self.next_tab(self.cur.X)
		self.wrap_pending = false
	default:
		if r < 0x20 || r == 0x7f {
			return
		}
		if self.wrap_pending {
			self.cur.X = self.bounds.MinX
			self.cur.Y = self.line_down(self.cur.Y, 1)
			self.wrap_pending = false
		}
		if self.cur.X < self.bounds.MaxX {
			self.cur.X++
		} else if self.autowrap {
			self.wrap_pending = true
		}
	}
}
