// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

var _ = fmt.Print

const (
	discover_far           = 999
	discover_line_feeds    = 200
	discover_padding_width = 300
)

func (self *Engine) force_and_query(x, y int) (Position, error) {
	if err := self.csi(self.opts.Fill.CursorPosition, "%d;%dH", y, x); err != nil {
		return Position{}, err
	}
	return self.QueryPosition()
}

// reset_margins removes the scroll region and origin mode so that the device
// reports absolute positions.
func (self *Engine) reset_margins() error {
	if self.origin_mode {
		if err := self.Mode(DECOM, false, PrivateMode); err != nil {
			return err
		}
		self.origin_mode = false
	}
	if err := self.csi(self.opts.Fill.ScrollRegion, "r"); err != nil {
		return err
	}
	self.scroll = self.full_screen()
	return nil
}

func (self *Engine) set_bounds(r Rect) {
	self.bounds = r
	self.scroll = self.full_screen()
	self.reset_tabs()
	self.log.WithField("bounds", r.String()).Info("discovered screen geometry")
}

// Discover learns the screen size by sending the cursor far outside the
// screen in both directions and asking the device where it ended up. Devices
// that refuse out of range positions are handled by DiscoverByClamping. The
// scroll region is reset and the cursor left at home.
func (self *Engine) Discover() (Rect, error) {
	if err := self.reset_margins(); err != nil {
		return self.bounds, err
	}
	lo, err := self.force_and_query(0, 0)
	if err != nil {
		return self.bounds, err
	}
	hi, err := self.force_and_query(discover_far, discover_far)
	if err != nil {
		return self.bounds, err
	}
	self.log.WithFields(logrus.Fields{"min": lo.String(), "max": hi.String()}).Debug("forced positions")
	if hi.X <= lo.X || hi.Y <= lo.Y {
		return self.DiscoverByClamping()
	}
	self.set_bounds(Rect{MinX: lo.X, MaxX: hi.X, MinY: lo.Y, MaxY: hi.Y})
	self.cur = hi
	return self.bounds, self.Home()
}

// DiscoverByClamping learns the screen size from where the cursor stops
// after a long run of line feeds and then of spaces, with autowrap off.
func (self *Engine) DiscoverByClamping() (Rect, error) {
	if err := self.reset_margins(); err != nil {
		return self.bounds, err
	}
	if err := self.Autowrap(false); err != nil {
		return self.bounds, err
	}
	if err := self.escape("[H", self.opts.Fill.CursorPosition); err != nil {
		return self.bounds, err
	}
	lo, err := self.QueryPosition()
	if err != nil {
		return self.bounds, err
	}
	if err = self.WriteRaw(bytes.Repeat([]byte{'\n'}, discover_line_feeds)); err != nil {
		return self.bounds, err
	}
	self.settle(discover_line_feeds)
	after_feeds, err := self.QueryPosition()
	if err != nil {
		return self.bounds, err
	}
	if err = self.WriteRaw(bytes.Repeat([]byte{' '}, discover_padding_width)); err != nil {
		return self.bounds, err
	}
	self.settle(discover_padding_width)
	after_pad, err := self.QueryPosition()
	if err != nil {
		return self.bounds, err
	}
	r := Rect{MinX: lo.X, MaxX: after_pad.X, MinY: lo.Y, MaxY: after_feeds.Y}
	if r.Empty() || r.MaxX <= r.MinX || r.MaxY <= r.MinY {
		return self.bounds, &ProtocolError{Op: "DiscoverByClamping", Msg: fmt.Sprintf("device reported an impossible geometry: %s", r)}
	}
	self.set_bounds(r)
	self.cur = after_pad
	return self.bounds, self.Home()
}
