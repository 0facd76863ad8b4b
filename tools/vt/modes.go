// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

var _ = fmt.Print

type ModeGroup uint8

const (
	StandardMode ModeGroup = 1
	PrivateMode  ModeGroup = 2
)

// Mode numbers
const (
	DECANM  = 2
	CRM     = 3
	DECSCLM = 4
	SRTM    = 5
	DECOM   = 6
	DECAWM  = 7
)

// Mode sets (enable) or resets a mode. Standard modes are numbered in the
// ANSI space, private ones in the DEC space.
func (self *Engine) Mode(code int, enable bool, group ModeGroup) error {
	if code < 0 {
		return validation_error("Mode", "invalid mode number: %d", code)
	}
	final := 'l'
	if enable {
		final = 'h'
	}
	switch group {
	case StandardMode:
		return self.csi(self.opts.Fill.Mode, "%d%c", code, final)
	case PrivateMode:
		return self.csi(self.opts.Fill.Mode, "?%d%c", code, final)
	}
	return validation_error("Mode", "unknown mode group: %d", group)
}

// OriginMode makes positions relative to the scroll region. Switching it
// homes the cursor.
func (self *Engine) OriginMode(enable bool) error {
	if err := self.Mode(DECOM, enable, PrivateMode); err != nil {
		return err
	}
	self.origin_mode = enable
	self.repeat_count = 0
	self.move_to(self.home())
	return self.verify("OriginMode")
}

func (self *Engine) Autowrap(enable bool) error {
	if err := self.Mode(DECAWM, enable, PrivateMode); err != nil {
		return err
	}
	self.autowrap = enable
	self.wrap_pending = false
	return nil
}

// ANSIMode selects the ANSI personality or, when disabled, VT52 mode.
// Entering ANSI mode uses ESC < which VT52 mode understands too.
func (self *Engine) ANSIMode(enable bool) error {
	if enable {
		return self.escape("<", self.opts.Fill.Mode)
	}
	return self.Mode(DECANM, false, PrivateMode)
}

func (self *Engine) SmoothScroll(enable bool) error {
	return self.Mode(DECSCLM, enable, PrivateMode)
}

// ControlDisplay makes control characters visible instead of acting on them
func (self *Engine) ControlDisplay(enable bool) error {
	return self.Mode(CRM, enable, StandardMode)
}

// StatusReportTransfer enabled makes the device send reports after DCS,
// disabled it only reports when asked with DSR.
func (self *Engine) StatusReportTransfer(enable bool) error {
	return self.Mode(SRTM, enable, StandardMode)
}

func (self *Engine) KeypadApplication(enable bool) error {
	if enable {
		return self.escape("=", self.opts.Fill.Mode)
	}
	return self.escape(">", self.opts.Fill.Mode)
}

func erase_param(from_start, to_end bool) int {
	switch {
	case from_start == to_end:
		return 2
	case from_start:
		return 1
	default:
		return 0
	}
}

// ED erases in display. Both or neither flag erases the whole screen.
func (self *Engine) ED(from_start, to_end bool) error {
	return self.csi(self.opts.Fill.EraseDisplay, "%dJ", erase_param(from_start, to_end))
}

// EL erases in the current line. Both or neither flag erases the whole line.
func (self *Engine) EL(from_start, to_end bool) error {
	return self.csi(self.opts.Fill.EraseLine, "%dK", erase_param(from_start, to_end))
}

func (self *Engine) Clear() error { return self.ED(true, true) }

type Attrs uint16

const (
	AttrsOff Attrs = 1 << iota
	Bold
	Dim
	Underline
	Blink
	Reverse
	Invisible
	Normal
	UnderlineOff
	BlinkOff
	ReverseOff
)

var attr_codes = [...]int{0, 1, 2, 4, 5, 7, 8, 22, 24, 25, 27}

func (self Attrs) Params() string {
	var parts []string
	for i, code := range attr_codes {
		if self&(1<<i) != 0 {
			parts = append(parts, strconv.Itoa(code))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, ";")
}

// SGR selects graphic rendition. Bold, Dim and Invisible are mutually
// exclusive. No attributes at all resets them.
func (self *Engine) SGR(attrs Attrs) error {
	if bits.OnesCount16(uint16(attrs&(Bold|Dim|Invisible))) > 1 {
		return validation_error("SGR", "bold, dim and invisible cannot be combined")
	}
	if attrs >= 1<<len(attr_codes) {
		return validation_error("SGR", "unknown attributes: %#x", uint16(attrs))
	}
	return self.csi(self.opts.Fill.Default, "%sm", attrs.Params())
}

// HTS sets a tab stop at the current column.
func (self *Engine) HTS() error {
	if err := self.escape("H", self.opts.Fill.Default); err != nil {
		return err
	}
	self.tabs[self.cur.X] = true
	return nil
}

// TBC clears the tab stop at the current column (0) or all of them (3).
func (self *Engine) TBC(ps int) error {
	switch ps {
	case 0, 3:
	default:
		return validation_error("TBC", "tab clear parameter must be 0 or 3, not %d", ps)
	}
	if err := self.csi(self.opts.Fill.Default, "%dg", ps); err != nil {
		return err
	}
	if ps == 3 {
		clear(self.tabs)
	} else {
		delete(self.tabs, self.cur.X)
	}
	return nil
}

// RIS resets the device to its initial state and the model with it. The
// device is not queried afterwards, it is unresponsive while resetting.
func (self *Engine) RIS() error {
	if err := self.escape("c", self.opts.Fill.Reset); err != nil {
		return err
	}
	self.reset_model()
	return nil
}

// ScrollEnable sets the scroll region to lines top through bottom, clamped
// to the screen. Setting margins homes the cursor.
func (self *Engine) ScrollEnable(top, bottom int) error {
	top = max(self.bounds.MinY, min(top, self.bounds.MaxY))
	bottom = max(self.bounds.MinY, min(bottom, self.bounds.MaxY))
	if bottom <= top {
		return validation_error("ScrollEnable", "top margin %d must be less than bottom margin %d", top, bottom)
	}
	if err := self.csi(self.opts.Fill.ScrollRegion, "%d;%dr", top, bottom); err != nil {
		return err
	}
	self.scroll = ScrollRegion{Top: top, Bottom: bottom, Enabled: true}
	self.repeat_count = 0
	self.move_to(self.home())
	return self.verify("ScrollEnable")
}

// ScrollDisable resets the scroll region to the whole screen.
func (self *Engine) ScrollDisable() error {
	if err := self.csi(self.opts.Fill.ScrollRegion, "r"); err != nil {
		return err
	}
	self.scroll = self.full_screen()
	self.repeat_count = 0
	self.move_to(self.home())
	return self.verify("ScrollDisable")
}

// ScrollUp scrolls the region contents down by one line when the cursor is
// at the top margin, it is a reverse index.
func (self *Engine) ScrollUp() error { return self.RI() }

// ScrollDown scrolls the region up n lines by issuing NEL at its bottom
// margin, then puts the cursor back where it was.
func (self *Engine) ScrollDown(n int) error {
	if err := check_count("ScrollDown", n); err != nil {
		return err
	}
	if err := self.SaveCursorWithAttrs(); err != nil {
		return err
	}
	bottom := self.to_device(Position{self.bounds.MaxX, self.scroll.Bottom})
	for range n {
		if err := self.CUP(bottom.X, bottom.Y); err != nil {
			return err
		}
		if err := self.NEL(); err != nil {
			return err
		}
	}
	return self.RestoreCursorWithAttrs()
}

// ENQ asks for the answerback message. The reply is not read.
func (self *Engine) ENQ() error {
	return self.write_all("ENQ", []byte{0x05})
}

// Init puts the device into the state the engine expects: control
// characters act, reports only on request, blank screen, cursor home.
func (self *Engine) Init() error {
	if err := self.ControlDisplay(false); err != nil {
		return err
	}
	if err := self.StatusReportTransfer(false); err != nil {
		return err
	}
	if err := self.Clear(); err != nil {
		return err
	}
	return self.Home()
}
