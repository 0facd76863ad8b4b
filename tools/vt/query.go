// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var _ = fmt.Print

// CPR reads a cursor position report. The device sends the row first. A
// malformed report yields the believed position, only timeouts and I/O
// failures are returned as errors.
func (self *Engine) CPR() (Position, error) {
	fields, err := self.read_response("CPR", 'R')
	if err != nil {
		var pe *ProtocolError
		if errors.As(err, &pe) {
			self.log.WithError(err).Warn("unreadable position report, using believed position")
			return self.cur, nil
		}
		return self.cur, err
	}
	if len(fields) != 2 {
		self.log.WithField("fields", fields).Warn("position report does not have two fields, using believed position")
		return self.cur, nil
	}
	return self.from_device(Position{X: fields[1], Y: fields[0]}), nil
}

func (self *Engine) query_position() (Position, error) {
	if err := self.csi(self.opts.Fill.PositionQuery, "6n"); err != nil {
		return self.cur, err
	}
	return self.CPR()
}

// QueryPosition asks the device where the cursor is. A timed out query is
// retried once after draining whatever is left in the reply stream.
func (self *Engine) QueryPosition() (Position, error) {
	ans, err := self.query_position()
	var te *TimeoutError
	if errors.As(err, &te) {
		self.log.WithError(err).Warn("position query timed out, draining and retrying")
		if _, derr := self.Drain(); derr != nil {
			return self.cur, derr
		}
		ans, err = self.query_position()
	}
	return ans, err
}

// StatusReport sends DSR 5. Zero means the device is ready, three that it
// has a malfunction.
func (self *Engine) StatusReport() (int, error) {
	if err := self.csi(self.opts.Fill.StatusQuery, "5n"); err != nil {
		return 0, err
	}
	fields, err := self.read_response("DSR", 'n')
	if err != nil {
		return 0, err
	}
	if len(fields) != 1 {
		return 0, &ProtocolError{Op: "DSR", Msg: fmt.Sprintf("status report has %d fields instead of one", len(fields))}
	}
	return fields[0], nil
}

type DeviceStatus struct {
	Code     int
	Status   int
	Position Position
}

// DSR issues a device status report request, code 5 for operating status
// and 6 for the cursor position.
func (self *Engine) DSR(code int) (ans DeviceStatus, err error) {
	ans.Code = code
	switch code {
	case 5:
		ans.Status, err = self.StatusReport()
	case 6:
		ans.Position, err = self.QueryPosition()
	default:
		err = validation_error("DSR", "unsupported status report code: %d", code)
	}
	return
}

var device_options = [8]string{
	"No options",
	"Processor Option (STP)",
	"Advanced video option (AVO)",
	"AVO and STP",
	"Graphics option (GPO)",
	"GPO and STP",
	"GPO and AVO",
	"GPO, STP, and AVO",
}

type DeviceAttributes struct {
	Code        int
	Description string
}

const da_reply_size = 7

// DA queries device attributes. The reply must be exactly
// ESC [ ? 1 ; Pn c with a single digit option code.
func (self *Engine) DA() (ans DeviceAttributes, err error) {
	if err = self.csi(self.opts.Fill.AttributesQuery, "0c"); err != nil {
		return
	}
	reply, err := self.read_exact("DA", da_reply_size)
	if err != nil {
		return
	}
	const prefix = "\x1b[?1;"
	if string(reply[:len(prefix)]) != prefix {
		return ans, validation_error("DA", "reply %q does not start with %q", reply, prefix)
	}
	if reply[6] != 'c' {
		return ans, validation_error("DA", "reply %q does not end with c", reply)
	}
	code := reply[5]
	if code < '0' || code > '7' {
		return ans, validation_error("DA", "option code %q not in 0..7", code)
	}
	self.seen_valid_response = true
	ans.Code = int(code - '0')
	ans.Description = device_options[ans.Code]
	return
}

// verify compares the believed position with the device. On mismatch the
// believed position is re-sent, the device is assumed to be lagging. Re-sends
// have their own budget of RepeatLimit, separate from the count of repeated
// positioning requests.
func (self *Engine) verify(op string) error {
	if self.opts.NoVerify {
		return nil
	}
	for resyncs := 0; ; {
		got, err := self.QueryPosition()
		if err != nil {
			return err
		}
		if got == self.cur {
			return nil
		}
		resyncs++
		self.log.WithFields(logrus.Fields{
			"op": op, "believed": self.cur.String(), "reported": got.String(), "attempt": resyncs,
		}).Warn("device position differs from believed position, repositioning")
		if resyncs > self.opts.RepeatLimit {
			return &ConsistencyError{Op: op, Target: self.cur, Count: resyncs}
		}
		p := self.to_device(self.cur)
		if err = self.csi(self.opts.Fill.CursorPosition, "%d;%dH", p.Y, p.X); err != nil {
			return err
		}
	}
}
