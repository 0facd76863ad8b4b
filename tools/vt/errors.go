// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
)

var _ = fmt.Print

// ValidationError is returned for requests that are invalid before anything
// is sent to the device: out of range coordinates, bad option combinations,
// or a reply whose fixed framing is wrong.
type ValidationError struct {
	Op  string
	Msg string
}

func (self *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", self.Op, self.Msg)
}

func validation_error(op, format string, args ...any) error {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ProtocolError is returned when the reply stream does not follow the
// expected grammar.
type ProtocolError struct {
	Op  string
	Msg string
}

func (self *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol error: %s", self.Op, self.Msg)
}

type TimeoutError struct {
	Op       string
	Polls    int
	Interval time.Duration
}

func (self *TimeoutError) Error() string {
	waited := durafmt.Parse(time.Duration(self.Polls) * self.Interval).LimitFirstN(2).String()
	return fmt.Sprintf("%s: no response after %d empty polls (%s)", self.Op, self.Polls, waited)
}

func (self *TimeoutError) Timeout() bool { return true }

// ConsistencyError means the same position was requested more often in a
// row than the repeat limit allows, which only happens when something is
// resending in a loop.
type ConsistencyError struct {
	Op     string
	Target Position
	Count  int
}

func (self *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: position %s requested %d times in a row", self.Op, self.Target, self.Count)
}

type IOError struct {
	Op  string
	Err error
}

func (self *IOError) Error() string {
	return fmt.Sprintf("%s: %s", self.Op, self.Err)
}

func (self *IOError) Unwrap() error { return self.Err }
