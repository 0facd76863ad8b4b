// License: GPLv3 Copyright: 2026, The vtdrive authors

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vtdrive/vtdrive/tools/vt"
)

var _ = fmt.Print

const CONFIG_NAME = "vtdrive.conf"

type Settings struct {
	Device            string
	Speed             uint32
	Pty               bool
	Raw               bool
	RepeatLimit       int
	PollTimeoutCycles int
	PollInterval      time.Duration
	DrainEmptyPolls   int
	WarmupBackoff     time.Duration
	MaxResponseBytes  int
	Charset           string
	LogLevel          logrus.Level
	PortGlobs         []string
	Bounds            vt.Rect
}

func DefaultSettings() *Settings {
	o := vt.DefaultOptions()
	return &Settings{
		Speed:             o.Speed,
		Raw:               true,
		RepeatLimit:       o.RepeatLimit,
		PollTimeoutCycles: o.PollTimeoutCycles,
		PollInterval:      o.PollInterval,
		DrainEmptyPolls:   o.DrainEmptyPolls,
		WarmupBackoff:     o.WarmupBackoff,
		MaxResponseBytes:  o.MaxResponseBytes,
		Charset:           "utf-8",
		LogLevel:          logrus.InfoLevel,
		Bounds:            o.Bounds,
	}
}

func set_int(dest *int) func(string) error {
	return func(val string) (err error) {
		*dest, err = PositiveInt(val)
		return
	}
}

func set_bound(dest *int) func(string) error {
	return func(val string) (err error) {
		*dest, err = strconv.Atoi(val)
		if err == nil && *dest < 0 {
			err = fmt.Errorf("%#v is negative", val)
		}
		return
	}
}

func set_duration(dest *time.Duration) func(string) error {
	return func(val string) (err error) {
		*dest, err = Duration(val)
		return
	}
}

func set_bool(dest *bool) func(string) error {
	return func(val string) error {
		*dest = StringToBool(val)
		return nil
	}
}

func (self *Settings) handlers() map[string]func(string) error {
	return map[string]func(string) error{
		"device": func(val string) error {
			self.Device = val
			return nil
		},
		"speed": func(val string) (err error) {
			self.Speed, err = Speed(val)
			return
		},
		"pty":                 set_bool(&self.Pty),
		"raw":                 set_bool(&self.Raw),
		"repeat_limit":        set_int(&self.RepeatLimit),
		"poll_timeout_cycles": set_int(&self.PollTimeoutCycles),
		"poll_interval":       set_duration(&self.PollInterval),
		"drain_empty_polls":   set_int(&self.DrainEmptyPolls),
		"warmup_backoff":      set_duration(&self.WarmupBackoff),
		"max_response_bytes":  set_int(&self.MaxResponseBytes),
		"charset": func(val string) error {
			if _, err := vt.CharsetByName(val); err != nil {
				return err
			}
			self.Charset = val
			return nil
		},
		"log_level": func(val string) (err error) {
			self.LogLevel, err = logrus.ParseLevel(val)
			return
		},
		"port_glob": func(val string) error {
			switch val {
			case "":
				return fmt.Errorf("port_glob needs a pattern or none")
			case "none":
				self.PortGlobs = nil
			default:
				self.PortGlobs = append(self.PortGlobs, val)
			}
			return nil
		},
		"min_x": set_bound(&self.Bounds.MinX),
		"max_x": set_bound(&self.Bounds.MaxX),
		"min_y": set_bound(&self.Bounds.MinY),
		"max_y": set_bound(&self.Bounds.MaxY),
	}
}

// Handler applies a single key value pair, suitable for Parser.Handle. Dashes
// and underscores in keys are equivalent.
func (self *Settings) Handler() func(key, val string) error {
	h := self.handlers()
	return func(key, val string) error {
		f := h[strings.ReplaceAll(key, "-", "_")]
		if f == nil {
			return fmt.Errorf("unknown setting: %s", key)
		}
		return f(val)
	}
}

func (self *Settings) validate() error {
	b := self.Bounds
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return fmt.Errorf("invalid initial geometry: %s", b)
	}
	return nil
}

// Load reads the config files and overrides (key=value) on top of the
// defaults. Unknown keys and bad values are reported as errors.
func Load(paths []string, overrides []string) (*Settings, error) {
	ans := DefaultSettings()
	p := Parser{Handle: ans.Handler()}
	if err := p.LoadConfig(CONFIG_NAME, paths, overrides); err != nil {
		return nil, err
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if err := ans.validate(); err != nil {
		return nil, err
	}
	return ans, nil
}

// EngineOptions converts the settings into options for a terminal engine
func (self *Settings) EngineOptions(log *logrus.Entry) (vt.Options, error) {
	enc, err := vt.CharsetByName(self.Charset)
	if err != nil {
		return vt.Options{}, err
	}
	ans := vt.DefaultOptions()
	ans.Speed = self.Speed
	ans.Bounds = self.Bounds
	ans.RepeatLimit = self.RepeatLimit
	ans.PollTimeoutCycles = self.PollTimeoutCycles
	ans.PollInterval = self.PollInterval
	ans.DrainEmptyPolls = self.DrainEmptyPolls
	ans.WarmupBackoff = self.WarmupBackoff
	ans.MaxResponseBytes = self.MaxResponseBytes
	ans.Encoding = enc
	ans.Log = log
	return ans, nil
}
