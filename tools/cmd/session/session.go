// License: GPLv3 Copyright: 2026, The vtdrive authors

// Package session holds the state shared by all vtdrive commands: global
// flags, loaded settings and helpers to open a link and an engine on it.
package session

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/config"
	"github.com/vtdrive/vtdrive/tools/tty"
	"github.com/vtdrive/vtdrive/tools/vt"
)

var _ = fmt.Print

type GlobalOptions struct {
	ConfigPaths []string
	Overrides   []string
	LogLevel    string
	Pty         bool
}

var Global GlobalOptions

func AddFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringArrayVarP(&Global.ConfigPaths, "config", "c", nil,
		"Path to a config file to use instead of :file:`vtdrive.conf` in the config directory. Can be specified multiple times.")
	f.StringArrayVarP(&Global.Overrides, "override", "o", nil,
		"Override individual settings from the config file, for example: :code:`-o speed=19200`. Can be specified multiple times.")
	f.StringVar(&Global.LogLevel, "log-level", "",
		"The logging level, one of: :code:`trace`, :code:`debug`, :code:`info`, :code:`warn` or :code:`error`. Overrides :code:`log_level` from the config file.")
	f.BoolVar(&Global.Pty, "pty", false,
		"Allocate a pseudo-terminal pair instead of opening a device. Useful for testing with a terminal emulator attached to the other side.")
}

var settings *config.Settings

// Settings loads the config files and applies the global flags, once.
func Settings() (*config.Settings, error) {
	if settings != nil {
		return settings, nil
	}
	s, err := config.Load(Global.ConfigPaths, Global.Overrides)
	if err != nil {
		return nil, err
	}
	if Global.LogLevel != "" {
		if s.LogLevel, err = logrus.ParseLevel(Global.LogLevel); err != nil {
			return nil, err
		}
	}
	if Global.Pty {
		s.Pty = true
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(s.LogLevel)
	settings = s
	return s, nil
}

func Reset() {
	settings = nil
	Global = GlobalOptions{}
}

// DeviceArg returns the device named on the command line, falling back to
// the configured device. With a pty there is no device.
func DeviceArg(args []string, s *config.Settings) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if s.Device == "" && !s.Pty {
		return "", fmt.Errorf("No device specified and no device set in the config file")
	}
	return s.Device, nil
}

// LineOperations are the line settings needed to drive a terminal
func LineOperations(s *config.Settings) []tty.TermiosOperation {
	ops := []tty.TermiosOperation{tty.SetLocal}
	if s.Raw {
		ops = append(ops, tty.SetRaw)
	} else {
		ops = append(ops, tty.SetNoEcho)
	}
	return ops
}

// OpenLink opens the named device, or allocates a pty pair when configured
// to. The operations are undone by Link.RestoreAndClose().
func OpenLink(device string, s *config.Settings, ops ...tty.TermiosOperation) (link *tty.Link, err error) {
	if s.Pty {
		if link, err = tty.OpenPtyLink(ops...); err == nil {
			link.Logger().Info("allocated pseudo-terminal")
		}
		return
	}
	return tty.OpenLink(device, ops...)
}

// NewEngine creates an engine on link and programs the configured line rate
func NewEngine(link *tty.Link, s *config.Settings) (*vt.Engine, error) {
	opts, err := s.EngineOptions(link.Logger())
	if err != nil {
		return nil, err
	}
	e := vt.New(link, opts)
	if s.Speed > 0 && !link.IsPty() {
		if err = e.SetSpeed(s.Speed); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ParsePosition parses X,Y as used by the --at flags
func ParsePosition(val string) (ans vt.Position, err error) {
	xs, ys, found := strings.Cut(val, ",")
	if !found {
		return ans, fmt.Errorf("%#v is not a position of the form X,Y", val)
	}
	if ans.X, err = strconv.Atoi(strings.TrimSpace(xs)); err != nil {
		return ans, fmt.Errorf("%#v is not a position of the form X,Y", val)
	}
	if ans.Y, err = strconv.Atoi(strings.TrimSpace(ys)); err != nil {
		return ans, fmt.Errorf("%#v is not a position of the form X,Y", val)
	}
	return
}
