// License: GPLv3 Copyright: 2026, The vtdrive authors

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/vtdrive/vtdrive/tools/vt"
)

var _ = fmt.Print

func TestSettings(t *testing.T) {
	tdir := t.TempDir()
	conf_file := filepath.Join(tdir, "vtdrive.conf")
	os.WriteFile(conf_file, []byte(`
device /dev/ttyS1
pty
speed 19200
raw no
poll-interval 20ms
warmup_backoff 0.5
charset latin1
log_level debug
port_glob /dev/ttyS*
port_glob /dev/ttyUSB*
max_x 132
`), 0o600)
	s, err := Load([]string{conf_file}, []string{"speed=38400", "repeat_limit=3"})
	if err != nil {
		t.Fatal(err)
	}
	expected := DefaultSettings()
	expected.Device = "/dev/ttyS1"
	expected.Pty = true
	expected.Speed = 38400
	expected.Raw = false
	expected.PollInterval = 20 * time.Millisecond
	expected.WarmupBackoff = 500 * time.Millisecond
	expected.Charset = "latin1"
	expected.LogLevel = logrus.DebugLevel
	expected.PortGlobs = []string{"/dev/ttyS*", "/dev/ttyUSB*"}
	expected.Bounds.MaxX = 132
	expected.RepeatLimit = 3
	if diff := cmp.Diff(expected, s); diff != "" {
		t.Fatalf("Unexpected settings:\n%s", diff)
	}
	opts, err := s.EngineOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Speed != 38400 || opts.RepeatLimit != 3 || opts.Bounds != (vt.Rect{MinX: 1, MaxX: 132, MinY: 1, MaxY: 24}) {
		t.Fatalf("Settings not carried into engine options: %#v", opts)
	}
	if opts.Encoding != charmap.ISO8859_1 {
		t.Fatalf("Wrong encoding: %v", opts.Encoding)
	}

	for _, bad := range [][]string{
		{"speed=fast"}, {"nonsense=1"}, {"charset=ebcdic"}, {"repeat_limit=0"},
		{"poll_interval=-1s"}, {"max_x=0"}, {"log_level=chatty"},
		{"speed"}, {"port_glob"}, {"log_level"},
	} {
		if _, err = Load([]string{conf_file}, bad); err == nil {
			t.Fatalf("Bad override %v was accepted", bad)
		}
	}
	if _, err = Load([]string{filepath.Join(tdir, "missing.conf")}, nil); err == nil {
		t.Fatalf("Missing explicit config file was accepted")
	}
}
