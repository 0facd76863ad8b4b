// License: GPLv3 Copyright: 2026, The vtdrive authors

package write

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
	"github.com/vtdrive/vtdrive/tools/cmd/session"
	"github.com/vtdrive/vtdrive/tools/config"
	"github.com/vtdrive/vtdrive/tools/vt"
)

var _ = fmt.Print

type Options struct {
	At    string
	Limit int
	Clear bool
	Attrs []string
}

var attr_names = map[string]vt.Attrs{
	"bold": vt.Bold, "dim": vt.Dim, "underline": vt.Underline, "blink": vt.Blink,
	"reverse": vt.Reverse, "invisible": vt.Invisible,
}

func parse_attrs(names []string) (ans vt.Attrs, err error) {
	for _, name := range names {
		a, found := attr_names[name]
		if !found {
			return 0, fmt.Errorf("Unknown text attribute: %s", name)
		}
		ans |= a
	}
	return
}

// Write positions the cursor and writes text, with the given attributes.
// The attributes are turned off again afterwards.
func Write(e *vt.Engine, text string, at *vt.Position, limit int, attrs vt.Attrs) (err error) {
	if at != nil {
		if err = e.CUP(at.X, at.Y); err != nil {
			return
		}
	}
	if attrs != 0 {
		if err = e.SGR(attrs); err != nil {
			return
		}
		defer func() {
			if serr := e.SGR(vt.AttrsOff); err == nil {
				err = serr
			}
		}()
	}
	return e.WriteText(text, limit)
}

func main(cmd *cobra.Command, args []string, opts *Options) (err error) {
	s, err := session.Settings()
	if err != nil {
		return err
	}
	text := config.StringLiteral(args[len(args)-1])
	var at *vt.Position
	if opts.At != "" {
		pos, err := session.ParsePosition(opts.At)
		if err != nil {
			return err
		}
		at = &pos
	}
	attrs, err := parse_attrs(opts.Attrs)
	if err != nil {
		return err
	}
	device, err := session.DeviceArg(args[:len(args)-1], s)
	if err != nil {
		return err
	}
	link, err := session.OpenLink(device, s, session.LineOperations(s)...)
	if err != nil {
		return err
	}
	defer link.RestoreAndClose()
	e, err := session.NewEngine(link, s)
	if err != nil {
		return err
	}
	if opts.Clear {
		if err = e.Init(); err != nil {
			return err
		}
	}
	if err = Write(e, text, at, opts.Limit, attrs); err != nil {
		return err
	}
	e.Logger().WithField("position", e.Position().String()).Info("wrote text")
	return nil
}

func EntryPoint(root *cobra.Command) *cobra.Command {
	opts := Options{}
	sc := cli.CreateCommand(&cobra.Command{
		Use:   "write [options] [DEVICE] TEXT",
		Short: "Write text at a position on a terminal",
		Long:  "Write TEXT to the terminal connected to DEVICE. Backslash escapes such as :code:`\\n` and :code:`\\x1b` in TEXT are decoded. The text is padded with spaces or truncated to exactly :option:`--limit` characters.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return main(cmd, args, &opts)
		},
	})
	f := sc.Flags()
	f.StringVar(&opts.At, "at", "", "Move the cursor to X,Y before writing, 1 based")
	f.IntVar(&opts.Limit, "limit", -1, "The number of characters to write. Negative means up to the last column.")
	f.BoolVar(&opts.Clear, "clear", false, "Reset modes and clear the screen before writing")
	f.StringSliceVar(&opts.Attrs, "attr", nil, "Text attributes to write with, any of: bold, dim, underline, blink, reverse, invisible")
	root.AddCommand(sc)
	return sc
}
