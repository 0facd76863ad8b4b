// License: GPLv3 Copyright: 2026, The vtdrive authors

package probe

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
	"github.com/vtdrive/vtdrive/tools/cmd/session"
	"github.com/vtdrive/vtdrive/tools/vt"
)

var _ = fmt.Print

const (
	DISCOVER_AUTO  = "auto"
	DISCOVER_CLAMP = "clamp"
	DISCOVER_NONE  = "none"
)

type Options struct {
	Discovery string
	Init      bool
}

type Result struct {
	Status     int
	Attributes vt.DeviceAttributes
	Geometry   vt.Rect
	Position   vt.Position
}

// Run asks the device for its status, its attributes and, optionally, its
// screen size.
func Run(e *vt.Engine, opts *Options) (ans Result, err error) {
	if opts.Init {
		if err = e.Init(); err != nil {
			return
		}
	}
	if ans.Status, err = e.StatusReport(); err != nil {
		return
	}
	if ans.Attributes, err = e.DA(); err != nil {
		return
	}
	switch opts.Discovery {
	case DISCOVER_NONE:
		ans.Geometry = e.Bounds()
	case DISCOVER_CLAMP:
		ans.Geometry, err = e.DiscoverByClamping()
	default:
		ans.Geometry, err = e.Discover()
	}
	if err != nil {
		return
	}
	ans.Position, err = e.QueryPosition()
	return
}

func (self Result) Print(w io.Writer) {
	key := color.New(color.FgBlue, color.Bold).SprintFunc()
	val := color.New(color.FgGreen).SprintFunc()
	status := val("ready")
	if self.Status != 0 {
		status = color.RedString("malfunction (%d)", self.Status)
	}
	fmt.Fprintln(w, key("Status:    "), status)
	fmt.Fprintln(w, key("Attributes:"), val(self.Attributes.Description), fmt.Sprintf("(%d)", self.Attributes.Code))
	fmt.Fprintln(w, key("Screen:    "), val(fmt.Sprintf("%dx%d", self.Geometry.Width(), self.Geometry.Height())), self.Geometry)
	fmt.Fprintln(w, key("Cursor:    "), val(self.Position))
}

func main(cmd *cobra.Command, args []string, opts *Options) (err error) {
	s, err := session.Settings()
	if err != nil {
		return err
	}
	device, err := session.DeviceArg(args, s)
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
	res, err := Run(e, opts)
	if err != nil {
		return err
	}
	res.Print(cmd.OutOrStdout())
	return nil
}

func AddFlags(cmd *cobra.Command, opts *Options) {
	cli.Choices(cmd.Flags(), &opts.Discovery, "discovery", "How to learn the screen size. :code:`auto` parks the cursor far outside the screen and falls back to :code:`clamp`, which walks it to the extremes. :code:`none` keeps the configured geometry.", DISCOVER_AUTO, DISCOVER_CLAMP, DISCOVER_NONE)
	cmd.Flags().BoolVar(&opts.Init, "init", false, "Put the terminal into a known state and clear the screen first")
}

func EntryPoint(root *cobra.Command) *cobra.Command {
	opts := Options{}
	sc := cli.CreateCommand(&cobra.Command{
		Use:   "probe [options] [DEVICE]",
		Short: "Report the status, attributes and screen size of a terminal",
		Long:  "Ask the terminal connected to DEVICE for its operating status and device attributes, then learn its screen size by moving the cursor to the extremes of the screen and asking where it ended up.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return main(cmd, args, &opts)
		},
	})
	AddFlags(sc, &opts)
	root.AddCommand(sc)
	return sc
}
