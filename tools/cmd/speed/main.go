// License: GPLv3 Copyright: 2026, The vtdrive authors

package speed

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
	"github.com/vtdrive/vtdrive/tools/cmd/session"
	"github.com/vtdrive/vtdrive/tools/config"
	"github.com/vtdrive/vtdrive/tools/tty"
)

var _ = fmt.Print

type Options struct {
	Set  string
	List bool
}

func list_rates(w io.Writer) {
	for _, r := range tty.StandardRates() {
		if r.Speed > 0 {
			fmt.Fprintf(w, "%8d %s\n", r.Speed, color.New(color.Faint).Sprintf("%07o", r.Bits))
		}
	}
}

func main(cmd *cobra.Command, args []string, opts *Options) (err error) {
	if opts.List {
		list_rates(cmd.OutOrStdout())
		return nil
	}
	s, err := session.Settings()
	if err != nil {
		return err
	}
	device, err := session.DeviceArg(args, s)
	if err != nil {
		return err
	}
	link, err := session.OpenLink(device, s)
	if err != nil {
		return err
	}
	defer link.Close()
	if opts.Set != "" {
		speed, err := config.Speed(opts.Set)
		if err != nil {
			return err
		}
		if err = link.SetSpeed(speed); err != nil {
			return err
		}
	}
	state, err := link.GetLineState()
	if err != nil {
		return err
	}
	out, in := tty.OutputSpeed(&state), tty.InputSpeed(&state)
	name := color.New(color.FgGreen).Sprint(link.Name())
	if in == 0 || in == out {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", name, out)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: output %d input %d\n", name, out, in)
	}
	return nil
}

func EntryPoint(root *cobra.Command) *cobra.Command {
	opts := Options{}
	sc := cli.CreateCommand(&cobra.Command{
		Use:   "speed [options] [DEVICE]",
		Short: "Show or change the line speed of a serial device",
		Long:  "Show the line speed of DEVICE in bits per second. With :option:`--set` the speed is changed first. Speeds that are not one of the standard rates are programmed as custom rates when the device supports them.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return main(cmd, args, &opts)
		},
	})
	sc.Flags().StringVar(&opts.Set, "set", "", "The speed to set, in bits per second")
	sc.Flags().BoolVar(&opts.List, "list", false, "List the standard rates and their line state bits, then exit")
	root.AddCommand(sc)
	return sc
}
