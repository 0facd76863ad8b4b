// License: GPLv3 Copyright: 2026, The vtdrive authors

package state

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
	"github.com/vtdrive/vtdrive/tools/cmd/session"
	"github.com/vtdrive/vtdrive/tools/tty"
)

var _ = fmt.Print

func print_state(w io.Writer, name string, s *tty.LineState) {
	key := color.New(color.FgBlue, color.Bold).SprintFunc()
	fmt.Fprintln(w, color.New(color.FgGreen).Sprint(name)+":")
	fmt.Fprintf(w, "  %s %#o\n", key("iflag:"), s.Iflag)
	fmt.Fprintf(w, "  %s %#o\n", key("oflag:"), s.Oflag)
	fmt.Fprintf(w, "  %s %#o\n", key("cflag:"), s.Cflag)
	fmt.Fprintf(w, "  %s %#o\n", key("lflag:"), s.Lflag)
	fmt.Fprintf(w, "  %s %d\n", key("line: "), s.Line)
	fmt.Fprintf(w, "  %s % x\n", key("cc:   "), s.Cc[:])
	fmt.Fprintf(w, "  %s %d/%d (raw %d/%d)\n", key("speed:"), tty.OutputSpeed(s), tty.InputSpeed(s), s.Ospeed, s.Ispeed)
}

func main(cmd *cobra.Command, args []string) (err error) {
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
	state, err := link.GetLineState()
	if err != nil {
		return err
	}
	print_state(cmd.OutOrStdout(), link.Name(), &state)
	return nil
}

func EntryPoint(root *cobra.Command) *cobra.Command {
	sc := cli.CreateCommand(&cobra.Command{
		Use:   "state [options] [DEVICE]",
		Short: "Dump the terminal line settings of a device",
		Args:  cobra.MaximumNArgs(1),
		RunE:  main,
	})
	root.AddCommand(sc)
	return sc
}
