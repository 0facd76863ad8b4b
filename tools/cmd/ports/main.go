// License: GPLv3 Copyright: 2026, The vtdrive authors

package ports

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
	"github.com/vtdrive/vtdrive/tools/cmd/session"
	"github.com/vtdrive/vtdrive/tools/tty"
)

var _ = fmt.Print

type Options struct {
	NoHolders bool
}

func print_ports(w io.Writer, ports []string, holders func(string) ([]tty.Holder, error)) {
	for _, p := range ports {
		fmt.Fprint(w, color.New(color.FgGreen).Sprint(p))
		if holders != nil {
			if h, err := holders(p); err == nil && len(h) > 0 {
				names := make([]string, 0, len(h))
				for _, x := range h {
					names = append(names, fmt.Sprintf("%s (%d)", x.Name, x.Pid))
				}
				fmt.Fprint(w, " ", color.YellowString("in use by: %s", strings.Join(names, ", ")))
			}
		}
		fmt.Fprintln(w)
	}
}

func main(cmd *cobra.Command, args []string, opts *Options) (err error) {
	s, err := session.Settings()
	if err != nil {
		return err
	}
	globs := args
	if len(globs) == 0 {
		globs = s.PortGlobs
	}
	ports, err := tty.ListPorts(globs...)
	if err != nil {
		return err
	}
	var holders func(string) ([]tty.Holder, error)
	if !opts.NoHolders {
		holders = tty.Holders
	}
	print_ports(cmd.OutOrStdout(), ports, holders)
	return nil
}

func EntryPoint(root *cobra.Command) *cobra.Command {
	opts := Options{}
	sc := cli.CreateCommand(&cobra.Command{
		Use:   "ports [options] [GLOB ...]",
		Short: "List serial devices and the processes using them",
		Long:  "List the devices matching the glob patterns, or the :code:`port_glob` patterns from the config file, or a built-in list of common serial device names. Patterns can use :code:`**` to match across directories.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return main(cmd, args, &opts)
		},
	})
	sc.Flags().BoolVar(&opts.NoHolders, "no-holders", false, "Do not look for processes that have the devices open")
	root.AddCommand(sc)
	return sc
}
