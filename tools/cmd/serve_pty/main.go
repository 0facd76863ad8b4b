// License: GPLv3 Copyright: 2026, The vtdrive authors

package serve_pty

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
	"github.com/vtdrive/vtdrive/tools/cmd/probe"
	"github.com/vtdrive/vtdrive/tools/cmd/session"
	"github.com/vtdrive/vtdrive/tools/vt"
)

var _ = fmt.Print

type Options struct {
	Wait time.Duration
	probe.Options
}

// wait_for_peer polls with status reports until something answers on the
// other side of the pair or the deadline passes.
func wait_for_peer(e *vt.Engine, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		_, err := e.StatusReport()
		if err == nil {
			return nil
		}
		var te *vt.TimeoutError
		if !errors.As(err, &te) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("Nothing answered on the pseudo-terminal within %s", durafmt.Parse(wait).LimitFirstN(2))
		}
	}
}

func main(cmd *cobra.Command, args []string, opts *Options) (err error) {
	s, err := session.Settings()
	if err != nil {
		return err
	}
	s.Pty = true
	link, err := session.OpenLink("", s, session.LineOperations(s)...)
	if err != nil {
		return err
	}
	defer link.RestoreAndClose()
	fmt.Fprintln(cmd.OutOrStdout(), "Attach a terminal to:", color.New(color.FgGreen, color.Bold).Sprint(link.PeerName()))
	e, err := session.NewEngine(link, s)
	if err != nil {
		return err
	}
	if err = wait_for_peer(e, opts.Wait); err != nil {
		return err
	}
	if _, err = e.Drain(); err != nil {
		return err
	}
	res, err := probe.Run(e, &opts.Options)
	if err != nil {
		return err
	}
	res.Print(cmd.OutOrStdout())
	return nil
}

func EntryPoint(root *cobra.Command) *cobra.Command {
	opts := Options{}
	sc := cli.CreateCommand(&cobra.Command{
		Use:   "pty [options]",
		Short: "Allocate a pseudo-terminal pair and probe whatever attaches to it",
		Long:  "Allocate a pseudo-terminal pair and print the path of its companion side. Once a terminal emulator attached to that path answers a status report, it is probed the same way as with the :code:`probe` command.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return main(cmd, args, &opts)
		},
	})
	sc.Flags().DurationVar(&opts.Wait, "wait", time.Minute, "How long to wait for something to attach")
	probe.AddFlags(sc, &opts.Options)
	root.AddCommand(sc)
	return sc
}
