// License: GPLv3 Copyright: 2026, The vtdrive authors

package tool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cmd/ports"
	"github.com/vtdrive/vtdrive/tools/cmd/probe"
	"github.com/vtdrive/vtdrive/tools/cmd/serve_pty"
	"github.com/vtdrive/vtdrive/tools/cmd/session"
	"github.com/vtdrive/vtdrive/tools/cmd/speed"
	"github.com/vtdrive/vtdrive/tools/cmd/state"
	"github.com/vtdrive/vtdrive/tools/cmd/write"
)

var _ = fmt.Print

func EntryPoints(root *cobra.Command) {
	session.AddFlags(root)
	// speed
	speed.EntryPoint(root)
	// state
	state.EntryPoint(root)
	// probe
	probe.EntryPoint(root)
	// write
	write.EntryPoint(root)
	// pty
	serve_pty.EntryPoint(root)
	// ports
	ports.EntryPoint(root)
}
