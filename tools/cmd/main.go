// License: GPLv3 Copyright: 2022, Kovid Goyal, <kovid at kovidgoyal.net>

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
	"github.com/vtdrive/vtdrive/tools/cmd/tool"
)

func main() {
	root := cli.CreateCommand(&cobra.Command{
		Use:   "vtdrive command [command options] [command args]",
		Short: "Drive VT100 class terminals connected over serial lines or pseudo-terminals",
	})
	cli.Init(root)
	tool.EntryPoints(root)
	os.Exit(cli.Execute(root))
}
