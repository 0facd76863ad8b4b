// License: GPLv3 Copyright: 2026, The vtdrive authors

package tool

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/vtdrive/vtdrive/tools/cli"
)

func TestEntryPoints(t *testing.T) {
	root := cli.CreateCommand(&cobra.Command{Use: "vtdrive"})
	EntryPoints(root)
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"ports", "probe", "pty", "speed", "state", "write"}, names); diff != "" {
		t.Fatalf("Unexpected sub-commands:\n%s", diff)
	}
	for _, name := range []string{"config", "override", "log-level", "pty"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("Missing global flag: --%s", name)
		}
	}
}
