// License: GPLv3 Copyright: 2026, The vtdrive authors

package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vtdrive/vtdrive"
)

var RootCmd *cobra.Command

// choice is a string flag restricted to a fixed set of values, checked when
// the command line is parsed
type choice struct {
	val     *string
	allowed []string
}

func (self *choice) String() string { return *self.val }
func (self *choice) Type() string   { return "choice" }

func (self *choice) Set(val string) error {
	if !slices.Contains(self.allowed, val) {
		return fmt.Errorf("%s is not one of: %s", color.RedString(val), strings.Join(self.allowed, ", "))
	}
	*self.val = val
	return nil
}

// Choices adds a flag stored in dest whose value must be one of allowed. The
// first allowed value is the default.
func Choices(flags *pflag.FlagSet, dest *string, name string, usage string, allowed ...string) {
	*dest = allowed[0]
	flags.Var(&choice{val: dest, allowed: allowed}, name, usage)
}

func choices_of(flag *pflag.Flag) []string {
	if c, ok := flag.Value.(*choice); ok {
		return c.allowed
	}
	return nil
}

func command_path(cmd *cobra.Command) string {
	return cmd.CommandPath()
}

func no_subcommand(cmd *cobra.Command, args []string) error {
	if !cmd.HasAvailableSubCommands() {
		return nil
	}
	hint := fmt.Sprintf("Use %s -h to list the available commands", command_path(cmd))
	if len(args) == 0 {
		return fmt.Errorf("%s. %s", err_fmt("No command given"), hint)
	}
	return fmt.Errorf("Unknown command: %s. %s", err_fmt(args[0]), hint)
}

// CreateCommand applies the settings shared by every vtdrive command
func CreateCommand(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	if cmd.Run == nil && cmd.RunE == nil {
		cmd.RunE = no_subcommand
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.Flags().SortFlags = false
	cmd.PersistentFlags().SortFlags = false
	return cmd
}

func Init(root *cobra.Command) {
	stdout_is_terminal = isatty.IsTerminal(os.Stdout.Fd())
	RootCmd = root
	root.Version = vtdrive.VersionString
	if vtdrive.VCSRevision != "" {
		root.Version += " (" + vtdrive.VCSRevision + ")"
	}
	root.SetUsageFunc(show_usage)
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) { show_usage(cmd) })
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.CompletionOptions.DisableDefaultCmd = true
}

func ShowError(err error) {
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(os.Stderr, err_fmt("Error")+":", msg)
	}
}

// Execute runs the root command and returns the process exit code
func Execute(root *cobra.Command) int {
	if err := root.Execute(); err != nil {
		ShowError(err)
		return 1
	}
	return 0
}
