// License: GPLv3 Copyright: 2026, The vtdrive authors

package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/vtdrive/vtdrive"
)

var stdout_is_terminal = false

var (
	title_fmt  = color.New(color.FgBlue, color.Bold).SprintFunc()
	exe_fmt    = color.New(color.FgYellow, color.Bold).SprintFunc()
	opt_fmt    = color.New(color.FgGreen).SprintFunc()
	italic_fmt = color.New(color.Italic).SprintFunc()
	err_fmt    = color.New(color.FgHiRed).SprintFunc()
	bold_fmt   = color.New(color.Bold).SprintFunc()
	code_fmt   = color.New(color.FgCyan).SprintFunc()
)

func screen_width() int {
	if stdout_is_terminal {
		if ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ); err == nil && ws.Col > 0 && ws.Col < 80 {
			return int(ws.Col)
		}
	}
	return 80
}

var sgr_pat = regexp.MustCompile("\x1b\\[[0-9;]*m")

func visible_width(s string) int {
	return runewidth.StringWidth(sgr_pat.ReplaceAllString(s, ""))
}

// wrap writes text word wrapped to width, each line prefixed by indent.
// Color escapes do not count towards the width.
func wrap(w io.Writer, text string, indent string, width int) {
	iw := visible_width(indent)
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		line.WriteString(indent)
		x := iw
		for i, word := range strings.Fields(para) {
			ww := visible_width(word)
			if i > 0 {
				if x+1+ww > width {
					fmt.Fprintln(w, line.String())
					line.Reset()
					line.WriteString(indent)
					x = iw
				} else {
					line.WriteByte(' ')
					x++
				}
			}
			line.WriteString(word)
			x += ww
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

var role_pat = regexp.MustCompile(":([a-z]+):`([^`]+)`")
var target_pat = regexp.MustCompile(`\s*<[^>]*>$`)

// markup renders the :role:`text` annotations used in help texts
func markup(text string) string {
	return role_pat.ReplaceAllStringFunc(text, func(m string) string {
		g := role_pat.FindStringSubmatch(m)
		role, val := g[1], g[2]
		switch role {
		case "option":
			if idx := strings.LastIndex(val, "--"); idx > -1 {
				val = val[idx:]
			}
			return bold_fmt(val)
		case "code":
			return code_fmt(val)
		case "file", "env", "emph":
			return italic_fmt(val)
		case "ref":
			return target_pat.ReplaceAllString(val, "")
		}
		return val
	})
}

func write_flags(w io.Writer, title string, flags *pflag.FlagSet, width int) {
	if !flags.HasAvailableFlags() {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title_fmt(title)+":")
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		header := opt_fmt("  --" + flag.Name)
		if flag.Shorthand != "" {
			header += ", " + opt_fmt("-"+flag.Shorthand)
		}
		switch flag.Value.Type() {
		case "bool", "count":
		default:
			if flag.DefValue != "" && flag.DefValue != "[]" {
				header += fmt.Sprintf(" [=%s]", italic_fmt(flag.DefValue))
			}
		}
		fmt.Fprintln(w, header)
		usage := flag.Usage
		switch flag.Name {
		case "help":
			usage = "Print this help message"
		case "version":
			usage = "Print the version of " + RootCmd.Name()
		}
		wrap(w, markup(usage), "    ", width)
		if allowed := choices_of(flag); len(allowed) > 0 {
			wrap(w, "Choices: "+strings.Join(allowed, ", "), "    ", width)
		}
	})
}

func write_usage(w io.Writer, cmd *cobra.Command, width int) {
	args := ""
	if _, rest, found := strings.Cut(cmd.Use, " "); found {
		args = rest
	}
	fmt.Fprintln(w, title_fmt("Usage")+":", exe_fmt(command_path(cmd)), args)
	fmt.Fprintln(w)
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc != "" {
		wrap(w, markup(desc), "", width)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, title_fmt("Commands")+":")
		for _, child := range cmd.Commands() {
			if child.IsAvailableCommand() {
				fmt.Fprintln(w, " ", opt_fmt(child.Name()))
				wrap(w, markup(child.Short), "    ", width)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Get help for an individual command by running:", command_path(cmd), italic_fmt("command"), "-h")
	}
	write_flags(w, "Options", cmd.LocalFlags(), width)
	write_flags(w, "Global options", cmd.InheritedFlags(), width)
	fmt.Fprintln(w)
	fmt.Fprintln(w, italic_fmt(RootCmd.Name()), opt_fmt(vtdrive.VersionString))
}

func show_usage(cmd *cobra.Command) error {
	var output strings.Builder
	write_usage(&output, cmd, screen_width())
	_, err := io.WriteString(cmd.OutOrStdout(), output.String())
	return err
}
