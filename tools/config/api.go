// License: GPLv3 Copyright: 2026, The vtdrive authors

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/vtdrive/vtdrive/tools/utils"
)

var _ = fmt.Print

const max_include_depth = 32

func StringToBool(x string) bool {
	switch strings.ToLower(x) {
	case "", "y", "yes", "true", "on":
		return true
	}
	return false
}

// ParseError is a line that was rejected, either because it is malformed or
// because its handler failed
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (self *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", self.Path, self.Line, self.Err)
}

func (self *ParseError) Unwrap() error { return self.Err }

// Parser reads files of "key value" lines. A line whose first non blank
// character is a backslash continues the previous line. The include,
// globinclude and envinclude directives pull in more lines.
type Parser struct {
	// Handle is called for every setting, val is empty for a bare key
	Handle func(key, val string) error

	errs    []error
	seen    map[string]bool
	environ []string
}

type logical_line struct {
	number int
	text   string
}

func read_logical_lines(r io.Reader) (ans []logical_line, err error) {
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimLeftFunc(scanner.Text(), unicode.IsSpace)
		if rest, found := strings.CutPrefix(text, `\`); found && len(ans) > 0 {
			ans[len(ans)-1].text += rest
			continue
		}
		ans = append(ans, logical_line{number: n, text: text})
	}
	return ans, scanner.Err()
}

var key_pat = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func split_setting(text string) (key, val string, err error) {
	key, val = text, ""
	if idx := strings.IndexFunc(text, unicode.IsSpace); idx > -1 {
		key, val = text[:idx], strings.TrimSpace(text[idx+1:])
	}
	if !key_pat.MatchString(key) {
		return "", "", fmt.Errorf("not a valid setting name: %#v", key)
	}
	return
}

// Err combines all rejected lines into a single error, nil if there were none
func (self *Parser) Err() error {
	return errors.Join(self.errs...)
}

func (self *Parser) reject(path string, l logical_line, err error) {
	self.errs = append(self.errs, &ParseError{Path: path, Line: l.number, Text: l.text, Err: err})
}

func (self *Parser) parse(r io.Reader, path, dir string, depth int) error {
	if self.seen[path] {
		return nil
	}
	self.seen[path] = true
	if depth > max_include_depth {
		return fmt.Errorf("includes nested too deeply at: %s", path)
	}
	lines, err := read_logical_lines(r)
	if err != nil {
		return pkgerrors.Wrapf(err, "reading %s", path)
	}
	for _, l := range lines {
		if l.text == "" || l.text[0] == '#' {
			continue
		}
		key, val, err := split_setting(l.text)
		if err != nil {
			self.reject(path, l, err)
			continue
		}
		switch key {
		case "include", "globinclude", "envinclude":
			if val == "" {
				self.reject(path, l, fmt.Errorf("%s needs an argument", key))
				continue
			}
			if err = self.include(key, val, dir, depth); err != nil {
				return err
			}
		default:
			if err = self.Handle(key, val); err != nil {
				self.reject(path, l, err)
			}
		}
	}
	return nil
}

func (self *Parser) include(directive, val, dir string, depth int) error {
	if directive == "envinclude" {
		environ := self.environ
		if environ == nil {
			environ = os.Environ()
		}
		for _, entry := range environ {
			name, text, _ := strings.Cut(entry, "=")
			if matched, _ := filepath.Match(val, name); matched {
				if err := self.parse(strings.NewReader(text), "<env var: "+name+">", dir, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	path := utils.Expanduser(val)
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	paths := []string{path}
	if directive == "globinclude" {
		var err error
		if paths, err = doublestar.FilepathGlob(path); err != nil {
			return pkgerrors.Wrapf(err, "bad glob in globinclude: %s", val)
		}
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to include %s", path)
		}
		err = self.parse(f, path, filepath.Dir(path), depth+1)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// ParseFile reads path and everything it includes. Include loops are cut at
// the first repeat.
func (self *Parser) ParseFile(path string) error {
	path = utils.Abspath(path)
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	self.seen = make(map[string]bool)
	return self.parse(f, path, filepath.Dir(path), 0)
}

// ParseOverrides applies settings given as key=value, or as "key value"
func (self *Parser) ParseOverrides(overrides ...string) error {
	var text strings.Builder
	for _, o := range overrides {
		key, val, found := strings.Cut(o, "=")
		if found && !strings.ContainsFunc(key, unicode.IsSpace) {
			o = key + " " + val
		}
		text.WriteString(o)
		text.WriteByte('\n')
	}
	self.seen = make(map[string]bool)
	return self.parse(strings.NewReader(text.String()), "<overrides>", utils.ConfigDir(), 0)
}

const system_config_dir = "/etc/xdg/" + utils.APP_NAME

// LoadConfig reads the system wide config, then either the given paths,
// which must exist, or name in the user config directory, then the
// overrides.
func (self *Parser) LoadConfig(name string, paths []string, overrides []string) error {
	optional := func(path string) error {
		if err := self.ParseFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := optional(filepath.Join(system_config_dir, name)); err != nil {
		return err
	}
	if len(paths) == 0 {
		if err := optional(filepath.Join(utils.ConfigDir(), name)); err != nil {
			return err
		}
	}
	for _, path := range paths {
		if err := self.ParseFile(utils.Expanduser(path)); err != nil {
			return err
		}
	}
	if len(overrides) > 0 {
		return self.ParseOverrides(overrides...)
	}
	return nil
}
