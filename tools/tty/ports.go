// License: GPLv3 Copyright: 2026, The vtdrive authors

package tty

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/shirou/gopsutil/v4/process"
)

var _ = fmt.Print

var DefaultPortGlobs = []string{
	"/dev/ttyS[0-9]*",
	"/dev/ttyUSB*",
	"/dev/ttyACM*",
	"/dev/ttyAMA*",
	"/dev/ttyO[0-9]*",
	"/dev/rfcomm*",
	"/dev/serial/by-id/*",
}

// ListPorts expands the glob patterns into a sorted, de-duplicated list of
// device paths.
func ListPorts(globs ...string) ([]string, error) {
	if len(globs) == 0 {
		globs = DefaultPortGlobs
	}
	seen := make(map[string]bool)
	var ans []string
	for _, pat := range globs {
		if !doublestar.ValidatePattern(filepath.ToSlash(pat)) {
			return nil, fmt.Errorf("invalid port glob: %#v", pat)
		}
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				ans = append(ans, m)
			}
		}
	}
	slices.Sort(ans)
	return ans, nil
}

type Holder struct {
	Pid  int32
	Name string
}

// Holders lists processes that have path open. Processes whose descriptors
// cannot be inspected are skipped.
func Holders(path string) (ans []Holder, err error) {
	if q, err := filepath.EvalSymlinks(path); err == nil {
		path = q
	}
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	for _, p := range procs {
		files, ferr := p.OpenFiles()
		if ferr != nil {
			continue
		}
		for _, f := range files {
			if f.Path == path {
				name, _ := p.Name()
				ans = append(ans, Holder{Pid: p.Pid, Name: name})
				break
			}
		}
	}
	return
}
