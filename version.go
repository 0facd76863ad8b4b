// License: GPLv3 Copyright: 2026, The vtdrive authors

package vtdrive

import (
	"fmt"
	"runtime/debug"
)

type VersionType struct {
	Major, Minor, Patch int
}

var Version = VersionType{Major: 0, Minor: 3, Patch: 0}
var VersionString = fmt.Sprint(Version.Major, ".", Version.Minor, ".", Version.Patch)
var VCSRevision string

func init() {
	bi, ok := debug.ReadBuildInfo()
	if ok {
		for _, bs := range bi.Settings {
			if bs.Key == "vcs.revision" {
				VCSRevision = bs.Value
			}
		}
	}
}
