// License: GPLv3 Copyright: 2022, Kovid Goyal, <kovid at kovidgoyal.net>

package utils

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

const APP_NAME = "vtdrive"

func Expanduser(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		usr, err := user.Current()
		if err == nil {
			home = usr.HomeDir
		}
	}
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	path = strings.ReplaceAll(path, string(os.PathSeparator), "/")
	parts := strings.Split(path, "/")
	if parts[0] == "~" {
		parts[0] = home
	} else {
		uname := parts[0][1:]
		if uname != "" {
			u, err := user.Lookup(uname)
			if err == nil && u.HomeDir != "" {
				parts[0] = u.HomeDir
			}
		}
	}
	return strings.Join(parts, string(os.PathSeparator))
}

func Abspath(path string) string {
	q, err := filepath.Abs(path)
	if err == nil {
		return q
	}
	return path
}

var config_dir string

// ConfigDir is $VTDRIVE_CONFIG_DIRECTORY if set, otherwise the first
// location among $XDG_CONFIG_HOME/vtdrive and ~/.config/vtdrive that has a
// vtdrive.conf, falling back to the first of them.
func ConfigDir() string {
	if config_dir != "" {
		return config_dir
	}
	if q := os.Getenv("VTDRIVE_CONFIG_DIRECTORY"); q != "" {
		config_dir = Abspath(Expanduser(q))
		return config_dir
	}
	var locations []string
	if q := os.Getenv("XDG_CONFIG_HOME"); q != "" {
		locations = append(locations, q)
	}
	locations = append(locations, Expanduser("~/.config"))
	for _, loc := range locations {
		q := filepath.Join(loc, APP_NAME)
		if _, err := os.Stat(filepath.Join(q, APP_NAME+".conf")); err == nil {
			config_dir = q
			return config_dir
		}
	}
	config_dir = filepath.Join(locations[0], APP_NAME)
	return config_dir
}
