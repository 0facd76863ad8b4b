// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var _ = fmt.Print

var charsets = map[string]encoding.Encoding{
	"utf-8":      unicode.UTF8,
	"utf8":       unicode.UTF8,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"cp437":      charmap.CodePage437,
	"ibm437":     charmap.CodePage437,
}

// CharsetByName returns the encoding for the text written to the device
func CharsetByName(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	if ans, ok := charsets[strings.ToLower(name)]; ok {
		return ans, nil
	}
	return nil, fmt.Errorf("unknown charset: %#v, known charsets: %s", name, strings.Join(CharsetNames(), ", "))
}

func CharsetNames() []string {
	ans := make([]string, 0, len(charsets))
	for k := range charsets {
		ans = append(ans, k)
	}
	slices.Sort(ans)
	return ans
}
