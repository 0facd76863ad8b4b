// License: GPLv3 Copyright: 2026, The vtdrive authors

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var _ = fmt.Print

func PositiveInt(val string) (ans int, err error) {
	ans, err = strconv.Atoi(val)
	if err == nil && ans < 1 {
		err = fmt.Errorf("%#v is not a positive integer", val)
	}
	return
}

// Speed parses a line rate in bits per second, 0 means keep the current rate
func Speed(val string) (uint32, error) {
	ans, err := strconv.ParseUint(strings.TrimSpace(val), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%#v is not a valid speed", val)
	}
	return uint32(ans), nil
}

// Duration parses durations such as 50ms or 1.5s, bare numbers are seconds
func Duration(val string) (time.Duration, error) {
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		val = fmt.Sprintf("%gs", f)
	}
	ans, err := time.ParseDuration(val)
	if err == nil && ans < 0 {
		err = fmt.Errorf("%#v is negative", val)
	}
	return ans, err
}

// StringLiteral expands backslash escapes as in Go string literals. Unknown or
// incomplete escapes are kept as written.
func StringLiteral(val string) string {
	var ans strings.Builder
	ans.Grow(len(val))
	for len(val) > 0 {
		if val[0] != '\\' || len(val) == 1 {
			_, size := utf8.DecodeRuneInString(val)
			ans.WriteString(val[:size])
			val = val[size:]
			continue
		}
		switch val[1] {
		case '\'', '"':
			ans.WriteByte(val[1])
			val = val[2:]
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(val, 0)
		switch {
		case err != nil:
			ans.WriteString(val[:2])
			val = val[2:]
			continue
		case multibyte:
			ans.WriteRune(r)
		default:
			ans.WriteByte(byte(r))
		}
		val = tail
	}
	return ans.String()
}
