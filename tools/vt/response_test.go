// License: GPLv3 Copyright: 2026, The vtdrive authors

package vt

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var _ = fmt.Print

func TestResponseParser(t *testing.T) {
	p := NewResponseParser('[', 'R')
	for _, c := range []struct {
		input    string
		fields   []int
		consumed int
		complete bool
	}{
		{"\x1b[12;34R", []int{12, 34}, 8, true},
		{"junk\x1b[5;10Rtrailing", []int{5, 10}, 11, true},
		{"\x1b[R", nil, 3, true},
		{"\x1b[;5R", []int{1, 5}, 5, true},
		{"\x1b[5;R", []int{5, 1}, 5, true},
		{"\x1b\x1b[7R", []int{7}, 5, true},
		{"\x1b[3;\x1b[4;9R", []int{4, 9}, 10, true},
		{"\x1b[123", nil, 5, false},
	} {
		p.Reset('[', 'R')
		fields, consumed, complete := p.Parse([]byte(c.input))
		if diff := cmp.Diff(c.fields, fields, cmp.Comparer(func(a, b []int) bool { return fmt.Sprint(a) == fmt.Sprint(b) })); diff != "" {
			t.Fatalf("Unexpected fields parsing %q:\n%s", c.input, diff)
		}
		if consumed != c.consumed || complete != c.complete {
			t.Fatalf("Parsing %q consumed %d complete: %v, expected %d %v", c.input, consumed, complete, c.consumed, c.complete)
		}
	}
}

func TestResponseParserStates(t *testing.T) {
	p := NewResponseParser('[', 'n')
	actual := []FeedResult{}
	for _, ch := range []byte("x\x1b]\x1b[0zn") {
		actual = append(actual, p.Feed(ch))
	}
	expected := []FeedResult{Unexpected, NeedMore, Unexpected, NeedMore, NeedMore, NeedMore, Unexpected, Complete}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("Unexpected feed results:\n%s", diff)
	}
	if diff := cmp.Diff([]int{0}, p.Fields()); diff != "" {
		t.Fatalf("Unexpected fields:\n%s", diff)
	}
}
