// License: GPLv3 Copyright: 2026, The vtdrive authors

package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var _ = fmt.Print

func TestStringLiteral(t *testing.T) {
	for q, expected := range map[string]string{
		`abc`:                  `abc`,
		`a\nb\M`:               "a\nb\\M",
		`a\x20\x1|`:            "a \\x1|",
		`\u00e9\101\t`:         "\u00e9A\t",
		`\x1b[H\x1b[2J`:        "\x1b[H\x1b[2J",
		`\"quoted\' trailing\`: "\"quoted' trailing\\",
		`\12 short octal`:      "\\12 short octal",
		`ünï\x41`:              "ünïA",
	} {
		if diff := cmp.Diff(expected, StringLiteral(q)); diff != "" {
			t.Fatalf("Failed with input: %#v\n%s", q, diff)
		}
	}
}

func TestValueParsers(t *testing.T) {
	for q, expected := range map[string]time.Duration{
		"50ms": 50 * time.Millisecond, "1.5": 1500 * time.Millisecond, "2s": 2 * time.Second, "0": 0,
	} {
		actual, err := Duration(q)
		if err != nil {
			t.Fatal(err)
		}
		if actual != expected {
			t.Fatalf("Failed with input: %#v\n%s != %s", q, expected, actual)
		}
	}
	for _, q := range []string{"-1", "soon", "-3ms"} {
		if _, err := Duration(q); err == nil {
			t.Fatalf("Invalid duration %#v was accepted", q)
		}
	}
	if s, err := Speed(" 115200"); err != nil || s != 115200 {
		t.Fatalf("Failed to parse speed: %d %v", s, err)
	}
	for _, q := range []string{"-9600", "9600.5", "99999999999"} {
		if _, err := Speed(q); err == nil {
			t.Fatalf("Invalid speed %#v was accepted", q)
		}
	}
	if _, err := PositiveInt("0"); err == nil {
		t.Fatalf("Zero accepted as a positive integer")
	}
}
