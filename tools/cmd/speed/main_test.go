// License: GPLv3 Copyright: 2026, The vtdrive authors

package speed

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

func TestListRates(t *testing.T) {
	color.NoColor = true
	var output strings.Builder
	list_rates(&output)
	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	if diff := cmp.Diff([]string{"      50 0000001", "      75 0000002"}, lines[:2]); diff != "" {
		t.Fatalf("Unexpected start of the rate list:\n%s", diff)
	}
	if diff := cmp.Diff(" 4000000 0010017", lines[len(lines)-1]); diff != "" {
		t.Fatalf("Unexpected end of the rate list:\n%s", diff)
	}
}
