package catalog

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// render turns items into a compact form like "1 2 [3] … 9"
func render(items []PageItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Ellipsis:
			out = append(out, "…")
		case it.Current:
			out = append(out, "["+strconv.Itoa(it.Number)+"]")
		default:
			out = append(out, strconv.Itoa(it.Number))
		}
	}
	return out
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []string
	}{
		{"single page", 1, 1, []string{}},
		{"few pages", 2, 5, []string{"1", "[2]", "3", "4", "5"}},
		{"exactly seven", 7, 7, []string{"1", "2", "3", "4", "5", "6", "[7]"}},
		{"near start", 3, 24, []string{"1", "2", "[3]", "4", "5", "…", "24"}},
		{"first", 1, 24, []string{"[1]", "2", "3", "4", "5", "…", "24"}},
		{"near end", 22, 24, []string{"1", "…", "20", "21", "[22]", "23", "24"}},
		{"last", 24, 24, []string{"1", "…", "20", "21", "22", "23", "[24]"}},
		{"middle", 10, 24, []string{"1", "…", "9", "[10]", "11", "…", "24"}},
		{"out of range clamps", 99, 24, []string{"1", "…", "20", "21", "22", "23", "[24]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(PageNumbers(tt.current, tt.total))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PageNumbers(%d, %d) mismatch (-want +got):\n%s", tt.current, tt.total, diff)
			}
		})
	}
}

func TestPageNumbers_NeverMoreThanSeven(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			items := PageNumbers(current, total)
			assert.LessOrEqual(t, len(items), maxPageButtons)

			found := total <= 1
			for _, it := range items {
				if it.Current {
					found = true
					assert.Equal(t, current, it.Number)
				}
			}
			assert.True(t, found, "current page %d of %d missing", current, total)
		}
	}
}
