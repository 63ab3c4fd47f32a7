package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareSeatLabels(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"A2", "A10", -1},
		{"A10", "A2", 1},
		{"A10", "A10", 0},
		{"A9", "B1", -1},
		{"B1", "A9", 1},
		{"SCREEN", "A1", 1}, // no numeric suffix falls back to string order
		{"A", "A1", -1},
	}
	for _, tc := range cases {
		got := CompareSeatLabels(tc.a, tc.b)
		switch {
		case tc.want < 0:
			assert.Negative(t, got, "%s vs %s", tc.a, tc.b)
		case tc.want > 0:
			assert.Positive(t, got, "%s vs %s", tc.a, tc.b)
		default:
			assert.Zero(t, got, "%s vs %s", tc.a, tc.b)
		}
	}
}
