// Package utils holds small helpers shared across the gateway.
package utils

import "strings"

// CompareSeatLabels orders seat labels the way a seat map reads: the
// row prefix compares lexically and the trailing number compares
// numerically, so "A2" sorts before "A10".  Labels without a numeric
// suffix fall back to plain string comparison.
func CompareSeatLabels(a, b string) int {
	ra, na, okA := splitLabel(a)
	rb, nb, okB := splitLabel(b)
	if okA && okB {
		if c := strings.Compare(ra, rb); c != 0 {
			return c
		}
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// splitLabel splits a label into its row prefix and numeric suffix.
// ok is false when the label has no trailing digits.
func splitLabel(label string) (row string, num int, ok bool) {
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == len(label) {
		return label, 0, false
	}
	for _, d := range label[i:] {
		num = num*10 + int(d-'0')
	}
	return label[:i], num, true
}
