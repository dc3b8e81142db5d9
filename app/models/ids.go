package models

import (
	"fmt"
	"strconv"
	"strings"
)

// CompareIDs orders string ids numerically when both are integers, so
// "10" sorts after "9". Anything else falls back to lexical order.
func CompareIDs(a, b string) int {
	x, errA := strconv.ParseUint(a, 10, 64)
	y, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	if errA == nil {
		return -1
	}
	if errB == nil {
		return 1
	}
	return strings.Compare(a, b)
}

// NextID returns the successor of the current maximum id. An empty max
// means the collection is empty and the first id is "1".
func NextID(max string) (string, error) {
	if max == "" {
		return "1", nil
	}
	n, err := strconv.Atoi(max)
	if err != nil {
		return "", fmt.Errorf("max id %q is not an integer: %w", max, err)
	}
	return strconv.Itoa(n + 1), nil
}
