package common

import (
	"strconv"
	"strings"
)

// FormatINR renders whole rupees with Indian digit grouping, e.g. "₹9,40,000".
func FormatINR(amount int64) string {
	if amount < 0 {
		return "-₹" + GroupINR(-amount)
	}
	return "₹" + GroupINR(amount)
}

// GroupINR groups the last three digits, then pairs: 12,34,567.
func GroupINR(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
