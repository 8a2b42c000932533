package scraper

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDay bounds day ranges; no month has more days
const maxDay = 31

// ParseDays expands a day list such as "1-30", "15", "1, 5, 10" or "1-5, 20"
// into individual days, in order and without deduplication.
//
// A range "a-b" yields every day from a to b inclusive, or nothing when a > b.
// A range reaching below 1 or above 31 is an error. Tokens that do not start
// with a number are dropped. Single days are not checked here; the month they
// fall in decides whether they exist.
func ParseDays(s string) ([]int, error) {
	days := make([]int, 0)

	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)

		if strings.Contains(token, "-") {
			bounds := strings.Split(token, "-")
			start, okStart := leadingInt(bounds[0])
			end, okEnd := leadingInt(bounds[1])
			if !okStart || !okEnd || start > end {
				continue
			}
			if start < 1 || end > maxDay {
				return nil, fmt.Errorf("day range %q out of bounds 1-%d", token, maxDay)
			}
			for day := start; day <= end; day++ {
				days = append(days, day)
			}
			continue
		}

		if day, ok := leadingInt(token); ok {
			days = append(days, day)
		}
	}

	return days, nil
}

// leadingInt reads the run of digits at the start of s, ignoring surrounding
// whitespace, so "15th" and "15 (Mon)" both read as 15. Numbers too large for
// an int count as non-numeric.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
