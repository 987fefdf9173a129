// Package selection parses interactive index selections such as "1,3,7-9"
// or "all". Pure parsing, no I/O.
package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse interprets the expression against items numbered 1..max. Accepts
// comma-separated numbers and inclusive ranges, or the literal "all"
// (case-insensitive). Numbers outside 1..max are silently dropped; duplicates
// are kept once, in first-seen order.
func Parse(input string, max int) ([]int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, errors.New("empty selection")
	}

	if strings.EqualFold(trimmed, "all") {
		all := make([]int, 0, max)
		for i := 1; i <= max; i++ {
			all = append(all, i)
		}
		return all, nil
	}

	seen := make(map[int]struct{})
	var selected []int

	add := func(n int) {
		if n < 1 || n > max {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		selected = append(selected, n)
	}

	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty element in selection %q", input)
		}

		if start, end, ok := strings.Cut(part, "-"); ok {
			lo, err := strconv.Atoi(strings.TrimSpace(start))
			if err != nil {
				return nil, fmt.Errorf("invalid range start %q", part)
			}
			hi, err := strconv.Atoi(strings.TrimSpace(end))
			if err != nil {
				return nil, fmt.Errorf("invalid range end %q", part)
			}
			if lo > hi {
				return nil, fmt.Errorf("range %q is reversed", part)
			}
			for n := lo; n <= hi; n++ {
				add(n)
			}
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		add(n)
	}

	return selected, nil
}
