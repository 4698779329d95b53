package client

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection is a 1-based inclusive line range. The zero value selects everything.
type Selection struct {
	Start, End int
}

// ParseSelection reads "a:b", "a:" (to end of file) or "a" (a single line).
func ParseSelection(s string) (Selection, error) {
	if s == "" {
		return Selection{}, nil
	}
	startStr, endStr, hasColon := strings.Cut(s, ":")
	start, err := strconv.Atoi(startStr)
	if err != nil || start < 1 {
		return Selection{}, fmt.Errorf("invalid selection %q", s)
	}
	end := start
	if hasColon {
		if endStr == "" {
			end = -1
		} else if end, err = strconv.Atoi(endStr); err != nil || end < start {
			return Selection{}, fmt.Errorf("invalid selection %q", s)
		}
	}
	return Selection{Start: start, End: end}, nil
}

func (s Selection) bounds(lines []string) (int, int, error) {
	n := len(lines)
	if n > 1 && lines[n-1] == "" {
		n-- // trailing newline is not a line
	}
	if s.Start == 0 {
		return 0, n, nil
	}
	end := s.End
	if end == -1 {
		end = n
	}
	if s.Start > n || end > n {
		return 0, 0, fmt.Errorf("selection %d:%d outside file of %d lines", s.Start, end, n)
	}
	return s.Start - 1, end, nil
}

// Text returns the selected lines.
func (s Selection) Text(content string) (string, error) {
	lines := strings.Split(content, "\n")
	from, to, err := s.bounds(lines)
	if err != nil {
		return "", err
	}
	return strings.Join(lines[from:to], "\n"), nil
}

// Apply replaces the selected lines with replacement and returns the new content.
func (s Selection) Apply(content, replacement string) (string, error) {
	lines := strings.Split(content, "\n")
	from, to, err := s.bounds(lines)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(lines))
	out = append(out, lines[:from]...)
	out = append(out, strings.Split(replacement, "\n")...)
	out = append(out, lines[to:]...)
	return strings.Join(out, "\n"), nil
}
