// Package entity defines the exchange-symbol reference set.
package entity

import "sort"

// Set is an immutable set of ticker codes listed on the exchange.
// It is built once at startup and shared by all requests without locking.
type Set struct {
	codes map[string]struct{}
}

// NewSet builds a Set from codes. Empty codes are ignored.
func NewSet(codes []string) *Set {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if c == "" {
			continue
		}
		m[c] = struct{}{}
	}
	return &Set{codes: m}
}

// Contains reports whether code is listed. A nil Set contains nothing.
func (s *Set) Contains(code string) bool {
	if s == nil {
		return false
	}
	_, ok := s.codes[code]
	return ok
}

// Len returns the number of listed codes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Codes returns the listed codes in ascending order.
func (s *Set) Codes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
