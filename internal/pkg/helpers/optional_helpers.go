package helpers

import "strings"

// TrimOptional trims s and maps blank input to nil, so optional columns
// store NULL instead of empty strings.
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
