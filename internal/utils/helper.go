package utils

import (
	"strings"

	"github.com/google/uuid"
)

func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// ParseOptionalUUID returns nil for a nil or blank input.
func ParseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := ParseUUID(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// TrimOptional trims s and maps blank strings to nil.
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
