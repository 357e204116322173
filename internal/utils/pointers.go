package utils

import "time"

func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func DerefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
