package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateCircleName validates a topic circle name.
func ValidateCircleName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("circle name is required")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return fmt.Errorf("circle name must not exceed 100 characters")
	}
	return nil
}
