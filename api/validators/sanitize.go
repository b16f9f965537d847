package validators

import "strings"

// SanitizeString trims whitespace, strips control characters, and caps the
// length of free-text input such as search terms and address lines.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, input)
	trimmed := strings.TrimSpace(cleaned)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
