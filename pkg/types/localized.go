package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DefaultLanguage is the fallback language for localized catalog text.
const DefaultLanguage = "en"

// LocalizedString holds per-language variants of a catalog field, stored as
// JSONB. Product titles and descriptions arrive from the CMS in several
// languages at once.
type LocalizedString map[string]string

// Resolve returns the variant for lang, falling back to the default language
// and then to any available variant.
func (l LocalizedString) Resolve(lang string) string {
	if len(l) == 0 {
		return ""
	}
	if v, ok := l[lang]; ok && v != "" {
		return v
	}
	if v, ok := l[DefaultLanguage]; ok && v != "" {
		return v
	}
	for _, v := range l {
		if v != "" {
			return v
		}
	}
	return ""
}

// Value marshals the localized string into its JSONB representation.
func (l LocalizedString) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("localized string: marshal: %w", err)
	}
	return string(payload), nil
}

// Scan decodes a JSONB column back into the map.
func (l *LocalizedString) Scan(value interface{}) error {
	if value == nil {
		*l = LocalizedString{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("localized string: unsupported scan type %T", value)
	}
}
