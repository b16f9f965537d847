package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a delivery address stored as a JSONB column. Lat/Lng feed the
// distance-based shipping calculation at checkout.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// Validate reports whether the address carries the fields shipping needs.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Line1) == "" {
		return fmt.Errorf("address: missing line1")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("address: missing city")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return fmt.Errorf("address: missing postal_code")
	}
	if a.Lat == 0 && a.Lng == 0 {
		return fmt.Errorf("address: missing coordinates")
	}
	return nil
}

// Value marshals the address into its JSONB representation.
func (a Address) Value() (driver.Value, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: marshal: %w", err)
	}
	return string(payload), nil
}

// Scan decodes a JSONB column back into the address.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}
}
