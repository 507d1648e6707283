package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PricingMode selects which price source values each quotation line
type PricingMode int

const (
	PricingModeNRP    PricingMode = 0
	PricingModeMRP    PricingMode = 1
	PricingModeManual PricingMode = 2
)

var pricingModeNames = [...]string{"nrp", "mrp", "manual"}

func (m PricingMode) String() string {
	if int(m) < 0 || int(m) >= len(pricingModeNames) {
		return "nrp"
	}
	return pricingModeNames[m]
}

// IsValid reports whether m is one of the known modes
func (m PricingMode) IsValid() bool {
	return int(m) >= 0 && int(m) < len(pricingModeNames)
}

// ParsePricingMode maps "nrp", "mrp" or "manual" (any case) to a PricingMode
func ParsePricingMode(s string) (PricingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nrp":
		return PricingModeNRP, nil
	case "mrp":
		return PricingModeMRP, nil
	case "manual":
		return PricingModeManual, nil
	}
	return PricingModeNRP, fmt.Errorf("unknown pricing mode %q", s)
}

func (m PricingMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PricingMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !PricingMode(i).IsValid() {
			return fmt.Errorf("unknown pricing mode %d", i)
		}
		*m = PricingMode(i)
		return nil
	}
	parsed, err := ParsePricingMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PricingMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PricingMode) Scan(value interface{}) error {
	if value == nil {
		*m = PricingModeNRP
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PricingMode(v)
	case int:
		*m = PricingMode(v)
	}
	return nil
}
