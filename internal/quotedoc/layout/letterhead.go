package layout

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed letterhead.yaml
var defaultLetterhead []byte

// Letterhead holds the fixed company content printed on every quotation
type Letterhead struct {
	Company          string   `yaml:"company"`
	Signatory        string   `yaml:"signatory"`
	Initials         string   `yaml:"initials"`
	Lines            []string `yaml:"lines"`
	State            string   `yaml:"state"`
	StateCode        string   `yaml:"state_code"`
	DefaultAddress   string   `yaml:"default_address"`
	ValidityDays     int      `yaml:"validity_days"`
	PreparedBy       string   `yaml:"prepared_by"`
	Logo             []string `yaml:"logo"`
	Area             Area     `yaml:"area"`
	AvailabilityNote string   `yaml:"availability_note"`
	Terms            []string `yaml:"terms"`
	Brands           []Brand  `yaml:"brands"`
}

// Area is the single summary area row
type Area struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Brand is one cell of the brand grid. Logo is an image reference and may
// be empty, in which case the name is printed.
type Brand struct {
	Name string `yaml:"name"`
	Logo string `yaml:"logo"`
}

// DefaultLetterhead returns the built-in profile
func DefaultLetterhead() *Letterhead {
	lh, err := parseLetterhead(defaultLetterhead)
	if err != nil {
		panic(fmt.Sprintf("embedded letterhead: %v", err))
	}
	return lh
}

// LoadLetterhead reads a profile from path, or the built-in one when path is
// empty. Keys missing from the file keep their built-in values.
func LoadLetterhead(path string) (*Letterhead, error) {
	if path == "" {
		return DefaultLetterhead(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read letterhead: %w", err)
	}

	lh := DefaultLetterhead()
	if err := yaml.Unmarshal(data, lh); err != nil {
		return nil, fmt.Errorf("parse letterhead %s: %w", path, err)
	}
	return lh, lh.validate()
}

func parseLetterhead(data []byte) (*Letterhead, error) {
	var lh Letterhead
	if err := yaml.Unmarshal(data, &lh); err != nil {
		return nil, err
	}
	return &lh, lh.validate()
}

func (lh *Letterhead) validate() error {
	if lh.Company == "" {
		return fmt.Errorf("letterhead: company is required")
	}
	if lh.ValidityDays < 0 {
		return fmt.Errorf("letterhead: validity_days must not be negative")
	}
	if lh.Signatory == "" {
		lh.Signatory = lh.Company
	}
	return nil
}

// BrandLogos lists the brand logo references that need acquiring
func (lh *Letterhead) BrandLogos() []string {
	var refs []string
	for _, b := range lh.Brands {
		if b.Logo != "" {
			refs = append(refs, b.Logo)
		}
	}
	return refs
}
