package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLetterhead(t *testing.T) {
	lh := DefaultLetterhead()
	if lh.Company != "Raj TILES" || lh.Signatory != "RAJ TILES" {
		t.Fatalf("unexpected company %q / %q", lh.Company, lh.Signatory)
	}
	if len(lh.Brands) != 12 || len(lh.Terms) != 4 || len(lh.Lines) != 4 {
		t.Fatalf("unexpected profile sizes: %d brands, %d terms, %d lines", len(lh.Brands), len(lh.Terms), len(lh.Lines))
	}
	if lh.ValidityDays != 15 {
		t.Fatalf("expected 15 validity days, got %d", lh.ValidityDays)
	}
	if len(lh.BrandLogos()) != 0 {
		t.Fatalf("expected no brand logos by default, got %v", lh.BrandLogos())
	}
}

func TestLoadLetterhead_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letterhead.yaml")
	body := "company: Shree Ceramics\nbrands:\n  - name: Kajaria\n    logo: public/brands/kajaria.png\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lh, err := LoadLetterhead(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lh.Company != "Shree Ceramics" {
		t.Fatalf("expected overridden company, got %q", lh.Company)
	}
	if len(lh.Brands) != 1 || lh.BrandLogos()[0] != "public/brands/kajaria.png" {
		t.Fatalf("expected brand list replaced, got %+v", lh.Brands)
	}
	if len(lh.Terms) != 4 {
		t.Fatalf("expected default terms kept, got %d", len(lh.Terms))
	}
}

func TestLoadLetterhead_Errors(t *testing.T) {
	if _, err := LoadLetterhead(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("company: [unterminated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLetterhead(path); err == nil {
		t.Fatal("expected parse error")
	}

	if lh, err := LoadLetterhead(""); err != nil || lh.Company == "" {
		t.Fatalf("expected built-in profile for empty path, got %v", err)
	}
}
