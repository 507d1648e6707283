package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := map[string]string{
		"98255 32006":      "+919825532006",
		"+91 98255-32006":  "+919825532006",
		"  09825532006 ":   "+919825532006",
		"+1 650-253-0000":  "+16502530000",
		"12345":            "12345",
		"  not a number  ": "not a number",
		"":                 "",
	}
	for in, want := range cases {
		if got := NormalizeE164(in); got != want {
			t.Fatalf("NormalizeE164(%q): expected %q, got %q", in, want, got)
		}
	}
}
