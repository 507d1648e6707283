package pricing

import (
	"testing"

	"github.com/sangkips/rajtiles-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCalculate_TwoLinesWithDiscountAndTax(t *testing.T) {
	totals := Calculate(Input{
		Mode:            enum.PricingModeNRP,
		DiscountPercent: dec("10"),
		IncludeTax:      true,
		Lines: []Line{
			{Quantity: 3, NRP: dec("100"), MRP: dec("120")},
			{Quantity: 1, NRP: dec("250"), MRP: dec("300")},
		},
	})

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"subtotal", totals.Subtotal, "650"},
		{"discount", totals.DiscountAmount, "65"},
		{"net", totals.NetAmount, "650"},
		{"cgst", totals.CGST, "58.5"},
		{"sgst", totals.SGST, "58.5"},
		{"total with tax", totals.TotalWithTax, "767"},
		{"final", totals.FinalAmount, "767"},
		{"round off", totals.RoundOff, "0"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Fatalf("expected %s %s, got %s", c.name, c.want, c.got)
		}
	}
	if got := totals.TotalWithoutDiscount.StringFixed(2); got != "722.22" {
		t.Fatalf("expected total without discount 722.22, got %s", got)
	}
	if totals.TotalQuantity != 4 {
		t.Fatalf("expected total quantity 4, got %d", totals.TotalQuantity)
	}
	if !totals.Lines[0].Amount.Equal(dec("300")) || !totals.Lines[1].Amount.Equal(dec("250")) {
		t.Fatalf("unexpected line amounts: %s, %s", totals.Lines[0].Amount, totals.Lines[1].Amount)
	}
}

func TestCalculate_DiscountIsNotSubtracted(t *testing.T) {
	with := Calculate(Input{Mode: enum.PricingModeNRP, DiscountPercent: dec("25"), Lines: []Line{{Quantity: 1, NRP: dec("400")}}})
	without := Calculate(Input{Mode: enum.PricingModeNRP, Lines: []Line{{Quantity: 1, NRP: dec("400")}}})

	if !with.FinalAmount.Equal(without.FinalAmount) {
		t.Fatalf("expected discount to leave final amount unchanged, got %s vs %s", with.FinalAmount, without.FinalAmount)
	}
	if !with.DiscountAmount.Equal(dec("100")) {
		t.Fatalf("expected discount amount 100, got %s", with.DiscountAmount)
	}
}

func TestCalculate_RateByMode(t *testing.T) {
	line := Line{Quantity: 2, NRP: dec("10"), MRP: dec("15"), Manual: decPtr("12.5")}

	cases := []struct {
		mode enum.PricingMode
		want string
	}{
		{enum.PricingModeNRP, "20"},
		{enum.PricingModeMRP, "30"},
		{enum.PricingModeManual, "25"},
	}
	for _, c := range cases {
		totals := Calculate(Input{Mode: c.mode, Lines: []Line{line}})
		if !totals.Subtotal.Equal(dec(c.want)) {
			t.Fatalf("mode %s: expected %s, got %s", c.mode, c.want, totals.Subtotal)
		}
	}
}

func TestCalculate_ManualWithoutOverrideIsZero(t *testing.T) {
	totals := Calculate(Input{
		Mode:  enum.PricingModeManual,
		Lines: []Line{{Quantity: 4, NRP: dec("99"), MRP: dec("120")}},
	})
	if !totals.Subtotal.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", totals.Subtotal)
	}
}

func TestCalculate_QuantityDefaultsToOne(t *testing.T) {
	totals := Calculate(Input{
		Mode:  enum.PricingModeNRP,
		Lines: []Line{{Quantity: 0, NRP: dec("42")}, {Quantity: -3, NRP: dec("8")}},
	})
	if !totals.Subtotal.Equal(dec("50")) {
		t.Fatalf("expected subtotal 50, got %s", totals.Subtotal)
	}
	if totals.TotalQuantity != 2 {
		t.Fatalf("expected total quantity 2, got %d", totals.TotalQuantity)
	}
}

func TestCalculate_ThousandLinesStayExact(t *testing.T) {
	lines := make([]Line, 1000)
	for i := range lines {
		lines[i] = Line{Quantity: 1, NRP: dec("0.10")}
	}

	totals := Calculate(Input{Mode: enum.PricingModeNRP, Lines: lines})
	if !totals.Subtotal.Equal(dec("100")) {
		t.Fatalf("expected exact subtotal 100, got %s", totals.Subtotal)
	}

	for _, line := range totals.Lines {
		if !line.Amount.Equal(line.Rate.Mul(decimal.NewFromInt(int64(line.Quantity)))) {
			t.Fatalf("line amount drifted: %s", line.Amount)
		}
	}
}

func TestCalculate_RoundsHalfUp(t *testing.T) {
	totals := Calculate(Input{Mode: enum.PricingModeNRP, Lines: []Line{{Quantity: 1, NRP: dec("100.5")}}})
	if !totals.FinalAmount.Equal(dec("101")) {
		t.Fatalf("expected final 101, got %s", totals.FinalAmount)
	}
	if !totals.RoundOff.Equal(dec("0.5")) {
		t.Fatalf("expected round off 0.5, got %s", totals.RoundOff)
	}

	totals = Calculate(Input{Mode: enum.PricingModeNRP, IncludeTax: true, Lines: []Line{{Quantity: 3, NRP: dec("33.33")}}})
	// 99.99 + 2 * 8.9991 = 117.9882
	if !totals.TotalWithTax.Equal(dec("117.9882")) {
		t.Fatalf("expected total with tax 117.9882, got %s", totals.TotalWithTax)
	}
	if !totals.FinalAmount.Equal(dec("118")) || !totals.RoundOff.Equal(dec("0.0118")) {
		t.Fatalf("expected final 118 and round off 0.0118, got %s and %s", totals.FinalAmount, totals.RoundOff)
	}
}

func TestCalculate_FinalAmountIsRoundedSum(t *testing.T) {
	rates := []string{"0", "0.01", "1.49", "12.345", "99.995", "1234.56"}
	for i, r := range rates {
		for qty := 1; qty <= 5; qty++ {
			totals := Calculate(Input{
				Mode:       enum.PricingModeNRP,
				IncludeTax: i%2 == 0,
				Lines:      []Line{{Quantity: qty, NRP: dec(r)}},
			})
			want := totals.Subtotal.Add(totals.CGST).Add(totals.SGST).Round(0)
			if !totals.FinalAmount.Equal(want) {
				t.Fatalf("rate %s qty %d: expected final %s, got %s", r, qty, want, totals.FinalAmount)
			}
			if totals.FinalAmount.IsNegative() || !totals.FinalAmount.Equal(totals.FinalAmount.Truncate(0)) {
				t.Fatalf("rate %s qty %d: final amount %s is not a non-negative integer", r, qty, totals.FinalAmount)
			}
		}
	}
}

func TestCalculate_FullDiscountReportsSubtotal(t *testing.T) {
	totals := Calculate(Input{Mode: enum.PricingModeNRP, DiscountPercent: dec("100"), Lines: []Line{{Quantity: 1, NRP: dec("80")}}})
	if !totals.TotalWithoutDiscount.Equal(dec("80")) {
		t.Fatalf("expected total without discount 80, got %s", totals.TotalWithoutDiscount)
	}
}

func TestCalculate_EmptyQuotation(t *testing.T) {
	totals := Calculate(Input{Mode: enum.PricingModeMRP, IncludeTax: true})
	if !totals.FinalAmount.IsZero() || !totals.RoundOff.IsZero() {
		t.Fatalf("expected zero totals, got final %s round off %s", totals.FinalAmount, totals.RoundOff)
	}
}

func TestParsePercent(t *testing.T) {
	cases := map[string]string{
		"":      "0",
		"10":    "10",
		" 7.5 ": "7.5",
		"12%":   "12",
		"abc":   "0",
	}
	for in, want := range cases {
		if got := ParsePercent(in); !got.Equal(dec(want)) {
			t.Fatalf("ParsePercent(%q): expected %s, got %s", in, want, got)
		}
	}
}
