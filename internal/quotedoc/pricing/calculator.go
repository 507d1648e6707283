// Package pricing computes quotation line amounts and totals on decimal values.
package pricing

import (
	"strings"

	"github.com/sangkips/rajtiles-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// TaxComponentRate is the rate of each of the two tax components (CGST, SGST)
	TaxComponentRate = decimal.RequireFromString("0.09")
)

// Line is one quotation line as seen by the calculator
type Line struct {
	Quantity int
	NRP      decimal.Decimal
	MRP      decimal.Decimal
	Manual   *decimal.Decimal
}

// Input carries everything needed to price a quotation
type Input struct {
	Mode            enum.PricingMode
	DiscountPercent decimal.Decimal
	IncludeTax      bool
	Lines           []Line
}

// LineAmount is the priced result for a single line
type LineAmount struct {
	Rate     decimal.Decimal
	Quantity int
	Amount   decimal.Decimal
}

// Totals is the full computed snapshot of a quotation.
// Amounts are exact; callers format them with StringFixed(2).
type Totals struct {
	Lines                []LineAmount
	TotalQuantity        int
	Subtotal             decimal.Decimal
	DiscountPercent      decimal.Decimal
	DiscountAmount       decimal.Decimal
	TotalWithoutDiscount decimal.Decimal
	NetAmount            decimal.Decimal
	CGST                 decimal.Decimal
	SGST                 decimal.Decimal
	TotalWithTax         decimal.Decimal
	RoundOff             decimal.Decimal
	FinalAmount          decimal.Decimal
}

// Rate returns the per-unit rate of a line for the given mode
func Rate(mode enum.PricingMode, line Line) decimal.Decimal {
	switch mode {
	case enum.PricingModeManual:
		if line.Manual == nil {
			return decimal.Zero
		}
		return *line.Manual
	case enum.PricingModeMRP:
		return line.MRP
	default:
		return line.NRP
	}
}

// Calculate prices every line and derives the totals.
// The discount is reported (DiscountAmount, TotalWithoutDiscount) but the taxed
// total is computed on the undiscounted subtotal.
func Calculate(in Input) Totals {
	totals := Totals{
		Lines:           make([]LineAmount, 0, len(in.Lines)),
		Subtotal:        decimal.Zero,
		DiscountPercent: in.DiscountPercent,
		CGST:            decimal.Zero,
		SGST:            decimal.Zero,
	}

	for _, line := range in.Lines {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		rate := Rate(in.Mode, line)
		amount := rate.Mul(decimal.NewFromInt(int64(qty)))

		totals.Lines = append(totals.Lines, LineAmount{Rate: rate, Quantity: qty, Amount: amount})
		totals.Subtotal = totals.Subtotal.Add(amount)
		totals.TotalQuantity += qty
	}

	totals.DiscountAmount = totals.Subtotal.Mul(in.DiscountPercent).Div(hundred)
	totals.TotalWithoutDiscount = totalWithoutDiscount(totals.Subtotal, in.DiscountPercent)
	totals.NetAmount = totals.Subtotal

	if in.IncludeTax {
		totals.CGST = totals.Subtotal.Mul(TaxComponentRate)
		totals.SGST = totals.Subtotal.Mul(TaxComponentRate)
	}

	totals.TotalWithTax = totals.Subtotal.Add(totals.CGST).Add(totals.SGST)
	totals.FinalAmount = totals.TotalWithTax.Round(0)
	totals.RoundOff = totals.FinalAmount.Sub(totals.TotalWithTax)

	return totals
}

// totalWithoutDiscount grosses the subtotal back up by the discount.
// A discount of 100% or more has no finite gross value, so the subtotal is reported.
func totalWithoutDiscount(subtotal, percent decimal.Decimal) decimal.Decimal {
	if percent.GreaterThanOrEqual(hundred) {
		return subtotal
	}
	factor := decimal.NewFromInt(1).Sub(percent.Div(hundred))
	return subtotal.DivRound(factor, 4)
}

// ParsePercent reads a string-encoded percentage such as "10" or "12.5".
// Blank or malformed input yields zero.
func ParsePercent(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
