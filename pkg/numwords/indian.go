// Package numwords spells whole numbers in English words using the Indian
// numbering system (thousand, lakh, crore).
package numwords

import "strings"

const (
	thousand = 1_000
	lakh     = 100_000
	crore    = 10_000_000
)

var (
	ones  = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens = [...]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens  = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// Indian returns n in words, grouped at 10^3, 10^5 and 10^7.
// Crore counts above 999 recurse, so 10^10 reads "One Thousand Crore".
func Indian(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		// -n overflows for MinInt64; spell it through the unsigned path.
		return "Minus " + spell(uint64(-(n+1))+1)
	}
	return spell(uint64(n))
}

func spell(n uint64) string {
	var parts []string
	if n >= crore {
		parts = append(parts, spell(n/crore), "Crore")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, belowThousand(n/lakh), "Lakh")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, belowThousand(n/thousand), "Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n uint64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return ones[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	}
	if n%100 == 0 {
		return ones[n/100] + " Hundred"
	}
	return ones[n/100] + " Hundred " + belowThousand(n%100)
}
