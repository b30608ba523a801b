package utils

import (
	"github.com/shopspring/decimal"
)

// RoundMoney rounds half away from zero to two decimals.
func RoundMoney(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// FormatMoney keeps consistent decimal formatting for currency fields:
// thousands separated by commas, two decimals.
func FormatMoney(amount float64) string {
	return groupThousands(decimal.NewFromFloat(amount).StringFixed(2))
}

// FormatQuantity drops trailing zeros, e.g. 12 or 12.5.
func FormatQuantity(q float64) string {
	return groupThousands(decimal.NewFromFloat(q).Round(3).String())
}

func groupThousands(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	var out []byte
	n := len(intPart)
	for i := 0; i < n; i++ {
		out = append(out, intPart[i])
		pos := n - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, ',')
		}
	}
	return sign + string(out) + frac
}
