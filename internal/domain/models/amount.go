package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a numeric field that may arrive as a JSON number, a numeric-looking
// string or nothing at all. Float never fails: anything unparseable is 0.
type Amount struct {
	raw string
}

func NewAmount(v float64) Amount {
	return Amount{raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// AmountOf keeps the text as received, e.g. a VARCHAR column value.
func AmountOf(s string) Amount {
	return Amount{raw: s}
}

func (a Amount) Raw() string { return a.raw }

// Float coerces the value with leading-number semantics: "100km" is 100,
// "abc" and "" are 0. Non-finite results are 0 as well.
func (a Amount) Float() float64 {
	return ParseLenient(a.raw)
}

// NonNegative is Float clamped at zero, for distances and item values.
func (a Amount) NonNegative() float64 {
	v := a.Float()
	if v < 0 {
		return 0
	}
	return v
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Float())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		a.raw = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		a.raw = s
		return nil
	}
	// numbers, booleans and anything else are kept verbatim and coerced later
	a.raw = string(b)
	return nil
}

// ParseLenient parses the longest numeric prefix of s after leading
// whitespace. It returns 0 when no prefix parses.
func ParseLenient(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := numericPrefixLen(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func numericPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
