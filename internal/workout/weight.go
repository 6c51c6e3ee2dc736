package workout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Weight is a load in hundredths of a unit, e.g. 13550 is 135.50.
// The valid range is -999.99 to 999.99.
type Weight int64

const maxWeight Weight = 99999

// ParseWeight parses a decimal with at most three integer digits and two
// fractional digits.
func ParseWeight(s string) (Weight, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, invalidf("weight is empty")
	}

	digits := raw
	neg := false
	switch digits[0] {
	case '-':
		neg = true
		digits = digits[1:]
	case '+':
		digits = digits[1:]
	}

	whole, frac, _ := strings.Cut(digits, ".")
	if whole == "" && frac == "" {
		return 0, invalidf("weight %q is not a number", raw)
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, invalidf("weight %q is not a number", raw)
	}
	if len(frac) > 2 {
		return 0, invalidf("weight %q has more than 2 decimal places", raw)
	}
	whole = strings.TrimLeft(whole, "0")
	if len(whole) > 3 {
		return 0, invalidf("weight %q has more than 3 integer digits", raw)
	}

	var w int64
	if whole != "" {
		n, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, invalidf("weight %q is not a number", raw)
		}
		w = n * 100
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	w += cents
	if neg {
		w = -w
	}
	return Weight(w), nil
}

// WeightFromFloat converts a float load, rejecting values that need more
// than two decimal places or fall outside the valid range.
func WeightFromFloat(f float64) (Weight, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidf("weight %v is not a number", f)
	}
	scaled := f * 100
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > 1e-6 {
		return 0, invalidf("weight %v has more than 2 decimal places", f)
	}
	w := Weight(rounded)
	if err := w.validate(); err != nil {
		return 0, err
	}
	return w, nil
}

func (w Weight) validate() error {
	if w > maxWeight || w < -maxWeight {
		return invalidf("weight %s is out of range", w)
	}
	return nil
}

// Float returns the weight as a float, e.g. 135.5.
func (w Weight) Float() float64 {
	return float64(w) / 100
}

// String formats the weight with two decimal places.
func (w Weight) String() string {
	sign := ""
	v := int64(w)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the weight as a decimal string ("135.00") so clients
// never see float rounding.
func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(w.String())), nil
}

// UnmarshalJSON accepts either a JSON number or a decimal string.
func (w *Weight) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	parsed, err := ParseWeight(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
