package model

import (
	"fmt"
	"math"
	"strconv"
)

// Cost is an amount in hundredths of a currency unit. Keeping costs integral
// makes totals independent of summation order.
type Cost int64

// Cents converts a decimal amount to a Cost, rounding to the nearest hundredth.
func Cents(amount float64) Cost {
	return Cost(math.Round(amount * 100))
}

// Float returns the amount in currency units.
func (c Cost) Float() float64 {
	return float64(c) / 100
}

func (c Cost) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the cost as a decimal number, e.g. 1006.00.
func (c Cost) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a number or a quoted number. Amounts finer than one
// cent are rejected rather than rounded.
func (c *Cost) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid cost %q: %w", s, err)
	}
	if cents := f * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
		return fmt.Errorf("invalid cost %q: finer than one cent", s)
	}
	*c = Cents(f)
	return nil
}
