// Package money centralises currency arithmetic. Stored values are
// two-decimal currency; computations go through decimals so repeated edits
// and multi-line sums do not accumulate float error.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to two decimals.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// MulQty returns unit price times quantity, rounded to two decimals.
func MulQty(unit float64, qty int) float64 {
	out, _ := decimal.NewFromFloat(unit).Mul(decimal.NewFromInt(int64(qty))).Round(2).Float64()
	return out
}

// Sub returns a-b rounded to two decimals.
func Sub(a, b float64) float64 {
	out, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).Float64()
	return out
}

// Sum adds amounts without intermediate rounding, rounding only the result.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, v := range amounts {
		total = total.Add(decimal.NewFromFloat(v))
	}
	out, _ := total.Round(2).Float64()
	return out
}

// Fixed2 formats an amount with exactly two decimals.
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// MarginPercent computes (sale-cost)/cost*100 as a fixed two-decimal string.
// A zero cost yields "0.00" rather than dividing by zero.
func MarginPercent(cost, sale float64) string {
	c := decimal.NewFromFloat(cost)
	if c.IsZero() {
		return "0.00"
	}
	s := decimal.NewFromFloat(sale)
	return s.Sub(c).Div(c).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
