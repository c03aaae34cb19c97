/*
Package policy provides the commission calculation core.

PURPOSE:
  This package contains the deterministic arithmetic every screen in the CRM
  ultimately displays: first-year and ongoing commission, lifetime commission
  expectations, renewal-date projection, and the yearly commission series used
  for charting. Everything here is pure and synchronous: records in, numbers
  out.

KEY CONCEPTS IN THIS FILE (amount.go):
  - Amount: An optional decimal quantity (money or percentage)
  - Null vs zero: "no data" and "zero" are distinct values everywhere

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Explicit absence: Amount carries a Valid flag instead of conflating
     missing values with zero (the UI renders invalid amounts as "N/A")
  3. Purity: No clock, store, or network access inside the calculators;
     "today" is always an explicit argument

USAGE:
  premium := policy.NewAmount(10000)
  rate := policy.NewAmount(50)
  total := policy.TotalCommission(premium, rate) // 5000, Valid

SEE ALSO:
  - commission.go: Commission formulas
  - dates.go: Renewal and maturity projection
  - projection.go: Yearly commission aggregation
*/
package policy

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Optional decimal quantity (money amount or percentage)
// =============================================================================

// Amount is a nullable decimal. An Amount with Valid=false means "no data",
// which is NOT the same as zero: a policy with no premium renders as "N/A",
// a policy with a zero premium renders as "0.00".
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount builds a valid Amount from a float.
func NewAmount(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Valid: true}
}

// NewAmountFromDecimal builds a valid Amount from a decimal.
func NewAmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{Value: d, Valid: true}
}

// NewAmountFromString parses a decimal string into a valid Amount.
// Empty or malformed strings produce a null Amount.
func NewAmountFromString(s string) Amount {
	if s == "" {
		return NullAmount()
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return NullAmount()
	}
	return Amount{Value: d, Valid: true}
}

// NullAmount returns the "no data" Amount.
func NullAmount() Amount {
	return Amount{}
}

func (a Amount) IsNull() bool     { return !a.Valid }
func (a Amount) IsZero() bool     { return a.Valid && a.Value.IsZero() }
func (a Amount) IsNegative() bool { return a.Valid && a.Value.IsNegative() }
func (a Amount) IsPositive() bool { return a.Valid && a.Value.IsPositive() }

// OrZero collapses null to zero. Use ONLY at points where the rules in the
// calculators explicitly say "or 0" - never for display.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Value
}

// Float64 returns the float value, or 0 for null. Display helpers should
// check IsNull first.
func (a Amount) Float64() float64 {
	f, _ := a.OrZero().Float64()
	return f
}

// FloatPtr returns nil for null amounts, otherwise a pointer to the float
// value. Used by the DTO layer so JSON carries null, not 0, for "no data".
func (a Amount) FloatPtr() *float64 {
	if !a.Valid {
		return nil
	}
	f, _ := a.Value.Float64()
	return &f
}

func (a Amount) Add(b Amount) Amount {
	if !a.Valid || !b.Valid {
		return NullAmount()
	}
	return Amount{Value: a.Value.Add(b.Value), Valid: true}
}

func (a Amount) Sub(b Amount) Amount {
	if !a.Valid || !b.Valid {
		return NullAmount()
	}
	return Amount{Value: a.Value.Sub(b.Value), Valid: true}
}

func (a Amount) Mul(b Amount) Amount {
	if !a.Valid || !b.Valid {
		return NullAmount()
	}
	return Amount{Value: a.Value.Mul(b.Value), Valid: true}
}

// Div divides by a plain decimal. Division by zero returns null rather than
// panicking; the ongoing-commission table never produces a zero divisor, but
// callers outside the table get the safe behavior.
func (a Amount) Div(d decimal.Decimal) Amount {
	if !a.Valid || d.IsZero() {
		return NullAmount()
	}
	return Amount{Value: a.Value.Div(d), Valid: true}
}

func (a Amount) Equal(b Amount) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Value.Equal(b.Value)
}

func (a Amount) GreaterThan(b Amount) bool {
	return a.Valid && b.Valid && a.Value.GreaterThan(b.Value)
}

func (a Amount) LessThan(b Amount) bool {
	return a.Valid && b.Valid && a.Value.LessThan(b.Value)
}

// Min returns the smaller of two valid amounts; if either is null the other
// is returned unchanged.
func (a Amount) Min(b Amount) Amount {
	if !a.Valid {
		return b
	}
	if !b.Valid {
		return a
	}
	if a.Value.LessThan(b.Value) {
		return a
	}
	return b
}

// String renders the amount for logs. Null renders as "null".
func (a Amount) String() string {
	if !a.Valid {
		return "null"
	}
	return a.Value.String()
}
