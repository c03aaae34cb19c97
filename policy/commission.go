/*
commission.go - Commission formulas

PURPOSE:
  Pure functions deriving commission figures from a policy record. This is
  the rule set an implementer could get wrong, so every formula is spelled
  out here and pinned by tests.

THE FORMULAS:
  Total commission      = premium x rate / 100
  First-year commission = same formula (the two are deliberately conflated;
                          the form layer may clamp a stored first-year value
                          down to the total)
  Ongoing commission    = (total - firstYear) / divisor, where the divisor
                          depends on the payment structure family
  Total expected        = firstYear + ongoing x max(0, duration - 1)

ONGOING DIVISOR TABLE:
  single_premium, one_year_term        -> no ongoing commission
  regular_premium                      -> remaining / 5
  five_year_premium                    -> remaining / 4
  ten_year_premium, lifetime_premium   -> remaining / 5
  unknown                              -> no ongoing commission

  The divisor approximates "years over which the remaining pool is paid out"
  per structure family. Five-year policies amortize over 4 post-first-year
  payments; longer structures use a flat 5-year window regardless of actual
  duration. five_year_premium getting 4 while ten_year/lifetime get 5 is the
  product rule as shipped. Do not change it without product input.

NULL PROPAGATION:
  Absent premium or rate makes the dependent commission null, never zero:
  "N/A" on screen, not "0.00". The only places null collapses to zero are
  the ones the rules call out explicitly (total-expected, aggregation).

ERROR CONDITIONS:
  None of these functions return errors or panic. Absent inputs map to null
  or zero per the rules above; NaN cannot occur because all arithmetic is
  decimal.
*/
package policy

import "github.com/shopspring/decimal"

var (
	hundred  = decimal.NewFromInt(100)
	divFour  = decimal.NewFromInt(4)
	divFive  = decimal.NewFromInt(5)
)

// TotalCommission returns premium x rate / 100, or null if either input is
// absent.
func TotalCommission(premium, commissionRate Amount) Amount {
	if premium.IsNull() || commissionRate.IsNull() {
		return NullAmount()
	}
	return NewAmountFromDecimal(premium.Value.Mul(commissionRate.Value).Div(hundred))
}

// FirstYearCommission is the same formula as TotalCommission: the first-year
// commission is simply premium x first-year rate. Clamping a separately
// stored first-year value against the total happens in the form layer
// (ClampFirstYear), not here.
func FirstYearCommission(premium, commissionRate Amount) Amount {
	return TotalCommission(premium, commissionRate)
}

// ClampFirstYear caps a stored first-year commission at the total commission.
// A null total leaves the stored value untouched; a null stored value stays
// null.
func ClampFirstYear(stored, total Amount) Amount {
	if stored.IsNull() || total.IsNull() {
		return stored
	}
	if stored.Value.GreaterThan(total.Value) {
		return total
	}
	return stored
}

// OngoingCommission returns the annual ongoing commission for the given
// payment structure. The remaining pool (total - firstYear) is divided by the
// structure's amortization window. A null total makes the result null; a null
// firstYear counts as zero against a valid total (nothing has been carved out
// of the pool yet).
func OngoingCommission(totalCommission, firstYearCommission Amount, structure PaymentStructure) Amount {
	switch structure {
	case SinglePremium, OneYearTerm:
		return NewAmountFromDecimal(decimal.Zero)
	case RegularPremium, FiveYearPremium, TenYearPremium, LifetimePremium:
		// fall through to the division below
	default:
		// Unknown structure: no ongoing commission.
		return NewAmountFromDecimal(decimal.Zero)
	}

	if totalCommission.IsNull() {
		return NullAmount()
	}
	remaining := totalCommission.Value.Sub(firstYearCommission.OrZero())

	divisor := divFive
	if structure == FiveYearPremium {
		divisor = divFour
	}
	return NewAmountFromDecimal(remaining.Div(divisor))
}

// TotalExpectedCommission returns the policy's expected lifetime commission:
// first-year plus ongoing for each remaining commission year. Nulls collapse
// to zero here (this is an aggregate, not a display of a single field).
// Never negative; equals the first-year figure when the commission duration
// is one year or less.
func TotalExpectedCommission(p *Policy) decimal.Decimal {
	firstYear := p.FirstYearCommission.OrZero()
	ongoing := p.AnnualOngoingCommission.OrZero()

	duration := 0
	if p.CommissionDuration != nil {
		duration = *p.CommissionDuration
	}
	ongoingYears := duration - 1
	if ongoingYears < 0 {
		ongoingYears = 0
	}

	total := firstYear.Add(ongoing.Mul(decimal.NewFromInt(int64(ongoingYears))))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// PremiumToValueRatio returns (premium / value) x 100 as a percentage, not
// clamped. Null when premium or value is absent or zero: a zero sum assured
// has no meaningful ratio.
func PremiumToValueRatio(p *Policy) Amount {
	if p.Premium.IsNull() || p.Value.IsNull() {
		return NullAmount()
	}
	if p.Premium.Value.IsZero() || p.Value.Value.IsZero() {
		return NullAmount()
	}
	return NewAmountFromDecimal(p.Premium.Value.Div(p.Value.Value).Mul(hundred))
}
