/*
projection.go - Yearly commission aggregation

PURPOSE:
  Projects a portfolio of policies onto a window of calendar years, summing
  first-year and ongoing commission per year. This series feeds the dashboard
  chart.

THE RULE PER POLICY AND YEAR:
  delta = projectionYear - startYear
  delta == 0                                  -> first-year commission
  delta > 0 and within commission duration    -> ongoing commission
  otherwise                                   -> nothing

  A null commission duration means the ongoing stream pays for every year of
  the projection window. Policies without a start date contribute nothing and
  are skipped silently.

WINDOWING:
  The series is a truncated view: a policy whose commission stream extends
  past the window contributes only the years inside it. It deliberately does
  NOT reconcile with TotalExpectedCommission unless the window covers the
  whole stream.
*/
package policy

import "github.com/shopspring/decimal"

// YearlyCommission is one bucket of the projection series.
type YearlyCommission struct {
	Year   int
	Amount decimal.Decimal
}

// YearlyCommissions projects the portfolio onto calendar years
// [startYear, startYear+numberOfYears). Buckets are returned in order and
// initialized to zero, so the chart always has a point per year.
func YearlyCommissions(policies []*Policy, startYear, numberOfYears int) []YearlyCommission {
	if numberOfYears <= 0 {
		return nil
	}

	series := make([]YearlyCommission, numberOfYears)
	for i := range series {
		series[i] = YearlyCommission{Year: startYear + i, Amount: decimal.Zero}
	}

	for _, p := range policies {
		if p.StartDate == nil {
			continue
		}
		policyStartYear := p.StartDate.Year()

		for i := range series {
			delta := series[i].Year - policyStartYear
			switch {
			case delta == 0:
				series[i].Amount = series[i].Amount.Add(p.FirstYearCommission.OrZero())
			case delta > 0 && (p.CommissionDuration == nil || delta <= *p.CommissionDuration):
				series[i].Amount = series[i].Amount.Add(p.AnnualOngoingCommission.OrZero())
			}
		}
	}
	return series
}
