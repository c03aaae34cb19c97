package policy_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

func projectionPolicy(startYear int, firstYear, ongoing float64, commissionDuration *int) *policy.Policy {
	start := time.Date(startYear, time.April, 1, 0, 0, 0, 0, time.UTC)
	return &policy.Policy{
		StartDate:               &start,
		FirstYearCommission:     policy.NewAmount(firstYear),
		AnnualOngoingCommission: policy.NewAmount(ongoing),
		CommissionDuration:      commissionDuration,
	}
}

func assertSeries(t *testing.T, got []policy.YearlyCommission, startYear int, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Year != startYear+i {
			t.Errorf("bucket %d: expected year %d, got %d", i, startYear+i, got[i].Year)
		}
		if !got[i].Amount.Equal(decimal.NewFromFloat(w)) {
			t.Errorf("year %d: expected %v, got %s", got[i].Year, w, got[i].Amount.String())
		}
	}
}

func TestYearlyCommissions_SinglePolicy(t *testing.T) {
	// GIVEN: a 2020 policy, 500 first-year, 100 ongoing for 3 years
	// WHEN: projecting 2020-2024
	// THEN: [500, 100, 100, 100, 0]

	duration := 3
	policies := []*policy.Policy{projectionPolicy(2020, 500, 100, &duration)}
	series := policy.YearlyCommissions(policies, 2020, 5)
	assertSeries(t, series, 2020, []float64{500, 100, 100, 100, 0})
}

func TestYearlyCommissions_NullDurationPaysForever(t *testing.T) {
	policies := []*policy.Policy{projectionPolicy(2020, 500, 100, nil)}
	series := policy.YearlyCommissions(policies, 2020, 5)
	assertSeries(t, series, 2020, []float64{500, 100, 100, 100, 100})
}

func TestYearlyCommissions_WindowStartsAfterFirstYear(t *testing.T) {
	// A window that skips the start year sees only the ongoing stream.
	duration := 10
	policies := []*policy.Policy{projectionPolicy(2020, 500, 100, &duration)}
	series := policy.YearlyCommissions(policies, 2023, 3)
	assertSeries(t, series, 2023, []float64{100, 100, 100})
}

func TestYearlyCommissions_FuturePolicyBeforeWindow(t *testing.T) {
	// A policy starting after the window contributes nothing.
	duration := 10
	policies := []*policy.Policy{projectionPolicy(2030, 500, 100, &duration)}
	series := policy.YearlyCommissions(policies, 2024, 3)
	assertSeries(t, series, 2024, []float64{0, 0, 0})
}

func TestYearlyCommissions_MultiplePoliciesSum(t *testing.T) {
	d3, d2 := 3, 2
	policies := []*policy.Policy{
		projectionPolicy(2020, 500, 100, &d3),
		projectionPolicy(2021, 300, 50, &d2),
		{FirstYearCommission: policy.NewAmount(9999)}, // no start date: skipped
	}
	series := policy.YearlyCommissions(policies, 2020, 4)
	// 2020: 500 | 2021: 100 + 300 | 2022: 100 + 50 | 2023: 100 + 50
	assertSeries(t, series, 2020, []float64{500, 400, 150, 150})
}

func TestYearlyCommissions_NullAmountsCountAsZero(t *testing.T) {
	start := time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC)
	policies := []*policy.Policy{{StartDate: &start}}
	series := policy.YearlyCommissions(policies, 2020, 2)
	assertSeries(t, series, 2020, []float64{0, 0})
}

func TestYearlyCommissions_EmptyWindow(t *testing.T) {
	if got := policy.YearlyCommissions(nil, 2020, 0); got != nil {
		t.Errorf("expected nil series for an empty window, got %v", got)
	}
}
