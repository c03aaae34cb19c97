package policy_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amt(v float64) policy.Amount {
	return policy.NewAmount(v)
}

func decEqual(t *testing.T, want float64, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(decimal.NewFromFloat(want)) {
		t.Errorf("expected %v, got %s", want, got.String())
	}
}

func amountEqual(t *testing.T, want float64, got policy.Amount) {
	t.Helper()
	if got.IsNull() {
		t.Fatalf("expected %v, got null", want)
	}
	decEqual(t, want, got.Value)
}

// =============================================================================
// TOTAL AND FIRST-YEAR COMMISSION
// =============================================================================

func TestTotalCommission_Formula(t *testing.T) {
	// GIVEN: premium 10000, rate 50%
	// WHEN: computing the total commission
	// THEN: 10000 x 50 / 100 = 5000

	amountEqual(t, 5000, policy.TotalCommission(amt(10000), amt(50)))
}

func TestTotalCommission_NullInputs(t *testing.T) {
	if got := policy.TotalCommission(policy.NullAmount(), amt(50)); !got.IsNull() {
		t.Errorf("null premium should yield null, got %s", got.String())
	}
	if got := policy.TotalCommission(amt(10000), policy.NullAmount()); !got.IsNull() {
		t.Errorf("null rate should yield null, got %s", got.String())
	}
}

func TestTotalCommission_ZeroIsNotNull(t *testing.T) {
	// A zero premium is a real value; the commission is a real zero.
	got := policy.TotalCommission(amt(0), amt(50))
	if got.IsNull() {
		t.Fatal("zero premium should yield a valid zero, got null")
	}
	if !got.Value.IsZero() {
		t.Errorf("expected 0, got %s", got.String())
	}
}

func TestFirstYearCommission_MatchesTotal(t *testing.T) {
	total := policy.TotalCommission(amt(2400), amt(12.5))
	firstYear := policy.FirstYearCommission(amt(2400), amt(12.5))
	if !firstYear.Equal(total) {
		t.Errorf("first-year %s should equal total %s", firstYear.String(), total.String())
	}
}

func TestClampFirstYear(t *testing.T) {
	// Stored value above the total is capped; below is untouched.
	amountEqual(t, 500, policy.ClampFirstYear(amt(800), amt(500)))
	amountEqual(t, 300, policy.ClampFirstYear(amt(300), amt(500)))

	// Null total leaves the stored value alone; null stored stays null.
	amountEqual(t, 800, policy.ClampFirstYear(amt(800), policy.NullAmount()))
	if got := policy.ClampFirstYear(policy.NullAmount(), amt(500)); !got.IsNull() {
		t.Errorf("null stored should stay null, got %s", got.String())
	}
}

// =============================================================================
// ONGOING COMMISSION DIVISOR TABLE
// =============================================================================

func TestOngoingCommission_DivisorTable(t *testing.T) {
	// GIVEN: total 1000, first-year 200, so a remaining pool of 800
	// THEN: each structure family divides the pool by its own window

	total, firstYear := amt(1000), amt(200)

	cases := []struct {
		structure policy.PaymentStructure
		want      float64
	}{
		{policy.SinglePremium, 0},
		{policy.OneYearTerm, 0},
		{policy.RegularPremium, 160},  // 800 / 5
		{policy.FiveYearPremium, 200}, // 800 / 4
		{policy.TenYearPremium, 160},  // 800 / 5
		{policy.LifetimePremium, 160}, // 800 / 5
	}
	for _, tc := range cases {
		got := policy.OngoingCommission(total, firstYear, tc.structure)
		if got.IsNull() {
			t.Errorf("%s: expected %v, got null", tc.structure, tc.want)
			continue
		}
		if !got.Value.Equal(decimal.NewFromFloat(tc.want)) {
			t.Errorf("%s: expected %v, got %s", tc.structure, tc.want, got.String())
		}
	}
}

func TestOngoingCommission_UnknownStructureIsZero(t *testing.T) {
	got := policy.OngoingCommission(amt(1000), amt(200), policy.PaymentStructure("quarterly"))
	if got.IsNull() || !got.Value.IsZero() {
		t.Errorf("unknown structure should yield a valid zero, got %s", got.String())
	}
}

func TestOngoingCommission_NullTotal(t *testing.T) {
	// Divisor families go null without a total; structurally-zero families
	// stay zero regardless.
	if got := policy.OngoingCommission(policy.NullAmount(), amt(200), policy.RegularPremium); !got.IsNull() {
		t.Errorf("regular_premium with null total should be null, got %s", got.String())
	}
	got := policy.OngoingCommission(policy.NullAmount(), policy.NullAmount(), policy.SinglePremium)
	if got.IsNull() || !got.Value.IsZero() {
		t.Errorf("single_premium should be a valid zero even with null total, got %s", got.String())
	}
}

func TestOngoingCommission_NullFirstYearCountsAsZero(t *testing.T) {
	// Nothing carved out of the pool yet: the whole total amortizes.
	got := policy.OngoingCommission(amt(1000), policy.NullAmount(), policy.RegularPremium)
	amountEqual(t, 200, got) // 1000 / 5
}

// =============================================================================
// TOTAL EXPECTED COMMISSION
// =============================================================================

func TestTotalExpectedCommission(t *testing.T) {
	duration := 10
	p := &policy.Policy{
		FirstYearCommission:     amt(5000),
		AnnualOngoingCommission: amt(1000),
		CommissionDuration:      &duration,
	}
	// 5000 + 1000 x 9
	decEqual(t, 14000, policy.TotalExpectedCommission(p))
}

func TestTotalExpectedCommission_OneYearDuration(t *testing.T) {
	duration := 1
	p := &policy.Policy{
		FirstYearCommission:     amt(5000),
		AnnualOngoingCommission: amt(1000),
		CommissionDuration:      &duration,
	}
	decEqual(t, 5000, policy.TotalExpectedCommission(p))
}

func TestTotalExpectedCommission_NullsCollapseToZero(t *testing.T) {
	decEqual(t, 0, policy.TotalExpectedCommission(&policy.Policy{}))

	duration := 5
	p := &policy.Policy{
		AnnualOngoingCommission: amt(250),
		CommissionDuration:      &duration,
	}
	// Null first-year counts as zero: 0 + 250 x 4
	decEqual(t, 1000, policy.TotalExpectedCommission(p))
}

func TestTotalExpectedCommission_NeverNegative(t *testing.T) {
	duration := 5
	p := &policy.Policy{
		FirstYearCommission:     amt(100),
		AnnualOngoingCommission: amt(-500),
		CommissionDuration:      &duration,
	}
	decEqual(t, 0, policy.TotalExpectedCommission(p))
}

// =============================================================================
// PREMIUM TO VALUE RATIO
// =============================================================================

func TestPremiumToValueRatio(t *testing.T) {
	p := &policy.Policy{Premium: amt(2500), Value: amt(100000)}
	amountEqual(t, 2.5, policy.PremiumToValueRatio(p))
}

func TestPremiumToValueRatio_NullOnZeroOrMissing(t *testing.T) {
	cases := []*policy.Policy{
		{Premium: policy.NullAmount(), Value: amt(100000)},
		{Premium: amt(2500), Value: policy.NullAmount()},
		{Premium: amt(0), Value: amt(100000)},
		{Premium: amt(2500), Value: amt(0)},
	}
	for i, p := range cases {
		if got := policy.PremiumToValueRatio(p); !got.IsNull() {
			t.Errorf("case %d: expected null, got %s", i, got.String())
		}
	}
}

// =============================================================================
// END-TO-END SCENARIO
// =============================================================================

func TestCommissionScenario_RegularPremium(t *testing.T) {
	// GIVEN: a regular premium policy, 10000 premium at 50%, 10 year stream
	// WHEN: deriving all commission figures
	// THEN: total 5000, first-year 5000, ongoing 0 (pool exhausted),
	//       expected 5000

	total := policy.TotalCommission(amt(10000), amt(50))
	amountEqual(t, 5000, total)

	firstYear := policy.FirstYearCommission(amt(10000), amt(50))
	ongoing := policy.OngoingCommission(total, firstYear, policy.RegularPremium)
	amountEqual(t, 0, ongoing)

	duration := 10
	p := &policy.Policy{
		FirstYearCommission:     firstYear,
		AnnualOngoingCommission: ongoing,
		CommissionDuration:      &duration,
	}
	decEqual(t, 5000, policy.TotalExpectedCommission(p))
}
