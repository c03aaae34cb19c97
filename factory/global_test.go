package factory

import (
	"strings"
	"testing"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

func TestParseGlobalPolicy(t *testing.T) {
	jsonStr := `{
		"id": "term-life-20",
		"policy_name": "Term Life 20",
		"policy_type": "life",
		"provider": "Prudential",
		"payment_structure_type": "regular_premium",
		"premium": 2400,
		"first_year_commission_rate": 50,
		"ongoing_commission_rate": 10,
		"policy_duration": 20,
		"commission_duration": 10,
		"status": "active"
	}`

	g, err := ParseGlobalPolicy(jsonStr)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g.ID != "term-life-20" || g.PaymentStructureType != policy.RegularPremium {
		t.Errorf("unexpected template: %+v", g)
	}
	if g.FirstYearCommissionRate.IsNull() || g.FirstYearCommissionRate.Float64() != 50 {
		t.Errorf("first-year rate: %s", g.FirstYearCommissionRate.String())
	}
	if g.PolicyDuration == nil || *g.PolicyDuration != 20 {
		t.Errorf("policy duration: %v", g.PolicyDuration)
	}
	if g.Status == nil || *g.Status != policy.StatusActive {
		t.Errorf("status: %v", g.Status)
	}
	// Absent money fields are null, not zero.
	if !g.Value.IsNull() {
		t.Errorf("absent value should be null, got %s", g.Value.String())
	}
}

func TestParseGlobalPolicy_Validation(t *testing.T) {
	cases := []struct {
		name    string
		jsonStr string
		wantErr string
	}{
		{"missing id", `{"policy_name": "X", "policy_type": "life", "payment_structure_type": "regular_premium"}`, "requires an id"},
		{"missing name", `{"id": "x", "policy_type": "life", "payment_structure_type": "regular_premium"}`, "requires a policy_name"},
		{"missing type", `{"id": "x", "policy_name": "X", "payment_structure_type": "regular_premium"}`, "requires a policy_type"},
		{"bad structure", `{"id": "x", "policy_name": "X", "policy_type": "life", "payment_structure_type": "weekly"}`, "unknown payment structure"},
		{"bad date", `{"id": "x", "policy_name": "X", "policy_type": "life", "payment_structure_type": "regular_premium", "start_date": "15/06/2025"}`, "invalid date"},
		{"bad json", `{not json`, "invalid global policy JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseGlobalPolicy(tc.jsonStr)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected %q in error, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	jsonStr := `{
		"id": "endowment-5",
		"policy_name": "Five Year Endowment",
		"policy_type": "life",
		"payment_structure_type": "five_year_premium",
		"first_year_commission_rate": 25,
		"commission_duration": 5,
		"start_date": "2026-01-01"
	}`
	g, err := ParseGlobalPolicy(jsonStr)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	j := ToJSON(g)
	back, err := FromJSON(j)
	if err != nil {
		t.Fatalf("round-trip: %v", err)
	}
	if back.ID != g.ID || back.PaymentStructureType != g.PaymentStructureType {
		t.Error("identity fields lost in round-trip")
	}
	if !back.FirstYearCommissionRate.Equal(g.FirstYearCommissionRate) {
		t.Error("rate lost in round-trip")
	}
	if back.StartDate == nil || !back.StartDate.Equal(*g.StartDate) {
		t.Error("start date lost in round-trip")
	}
}

func TestStandardCatalog(t *testing.T) {
	catalog := StandardCatalog()
	if len(catalog) == 0 {
		t.Fatal("expected a non-empty built-in catalog")
	}

	seen := make(map[string]bool)
	for _, g := range catalog {
		if g.ID == "" || g.PolicyName == "" {
			t.Errorf("catalog entry missing identity: %+v", g)
		}
		if seen[g.ID] {
			t.Errorf("duplicate catalog id %q", g.ID)
		}
		seen[g.ID] = true
		if !g.PaymentStructureType.Known() {
			t.Errorf("%s: unknown structure %q", g.ID, g.PaymentStructureType)
		}
	}

	// The catalog spans the structure families the calculators special-case.
	for _, id := range []string{"term-life-20", "health-shield", "endowment-5", "single-premium-invest"} {
		if !seen[id] {
			t.Errorf("expected built-in template %q", id)
		}
	}
}
