/*
Package factory provides JSON to GlobalPolicy conversion.

PURPOSE:
  Converts JSON template definitions into policy.GlobalPolicy records. This
  enables catalog configuration without code changes - an admin can define
  product templates in JSON, and the factory creates the proper Go structs.

WHY JSON?
  - Non-developers can maintain the product catalog
  - Easy integration with an admin UI
  - Version control for template definitions
  - Database/scenario storage of template configs

JSON SCHEMA:
  {
    "id": "term-life-20",
    "policy_name": "Term Life 20",
    "policy_type": "life",
    "provider": "Prudential",
    "payment_structure_type": "regular_premium",
    "first_year_commission_rate": 50,
    "ongoing_commission_rate": 10,
    "policy_duration": 20,
    "commission_duration": 6
  }

  Absent numeric fields stay null on the record - the factory never invents
  zeros.

USAGE:
  tmpl, err := factory.ParseGlobalPolicy(jsonString)

SEE ALSO:
  - policy/types.go: GlobalPolicy definition
  - api/scenarios.go: Demo catalogs built from these presets
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// GlobalPolicyJSON is the JSON representation of a template. Numeric fields
// are pointers so "absent" and "zero" survive the round trip.
type GlobalPolicyJSON struct {
	ID                      string   `json:"id"`
	PolicyName              string   `json:"policy_name"`
	PolicyType              string   `json:"policy_type"`
	Provider                string   `json:"provider,omitempty"`
	PaymentStructureType    string   `json:"payment_structure_type"`
	Premium                 *float64 `json:"premium,omitempty"`
	Value                   *float64 `json:"value,omitempty"`
	FirstYearCommissionRate *float64 `json:"first_year_commission_rate,omitempty"`
	OngoingCommissionRate   *float64 `json:"ongoing_commission_rate,omitempty"`
	PolicyDuration          *int     `json:"policy_duration,omitempty"`
	CommissionDuration      *int     `json:"commission_duration,omitempty"`
	StartDate               string   `json:"start_date,omitempty"`
	EndDate                 string   `json:"end_date,omitempty"`
	Status                  string   `json:"status,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseGlobalPolicy converts a JSON template definition into a GlobalPolicy.
func ParseGlobalPolicy(jsonStr string) (*policy.GlobalPolicy, error) {
	var j GlobalPolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &j); err != nil {
		return nil, fmt.Errorf("invalid global policy JSON: %w", err)
	}
	return FromJSON(j)
}

// FromJSON converts an already-decoded GlobalPolicyJSON into a GlobalPolicy.
func FromJSON(j GlobalPolicyJSON) (*policy.GlobalPolicy, error) {
	if j.ID == "" {
		return nil, fmt.Errorf("global policy requires an id")
	}
	if j.PolicyName == "" {
		return nil, fmt.Errorf("global policy %q requires a policy_name", j.ID)
	}
	if j.PolicyType == "" {
		return nil, fmt.Errorf("global policy %q requires a policy_type", j.ID)
	}

	structure := policy.PaymentStructure(j.PaymentStructureType)
	if !structure.Known() {
		return nil, fmt.Errorf("global policy %q has unknown payment structure %q", j.ID, j.PaymentStructureType)
	}

	g := &policy.GlobalPolicy{
		ID:                      j.ID,
		PolicyName:              j.PolicyName,
		PolicyType:              j.PolicyType,
		Provider:                j.Provider,
		PaymentStructureType:    structure,
		Premium:                 amountFromPtr(j.Premium),
		Value:                   amountFromPtr(j.Value),
		FirstYearCommissionRate: amountFromPtr(j.FirstYearCommissionRate),
		OngoingCommissionRate:   amountFromPtr(j.OngoingCommissionRate),
		PolicyDuration:          j.PolicyDuration,
		CommissionDuration:      j.CommissionDuration,
	}

	var err error
	if g.StartDate, err = dateFromString(j.StartDate); err != nil {
		return nil, fmt.Errorf("global policy %q: %w", j.ID, err)
	}
	if g.EndDate, err = dateFromString(j.EndDate); err != nil {
		return nil, fmt.Errorf("global policy %q: %w", j.ID, err)
	}

	if j.Status != "" {
		st := policy.Status(j.Status)
		g.Status = &st
	}

	return g, nil
}

// ToJSON converts a GlobalPolicy back into its JSON schema form.
func ToJSON(g *policy.GlobalPolicy) GlobalPolicyJSON {
	j := GlobalPolicyJSON{
		ID:                      g.ID,
		PolicyName:              g.PolicyName,
		PolicyType:              g.PolicyType,
		Provider:                g.Provider,
		PaymentStructureType:    string(g.PaymentStructureType),
		Premium:                 g.Premium.FloatPtr(),
		Value:                   g.Value.FloatPtr(),
		FirstYearCommissionRate: g.FirstYearCommissionRate.FloatPtr(),
		OngoingCommissionRate:   g.OngoingCommissionRate.FloatPtr(),
		PolicyDuration:          g.PolicyDuration,
		CommissionDuration:      g.CommissionDuration,
	}
	if g.StartDate != nil {
		j.StartDate = g.StartDate.Format("2006-01-02")
	}
	if g.EndDate != nil {
		j.EndDate = g.EndDate.Format("2006-01-02")
	}
	if g.Status != nil {
		j.Status = string(*g.Status)
	}
	return j
}

func amountFromPtr(p *float64) policy.Amount {
	if p == nil {
		return policy.NullAmount()
	}
	return policy.NewAmount(*p)
}

func dateFromString(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

// =============================================================================
// BUILT-IN CATALOG PRESETS
// =============================================================================

// StandardCatalogJSON returns the built-in product templates, one JSON string
// per template. Used by the demo scenario loader and as a starting catalog
// for a fresh install.
func StandardCatalogJSON() []string {
	return []string{
		`{
			"id": "term-life-20",
			"policy_name": "Term Life 20",
			"policy_type": "life",
			"provider": "Prudential",
			"payment_structure_type": "regular_premium",
			"first_year_commission_rate": 50,
			"ongoing_commission_rate": 10,
			"policy_duration": 20,
			"commission_duration": 6,
			"status": "active"
		}`,
		`{
			"id": "whole-life-lifetime",
			"policy_name": "Whole Life Protect",
			"policy_type": "life",
			"provider": "AIA",
			"payment_structure_type": "lifetime_premium",
			"first_year_commission_rate": 45,
			"ongoing_commission_rate": 8,
			"policy_duration": 30,
			"commission_duration": 6,
			"status": "active"
		}`,
		`{
			"id": "health-shield",
			"policy_name": "Health Shield Plus",
			"policy_type": "health",
			"provider": "Great Eastern",
			"payment_structure_type": "one_year_term",
			"first_year_commission_rate": 15,
			"policy_duration": 1,
			"commission_duration": 1,
			"status": "active"
		}`,
		`{
			"id": "endowment-5",
			"policy_name": "Savings Endowment 5",
			"policy_type": "other",
			"provider": "NTUC Income",
			"payment_structure_type": "five_year_premium",
			"first_year_commission_rate": 25,
			"ongoing_commission_rate": 5,
			"policy_duration": 5,
			"commission_duration": 5,
			"status": "active"
		}`,
		`{
			"id": "single-premium-invest",
			"policy_name": "Single Premium Investment",
			"policy_type": "other",
			"provider": "Manulife",
			"payment_structure_type": "single_premium",
			"first_year_commission_rate": 3,
			"policy_duration": 10,
			"commission_duration": 1,
			"status": "active"
		}`,
	}
}

// StandardCatalog parses the built-in presets. Panics on malformed built-ins
// (a programming error, caught by tests).
func StandardCatalog() []*policy.GlobalPolicy {
	presets := StandardCatalogJSON()
	catalog := make([]*policy.GlobalPolicy, len(presets))
	for i, raw := range presets {
		g, err := ParseGlobalPolicy(raw)
		if err != nil {
			panic(fmt.Sprintf("factory: bad built-in preset: %v", err))
		}
		catalog[i] = g
	}
	return catalog
}
