/*
template.go - GlobalPolicy copy semantics

PURPOSE:
  A GlobalPolicy is a copy-source, never a live link. Two distinct copy
  operations exist and they deliberately copy DIFFERENT field sets:

  NewPolicyFromGlobal (create time):
    Copies name, type, provider, structure, premium, rates, durations,
    dates, value, and status into a fresh Policy; sets GlobalPolicyID;
    computes first-year commission from premium x rate; leaves the ongoing
    commission for later derivation.

  ApplyGlobalTemplate / ClearGlobalTemplate (edit time):
    Overwrites (or blanks) exactly: policy_name, policy_type, provider,
    payment_structure_type, commission_rate, ongoing_commission_rate,
    commission_duration, policy_duration, global_policy_id. Premium, value,
    dates, status, and policy_number are never touched - the advisor's
    per-client entries survive switching templates.

  Template edits never propagate to policies previously seeded from them.
*/
package policy

import "time"

// NewPolicyFromGlobal seeds a new Policy for a client from a template.
// The ID is left empty for the store to assign.
func NewPolicyFromGlobal(g *GlobalPolicy, clientID string, now time.Time) *Policy {
	p := &Policy{
		ClientID:             clientID,
		PolicyName:           g.PolicyName,
		PolicyType:           g.PolicyType,
		Provider:             g.Provider,
		PaymentStructureType: g.PaymentStructureType,
		Premium:              g.Premium,
		Value:                g.Value,
		CommissionRate:       g.FirstYearCommissionRate,
		PolicyDuration:       copyIntPtr(g.PolicyDuration),
		CommissionDuration:   copyIntPtr(g.CommissionDuration),
		StartDate:            copyTimePtr(g.StartDate),
		EndDate:              copyTimePtr(g.EndDate),
		Status:               copyStatusPtr(g.Status),
		GlobalPolicyID:       &g.ID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	// First-year commission is fixed at copy time; the ongoing commission is
	// left null for the derivation rules to fill once the record is edited.
	p.FirstYearCommission = FirstYearCommission(p.Premium, p.CommissionRate)
	p.AnnualOngoingCommission = NullAmount()

	return p
}

// ApplyGlobalTemplate overwrites the template-owned field set on the form.
// Premium, value, dates, status, and policy number stay as entered.
func ApplyGlobalTemplate(v FormValues, g *GlobalPolicy) FormValues {
	v.PolicyName = g.PolicyName
	v.PolicyType = g.PolicyType
	v.Provider = g.Provider
	v.PaymentStructureType = g.PaymentStructureType
	v.CommissionRate = g.FirstYearCommissionRate
	v.OngoingCommissionRate = g.OngoingCommissionRate
	v.CommissionDuration = copyIntPtr(g.CommissionDuration)
	v.PolicyDuration = copyIntPtr(g.PolicyDuration)
	v.GlobalPolicyID = &g.ID
	return v
}

// ClearGlobalTemplate blanks exactly the field set ApplyGlobalTemplate owns
// and drops the template reference.
func ClearGlobalTemplate(v FormValues) FormValues {
	v.PolicyName = ""
	v.PolicyType = ""
	v.Provider = ""
	v.PaymentStructureType = ""
	v.CommissionRate = NullAmount()
	v.OngoingCommissionRate = NullAmount()
	v.CommissionDuration = nil
	v.PolicyDuration = nil
	v.GlobalPolicyID = nil
	return v
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}

func copyTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	t := *p
	return &t
}

func copyStatusPtr(p *Status) *Status {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}
