/*
form.go - Form derivation rules

PURPOSE:
  The subset of the commission calculator that runs while a policy is being
  authored. Every edit re-derives the dependent fields and re-validates the
  record; the UI merges the returned patch and attaches the field errors.

DESIGN:
  A single pure function Derive(values) -> Derivation. No hidden effect
  chains, no ordering bugs: the caller owns the merge. The patch carries only
  fields whose derived value differs from what the form currently holds, so
  deriving an already-consistent record yields an empty patch (fixed point).

RULES:
  1. first_year_commission follows premium x rate, clamped to the total if a
     stored value exceeds it
  2. annual_ongoing_commission follows the ongoing formula (read-only field)
  3. policy_duration follows whole years between start and end date when both
     are set and the result lands in [0, 30]
  4. commission_duration must not exceed policy_duration (field error,
     auto-clearing: a clean Derive simply omits it)
  5. per-policy-type premium/value soft limits (see limits.go)

SEE ALSO:
  - commission.go: The formulas rules 1-2 delegate to
  - template.go: ApplyGlobalTemplate / ClearGlobalTemplate field sets
*/
package policy

import "time"

// =============================================================================
// FORM VALUES - The editable field set
// =============================================================================

// FormValues is the snapshot of a policy entry form. Field semantics match
// Policy; OngoingCommissionRate only exists on the form (it arrives from a
// template and is displayed, never stored on the Policy record).
type FormValues struct {
	PolicyName   string
	PolicyType   string
	Provider     string
	PolicyNumber string

	Premium Amount
	Value   Amount

	PaymentStructureType PaymentStructure

	CommissionRate        Amount
	OngoingCommissionRate Amount

	FirstYearCommission     Amount
	AnnualOngoingCommission Amount

	PolicyDuration     *int
	CommissionDuration *int

	StartDate *time.Time
	EndDate   *time.Time

	Status *Status

	GlobalPolicyID *string
}

// =============================================================================
// PATCH - Derived field changes for the caller to merge
// =============================================================================

// Patch holds the derived values that differ from the current form state.
// A nil pointer means "leave the field alone"; a present pointer is the new
// value (which may itself be a null Amount).
type Patch struct {
	FirstYearCommission     *Amount
	AnnualOngoingCommission *Amount
	PolicyDuration          *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.FirstYearCommission == nil &&
		p.AnnualOngoingCommission == nil &&
		p.PolicyDuration == nil
}

// Apply merges the patch into a copy of the form values.
func (p Patch) Apply(v FormValues) FormValues {
	if p.FirstYearCommission != nil {
		v.FirstYearCommission = *p.FirstYearCommission
	}
	if p.AnnualOngoingCommission != nil {
		v.AnnualOngoingCommission = *p.AnnualOngoingCommission
	}
	if p.PolicyDuration != nil {
		v.PolicyDuration = p.PolicyDuration
	}
	return v
}

// Derivation is the full result of one derivation pass.
type Derivation struct {
	Patch  Patch
	Errors FieldErrors
}

// =============================================================================
// DERIVE - One pass of the derivation rules
// =============================================================================

// Derive runs all derivation rules against the current form state and
// returns the patch plus any field validation errors. Pure: same input, same
// output, no clock.
func Derive(v FormValues) Derivation {
	patch := Patch{}
	errs := FieldErrors{}

	// Rule 1: first-year commission follows premium x rate, clamped.
	total := TotalCommission(v.Premium, v.CommissionRate)
	firstYear := v.FirstYearCommission
	if total.Valid {
		if firstYear.IsNull() {
			firstYear = total
		} else {
			firstYear = ClampFirstYear(firstYear, total)
		}
		if !firstYear.Equal(v.FirstYearCommission) {
			patch.FirstYearCommission = &firstYear
		}
	}

	// Rule 2: ongoing commission is always re-derived (read-only field).
	ongoing := OngoingCommission(total, firstYear, v.PaymentStructureType)
	if !ongoing.Equal(v.AnnualOngoingCommission) {
		patch.AnnualOngoingCommission = &ongoing
	}

	// Rule 3: policy duration follows the dates when plausible.
	duration := v.PolicyDuration
	if v.StartDate != nil && v.EndDate != nil {
		years := WholeYearsBetween(*v.StartDate, *v.EndDate)
		if years >= 0 && years <= 30 {
			if duration == nil || *duration != years {
				patch.PolicyDuration = &years
				duration = &years
			}
		}
	}

	// Rule 4: commission duration within policy duration.
	if v.CommissionDuration != nil && duration != nil && *v.CommissionDuration > *duration {
		errs[FieldCommissionDuration] = "Commission duration cannot exceed policy duration"
	}

	// Rule 5: per-type soft limits.
	checkLimits(v.PolicyType, v.Premium, v.Value, errs)

	// Unknown payment structures are tolerated by the calculators but
	// flagged on the form.
	if v.PaymentStructureType != "" && !v.PaymentStructureType.Known() {
		errs[FieldPaymentStructureType] = "Unknown payment structure type"
	}

	return Derivation{Patch: patch, Errors: errs}
}

// DeriveInto runs Derive against a policy record and merges the patch back,
// returning any field errors. Convenience for write paths that persist the
// derived fields (the form UI uses Derive directly).
func DeriveInto(p *Policy) FieldErrors {
	v := FormValues{
		PolicyName:              p.PolicyName,
		PolicyType:              p.PolicyType,
		Provider:                p.Provider,
		PolicyNumber:            p.PolicyNumber,
		Premium:                 p.Premium,
		Value:                   p.Value,
		PaymentStructureType:    p.PaymentStructureType,
		CommissionRate:          p.CommissionRate,
		FirstYearCommission:     p.FirstYearCommission,
		AnnualOngoingCommission: p.AnnualOngoingCommission,
		PolicyDuration:          p.PolicyDuration,
		CommissionDuration:      p.CommissionDuration,
		StartDate:               p.StartDate,
		EndDate:                 p.EndDate,
		Status:                  p.Status,
		GlobalPolicyID:          p.GlobalPolicyID,
	}

	d := Derive(v)
	merged := d.Patch.Apply(v)

	p.FirstYearCommission = merged.FirstYearCommission
	p.AnnualOngoingCommission = merged.AnnualOngoingCommission
	p.PolicyDuration = merged.PolicyDuration

	return d.Errors
}
