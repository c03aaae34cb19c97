/*
types.go - Policy record shapes and enumerations

PURPOSE:
  Defines the two record shapes the calculators operate on: Policy (bound to
  a client) and GlobalPolicy (a reusable template). Also defines the enums
  that govern commission behavior: payment structure and policy status.

KEY CONCEPTS:
  - Policy: A client's insurance policy. Premium, rates, and derived
    commission fields are all nullable Amounts; durations are *int,
    dates are *time.Time. Absence is always explicit.
  - GlobalPolicy: A template used only as a copy-source when a Policy is
    created or edited. Unlike Policy it carries separate first-year and
    ongoing rate fields.
  - PaymentStructure: Governs the ongoing-commission divisor (see
    commission.go).

DERIVED-BUT-STORED FIELDS:
  FirstYearCommission and AnnualOngoingCommission are computed by the form
  derivation rules and then stored on the record. They are never recomputed
  on read - what was stored at write time is what the dashboards aggregate.

SEE ALSO:
  - commission.go: The formulas consuming these fields
  - form.go: The derivation rules that keep the stored fields consistent
  - template.go: Copy semantics between GlobalPolicy and Policy
*/
package policy

import "time"

// =============================================================================
// ENUMERATIONS
// =============================================================================

// PaymentStructure determines how many years the remaining commission pool is
// amortized over after the first year.
type PaymentStructure string

const (
	SinglePremium   PaymentStructure = "single_premium"
	OneYearTerm     PaymentStructure = "one_year_term"
	RegularPremium  PaymentStructure = "regular_premium"
	FiveYearPremium PaymentStructure = "five_year_premium"
	TenYearPremium  PaymentStructure = "ten_year_premium"
	LifetimePremium PaymentStructure = "lifetime_premium"
)

// PaymentStructures lists every known structure, in display order.
var PaymentStructures = []PaymentStructure{
	SinglePremium,
	OneYearTerm,
	RegularPremium,
	FiveYearPremium,
	TenYearPremium,
	LifetimePremium,
}

// Known reports whether ps is one of the recognized structures. Unknown
// structures are tolerated by the calculators (ongoing commission is zero)
// but rejected by form validation.
func (ps PaymentStructure) Known() bool {
	for _, s := range PaymentStructures {
		if ps == s {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of a policy. Nullable on the record: a
// freshly imported policy may not have one yet.
type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusInactive  Status = "inactive"
)

// =============================================================================
// POLICY - A client-bound insurance policy record
// =============================================================================

// Policy is the central record of the CRM. Commission math reads it, the
// form layer derives into it, the dashboard aggregates over lists of it.
type Policy struct {
	ID       string
	ClientID string

	PolicyName   string
	PolicyType   string
	Provider     string
	PolicyNumber string

	// Money inputs. Premium is the commission base; Value is the sum assured
	// and only feeds the premium-to-value ratio display.
	Premium Amount
	Value   Amount

	PaymentStructureType PaymentStructure

	// CommissionRate is the first-year rate (0-100) applied to Premium.
	CommissionRate Amount

	// Derived-but-stored commission fields. See form.go.
	FirstYearCommission     Amount
	AnnualOngoingCommission Amount

	// Durations in whole years. CommissionDuration must not exceed
	// PolicyDuration when both are set.
	PolicyDuration     *int
	CommissionDuration *int

	StartDate *time.Time
	EndDate   *time.Time

	Status *Status

	// GlobalPolicyID is a weak reference to the template this policy was
	// seeded from. Lookup only, never ownership: template edits do not
	// propagate back into this record.
	GlobalPolicyID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// GLOBAL POLICY - Template, not client-bound
// =============================================================================

// GlobalPolicy is a reusable product template. It exists purely as a
// copy-source: creating or editing a Policy from it copies fields, nothing
// stays linked except the Policy's GlobalPolicyID.
type GlobalPolicy struct {
	ID string

	PolicyName   string
	PolicyType   string
	Provider     string

	PaymentStructureType PaymentStructure

	Premium Amount
	Value   Amount

	// Templates keep the two rates separate; a Policy only stores the
	// first-year rate as CommissionRate.
	FirstYearCommissionRate Amount
	OngoingCommissionRate   Amount

	PolicyDuration     *int
	CommissionDuration *int

	StartDate *time.Time
	EndDate   *time.Time

	Status *Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IntPtr is a small helper for building records with literal durations.
func IntPtr(n int) *int { return &n }

// StatusPtr is a small helper for building records with a literal status.
func StatusPtr(s Status) *Status { return &s }
