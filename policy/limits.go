/*
limits.go - Per-policy-type premium and value soft limits

PURPOSE:
  Sanity ceilings on premium and sum assured per policy type. Violations
  produce field-level validation errors but never block saving other fields;
  they exist to catch fat-fingered amounts (a 10,000,000 health premium is
  almost certainly a typo).

DESIGN:
  An explicit enumerated table keyed by policy type, with an explicit
  "unknown type -> no limit" branch. Lookup misses are a decision, not an
  accident.
*/
package policy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TypeLimit is the soft ceiling for one policy type.
type TypeLimit struct {
	MaxPremium decimal.Decimal
	MaxValue   decimal.Decimal
}

var typeLimits = map[string]TypeLimit{
	"life":       {MaxPremium: decimal.NewFromInt(1_000_000), MaxValue: decimal.NewFromInt(10_000_000)},
	"health":     {MaxPremium: decimal.NewFromInt(50_000), MaxValue: decimal.NewFromInt(1_000_000)},
	"auto":       {MaxPremium: decimal.NewFromInt(20_000), MaxValue: decimal.NewFromInt(500_000)},
	"home":       {MaxPremium: decimal.NewFromInt(30_000), MaxValue: decimal.NewFromInt(2_000_000)},
	"disability": {MaxPremium: decimal.NewFromInt(25_000), MaxValue: decimal.NewFromInt(1_000_000)},
	"liability":  {MaxPremium: decimal.NewFromInt(40_000), MaxValue: decimal.NewFromInt(5_000_000)},
	"business":   {MaxPremium: decimal.NewFromInt(100_000), MaxValue: decimal.NewFromInt(10_000_000)},
	"other":      {MaxPremium: decimal.NewFromInt(50_000), MaxValue: decimal.NewFromInt(1_000_000)},
}

// LimitFor returns the soft limit for a policy type. Unknown types get no
// limit: ok is false and the caller skips the check entirely.
func LimitFor(policyType string) (TypeLimit, bool) {
	limit, ok := typeLimits[policyType]
	return limit, ok
}

// checkLimits appends premium/value ceiling violations for the given type.
func checkLimits(policyType string, premium, value Amount, errs FieldErrors) {
	limit, ok := LimitFor(policyType)
	if !ok {
		return
	}
	if premium.Valid && premium.Value.GreaterThan(limit.MaxPremium) {
		errs[FieldPremium] = fmt.Sprintf("Premium exceeds maximum limit for %s policies", policyType)
	}
	if value.Valid && value.Value.GreaterThan(limit.MaxValue) {
		errs[FieldValue] = fmt.Sprintf("Value exceeds maximum limit for %s policies", policyType)
	}
}
