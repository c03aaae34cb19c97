/*
errors.go - Error types for the policy core

PURPOSE:
  Sentinel errors for the store layer plus the field-scoped validation errors
  the form derivation rules produce.

ERROR PHILOSOPHY:
  The calculators never error: absent inputs map to null or zero. The only
  "errors" the core produces are form validation failures, which are
  non-fatal, keyed by field name, and recoverable by further edits. Store
  errors (not found, constraint violations) are sentinels for errors.Is.

USAGE:
  if errors.Is(err, policy.ErrPolicyNotFound) {
      writeError(w, http.StatusNotFound, ...)
  }

  errs := policy.Derive(values).Errors
  if msg, ok := errs["commission_duration"]; ok { ... }
*/
package policy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPolicyNotFound is returned when a referenced policy doesn't exist.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrGlobalPolicyNotFound is returned when a referenced template doesn't exist.
	ErrGlobalPolicyNotFound = errors.New("global policy not found")

	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrTaskNotFound is returned when a referenced task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrMissingClientID is returned when creating a policy without an owner.
	ErrMissingClientID = errors.New("policy requires a client id")
)

// =============================================================================
// FIELD ERRORS - Non-fatal, field-scoped validation failures
// =============================================================================

// Field names used as FieldErrors keys. The API layer passes these through
// verbatim so the form can attach messages to inputs.
const (
	FieldPremium              = "premium"
	FieldValue                = "value"
	FieldCommissionRate       = "commission_rate"
	FieldCommissionDuration   = "commission_duration"
	FieldPolicyDuration       = "policy_duration"
	FieldPaymentStructureType = "payment_structure_type"
)

// FieldErrors maps a field name to a human-readable validation message.
// An empty map means the record is valid.
type FieldErrors map[string]string

func (fe FieldErrors) HasErrors() bool { return len(fe) > 0 }

// Error renders all messages in field order, so FieldErrors can travel as a
// plain error when a caller doesn't care about per-field routing.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, fe[f])
	}
	return strings.Join(parts, "; ")
}
