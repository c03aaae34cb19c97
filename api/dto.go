/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NULLABILITY ON THE WIRE:
  Nullable domain fields serialize as JSON null, never 0 or "": the frontend
  renders null as "N/A". Amounts travel as numbers (the store keeps the
  decimal precision; the wire is a display surface). Dates travel as
  "YYYY-MM-DD".

SEE ALSO:
  - handlers.go: Uses these types
  - policy/form.go: FormValues / Patch mirrored by DeriveRequest / DeriveResponse
*/
package api

import (
	"fmt"
	"time"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

const dateLayout = "2006-01-02"

// =============================================================================
// WIRE HELPERS
// =============================================================================

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(s *string, field string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q (want YYYY-MM-DD)", field, *s)
	}
	return &t, nil
}

func amountFromPtr(p *float64) policy.Amount {
	if p == nil {
		return policy.NullAmount()
	}
	return policy.NewAmount(*p)
}

// =============================================================================
// CLIENTS
// =============================================================================

type ClientDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PipelineStage string `json:"pipeline_stage"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

type SaveClientRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PipelineStage string `json:"pipeline_stage"`
	Notes         string `json:"notes"`
}

func toClientDTO(c *crm.Client) ClientDTO {
	return ClientDTO{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		PipelineStage: string(c.PipelineStage),
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// POLICIES
// =============================================================================

type PolicyDTO struct {
	ID                      string   `json:"id"`
	ClientID                string   `json:"client_id"`
	PolicyName              string   `json:"policy_name"`
	PolicyType              string   `json:"policy_type"`
	Provider                string   `json:"provider,omitempty"`
	PolicyNumber            string   `json:"policy_number,omitempty"`
	Premium                 *float64 `json:"premium"`
	Value                   *float64 `json:"value"`
	PaymentStructureType    string   `json:"payment_structure_type"`
	CommissionRate          *float64 `json:"commission_rate"`
	FirstYearCommission     *float64 `json:"first_year_commission"`
	AnnualOngoingCommission *float64 `json:"annual_ongoing_commission"`
	PolicyDuration          *int     `json:"policy_duration"`
	CommissionDuration      *int     `json:"commission_duration"`
	StartDate               *string  `json:"start_date"`
	EndDate                 *string  `json:"end_date"`
	Status                  *string  `json:"status"`
	GlobalPolicyID          *string  `json:"global_policy_id"`
	CreatedAt               string   `json:"created_at,omitempty"`
	UpdatedAt               string   `json:"updated_at,omitempty"`
}

// SavePolicyRequest carries the full editable field set. Partial updates
// PATCH-merge on the handler side: fields absent from the JSON body leave
// the stored values alone.
type SavePolicyRequest struct {
	ClientID             *string  `json:"client_id,omitempty"`
	PolicyName           *string  `json:"policy_name,omitempty"`
	PolicyType           *string  `json:"policy_type,omitempty"`
	Provider             *string  `json:"provider,omitempty"`
	PolicyNumber         *string  `json:"policy_number,omitempty"`
	Premium              *float64 `json:"premium,omitempty"`
	Value                *float64 `json:"value,omitempty"`
	PaymentStructureType *string  `json:"payment_structure_type,omitempty"`
	CommissionRate       *float64 `json:"commission_rate,omitempty"`
	FirstYearCommission  *float64 `json:"first_year_commission,omitempty"`
	PolicyDuration       *int     `json:"policy_duration,omitempty"`
	CommissionDuration   *int     `json:"commission_duration,omitempty"`
	StartDate            *string  `json:"start_date,omitempty"`
	EndDate              *string  `json:"end_date,omitempty"`
	Status               *string  `json:"status,omitempty"`
	GlobalPolicyID       *string  `json:"global_policy_id,omitempty"`
}

type CreateFromGlobalRequest struct {
	GlobalPolicyID string   `json:"global_policy_id"`
	ClientID       string   `json:"client_id"`
	Premium        *float64 `json:"premium,omitempty"`
	Value          *float64 `json:"value,omitempty"`
	StartDate      *string  `json:"start_date,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	PolicyNumber   string   `json:"policy_number,omitempty"`
}

func statusString(s *policy.Status) *string {
	if s == nil {
		return nil
	}
	str := string(*s)
	return &str
}

func toPolicyDTO(p *policy.Policy) PolicyDTO {
	return PolicyDTO{
		ID:                      p.ID,
		ClientID:                p.ClientID,
		PolicyName:              p.PolicyName,
		PolicyType:              p.PolicyType,
		Provider:                p.Provider,
		PolicyNumber:            p.PolicyNumber,
		Premium:                 p.Premium.FloatPtr(),
		Value:                   p.Value.FloatPtr(),
		PaymentStructureType:    string(p.PaymentStructureType),
		CommissionRate:          p.CommissionRate.FloatPtr(),
		FirstYearCommission:     p.FirstYearCommission.FloatPtr(),
		AnnualOngoingCommission: p.AnnualOngoingCommission.FloatPtr(),
		PolicyDuration:          p.PolicyDuration,
		CommissionDuration:      p.CommissionDuration,
		StartDate:               dateString(p.StartDate),
		EndDate:                 dateString(p.EndDate),
		Status:                  statusString(p.Status),
		GlobalPolicyID:          p.GlobalPolicyID,
		CreatedAt:               p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               p.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// COMMISSION / RENEWAL VIEWS
// =============================================================================

// CommissionDTO is the calculator output block for one policy.
type CommissionDTO struct {
	TotalCommission         *float64 `json:"total_commission"`
	FirstYearCommission     *float64 `json:"first_year_commission"`
	AnnualOngoingCommission *float64 `json:"annual_ongoing_commission"`
	TotalExpectedCommission float64  `json:"total_expected_commission"`
	PremiumToValueRatio     *float64 `json:"premium_to_value_ratio"`
}

// RenewalDTO is the date projector output block for one policy.
type RenewalDTO struct {
	NextRenewalDate        *string `json:"next_renewal_date"`
	DaysUntilRenewal       *int    `json:"days_until_renewal"`
	RenewingSoon           bool    `json:"renewing_soon"`
	PolicyAgeYears         *int    `json:"policy_age_years"`
	CommissionMaturityDate *string `json:"commission_maturity_date"`
}

// =============================================================================
// GLOBAL POLICIES
// =============================================================================

type GlobalPolicyDTO struct {
	ID                      string   `json:"id"`
	PolicyName              string   `json:"policy_name"`
	PolicyType              string   `json:"policy_type"`
	Provider                string   `json:"provider,omitempty"`
	PaymentStructureType    string   `json:"payment_structure_type"`
	Premium                 *float64 `json:"premium"`
	Value                   *float64 `json:"value"`
	FirstYearCommissionRate *float64 `json:"first_year_commission_rate"`
	OngoingCommissionRate   *float64 `json:"ongoing_commission_rate"`
	PolicyDuration          *int     `json:"policy_duration"`
	CommissionDuration      *int     `json:"commission_duration"`
	StartDate               *string  `json:"start_date"`
	EndDate                 *string  `json:"end_date"`
	Status                  *string  `json:"status"`
	CreatedAt               string   `json:"created_at,omitempty"`
	UpdatedAt               string   `json:"updated_at,omitempty"`
}

type SaveGlobalPolicyRequest struct {
	PolicyName              string   `json:"policy_name"`
	PolicyType              string   `json:"policy_type"`
	Provider                string   `json:"provider"`
	PaymentStructureType    string   `json:"payment_structure_type"`
	Premium                 *float64 `json:"premium"`
	Value                   *float64 `json:"value"`
	FirstYearCommissionRate *float64 `json:"first_year_commission_rate"`
	OngoingCommissionRate   *float64 `json:"ongoing_commission_rate"`
	PolicyDuration          *int     `json:"policy_duration"`
	CommissionDuration      *int     `json:"commission_duration"`
	StartDate               *string  `json:"start_date"`
	EndDate                 *string  `json:"end_date"`
	Status                  *string  `json:"status"`
}

func toGlobalPolicyDTO(g *policy.GlobalPolicy) GlobalPolicyDTO {
	return GlobalPolicyDTO{
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
		StartDate:               dateString(g.StartDate),
		EndDate:                 dateString(g.EndDate),
		Status:                  statusString(g.Status),
		CreatedAt:               g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               g.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// TASKS
// =============================================================================

type TaskDTO struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id,omitempty"`
	PolicyID    string  `json:"policy_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	DueDate     *string `json:"due_date"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

type SaveTaskRequest struct {
	ClientID    string  `json:"client_id"`
	PolicyID    string  `json:"policy_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed,omitempty"`
}

func toTaskDTO(t *crm.Task) TaskDTO {
	return TaskDTO{
		ID:          t.ID,
		ClientID:    t.ClientID,
		PolicyID:    t.PolicyID,
		Title:       t.Title,
		Description: t.Description,
		Type:        string(t.Type),
		DueDate:     dateString(t.DueDate),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

type DashboardDTO struct {
	TotalClients             int     `json:"total_clients"`
	TotalPolicies            int     `json:"total_policies"`
	ActivePolicies           int     `json:"active_policies"`
	TotalPremium             float64 `json:"total_premium"`
	TotalFirstYearCommission float64 `json:"total_first_year_commission"`
	TotalExpectedCommission  float64 `json:"total_expected_commission"`
	RenewingSoon             int     `json:"renewing_soon"`
	OpenTasks                int     `json:"open_tasks"`
	OverdueTasks             int     `json:"overdue_tasks"`
}

type YearlyCommissionDTO struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

type StageGroupDTO struct {
	Stage              string  `json:"stage"`
	ClientCount        int     `json:"client_count"`
	PolicyCount        int     `json:"policy_count"`
	TotalPremium       float64 `json:"total_premium"`
	ExpectedCommission float64 `json:"expected_commission"`
}

type RenewalAlertDTO struct {
	PolicyID    string `json:"policy_id"`
	PolicyName  string `json:"policy_name"`
	ClientID    string `json:"client_id"`
	RenewalDate string `json:"renewal_date"`
	DaysUntil   int    `json:"days_until"`
}

// =============================================================================
// FORM DERIVATION
// =============================================================================

// DeriveRequest mirrors policy.FormValues on the wire.
type DeriveRequest struct {
	PolicyName              string   `json:"policy_name"`
	PolicyType              string   `json:"policy_type"`
	Provider                string   `json:"provider"`
	PolicyNumber            string   `json:"policy_number"`
	Premium                 *float64 `json:"premium"`
	Value                   *float64 `json:"value"`
	PaymentStructureType    string   `json:"payment_structure_type"`
	CommissionRate          *float64 `json:"commission_rate"`
	OngoingCommissionRate   *float64 `json:"ongoing_commission_rate"`
	FirstYearCommission     *float64 `json:"first_year_commission"`
	AnnualOngoingCommission *float64 `json:"annual_ongoing_commission"`
	PolicyDuration          *int     `json:"policy_duration"`
	CommissionDuration      *int     `json:"commission_duration"`
	StartDate               *string  `json:"start_date"`
	EndDate                 *string  `json:"end_date"`
	GlobalPolicyID          *string  `json:"global_policy_id"`
}

// DerivePatchDTO carries only derived fields that changed. The `set` flags
// distinguish "leave alone" from "set to null".
type DerivePatchDTO struct {
	FirstYearCommission        *float64 `json:"first_year_commission,omitempty"`
	FirstYearCommissionSet     bool     `json:"first_year_commission_set"`
	AnnualOngoingCommission    *float64 `json:"annual_ongoing_commission,omitempty"`
	AnnualOngoingCommissionSet bool     `json:"annual_ongoing_commission_set"`
	PolicyDuration             *int     `json:"policy_duration,omitempty"`
	PolicyDurationSet          bool     `json:"policy_duration_set"`
}

type DeriveResponse struct {
	Patch  DerivePatchDTO    `json:"patch"`
	Errors map[string]string `json:"errors"`
}

func (r DeriveRequest) toFormValues() (policy.FormValues, error) {
	start, err := parseDate(r.StartDate, "start_date")
	if err != nil {
		return policy.FormValues{}, err
	}
	end, err := parseDate(r.EndDate, "end_date")
	if err != nil {
		return policy.FormValues{}, err
	}
	return policy.FormValues{
		PolicyName:              r.PolicyName,
		PolicyType:              r.PolicyType,
		Provider:                r.Provider,
		PolicyNumber:            r.PolicyNumber,
		Premium:                 amountFromPtr(r.Premium),
		Value:                   amountFromPtr(r.Value),
		PaymentStructureType:    policy.PaymentStructure(r.PaymentStructureType),
		CommissionRate:          amountFromPtr(r.CommissionRate),
		OngoingCommissionRate:   amountFromPtr(r.OngoingCommissionRate),
		FirstYearCommission:     amountFromPtr(r.FirstYearCommission),
		AnnualOngoingCommission: amountFromPtr(r.AnnualOngoingCommission),
		PolicyDuration:          r.PolicyDuration,
		CommissionDuration:      r.CommissionDuration,
		StartDate:               start,
		EndDate:                 end,
		GlobalPolicyID:          r.GlobalPolicyID,
	}, nil
}

func toDeriveResponse(d policy.Derivation) DeriveResponse {
	resp := DeriveResponse{Errors: map[string]string{}}
	for field, msg := range d.Errors {
		resp.Errors[field] = msg
	}
	if d.Patch.FirstYearCommission != nil {
		resp.Patch.FirstYearCommissionSet = true
		resp.Patch.FirstYearCommission = d.Patch.FirstYearCommission.FloatPtr()
	}
	if d.Patch.AnnualOngoingCommission != nil {
		resp.Patch.AnnualOngoingCommissionSet = true
		resp.Patch.AnnualOngoingCommission = d.Patch.AnnualOngoingCommission.FloatPtr()
	}
	if d.Patch.PolicyDuration != nil {
		resp.Patch.PolicyDurationSet = true
		resp.Patch.PolicyDuration = d.Patch.PolicyDuration
	}
	return resp
}

// =============================================================================
// SETTINGS / SCENARIOS / ERRORS
// =============================================================================

type SettingsDTO struct {
	AdvisorName     string `json:"advisor_name"`
	ProjectionYears int    `json:"projection_years"`
	RenewalLeadDays int    `json:"renewal_lead_days"`
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
