/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates clients, policies,
	templates, and tasks that demonstrate specific features.

AVAILABLE SCENARIOS:

	new-advisor:       Empty book plus the standard template catalog
	growing-book:      A handful of clients across pipeline stages
	renewal-season:    Policies clustered around upcoming anniversaries
	commission-ladder: One client per payment structure, for the calculators

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Load the standard template catalog
 3. Create clients at various pipeline stages
 4. Seed policies from templates, then adjust premiums and dates
 5. Add tasks

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "growing-book"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - factory/global.go: StandardCatalog
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/factory"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "new-advisor",
		Name:        "New Advisor",
		Description: "Empty book with the standard template catalog loaded",
	},
	{
		ID:          "growing-book",
		Name:        "Growing Book",
		Description: "Clients spread across pipeline stages with active policies and tasks",
	},
	{
		ID:          "renewal-season",
		Name:        "Renewal Season",
		Description: "Policies whose anniversaries cluster in the next few weeks",
	},
	{
		ID:          "commission-ladder",
		Name:        "Commission Ladder",
		Description: "One policy per payment structure to exercise the calculators",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "new-advisor":
		err = h.loadNewAdvisorScenario(ctx)
	case "growing-book":
		err = h.loadGrowingBookScenario(ctx)
	case "renewal-season":
		err = h.loadRenewalSeasonScenario(ctx)
	case "commission-ladder":
		err = h.loadCommissionLadderScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadCatalog installs the standard template catalog and returns it keyed
// by template ID.
func (h *Handler) loadCatalog(ctx context.Context) (map[string]*policy.GlobalPolicy, error) {
	catalog := factory.StandardCatalog()
	byID := make(map[string]*policy.GlobalPolicy, len(catalog))
	now := h.today()
	for _, g := range catalog {
		g.CreatedAt, g.UpdatedAt = now, now
		if err := h.Store.SaveGlobalPolicy(ctx, g); err != nil {
			return nil, err
		}
		byID[g.ID] = g
	}
	return byID, nil
}

func (h *Handler) loadNewAdvisorScenario(ctx context.Context) error {
	if _, err := h.loadCatalog(ctx); err != nil {
		return err
	}
	return h.Store.SaveSettings(ctx, crm.Settings{
		AdvisorName:     "Jordan Lee",
		ProjectionYears: 5,
		RenewalLeadDays: 30,
	})
}

func (h *Handler) loadGrowingBookScenario(ctx context.Context) error {
	catalog, err := h.loadCatalog(ctx)
	if err != nil {
		return err
	}
	now := h.today()

	type seed struct {
		name     string
		email    string
		stage    crm.PipelineStage
		template string
		premium  float64
		startAgo int // months before today
	}
	seeds := []seed{
		{"Alice Tan", "alice@example.com", crm.StageClosedWon, "term-life-20", 2400, 14},
		{"Ben Ong", "ben@example.com", crm.StageClosedWon, "health-shield", 600, 3},
		{"Carol Lim", "carol@example.com", crm.StageNegotiation, "whole-life-lifetime", 6000, 0},
		{"Daniel Ng", "daniel@example.com", crm.StageProposalSent, "", 0, 0},
		{"Evelyn Koh", "evelyn@example.com", crm.StageContacted, "", 0, 0},
		{"Farhan Yusof", "farhan@example.com", crm.StageLead, "", 0, 0},
	}

	for _, s := range seeds {
		client := &crm.Client{
			ID:            uuid.NewString(),
			Name:          s.name,
			Email:         s.email,
			PipelineStage: s.stage,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := h.Store.SaveClient(ctx, client); err != nil {
			return err
		}
		if s.template == "" {
			continue
		}
		tmpl, ok := catalog[s.template]
		if !ok {
			return fmt.Errorf("scenario references unknown template %q", s.template)
		}
		p := policy.NewPolicyFromGlobal(tmpl, client.ID, now)
		p.ID = uuid.NewString()
		p.Premium = policy.NewAmount(s.premium)
		p.FirstYearCommission = policy.FirstYearCommission(p.Premium, p.CommissionRate)
		start := now.AddDate(0, -s.startAgo, 0)
		p.StartDate = &start
		policy.DeriveInto(p)
		if err := h.Store.SavePolicy(ctx, p); err != nil {
			return err
		}
	}

	// A couple of open tasks so the dashboard has something to count.
	due := now.AddDate(0, 0, 3)
	overdue := now.AddDate(0, 0, -2)
	tasks := []*crm.Task{
		{ID: uuid.NewString(), Title: "Send proposal deck", Type: crm.TaskEmail, DueDate: &due, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Title: "Follow up on medical underwriting", Type: crm.TaskFollowUp, DueDate: &overdue, CreatedAt: now, UpdatedAt: now},
	}
	for _, t := range tasks {
		if err := h.Store.SaveTask(ctx, t); err != nil {
			return err
		}
	}

	return h.Store.SaveSettings(ctx, crm.Settings{
		AdvisorName:     "Jordan Lee",
		ProjectionYears: 5,
		RenewalLeadDays: 30,
	})
}

func (h *Handler) loadRenewalSeasonScenario(ctx context.Context) error {
	catalog, err := h.loadCatalog(ctx)
	if err != nil {
		return err
	}
	now := h.today()

	client := &crm.Client{
		ID:            uuid.NewString(),
		Name:          "Grace Wong",
		Email:         "grace@example.com",
		PipelineStage: crm.StageClosedWon,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Store.SaveClient(ctx, client); err != nil {
		return err
	}

	// Anniversaries 5, 12, and 25 days out, plus one far outside the window.
	for _, daysOut := range []int{5, 12, 25, 200} {
		tmpl := catalog["term-life-20"]
		p := policy.NewPolicyFromGlobal(tmpl, client.ID, now)
		p.ID = uuid.NewString()
		p.PolicyName = fmt.Sprintf("%s (+%dd)", tmpl.PolicyName, daysOut)
		p.Premium = policy.NewAmount(1800)
		p.FirstYearCommission = policy.FirstYearCommission(p.Premium, p.CommissionRate)
		start := now.AddDate(-1, 0, daysOut)
		p.StartDate = &start
		policy.DeriveInto(p)
		if err := h.Store.SavePolicy(ctx, p); err != nil {
			return err
		}
	}

	return h.Store.SaveSettings(ctx, crm.Settings{
		AdvisorName:     "Jordan Lee",
		ProjectionYears: 5,
		RenewalLeadDays: 30,
	})
}

func (h *Handler) loadCommissionLadderScenario(ctx context.Context) error {
	if _, err := h.loadCatalog(ctx); err != nil {
		return err
	}
	now := h.today()

	client := &crm.Client{
		ID:            uuid.NewString(),
		Name:          "Henry Chua",
		Email:         "henry@example.com",
		PipelineStage: crm.StageClosedWon,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Store.SaveClient(ctx, client); err != nil {
		return err
	}

	type rung struct {
		name      string
		structure policy.PaymentStructure
		rate      float64
		duration  int
	}
	rungs := []rung{
		{"Single Premium Bond", policy.SinglePremium, 3, 1},
		{"Annual Term Cover", policy.OneYearTerm, 15, 1},
		{"Regular Savings Plan", policy.RegularPremium, 50, 10},
		{"Five Year Endowment", policy.FiveYearPremium, 25, 5},
		{"Ten Year Investment", policy.TenYearPremium, 30, 10},
		{"Lifetime Whole Life", policy.LifetimePremium, 45, 20},
	}

	start := now.AddDate(0, -1, 0)
	for _, r := range rungs {
		duration := r.duration
		p := &policy.Policy{
			ID:                   uuid.NewString(),
			ClientID:             client.ID,
			PolicyName:           r.name,
			PolicyType:           "life",
			Provider:             "Prudential",
			PaymentStructureType: r.structure,
			Premium:              policy.NewAmount(10000),
			CommissionRate:       policy.NewAmount(r.rate),
			PolicyDuration:       &duration,
			StartDate:            &start,
			Status:               policy.StatusPtr(policy.StatusActive),
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		policy.DeriveInto(p)
		if err := h.Store.SavePolicy(ctx, p); err != nil {
			return err
		}
	}

	return h.Store.SaveSettings(ctx, crm.Settings{
		AdvisorName:     "Jordan Lee",
		ProjectionYears: 10,
		RenewalLeadDays: 30,
	})
}
