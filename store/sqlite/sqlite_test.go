package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustSaveClient(t *testing.T, s *Store, id string) {
	t.Helper()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	err := s.SaveClient(context.Background(), &crm.Client{
		ID:            id,
		Name:          "Client " + id,
		Email:         id + "@example.com",
		PipelineStage: crm.StageLead,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("failed to save client: %v", err)
	}
}

// =============================================================================
// CLIENTS
// =============================================================================

func TestSQLite_ClientRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSaveClient(t, s, "c1")

	got, err := s.GetClient(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Client c1" || got.Email != "c1@example.com" || got.PipelineStage != crm.StageLead {
		t.Errorf("unexpected client: %+v", got)
	}

	_, err = s.GetClient(ctx, "missing")
	if !errors.Is(err, policy.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestSQLite_DeleteClient_CascadesToPolicies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSaveClient(t, s, "c1")

	now := time.Now().UTC()
	p := &policy.Policy{
		ID: "p1", ClientID: "c1",
		PolicyName: "Term Life", PolicyType: "life",
		PaymentStructureType: policy.RegularPremium,
		CreatedAt:            now, UpdatedAt: now,
	}
	if err := s.SavePolicy(ctx, p); err != nil {
		t.Fatalf("save policy: %v", err)
	}
	if err := s.SaveTask(ctx, &crm.Task{
		ID: "t1", ClientID: "c1", Title: "call", Type: crm.TaskCall,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("save task: %v", err)
	}

	if err := s.DeleteClient(ctx, "c1"); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	if _, err := s.GetPolicy(ctx, "p1"); !errors.Is(err, policy.ErrPolicyNotFound) {
		t.Errorf("expected the policy to be cascaded away, got %v", err)
	}
	if _, err := s.GetTask(ctx, "t1"); !errors.Is(err, policy.ErrTaskNotFound) {
		t.Errorf("expected the task to be cascaded away, got %v", err)
	}
}

// =============================================================================
// POLICIES
// =============================================================================

func TestSQLite_PolicyRoundTrip_AllFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSaveClient(t, s, "c1")

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2045, 6, 15, 0, 0, 0, 0, time.UTC)
	policyDur, commissionDur := 20, 10
	globalID := "term-life-20"

	want := &policy.Policy{
		ID:                      "p1",
		ClientID:                "c1",
		PolicyName:              "Term Life 20",
		PolicyType:              "life",
		Provider:                "Prudential",
		PolicyNumber:            "POL-9001",
		Premium:                 policy.NewAmount(2400.50),
		Value:                   policy.NewAmount(500000),
		PaymentStructureType:    policy.RegularPremium,
		CommissionRate:          policy.NewAmount(50),
		FirstYearCommission:     policy.NewAmount(1200.25),
		AnnualOngoingCommission: policy.NewAmount(240.05),
		PolicyDuration:          &policyDur,
		CommissionDuration:      &commissionDur,
		StartDate:               &start,
		EndDate:                 &end,
		Status:                  policy.StatusPtr(policy.StatusActive),
		GlobalPolicyID:          &globalID,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.SavePolicy(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetPolicy(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PolicyName != want.PolicyName || got.Provider != want.Provider || got.PolicyNumber != want.PolicyNumber {
		t.Errorf("text fields: %+v", got)
	}
	if !got.Premium.Equal(want.Premium) || !got.FirstYearCommission.Equal(want.FirstYearCommission) {
		t.Errorf("money fields did not round-trip: premium %s, first-year %s",
			got.Premium.String(), got.FirstYearCommission.String())
	}
	if got.PolicyDuration == nil || *got.PolicyDuration != 20 {
		t.Errorf("policy duration: %v", got.PolicyDuration)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) {
		t.Errorf("start date: %v", got.StartDate)
	}
	if got.Status == nil || *got.Status != policy.StatusActive {
		t.Errorf("status: %v", got.Status)
	}
	if got.GlobalPolicyID == nil || *got.GlobalPolicyID != globalID {
		t.Errorf("global policy id: %v", got.GlobalPolicyID)
	}
}

func TestSQLite_PolicyRoundTrip_NullsStayNull(t *testing.T) {
	// Null money and nil pointers must come back as null, never zero.
	s := newTestStore(t)
	ctx := context.Background()
	mustSaveClient(t, s, "c1")

	now := time.Now().UTC()
	want := &policy.Policy{
		ID: "p1", ClientID: "c1",
		PolicyName: "Bare", PolicyType: "other",
		PaymentStructureType: policy.SinglePremium,
		CreatedAt:            now, UpdatedAt: now,
	}
	if err := s.SavePolicy(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetPolicy(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Premium.IsNull() || !got.CommissionRate.IsNull() || !got.FirstYearCommission.IsNull() {
		t.Error("null money fields should stay null")
	}
	if got.PolicyDuration != nil || got.StartDate != nil || got.Status != nil || got.GlobalPolicyID != nil {
		t.Error("nil pointer fields should stay nil")
	}
}

func TestSQLite_SavePolicy_IsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSaveClient(t, s, "c1")

	now := time.Now().UTC()
	p := &policy.Policy{
		ID: "p1", ClientID: "c1", PolicyName: "V1", PolicyType: "life",
		PaymentStructureType: policy.RegularPremium,
		CreatedAt:            now, UpdatedAt: now,
	}
	if err := s.SavePolicy(ctx, p); err != nil {
		t.Fatal(err)
	}
	p.PolicyName = "V2"
	p.Premium = policy.NewAmount(1000)
	if err := s.SavePolicy(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetPolicy(ctx, "p1")
	if got.PolicyName != "V2" || got.Premium.IsNull() {
		t.Errorf("expected the update to win: %+v", got)
	}
	all, _ := s.ListPolicies(ctx)
	if len(all) != 1 {
		t.Errorf("upsert should not duplicate, got %d", len(all))
	}
}

func TestSQLite_ListPoliciesByClient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSaveClient(t, s, "c1")
	mustSaveClient(t, s, "c2")

	now := time.Now().UTC()
	for _, tc := range []struct{ id, client string }{{"p1", "c1"}, {"p2", "c2"}, {"p3", "c1"}} {
		err := s.SavePolicy(ctx, &policy.Policy{
			ID: tc.id, ClientID: tc.client, PolicyName: tc.id, PolicyType: "life",
			PaymentStructureType: policy.RegularPremium,
			CreatedAt:            now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListPoliciesByClient(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 policies for c1, got %d", len(got))
	}
}

// =============================================================================
// GLOBAL POLICIES
// =============================================================================

func TestSQLite_GlobalPolicyRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	commissionDur := 10
	want := &policy.GlobalPolicy{
		ID:                      "term-life-20",
		PolicyName:              "Term Life 20",
		PolicyType:              "life",
		Provider:                "Prudential",
		PaymentStructureType:    policy.RegularPremium,
		FirstYearCommissionRate: policy.NewAmount(50),
		OngoingCommissionRate:   policy.NewAmount(10),
		CommissionDuration:      &commissionDur,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.SaveGlobalPolicy(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetGlobalPolicy(ctx, "term-life-20")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.FirstYearCommissionRate.Equal(want.FirstYearCommissionRate) ||
		!got.OngoingCommissionRate.Equal(want.OngoingCommissionRate) {
		t.Error("rates did not round-trip")
	}
	if got.Premium.IsNull() != true {
		t.Error("unset premium should come back null")
	}

	_, err = s.GetGlobalPolicy(ctx, "missing")
	if !errors.Is(err, policy.ErrGlobalPolicyNotFound) {
		t.Errorf("expected ErrGlobalPolicyNotFound, got %v", err)
	}
}

// =============================================================================
// TASKS
// =============================================================================

func TestSQLite_TaskReferenceIsUnique(t *testing.T) {
	// GIVEN: a reminder already recorded for a (policy, renewal date) pair
	// WHEN: inserting a second task with the same reference
	// THEN: the unique index rejects the duplicate

	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	first := &crm.Task{
		ID: "t1", PolicyID: "p1", Title: "Renewal", Type: crm.TaskFollowUp,
		Reference: "renewal:2026-09-10",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.SaveTask(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	dup := &crm.Task{
		ID: "t2", PolicyID: "p1", Title: "Renewal again", Type: crm.TaskFollowUp,
		Reference: "renewal:2026-09-10",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.SaveTask(ctx, dup); err == nil {
		t.Error("expected the duplicate reference to be rejected")
	}

	// Tasks without a reference are unconstrained.
	for _, id := range []string{"t3", "t4"} {
		err := s.SaveTask(ctx, &crm.Task{
			ID: id, PolicyID: "p1", Title: "note", Type: crm.TaskOther,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Errorf("reference-less tasks should not collide: %v", err)
		}
	}

	exists, err := s.TaskExistsForReference(ctx, "p1", "renewal:2026-09-10")
	if err != nil || !exists {
		t.Errorf("expected the reference to exist, got %v / %v", exists, err)
	}
	exists, _ = s.TaskExistsForReference(ctx, "p1", "renewal:2027-09-10")
	if exists {
		t.Error("a different renewal date should not match")
	}
}

func TestSQLite_TaskRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	want := &crm.Task{
		ID: "t1", ClientID: "c1", PolicyID: "p1",
		Title: "Call about renewal", Description: "30 days out",
		Type: crm.TaskCall, DueDate: &due, Completed: false,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.SaveTask(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != want.Title || got.Type != crm.TaskCall || got.Completed {
		t.Errorf("unexpected task: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date: %v", got.DueDate)
	}

	// Completion round-trips.
	got.Completed = true
	if err := s.SaveTask(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, _ := s.GetTask(ctx, "t1")
	if !again.Completed {
		t.Error("completed flag did not round-trip")
	}
}

// =============================================================================
// SETTINGS AND RESET
// =============================================================================

func TestSQLite_SettingsDefaultThenSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != crm.DefaultSettings() {
		t.Errorf("expected defaults before any save, got %+v", got)
	}

	want := crm.Settings{AdvisorName: "Jordan Lee", ProjectionYears: 10, RenewalLeadDays: 14}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetSettings(ctx)
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	// Saving again replaces the single row.
	want.RenewalLeadDays = 45
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetSettings(ctx)
	if got.RenewalLeadDays != 45 {
		t.Errorf("expected 45, got %d", got.RenewalLeadDays)
	}
}

func TestSQLite_Reset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSaveClient(t, s, "c1")
	now := time.Now().UTC()
	s.SaveGlobalPolicy(ctx, &policy.GlobalPolicy{
		ID: "g1", PolicyName: "T", PolicyType: "life",
		PaymentStructureType: policy.RegularPremium,
		CreatedAt:            now, UpdatedAt: now,
	})
	s.SaveSettings(ctx, crm.Settings{AdvisorName: "X", ProjectionYears: 3, RenewalLeadDays: 7})

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	clients, _ := s.ListClients(ctx)
	globals, _ := s.ListGlobalPolicies(ctx)
	if len(clients) != 0 || len(globals) != 0 {
		t.Error("reset should clear all records")
	}
	settings, _ := s.GetSettings(ctx)
	if settings != crm.DefaultSettings() {
		t.Errorf("reset should fall back to defaults, got %+v", settings)
	}
}
