package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm/store"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

func seedClient(t *testing.T, s crm.Store, id string) *crm.Client {
	t.Helper()
	c := &crm.Client{ID: id, Name: "Client " + id, PipelineStage: crm.StageLead}
	if err := s.SaveClient(context.Background(), c); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func TestMemory_ClientRoundTrip(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	seedClient(t, s, "c1")

	got, err := s.GetClient(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Client c1" || got.PipelineStage != crm.StageLead {
		t.Errorf("unexpected client: %+v", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.Name = "mutated"
	again, _ := s.GetClient(ctx, "c1")
	if again.Name != "Client c1" {
		t.Error("store handed out a shared pointer instead of a copy")
	}
}

func TestMemory_GetClient_NotFound(t *testing.T) {
	s := store.NewMemory()
	_, err := s.GetClient(context.Background(), "missing")
	if !errors.Is(err, policy.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestMemory_DeleteClient_Cascades(t *testing.T) {
	// GIVEN: a client with a policy and a task, plus an unrelated client
	s := store.NewMemory()
	ctx := context.Background()

	seedClient(t, s, "c1")
	seedClient(t, s, "c2")
	if err := s.SavePolicy(ctx, &policy.Policy{ID: "p1", ClientID: "c1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePolicy(ctx, &policy.Policy{ID: "p2", ClientID: "c2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTask(ctx, &crm.Task{ID: "t1", ClientID: "c1", Title: "call"}); err != nil {
		t.Fatal(err)
	}

	// WHEN: deleting the client
	if err := s.DeleteClient(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// THEN: its policy and task are gone, the other client's policy survives
	if _, err := s.GetPolicy(ctx, "p1"); !errors.Is(err, policy.ErrPolicyNotFound) {
		t.Errorf("expected cascaded policy delete, got %v", err)
	}
	if _, err := s.GetTask(ctx, "t1"); !errors.Is(err, policy.ErrTaskNotFound) {
		t.Errorf("expected cascaded task delete, got %v", err)
	}
	if _, err := s.GetPolicy(ctx, "p2"); err != nil {
		t.Errorf("unrelated policy should survive: %v", err)
	}
}

func TestMemory_ListPoliciesByClient(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	seedClient(t, s, "c1")
	seedClient(t, s, "c2")
	s.SavePolicy(ctx, &policy.Policy{ID: "p1", ClientID: "c1"})
	s.SavePolicy(ctx, &policy.Policy{ID: "p2", ClientID: "c2"})
	s.SavePolicy(ctx, &policy.Policy{ID: "p3", ClientID: "c1"})

	got, err := s.ListPoliciesByClient(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 policies for c1, got %d", len(got))
	}
}

func TestMemory_TaskReference(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	task := &crm.Task{ID: "t1", PolicyID: "p1", Title: "Renewal", Reference: "renewal:2026-09-10"}
	if err := s.SaveTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	exists, err := s.TaskExistsForReference(ctx, "p1", "renewal:2026-09-10")
	if err != nil || !exists {
		t.Errorf("expected the reference to exist, got %v / %v", exists, err)
	}
	exists, _ = s.TaskExistsForReference(ctx, "p1", "renewal:2027-09-10")
	if exists {
		t.Error("a different renewal date should not match")
	}
	exists, _ = s.TaskExistsForReference(ctx, "p2", "renewal:2026-09-10")
	if exists {
		t.Error("a different policy should not match")
	}

	// Completion does not release the reference.
	task.Completed = true
	if err := s.SaveTask(ctx, task); err != nil {
		t.Fatal(err)
	}
	exists, _ = s.TaskExistsForReference(ctx, "p1", "renewal:2026-09-10")
	if !exists {
		t.Error("a completed reminder still owns its reference")
	}
}

func TestMemory_SettingsDefaultAndSave(t *testing.T) {
	s := store.NewMemory()
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
}

func TestMemory_Reset(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	seedClient(t, s, "c1")
	s.SavePolicy(ctx, &policy.Policy{ID: "p1", ClientID: "c1"})
	s.SaveGlobalPolicy(ctx, &policy.GlobalPolicy{ID: "g1", PolicyName: "T"})
	s.SaveSettings(ctx, crm.Settings{AdvisorName: "X", ProjectionYears: 3, RenewalLeadDays: 7})

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	clients, _ := s.ListClients(ctx)
	policies, _ := s.ListPolicies(ctx)
	globals, _ := s.ListGlobalPolicies(ctx)
	if len(clients) != 0 || len(policies) != 0 || len(globals) != 0 {
		t.Error("reset should clear all records")
	}
	settings, _ := s.GetSettings(ctx)
	if settings != crm.DefaultSettings() {
		t.Errorf("reset should restore default settings, got %+v", settings)
	}
}

func TestMemory_SaveIsUpsert(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	seedClient(t, s, "c1")

	updated := &crm.Client{ID: "c1", Name: "Renamed", PipelineStage: crm.StageClosedWon}
	if err := s.SaveClient(ctx, updated); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetClient(ctx, "c1")
	if got.Name != "Renamed" || got.PipelineStage != crm.StageClosedWon {
		t.Errorf("expected the saved record to replace the old, got %+v", got)
	}
	all, _ := s.ListClients(ctx)
	if len(all) != 1 {
		t.Errorf("upsert should not duplicate, got %d clients", len(all))
	}
}

func TestMemory_ListTasksByClient(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	s.SaveTask(ctx, &crm.Task{ID: "t1", ClientID: "c1", Title: "a"})
	s.SaveTask(ctx, &crm.Task{ID: "t2", ClientID: "c2", Title: "b"})
	s.SaveTask(ctx, &crm.Task{ID: "t3", ClientID: "c1", Title: "c"})

	got, err := s.ListTasksByClient(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 tasks for c1, got %d", len(got))
	}
}

func TestMemory_DueDateCopyIsolation(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	s.SaveTask(ctx, &crm.Task{ID: "t1", Title: "call", DueDate: &due})

	got, _ := s.GetTask(ctx, "t1")
	*got.DueDate = got.DueDate.AddDate(1, 0, 0)

	again, _ := s.GetTask(ctx, "t1")
	if !again.DueDate.Equal(due) {
		t.Error("mutating a returned due date must not leak into the store")
	}
}
