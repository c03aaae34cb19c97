// Package store provides an in-memory crm.Store implementation for tests
// and local development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu             sync.RWMutex
	clients        map[string]*crm.Client
	policies       map[string]*policy.Policy
	globalPolicies map[string]*policy.GlobalPolicy
	tasks          map[string]*crm.Task
	settings       *crm.Settings
}

func NewMemory() *Memory {
	m := &Memory{}
	m.reset()
	return m
}

func (m *Memory) reset() {
	m.clients = make(map[string]*crm.Client)
	m.policies = make(map[string]*policy.Policy)
	m.globalPolicies = make(map[string]*policy.GlobalPolicy)
	m.tasks = make(map[string]*crm.Task)
	m.settings = nil
}

var _ crm.Store = (*Memory)(nil)

// Records are copied in and out so callers can never mutate stored state.
// The pointer fields need their own copies too.

func copyPolicy(p *policy.Policy) *policy.Policy {
	cp := *p
	cp.PolicyDuration = copyInt(p.PolicyDuration)
	cp.CommissionDuration = copyInt(p.CommissionDuration)
	cp.StartDate = copyTime(p.StartDate)
	cp.EndDate = copyTime(p.EndDate)
	cp.Status = copyStatus(p.Status)
	cp.GlobalPolicyID = copyStr(p.GlobalPolicyID)
	return &cp
}

func copyGlobalPolicy(g *policy.GlobalPolicy) *policy.GlobalPolicy {
	cp := *g
	cp.PolicyDuration = copyInt(g.PolicyDuration)
	cp.CommissionDuration = copyInt(g.CommissionDuration)
	cp.StartDate = copyTime(g.StartDate)
	cp.EndDate = copyTime(g.EndDate)
	cp.Status = copyStatus(g.Status)
	return &cp
}

func copyTask(t *crm.Task) *crm.Task {
	cp := *t
	cp.DueDate = copyTime(t.DueDate)
	return &cp
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStatus(p *policy.Status) *policy.Status {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) SaveClient(_ context.Context, c *crm.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *Memory) GetClient(_ context.Context, id string) (*crm.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, policy.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) ListClients(_ context.Context) ([]*crm.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*crm.Client, 0, len(m.clients))
	for _, c := range m.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return policy.ErrClientNotFound
	}
	delete(m.clients, id)
	// Cascade: the client's policies and client-scoped tasks go with it.
	for pid, p := range m.policies {
		if p.ClientID == id {
			delete(m.policies, pid)
		}
	}
	for tid, t := range m.tasks {
		if t.ClientID == id {
			delete(m.tasks, tid)
		}
	}
	return nil
}

// =============================================================================
// POLICIES
// =============================================================================

func (m *Memory) SavePolicy(_ context.Context, p *policy.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.ID] = copyPolicy(p)
	return nil
}

func (m *Memory) GetPolicy(_ context.Context, id string) (*policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[id]
	if !ok {
		return nil, policy.ErrPolicyNotFound
	}
	return copyPolicy(p), nil
}

func (m *Memory) ListPolicies(_ context.Context) ([]*policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*policy.Policy, 0, len(m.policies))
	for _, p := range m.policies {
		out = append(out, copyPolicy(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListPoliciesByClient(_ context.Context, clientID string) ([]*policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*policy.Policy
	for _, p := range m.policies {
		if p.ClientID == clientID {
			out = append(out, copyPolicy(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) DeletePolicy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.policies[id]; !ok {
		return policy.ErrPolicyNotFound
	}
	delete(m.policies, id)
	return nil
}

// =============================================================================
// GLOBAL POLICIES
// =============================================================================

func (m *Memory) SaveGlobalPolicy(_ context.Context, g *policy.GlobalPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalPolicies[g.ID] = copyGlobalPolicy(g)
	return nil
}

func (m *Memory) GetGlobalPolicy(_ context.Context, id string) (*policy.GlobalPolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.globalPolicies[id]
	if !ok {
		return nil, policy.ErrGlobalPolicyNotFound
	}
	return copyGlobalPolicy(g), nil
}

func (m *Memory) ListGlobalPolicies(_ context.Context) ([]*policy.GlobalPolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*policy.GlobalPolicy, 0, len(m.globalPolicies))
	for _, g := range m.globalPolicies {
		out = append(out, copyGlobalPolicy(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) DeleteGlobalPolicy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.globalPolicies[id]; !ok {
		return policy.ErrGlobalPolicyNotFound
	}
	delete(m.globalPolicies, id)
	return nil
}

// =============================================================================
// TASKS
// =============================================================================

func (m *Memory) SaveTask(_ context.Context, t *crm.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = copyTask(t)
	return nil
}

func (m *Memory) GetTask(_ context.Context, id string) (*crm.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, policy.ErrTaskNotFound
	}
	return copyTask(t), nil
}

func (m *Memory) ListTasks(_ context.Context) ([]*crm.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*crm.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, copyTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListTasksByClient(_ context.Context, clientID string) ([]*crm.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*crm.Task
	for _, t := range m.tasks {
		if t.ClientID == clientID {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) TaskExistsForReference(_ context.Context, policyID, reference string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tasks {
		if t.PolicyID == policyID && t.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return policy.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) GetSettings(_ context.Context) (crm.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return crm.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, s crm.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

// =============================================================================
// RESET
// =============================================================================

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}
