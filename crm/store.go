/*
store.go - Persistence interface for the CRM

PURPOSE:
  Defines the contract between the domain and the database. The calculation
  core never touches a store; this interface exists for the HTTP layer and
  the renewal scanner, which operate on already-fetched records.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - crm/store:    In-memory store for tests and dev

WRITE SEMANTICS:
  Last write wins per record. No optimistic-concurrency tokens: the system
  is single-tenant and the UI is the only writer.

CASCADES:
  Deleting a client deletes its policies and client-scoped tasks. Deleting a
  policy never touches the GlobalPolicy it was seeded from.
*/
package crm

import (
	"context"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// Store is the full persistence surface of the CRM.
type Store interface {
	// Clients
	SaveClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
	DeleteClient(ctx context.Context, id string) error

	// Policies
	SavePolicy(ctx context.Context, p *policy.Policy) error
	GetPolicy(ctx context.Context, id string) (*policy.Policy, error)
	ListPolicies(ctx context.Context) ([]*policy.Policy, error)
	ListPoliciesByClient(ctx context.Context, clientID string) ([]*policy.Policy, error)
	DeletePolicy(ctx context.Context, id string) error

	// Global policy templates
	SaveGlobalPolicy(ctx context.Context, g *policy.GlobalPolicy) error
	GetGlobalPolicy(ctx context.Context, id string) (*policy.GlobalPolicy, error)
	ListGlobalPolicies(ctx context.Context) ([]*policy.GlobalPolicy, error)
	DeleteGlobalPolicy(ctx context.Context, id string) error

	// Tasks
	SaveTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	ListTasksByClient(ctx context.Context, clientID string) ([]*Task, error)
	// TaskExistsForReference checks whether a task with the given reference
	// key already exists. The renewal scanner uses it to stay idempotent
	// (one reminder per policy per renewal date).
	TaskExistsForReference(ctx context.Context, policyID, reference string) (bool, error)
	DeleteTask(ctx context.Context, id string) error

	// Settings (single row)
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	// Reset wipes all data. Dev/demo only.
	Reset(ctx context.Context) error
}
