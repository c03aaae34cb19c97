// Package crm implements the advisor-facing CRM domain around the policy
// calculation core: clients with pipeline stages, follow-up tasks, advisor
// settings, and the dashboard aggregations built from them.
package crm

import "time"

// =============================================================================
// PIPELINE STAGE
// =============================================================================

// PipelineStage is where a client sits in the sales pipeline. Stored and
// transported with the display spelling.
type PipelineStage string

const (
	StageLead         PipelineStage = "Lead"
	StageContacted    PipelineStage = "Contacted"
	StageProposalSent PipelineStage = "Proposal Sent"
	StageNegotiation  PipelineStage = "Negotiation"
	StageClosedWon    PipelineStage = "Closed Won"
	StageClosedLost   PipelineStage = "Closed Lost"
)

// PipelineStages lists every stage in board order.
var PipelineStages = []PipelineStage{
	StageLead,
	StageContacted,
	StageProposalSent,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Known reports whether s is a recognized stage.
func (s PipelineStage) Known() bool {
	for _, stage := range PipelineStages {
		if s == stage {
			return true
		}
	}
	return false
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a person (or business) the advisor manages. Policies hang off a
// client one-to-many; the pipeline stage drives the kanban board and the
// stage groupings on the dashboard.
type Client struct {
	ID    string
	Name  string
	Email string
	Phone string

	PipelineStage PipelineStage

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// TASK - Follow-ups and reminders
// =============================================================================

type TaskType string

const (
	TaskCall     TaskType = "call"
	TaskMeeting  TaskType = "meeting"
	TaskEmail    TaskType = "email"
	TaskFollowUp TaskType = "follow_up"
	TaskOther    TaskType = "other"
)

// TaskTypes lists every recognized task type.
var TaskTypes = []TaskType{TaskCall, TaskMeeting, TaskEmail, TaskFollowUp, TaskOther}

// Known reports whether t is a recognized task type.
func (t TaskType) Known() bool {
	for _, tt := range TaskTypes {
		if t == tt {
			return true
		}
	}
	return false
}

// Task is a follow-up item. ClientID and PolicyID are optional: a task may
// be freestanding, client-scoped, or pinned to a specific policy (renewal
// reminders are policy-scoped).
type Task struct {
	ID       string
	ClientID string
	PolicyID string

	Title       string
	Description string
	Type        TaskType

	DueDate   *time.Time
	Completed bool

	// Reference is an idempotency key for system-created tasks (e.g.
	// "renewal:2026-06-01" for a renewal reminder). Empty for manual tasks.
	Reference string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// SETTINGS - Advisor account settings
// =============================================================================

// Settings holds the advisor's account preferences. Single-tenant: there is
// exactly one row.
type Settings struct {
	AdvisorName string

	// ProjectionYears is the default window for the yearly commission chart.
	ProjectionYears int

	// RenewalLeadDays is how far ahead the renewal scan looks when creating
	// reminder tasks.
	RenewalLeadDays int
}

// DefaultSettings are used until the advisor saves their own.
func DefaultSettings() Settings {
	return Settings{
		AdvisorName:     "",
		ProjectionYears: 5,
		RenewalLeadDays: 30,
	}
}
