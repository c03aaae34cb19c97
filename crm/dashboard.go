/*
dashboard.go - Aggregate KPIs over already-fetched records

PURPOSE:
  Everything the dashboard shows: headline KPIs, pipeline stage groupings,
  renewing-soon alerts, and the yearly commission chart series. All pure
  functions over in-memory slices - the HTTP layer fetches, this computes.

CLOCK:
  "Today" is an explicit argument throughout, same as the policy core.
*/
package crm

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// =============================================================================
// HEADLINE KPIS
// =============================================================================

// Snapshot is the headline KPI block at the top of the dashboard.
type Snapshot struct {
	TotalClients   int
	TotalPolicies  int
	ActivePolicies int

	// Sums collapse null fields to zero: these are aggregates, not displays
	// of a single record.
	TotalPremium             decimal.Decimal
	TotalFirstYearCommission decimal.Decimal
	TotalExpectedCommission  decimal.Decimal

	RenewingSoon int
	OpenTasks    int
	OverdueTasks int
}

// BuildSnapshot computes the headline KPIs. renewalWindowDays bounds the
// renewing-soon count.
func BuildSnapshot(clients []*Client, policies []*policy.Policy, tasks []*Task, today time.Time, renewalWindowDays int) Snapshot {
	s := Snapshot{
		TotalClients:             len(clients),
		TotalPolicies:            len(policies),
		TotalPremium:             decimal.Zero,
		TotalFirstYearCommission: decimal.Zero,
		TotalExpectedCommission:  decimal.Zero,
	}

	for _, p := range policies {
		if p.Status != nil && *p.Status == policy.StatusActive {
			s.ActivePolicies++
		}
		s.TotalPremium = s.TotalPremium.Add(p.Premium.OrZero())
		s.TotalFirstYearCommission = s.TotalFirstYearCommission.Add(p.FirstYearCommission.OrZero())
		s.TotalExpectedCommission = s.TotalExpectedCommission.Add(policy.TotalExpectedCommission(p))
		if policy.IsRenewingSoon(p, today, renewalWindowDays) {
			s.RenewingSoon++
		}
	}

	for _, t := range tasks {
		if t.Completed {
			continue
		}
		s.OpenTasks++
		if t.DueDate != nil && t.DueDate.Before(today) {
			s.OverdueTasks++
		}
	}

	return s
}

// =============================================================================
// PIPELINE GROUPING
// =============================================================================

// StageGroup aggregates clients and their policies for one pipeline stage.
type StageGroup struct {
	Stage              PipelineStage
	ClientCount        int
	PolicyCount        int
	TotalPremium       decimal.Decimal
	ExpectedCommission decimal.Decimal
}

// GroupByStage buckets clients and their policies by pipeline stage, in
// board order. Every stage appears even when empty. Policies whose client is
// unknown (dangling ClientID) are skipped.
func GroupByStage(clients []*Client, policies []*policy.Policy) []StageGroup {
	stageOf := make(map[string]PipelineStage, len(clients))
	for _, c := range clients {
		stageOf[c.ID] = c.PipelineStage
	}

	index := make(map[PipelineStage]*StageGroup, len(PipelineStages))
	groups := make([]StageGroup, len(PipelineStages))
	for i, stage := range PipelineStages {
		groups[i] = StageGroup{
			Stage:              stage,
			TotalPremium:       decimal.Zero,
			ExpectedCommission: decimal.Zero,
		}
		index[stage] = &groups[i]
	}

	for _, c := range clients {
		if g, ok := index[c.PipelineStage]; ok {
			g.ClientCount++
		}
	}

	for _, p := range policies {
		stage, ok := stageOf[p.ClientID]
		if !ok {
			continue
		}
		g, ok := index[stage]
		if !ok {
			continue
		}
		g.PolicyCount++
		g.TotalPremium = g.TotalPremium.Add(p.Premium.OrZero())
		g.ExpectedCommission = g.ExpectedCommission.Add(policy.TotalExpectedCommission(p))
	}

	return groups
}

// =============================================================================
// RENEWAL ALERTS
// =============================================================================

// RenewalAlert is one policy approaching its renewal anniversary.
type RenewalAlert struct {
	Policy      *policy.Policy
	RenewalDate time.Time
	DaysUntil   int
}

// UpcomingRenewals returns policies renewing within windowDays, soonest
// first. Policies without a start date never appear.
func UpcomingRenewals(policies []*policy.Policy, today time.Time, windowDays int) []RenewalAlert {
	var alerts []RenewalAlert
	for _, p := range policies {
		if !policy.IsRenewingSoon(p, today, windowDays) {
			continue
		}
		renewal := policy.NextRenewalDate(p, today)
		days := policy.DaysUntilRenewal(p, today)
		alerts = append(alerts, RenewalAlert{Policy: p, RenewalDate: *renewal, DaysUntil: *days})
	}
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].DaysUntil != alerts[j].DaysUntil {
			return alerts[i].DaysUntil < alerts[j].DaysUntil
		}
		return alerts[i].Policy.ID < alerts[j].Policy.ID
	})
	return alerts
}
