/*
reminder.go - Automated renewal reminder scheduler

PURPOSE:
  Periodically scans active policies for upcoming anniversary renewals and
  creates a follow-up task for each one entering the lead window.

DESIGN:
  - Runs a background goroutine with configurable scan interval
  - Detects policies whose next renewal falls inside settings.RenewalLeadDays
  - Idempotent: each (policy, renewal date) pair produces at most one task,
    enforced via the task reference key "renewal:<date>"
  - Skips completed reminders too: the reference survives completion

CONFIGURATION:
  - ScanInterval: How often to scan (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  reminder := NewRenewalReminder(store)
  reminder.Start()
  // ... later
  reminder.Stop()

SEE ALSO:
  - policy/dates.go: NextRenewalDate, IsRenewingSoon
  - crm/types.go: Task.Reference
*/
package api

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// RenewalReminder creates follow-up tasks for policies about to renew.
type RenewalReminder struct {
	Store        crm.Store
	ScanInterval time.Duration
	Enabled      bool

	// Now is the injectable clock. Tests pin it; production uses time.Now.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRenewalReminder creates a new scheduler.
func NewRenewalReminder(store crm.Store) *RenewalReminder {
	return &RenewalReminder{
		Store:        store,
		ScanInterval: 1 * time.Hour,
		Enabled:      true,
		Now:          time.Now,
		stop:         make(chan bool),
	}
}

// Start begins the scheduler.
func (rr *RenewalReminder) Start() {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if !rr.Enabled {
		log.Println("[Reminder] Disabled, not starting")
		return
	}

	rr.ticker = time.NewTicker(rr.ScanInterval)
	rr.wg.Add(1)

	go rr.run()

	log.Printf("[Reminder] Started with scan interval: %v", rr.ScanInterval)
}

// Stop stops the scheduler.
func (rr *RenewalReminder) Stop() {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.ticker != nil {
		rr.ticker.Stop()
		close(rr.stop)
		rr.wg.Wait()
		log.Println("[Reminder] Stopped")
	}
}

func (rr *RenewalReminder) run() {
	defer rr.wg.Done()

	// Scan immediately on start
	rr.Scan(context.Background())

	for {
		select {
		case <-rr.ticker.C:
			rr.Scan(context.Background())
		case <-rr.stop:
			return
		}
	}
}

// Scan performs one pass over all policies. Exported so the scan can be
// triggered directly from tests and dev tooling.
func (rr *RenewalReminder) Scan(ctx context.Context) {
	today := rr.Now().UTC()

	settings, err := rr.Store.GetSettings(ctx)
	if err != nil {
		log.Printf("[Reminder] Error loading settings: %v", err)
		return
	}

	policies, err := rr.Store.ListPolicies(ctx)
	if err != nil {
		log.Printf("[Reminder] Error listing policies: %v", err)
		return
	}

	createdCount := 0
	skippedCount := 0

	for _, p := range policies {
		if !policy.IsRenewingSoon(p, today, settings.RenewalLeadDays) {
			continue
		}
		renewal := policy.NextRenewalDate(p, today)
		if renewal == nil {
			continue
		}

		reference := "renewal:" + renewal.Format("2006-01-02")
		exists, err := rr.Store.TaskExistsForReference(ctx, p.ID, reference)
		if err != nil {
			log.Printf("[Reminder] Error checking reference for %s: %v", p.ID, err)
			continue
		}
		if exists {
			skippedCount++
			continue
		}

		if err := rr.createReminder(ctx, p, *renewal, reference, today); err != nil {
			log.Printf("[Reminder] Error creating reminder for %s: %v", p.ID, err)
		} else {
			createdCount++
		}
	}

	if createdCount > 0 || skippedCount > 0 {
		log.Printf("[Reminder] Completed: %d created, %d skipped (already exist)", createdCount, skippedCount)
	}
}

func (rr *RenewalReminder) createReminder(ctx context.Context, p *policy.Policy, renewal time.Time, reference string, now time.Time) error {
	due := renewal
	task := &crm.Task{
		ID:          uuid.NewString(),
		ClientID:    p.ClientID,
		PolicyID:    p.ID,
		Title:       fmt.Sprintf("Renewal: %s", p.PolicyName),
		Description: fmt.Sprintf("Policy %s renews on %s. Reach out to the client before the anniversary.", p.PolicyName, renewal.Format("2006-01-02")),
		Type:        crm.TaskFollowUp,
		DueDate:     &due,
		Reference:   reference,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return rr.Store.SaveTask(ctx, task)
}
