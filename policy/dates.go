/*
dates.go - Renewal and maturity projection

PURPOSE:
  Pure date arithmetic over a policy's start date: next renewal anniversary,
  days until renewal, policy age, and the date the commission stream matures.

CALENDAR ARITHMETIC:
  Everything here is whole-year anniversary math via time.AddDate, never
  365-day division. Leap years and month/day alignment behave exactly as the
  Go time package defines them (a Feb 29 start normalizes to Mar 1 in
  non-leap years).

CLOCK INJECTION:
  "Today" is always an explicit argument, never time.Now() inside a
  calculator. Tests pin a fixed date; the API layer passes the real clock.

SEE ALSO:
  - projection.go: Yearly commission aggregation (calendar-year buckets)
  - crm/dashboard.go: Renewing-soon lists for the dashboard
*/
package policy

import "time"

// dateOnly truncates a timestamp to midnight UTC so all comparisons are at
// day granularity.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WholeYearsBetween returns the number of complete calendar years from
// `from` to `to` (anniversary-based). Negative if `to` precedes `from` by at
// least a year.
func WholeYearsBetween(from, to time.Time) int {
	from, to = dateOnly(from), dateOnly(to)
	years := to.Year() - from.Year()
	if from.AddDate(years, 0, 0).After(to) {
		years--
	}
	return years
}

// NextRenewalDate returns the nearest anniversary of the policy's start date
// that is today or in the future. Nil without a start date.
func NextRenewalDate(p *Policy, today time.Time) *time.Time {
	if p.StartDate == nil {
		return nil
	}
	start := dateOnly(*p.StartDate)
	today = dateOnly(today)

	yearsSinceStart := WholeYearsBetween(start, today)
	if yearsSinceStart < 0 {
		yearsSinceStart = 0
	}
	candidate := start.AddDate(yearsSinceStart, 0, 0)
	if candidate.Before(today) {
		candidate = start.AddDate(yearsSinceStart+1, 0, 0)
	}
	return &candidate
}

// DaysUntilRenewal returns the whole-day difference between the next renewal
// date and today. Nil without a renewal date. Zero when the renewal is today.
func DaysUntilRenewal(p *Policy, today time.Time) *int {
	renewal := NextRenewalDate(p, today)
	if renewal == nil {
		return nil
	}
	days := int(renewal.Sub(dateOnly(today)).Hours() / 24)
	return &days
}

// IsRenewingSoon reports whether the policy renews within windowDays from
// today, inclusive on both ends.
func IsRenewingSoon(p *Policy, today time.Time, windowDays int) bool {
	days := DaysUntilRenewal(p, today)
	return days != nil && *days >= 0 && *days <= windowDays
}

// PolicyAge returns the policy's age in whole years. Nil without a start
// date. Zero for policies started within the last year (including future
// start dates).
func PolicyAge(p *Policy, today time.Time) *int {
	if p.StartDate == nil {
		return nil
	}
	age := WholeYearsBetween(*p.StartDate, today)
	if age < 0 {
		age = 0
	}
	return &age
}

// CommissionMaturityDate returns start date + commission duration years: the
// date after which no further ongoing commission is paid. Nil if either
// input is absent.
func CommissionMaturityDate(p *Policy) *time.Time {
	if p.StartDate == nil || p.CommissionDuration == nil {
		return nil
	}
	maturity := dateOnly(*p.StartDate).AddDate(*p.CommissionDuration, 0, 0)
	return &maturity
}
