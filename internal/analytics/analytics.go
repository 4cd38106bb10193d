// Package analytics derives filters and aggregates from loaded records.
// Every function is pure and works on in-memory slices.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	apptdomain "prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/commerces/domain"
)

// FilterCommerces keeps the records matching every active predicate of f.
func FilterCommerces(records []domain.Commerce, f domain.Filter) []domain.Commerce {
	out := make([]domain.Commerce, 0, len(records))
	for _, c := range records {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// ConversionRate is round(100 * converted / total), 0 for an empty set.
func ConversionRate(converted, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(converted) / float64(total)))
}

// PipelineStats is the per-status breakdown of a set of commerces.
type PipelineStats struct {
	Total          int
	ToContact      int
	InProgress     int
	Scheduled      int
	Converted      int
	Lost           int
	ConversionRate int
	// ToFollowUp counts commerces currently in progress.
	ToFollowUp int
}

// Pipeline counts records per status.
func Pipeline(records []domain.Commerce) PipelineStats {
	var p PipelineStats
	for _, c := range records {
		p.Total++
		switch c.Status {
		case domain.StatusToContact:
			p.ToContact++
		case domain.StatusInProgress:
			p.InProgress++
		case domain.StatusAppointmentScheduled:
			p.Scheduled++
		case domain.StatusConverted:
			p.Converted++
		case domain.StatusLost:
			p.Lost++
		}
	}
	p.ConversionRate = ConversionRate(p.Converted, p.Total)
	p.ToFollowUp = p.InProgress
	return p
}

// TypeCount is one row of CountByType.
type TypeCount struct {
	Type  string
	Count int
}

// CountByType counts records per commerce type. Blank types count as
// "Autre". Rows are ordered by count descending then type name.
func CountByType(records []domain.Commerce) []TypeCount {
	counts := make(map[string]int)
	for _, c := range records {
		counts[c.TypeOrDefault()]++
	}

	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	slices.SortFunc(out, func(a, b TypeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Type, b.Type)
	})
	return out
}

// DateGroup holds the appointments of one calendar day.
type DateGroup struct {
	Date  string
	Items []apptdomain.Appointment
}

// GroupByDate buckets appointments by date ascending, time ascending inside
// each bucket. Ties keep their input order.
func GroupByDate(appointments []apptdomain.Appointment) []DateGroup {
	sorted := slices.Clone(appointments)
	slices.SortStableFunc(sorted, func(a, b apptdomain.Appointment) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})

	groups := make([]DateGroup, 0)
	for _, a := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Date == a.Date {
			groups[n-1].Items = append(groups[n-1].Items, a)
			continue
		}
		groups = append(groups, DateGroup{Date: a.Date, Items: []apptdomain.Appointment{a}})
	}
	return groups
}

// UpcomingWindow keeps appointments with today <= date <= today+days.
// today is a YYYY-MM-DD date; an unparsable value yields nothing.
func UpcomingWindow(appointments []apptdomain.Appointment, today string, days int) []apptdomain.Appointment {
	start, err := time.Parse(apptdomain.DateLayout, today)
	if err != nil {
		return nil
	}
	end := start.AddDate(0, 0, days).Format(apptdomain.DateLayout)

	out := make([]apptdomain.Appointment, 0)
	for _, a := range appointments {
		if a.Date >= today && a.Date <= end {
			out = append(out, a)
		}
	}
	return out
}
