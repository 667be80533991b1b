package emo

import (
	"sort"
	"time"
)

// Tier buckets a record by whole days until its exam expires.
type Tier int

const (
	TierExpired Tier = iota // already past
	TierUrgent              // 0 to 7 days
	TierHigh                // 8 to 30 days
	TierMedium              // 31 to 90 days
	TierLow                 // more than 90 days
)

func (t Tier) String() string {
	switch t {
	case TierExpired:
		return "expired"
	case TierUrgent:
		return "urgent"
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	}
	return "unknown"
}

// TierFor classifies a day delta. Upper edges are inclusive: exactly 7
// days is urgent, exactly 8 is high.
func TierFor(daysLeft int) Tier {
	switch {
	case daysLeft < 0:
		return TierExpired
	case daysLeft <= 7:
		return TierUrgent
	case daysLeft <= 30:
		return TierHigh
	case daysLeft <= 90:
		return TierMedium
	default:
		return TierLow
	}
}

// ClassifiedRecord is a valid-date record inside an expiry window.
type ClassifiedRecord struct {
	Name      string
	Area      string
	ExpiresOn time.Time
	DaysLeft  int
}

// ExpiredRecord is a record whose exam already expired. DaysOverdue is the
// positive number of days past the expiry date.
type ExpiredRecord struct {
	Name        string
	Area        string
	ExpiresOn   time.Time
	DaysOverdue int
}

// PriorityReport counts valid-date records per urgency tier. TotalValid
// always equals the sum of the five tier counts.
type PriorityReport struct {
	Expired    int
	Urgent     int
	High       int
	Medium     int
	Low        int
	TotalValid int
}

// daysBetween returns whole days from a to b. Both arguments are already
// truncated to UTC midnight, so the division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func classifyWindow(records []CanonicalRecord, today time.Time, daysAhead int) []ClassifiedRecord {
	limit := today.AddDate(0, 0, daysAhead)
	var out []ClassifiedRecord
	for _, r := range records {
		if !r.HasExpiry() || r.ExpiresOn.Before(today) || r.ExpiresOn.After(limit) {
			continue
		}
		out = append(out, ClassifiedRecord{
			Name:      r.Name,
			Area:      r.Area,
			ExpiresOn: r.ExpiresOn,
			DaysLeft:  daysBetween(today, r.ExpiresOn),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysLeft < out[j].DaysLeft })
	return out
}

func classifyExpired(records []CanonicalRecord, today time.Time) []ExpiredRecord {
	var out []ExpiredRecord
	for _, r := range records {
		if !r.HasExpiry() || !r.ExpiresOn.Before(today) {
			continue
		}
		out = append(out, ExpiredRecord{
			Name:        r.Name,
			Area:        r.Area,
			ExpiresOn:   r.ExpiresOn,
			DaysOverdue: daysBetween(r.ExpiresOn, today),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysOverdue > out[j].DaysOverdue })
	return out
}

func buildPriorityReport(records []CanonicalRecord, today time.Time) PriorityReport {
	var rep PriorityReport
	for _, r := range records {
		if !r.HasExpiry() {
			continue
		}
		rep.TotalValid++
		switch TierFor(daysBetween(today, r.ExpiresOn)) {
		case TierExpired:
			rep.Expired++
		case TierUrgent:
			rep.Urgent++
		case TierHigh:
			rep.High++
		case TierMedium:
			rep.Medium++
		case TierLow:
			rep.Low++
		}
	}
	return rep
}
