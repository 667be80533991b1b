package emo

import (
	"math"
	"time"
)

// Default query horizons, in days.
const (
	DefaultReportWindow    = 30
	DefaultPriorityHorizon = 90
)

// Cache capacity per operation.
const (
	expiringCacheSize = 128
	expiredCacheSize  = 64
	priorityCacheSize = 32
)

// Manager owns an immutable canonical roster built once from raw input and
// serves classified views of it. Queries are memoized per argument set.
// The cache key does not include the current date: because queries sample
// the clock internally, cached results go stale when the wall-clock date
// advances. Call ClearCache across day boundaries.
//
// A Manager is single-goroutine; callers needing concurrent access must
// serialize it or build one Manager per worker.
type Manager struct {
	records      []CanonicalRecord
	duplicates   int
	invalidDates int

	now func() time.Time

	expiringCache *queryCache[int, []ClassifiedRecord]
	expiredCache  *queryCache[struct{}, []ExpiredRecord]
	priorityCache *queryCache[int, PriorityReport]
}

// NewManager validates and normalizes raw into the canonical roster.
// It returns a *ValidationError when required columns are missing, column
// lengths differ, or the table is empty.
func NewManager(raw RawTable) (*Manager, error) {
	records, duplicates, invalidDates, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	return &Manager{
		records:       records,
		duplicates:    duplicates,
		invalidDates:  invalidDates,
		now:           time.Now,
		expiringCache: newQueryCache[int, []ClassifiedRecord](expiringCacheSize),
		expiredCache:  newQueryCache[struct{}, []ExpiredRecord](expiredCacheSize),
		priorityCache: newQueryCache[int, PriorityReport](priorityCacheSize),
	}, nil
}

// today truncates the manager clock to a UTC date. Each query samples it
// exactly once so a single report is internally consistent.
func (m *Manager) today() time.Time {
	y, mo, d := m.now().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// ExpiringSoon returns every record with a valid date expiring between
// today and today+daysAhead inclusive, soonest first.
func (m *Manager) ExpiringSoon(daysAhead int) ([]ClassifiedRecord, error) {
	if daysAhead <= 0 {
		return nil, &InvalidArgumentError{Param: "daysAhead", Reason: "must be greater than 0"}
	}
	out := m.expiringCache.get(daysAhead, func() []ClassifiedRecord {
		return classifyWindow(m.records, m.today(), daysAhead)
	})
	return append([]ClassifiedRecord(nil), out...), nil
}

// Expired returns every record whose expiry date already passed, most
// overdue first.
func (m *Manager) Expired() []ExpiredRecord {
	out := m.expiredCache.get(struct{}{}, func() []ExpiredRecord {
		return classifyExpired(m.records, m.today())
	})
	return append([]ExpiredRecord(nil), out...)
}

// PriorityReport partitions every valid-date record into exactly one
// urgency tier. The tier boundaries are fixed; daysAhead participates only
// in the cache key, so distinct horizons are distinct cache entries.
func (m *Manager) PriorityReport(daysAhead int) PriorityReport {
	return m.priorityCache.get(daysAhead, func() PriorityReport {
		return buildPriorityReport(m.records, m.today())
	})
}

// QualityReport describes how much of the roster carried a parseable date.
type QualityReport struct {
	TotalRecords    int
	ValidDates      int
	InvalidDates    int
	ValidPercentage float64 // rounded to 2 decimals
}

// DataQuality reports date-parse quality over the canonical roster.
func (m *Manager) DataQuality() QualityReport {
	total := len(m.records)
	valid := total - m.invalidDates
	q := QualityReport{TotalRecords: total, ValidDates: valid, InvalidDates: m.invalidDates}
	if total > 0 {
		q.ValidPercentage = math.Round(float64(valid)/float64(total)*100*100) / 100
	}
	return q
}

// CacheStats reports hit/miss counters per cached operation.
type CacheStats struct {
	Expiring OpStats
	Expired  OpStats
	Priority OpStats
}

func (m *Manager) CacheStats() CacheStats {
	return CacheStats{
		Expiring: m.expiringCache.stats(),
		Expired:  m.expiredCache.stats(),
		Priority: m.priorityCache.stats(),
	}
}

// ClearCache evicts all cached query results and zeroes all counters.
func (m *Manager) ClearCache() {
	m.expiringCache.clear()
	m.expiredCache.clear()
	m.priorityCache.clear()
}

// Records returns a copy of the canonical roster in original order.
func (m *Manager) Records() []CanonicalRecord {
	return append([]CanonicalRecord(nil), m.records...)
}

// DuplicatesRemoved reports how many raw rows were dropped as duplicate
// (name, area) pairs during construction.
func (m *Manager) DuplicatesRemoved() int { return m.duplicates }
