package calendarrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/bazi/internal/domain/bazi"
	"github.com/yanqian/bazi/pkg/util"
)

// MemoryRepository keeps the calendar table in process memory. It backs the
// snapshot and object store drivers and the tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]bazi.CalendarRecord
	dates   []string
}

// NewMemoryRepository constructs a repository seeded with records.
func NewMemoryRepository(records ...bazi.CalendarRecord) *MemoryRepository {
	repo := &MemoryRepository{records: make(map[string]bazi.CalendarRecord, len(records))}
	repo.Put(records...)
	return repo
}

// Put inserts or replaces records by date. Records whose date cannot be
// read are skipped.
func (r *MemoryRepository) Put(records ...bazi.CalendarRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		key, err := util.NormalizeDate(rec.Date)
		if err != nil {
			continue
		}
		rec.Date = key
		if _, exists := r.records[key]; !exists {
			r.dates = append(r.dates, key)
		}
		r.records[key] = rec
	}
	sort.Strings(r.dates)
}

// Len reports how many dates are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Lookup implements bazi.CalendarLookup.
func (r *MemoryRepository) Lookup(_ context.Context, date time.Time) (bazi.CalendarRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[bazi.DateKey(date)]
	return rec, ok, nil
}

// LatestSolarTerm implements bazi.SolarTermLocator.
func (r *MemoryRepository) LatestSolarTerm(_ context.Context, date time.Time) (string, bool, error) {
	key := bazi.DateKey(date)
	r.mu.RLock()
	defer r.mu.RUnlock()
	// dates are ISO formatted, so lexical order is chronological.
	i := sort.Search(len(r.dates), func(i int) bool { return r.dates[i] > key })
	for i--; i >= 0; i-- {
		if term := strings.TrimSpace(r.records[r.dates[i]].SolarTerm); term != "" {
			return term, true, nil
		}
	}
	return "", false, nil
}

var (
	_ bazi.CalendarLookup   = (*MemoryRepository)(nil)
	_ bazi.SolarTermLocator = (*MemoryRepository)(nil)
)
