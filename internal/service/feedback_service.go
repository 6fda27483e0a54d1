package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/realtime"
)

// --- Error Definitions ---
var (
	ErrInvalidCategory = errors.New("feedback category must be Good, Average or Poor")
	ErrIdentityEmpty   = errors.New("identity is required to submit feedback")
)

// FeedbackStats is the audit-derived view of all submissions.
type FeedbackStats struct {
	Good    int64 `json:"good"`
	Average int64 `json:"average"`
	Poor    int64 `json:"poor"`
	Total   int64 `json:"total"`
}

// --- Service Interface ---
type FeedbackService interface {
	// Submit records one feedback for the identity, returning the updated
	// aggregate counts and how many submissions the identity has left
	// today. Returns realtime.ErrQuotaExceeded with counters unchanged
	// once the daily quota is used up.
	Submit(ctx context.Context, identity string, category domain.FeedbackCategory) (domain.FeedbackCounts, int, error)
	Counts() domain.FeedbackCounts
	Stats() FeedbackStats
}

// --- Service Implementation ---

// feedbackService serializes every counter mutation behind a single mutex:
// the quota check, the per-identity daily increment, the aggregate
// increment and the audit append form one critical section, so two
// concurrent submissions at the quota boundary can never both succeed.
type feedbackService struct {
	bus        realtime.Broadcaster
	dailyQuota int

	mu      sync.Mutex
	counts  domain.FeedbackCounts
	daily   map[string]int // (identity, calendar day) -> submissions today
	day     string         // UTC day the daily map covers
	entries []domain.FeedbackEntry

	now func() time.Time // injectable clock for day-rollover tests
}

// NewFeedbackService creates a new instance of feedbackService.
func NewFeedbackService(bus realtime.Broadcaster, dailyQuota int) FeedbackService {
	if dailyQuota <= 0 {
		dailyQuota = 3
	}
	return &feedbackService{
		bus:        bus,
		dailyQuota: dailyQuota,
		daily:      make(map[string]int),
		now:        time.Now,
	}
}

// dayKey resets the quota implicitly when the UTC date advances.
func dayKey(identity string, t time.Time) string {
	return identity + "_" + t.UTC().Format("2006-01-02")
}

// Submit implements the check-then-increment sequence as one critical section.
func (s *feedbackService) Submit(ctx context.Context, identity string, category domain.FeedbackCategory) (domain.FeedbackCounts, int, error) {
	if identity == "" {
		return domain.FeedbackCounts{}, 0, ErrIdentityEmpty
	}
	if !domain.ValidFeedbackCategory(category) {
		return domain.FeedbackCounts{}, 0, ErrInvalidCategory
	}

	s.mu.Lock()

	now := s.now()
	today := now.UTC().Format("2006-01-02")
	if s.day != today {
		// Every key in the map belongs to s.day, so a date change makes
		// them all stale at once; drop them instead of growing forever.
		s.daily = make(map[string]int)
		s.day = today
	}
	key := dayKey(identity, now)
	used := s.daily[key]
	if used >= s.dailyQuota {
		counts := s.counts
		s.mu.Unlock()
		return counts, 0, realtime.ErrQuotaExceeded
	}

	s.daily[key] = used + 1
	switch category {
	case domain.FeedbackGood:
		s.counts.Good++
	case domain.FeedbackAverage:
		s.counts.Average++
	case domain.FeedbackPoor:
		s.counts.Poor++
	}
	s.entries = append(s.entries, domain.FeedbackEntry{
		Username:  identity,
		Category:  category,
		CreatedAt: now.UTC(),
	})

	counts := s.counts
	remaining := s.dailyQuota - (used + 1)
	s.mu.Unlock()

	s.bus.Broadcast(realtime.EventCountsUpdated, realtime.CountsUpdatedPayload{Counts: counts})

	return counts, remaining, nil
}

// Counts returns the current aggregate counters.
func (s *feedbackService) Counts() domain.FeedbackCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts
}

// Stats recomputes totals from the audit entries, like the /stats endpoint.
func (s *feedbackService) Stats() FeedbackStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats FeedbackStats
	for _, e := range s.entries {
		switch e.Category {
		case domain.FeedbackGood:
			stats.Good++
		case domain.FeedbackAverage:
			stats.Average++
		case domain.FeedbackPoor:
			stats.Poor++
		}
	}
	stats.Total = stats.Good + stats.Average + stats.Poor
	return stats
}
