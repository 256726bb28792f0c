package bazi

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/bazi/pkg/errors"
	"github.com/yanqian/bazi/pkg/metrics"
)

// Request is the payload accepted by the profile service.
type Request struct {
	BirthTime string   `json:"birthTime"`
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

// BatchResult is the outcome of one batch item. Exactly one of Profile and Err is set.
type BatchResult struct {
	ID      string   `json:"id"`
	Index   int      `json:"index"`
	Profile *Profile `json:"profile,omitempty"`
	Err     error    `json:"-"`
}

// Config wires runtime settings for the profile domain.
type Config struct {
	StrongThreshold float64
	Years           YearRange
	BatchWorkers    int
	CacheTTL        time.Duration
}

// ProfileCache stores computed profiles keyed by their canonical input.
type ProfileCache interface {
	Get(ctx context.Context, key string) (Profile, bool, error)
	Set(ctx context.Context, key string, profile Profile, ttl time.Duration) error
}

// Service exposes Four Pillars profile computation.
type Service interface {
	Compute(ctx context.Context, req Request) (Profile, error)
	ComputeBatch(ctx context.Context, reqs []Request) []BatchResult
	Calendar(ctx context.Context, date string) (CalendarRecord, bool, error)
}

type service struct {
	cfg      Config
	calendar CalendarLookup
	cache    ProfileCache
	stats    *metrics.ResolutionStats
	logger   *slog.Logger
	newID    func() string
}

// NewService wires up the profile domain. cache and stats may be nil.
func NewService(cfg Config, calendar CalendarLookup, cache ProfileCache, stats *metrics.ResolutionStats, logger *slog.Logger) Service {
	if cfg.StrongThreshold <= 0.5 || cfg.StrongThreshold >= 1 {
		cfg.StrongThreshold = DefaultStrongThreshold
	}
	cfg.Years = cfg.Years.Clamp()
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 4
	}
	if calendar == nil {
		calendar = NoCalendar
	}
	return &service{
		cfg:      cfg,
		calendar: calendar,
		cache:    cache,
		stats:    stats,
		logger:   logger.With("component", "bazi.service"),
		newID:    func() string { return uuid.NewString() },
	}
}

func (s *service) Compute(ctx context.Context, req Request) (Profile, error) {
	moment, err := s.momentFor(req)
	if err != nil {
		s.stats.RecordFailure()
		s.logger.Debug("bazi profile request rejected", "code", apperrors.CodeOf(err), "error", err)
		return Profile{}, err
	}

	key := s.cacheKey(moment)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("bazi profile cache lookup failed", "key", key, "error", err)
		case ok:
			s.stats.RecordCache(true)
			s.logger.Debug("bazi profile served from cache", "key", key)
			return cached, nil
		default:
			s.stats.RecordCache(false)
		}
	}

	profile, res := ComputeProfile(ctx, moment, s.calendar, s.cfg.StrongThreshold)
	for _, warning := range res.Warnings {
		s.logger.Warn("bazi calendar data gap", "birthTime", profile.BirthTime, "detail", warning)
	}
	climateApplied := profile.Favorable.Climate != nil && profile.Favorable.Climate.Applied
	s.stats.RecordProfile(res.Strategy == StrategyCalendar, len(res.Warnings), climateApplied)
	s.logger.Info("bazi profile computed",
		"birthTime", profile.BirthTime,
		"pillars", profile.FourPillars.String(),
		"strategy", res.Strategy,
		"classification", profile.Favorable.Classification,
		"score", profile.Score,
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, profile, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("bazi profile cache save failed", "key", key, "error", err)
		}
	}
	return profile, nil
}

// ComputeBatch evaluates requests on a bounded worker pool. A failing item
// records its error and never cancels its siblings.
func (s *service) ComputeBatch(ctx context.Context, reqs []Request) []BatchResult {
	results := make([]BatchResult, len(reqs))
	var g errgroup.Group
	g.SetLimit(s.cfg.BatchWorkers)
	for i, req := range reqs {
		results[i] = BatchResult{ID: s.newID(), Index: i}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = apperrors.Wrap(CodeCanceled, "batch canceled", err)
				return nil
			}
			profile, err := s.Compute(ctx, req)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Profile = &profile
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("bazi batch computed", "items", len(reqs), "failed", failed)
	return results
}

func (s *service) Calendar(ctx context.Context, date string) (CalendarRecord, bool, error) {
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return CalendarRecord{}, false, apperrors.Wrap(CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}
	record, found, err := s.calendar.Lookup(ctx, day)
	if err != nil {
		return CalendarRecord{}, false, apperrors.Wrap(CodeCalendarError, "calendar lookup failed", err)
	}
	return record, found, nil
}

func (s *service) momentFor(req Request) (BirthMoment, error) {
	if req.Longitude == nil {
		return BirthMoment{}, invalidInput("longitude is required")
	}
	if req.Latitude == nil {
		return BirthMoment{}, invalidInput("latitude is required")
	}
	return ParseBirthMoment(req.BirthTime, *req.Longitude, *req.Latitude, s.cfg.Years)
}

func (s *service) cacheKey(moment BirthMoment) string {
	return profileCacheKey(moment, s.cfg.StrongThreshold)
}

// profileCacheKey spells the threshold exactly so distinct thresholds never share entries.
func profileCacheKey(moment BirthMoment, threshold float64) string {
	return "bazi:profile:v1:" + moment.Key() + "|" + strconv.FormatFloat(threshold, 'g', -1, 64)
}
