package service

import (
	"context"
	"encoding/json"
	"time"

	"detailbay/pkg/config"
	apperrors "detailbay/pkg/errors"
	"detailbay/pkg/model"
	"detailbay/pkg/timegrid"

	"github.com/redis/go-redis/v9"
)

// BookedTimesFinder reports the start times already held by live bookings
// on a given day.
type BookedTimesFinder interface {
	LiveTimesByDate(ctx context.Context, date string) ([]string, error)
}

// BlockedTimeFinder reports the admin exclusions overlapping a given day.
type BlockedTimeFinder interface {
	FindByDate(ctx context.Context, date string) ([]*model.BlockedTime, error)
}

type AvailabilityService interface {
	GetDay(ctx context.Context, date string) (*model.DayAvailability, error)
	InvalidateDay(ctx context.Context, date string)
	InvalidateAll(ctx context.Context)
}

type availabilityService struct {
	bookings BookedTimesFinder
	blocked  BlockedTimeFinder
	cache    *redis.Client
	cfg      *config.Config
}

func NewAvailabilityService(
	bookings BookedTimesFinder,
	blocked BlockedTimeFinder,
	cache *redis.Client,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		bookings: bookings,
		blocked:  blocked,
		cache:    cache,
		cfg:      cfg,
	}
}

const cacheKeyPrefix = "avail:"

// GetDay builds the slot grid for a day. A slot is available unless a live
// booking holds it or an admin exclusion covers it. The grid itself is
// fixed by business hours, so a day with every slot taken still returns
// the full grid with is_available false throughout.
func (s *availabilityService) GetDay(ctx context.Context, date string) (*model.DayAvailability, error) {
	if !timegrid.ValidDate(date) {
		return nil, apperrors.Validation("Date must be in YYYY-MM-DD format", map[string]any{
			"date": date,
		})
	}

	if cached := s.readCache(ctx, date); cached != nil {
		return cached, nil
	}

	starts, err := timegrid.Generate(s.cfg.OpeningTime, s.cfg.ClosingTime, s.cfg.SlotIntervalMin)
	if err != nil {
		return nil, apperrors.Internal("Failed to build slot grid", err)
	}

	taken, err := s.bookings.LiveTimesByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booked slots", err)
	}

	takenSet := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		takenSet[t] = struct{}{}
	}

	blocks, err := s.blocked.FindByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to load blocked times", err)
	}

	day := &model.DayAvailability{
		Date:  date,
		Slots: make([]model.DaySlot, 0, len(starts)),
	}

	for _, start := range starts {
		_, booked := takenSet[start]
		day.Slots = append(day.Slots, model.DaySlot{
			StartTime:   start,
			IsAvailable: !booked && !s.slotBlocked(start, blocks),
		})
	}

	s.writeCache(ctx, date, day)
	return day, nil
}

func (s *availabilityService) slotBlocked(start string, blocks []*model.BlockedTime) bool {
	end, err := timegrid.AddMinutes(start, s.cfg.SlotIntervalMin)
	if err != nil {
		return false
	}

	for _, block := range blocks {
		if block.IsFullDay {
			return true
		}
		if timegrid.Overlaps(start, end, block.StartTime, block.EndTime) {
			return true
		}
	}
	return false
}

// InvalidateDay drops the cached grid for a day. Callers fire it after any
// write that changes the day's slots; a miss on the next read rebuilds it.
func (s *availabilityService) InvalidateDay(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.cache.Del(ctx, cacheKeyPrefix+date).Err(); err != nil {
		s.cfg.Log.Warn("Failed to invalidate availability cache",
			"date", date,
			"error", err,
		)
	}
}

// InvalidateAll drops every cached day. Used when an undated recurring
// block changes, since it touches every date.
func (s *availabilityService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	iter := s.cache.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.cfg.Log.Warn("Failed to drop availability cache key", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		s.cfg.Log.Warn("Availability cache scan failed", "error", err)
	}
}

func (s *availabilityService) readCache(ctx context.Context, date string) *model.DayAvailability {
	if s.cache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	raw, err := s.cache.Get(ctx, cacheKeyPrefix+date).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.cfg.Log.Warn("Availability cache read failed", "date", date, "error", err)
		}
		return nil
	}

	var day model.DayAvailability
	if err := json.Unmarshal(raw, &day); err != nil {
		s.cfg.Log.Warn("Discarding corrupt availability cache entry", "date", date, "error", err)
		return nil
	}
	return &day
}

func (s *availabilityService) writeCache(ctx context.Context, date string, day *model.DayAvailability) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(day)
	if err != nil {
		s.cfg.Log.Warn("Failed to marshal availability for cache", "date", date, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.cache.Set(ctx, cacheKeyPrefix+date, raw, s.cfg.AvailabilityCacheTTL).Err(); err != nil {
		s.cfg.Log.Warn("Availability cache write failed", "date", date, "error", err)
	}
}
