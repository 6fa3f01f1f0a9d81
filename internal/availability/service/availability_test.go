package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"detailbay/pkg/config"
	apperrors "detailbay/pkg/errors"
	"detailbay/pkg/logger"
	"detailbay/pkg/model"
)

type mockBookedTimesFinder struct {
	liveTimesFunc func(ctx context.Context, date string) ([]string, error)
}

func (m *mockBookedTimesFinder) LiveTimesByDate(ctx context.Context, date string) ([]string, error) {
	if m.liveTimesFunc != nil {
		return m.liveTimesFunc(ctx, date)
	}
	return nil, nil
}

type mockBlockedTimeFinder struct {
	findByDateFunc func(ctx context.Context, date string) ([]*model.BlockedTime, error)
}

func (m *mockBlockedTimeFinder) FindByDate(ctx context.Context, date string) ([]*model.BlockedTime, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, date)
	}
	return nil, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	return &config.Config{
		Log:                  log,
		OpeningTime:          "09:00",
		ClosingTime:          "17:00",
		SlotIntervalMin:      30,
		AvailabilityCacheTTL: time.Minute,
	}
}

func newTestService(bookings *mockBookedTimesFinder, blocked *mockBlockedTimeFinder, cfg *config.Config) *availabilityService {
	return &availabilityService{
		bookings: bookings,
		blocked:  blocked,
		cache:    nil,
		cfg:      cfg,
	}
}

func TestGetDay_FullGrid(t *testing.T) {
	svc := newTestService(&mockBookedTimesFinder{}, &mockBlockedTimeFinder{}, testConfig(t))

	day, err := svc.GetDay(context.Background(), "2026-09-15")
	if err != nil {
		t.Fatalf("GetDay() error: %v", err)
	}

	if len(day.Slots) != 17 {
		t.Fatalf("expected 17 slots for 09:00-17:00 at 30min, got %d", len(day.Slots))
	}

	if day.Slots[0].StartTime != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", day.Slots[0].StartTime)
	}
	if day.Slots[16].StartTime != "17:00" {
		t.Errorf("expected last slot 17:00, got %s", day.Slots[16].StartTime)
	}

	for _, slot := range day.Slots {
		if !slot.IsAvailable {
			t.Errorf("expected all slots available on an empty day, %s is not", slot.StartTime)
		}
	}
}

func TestGetDay_BookedSlotsUnavailable(t *testing.T) {
	bookings := &mockBookedTimesFinder{
		liveTimesFunc: func(ctx context.Context, date string) ([]string, error) {
			return []string{"10:00", "14:30"}, nil
		},
	}
	svc := newTestService(bookings, &mockBlockedTimeFinder{}, testConfig(t))

	day, err := svc.GetDay(context.Background(), "2026-09-15")
	if err != nil {
		t.Fatalf("GetDay() error: %v", err)
	}

	unavailable := map[string]bool{}
	for _, slot := range day.Slots {
		if !slot.IsAvailable {
			unavailable[slot.StartTime] = true
		}
	}

	if len(unavailable) != 2 || !unavailable["10:00"] || !unavailable["14:30"] {
		t.Errorf("expected exactly 10:00 and 14:30 unavailable, got %v", unavailable)
	}
}

func TestGetDay_FullDayBlock(t *testing.T) {
	blocked := &mockBlockedTimeFinder{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.BlockedTime, error) {
			return []*model.BlockedTime{{Date: date, IsFullDay: true, Reason: "maintenance"}}, nil
		},
	}
	svc := newTestService(&mockBookedTimesFinder{}, blocked, testConfig(t))

	day, err := svc.GetDay(context.Background(), "2026-09-15")
	if err != nil {
		t.Fatalf("GetDay() error: %v", err)
	}

	if len(day.Slots) != 17 {
		t.Fatalf("full-day block must not shrink the grid, got %d slots", len(day.Slots))
	}
	for _, slot := range day.Slots {
		if slot.IsAvailable {
			t.Errorf("expected %s unavailable on a fully blocked day", slot.StartTime)
		}
	}
}

func TestGetDay_PartialBlock(t *testing.T) {
	blocked := &mockBlockedTimeFinder{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.BlockedTime, error) {
			return []*model.BlockedTime{{Date: date, StartTime: "12:00", EndTime: "13:00"}}, nil
		},
	}
	svc := newTestService(&mockBookedTimesFinder{}, blocked, testConfig(t))

	day, err := svc.GetDay(context.Background(), "2026-09-15")
	if err != nil {
		t.Fatalf("GetDay() error: %v", err)
	}

	for _, slot := range day.Slots {
		blockedSlot := slot.StartTime == "12:00" || slot.StartTime == "12:30"
		if blockedSlot && slot.IsAvailable {
			t.Errorf("expected %s unavailable inside 12:00-13:00 block", slot.StartTime)
		}
		if !blockedSlot && !slot.IsAvailable {
			t.Errorf("expected %s available outside 12:00-13:00 block", slot.StartTime)
		}
	}
}

func TestGetDay_BlockEdgeDoesNotSpill(t *testing.T) {
	// A block ending at 13:00 must not touch the 13:00 slot; ranges are
	// half-open on both sides.
	blocked := &mockBlockedTimeFinder{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.BlockedTime, error) {
			return []*model.BlockedTime{{Date: date, StartTime: "12:30", EndTime: "13:00"}}, nil
		},
	}
	svc := newTestService(&mockBookedTimesFinder{}, blocked, testConfig(t))

	day, err := svc.GetDay(context.Background(), "2026-09-15")
	if err != nil {
		t.Fatalf("GetDay() error: %v", err)
	}

	for _, slot := range day.Slots {
		switch slot.StartTime {
		case "12:30":
			if slot.IsAvailable {
				t.Error("expected 12:30 unavailable")
			}
		case "13:00":
			if !slot.IsAvailable {
				t.Error("expected 13:00 available when block ends at 13:00")
			}
		}
	}
}

func TestGetDay_MidSlotBlockCoversStraddledSlot(t *testing.T) {
	// A block that starts mid-slot still makes that slot unusable: the bay
	// is occupied before the work could finish. 11:45-12:15 takes out both
	// the 11:30 and the 12:00 slots.
	blocked := &mockBlockedTimeFinder{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.BlockedTime, error) {
			return []*model.BlockedTime{{Date: date, StartTime: "11:45", EndTime: "12:15"}}, nil
		},
	}
	svc := newTestService(&mockBookedTimesFinder{}, blocked, testConfig(t))

	day, err := svc.GetDay(context.Background(), "2026-09-15")
	if err != nil {
		t.Fatalf("GetDay() error: %v", err)
	}

	for _, slot := range day.Slots {
		switch slot.StartTime {
		case "11:30", "12:00":
			if slot.IsAvailable {
				t.Errorf("expected %s unavailable under 11:45-12:15 block", slot.StartTime)
			}
		case "11:00", "12:30":
			if !slot.IsAvailable {
				t.Errorf("expected %s available under 11:45-12:15 block", slot.StartTime)
			}
		}
	}
}

func TestGetDay_RejectsBadDate(t *testing.T) {
	svc := newTestService(&mockBookedTimesFinder{}, &mockBlockedTimeFinder{}, testConfig(t))

	tests := []string{"", "15-09-2026", "2026/09/15", "2026-02-30", "tomorrow"}
	for _, date := range tests {
		_, err := svc.GetDay(context.Background(), date)
		if err == nil {
			t.Errorf("expected validation error for %q", date)
			continue
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
			t.Errorf("expected VALIDATION_ERROR for %q, got %v", date, err)
		}
	}
}

func TestGetDay_RepositoryFailure(t *testing.T) {
	bookings := &mockBookedTimesFinder{
		liveTimesFunc: func(ctx context.Context, date string) ([]string, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestService(bookings, &mockBlockedTimeFinder{}, testConfig(t))

	_, err := svc.GetDay(context.Background(), "2026-09-15")
	if err == nil {
		t.Fatal("expected error when booking lookup fails")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestInvalidate_NilCacheIsNoop(t *testing.T) {
	svc := newTestService(&mockBookedTimesFinder{}, &mockBlockedTimeFinder{}, testConfig(t))
	svc.InvalidateDay(context.Background(), "2026-09-15")
	svc.InvalidateAll(context.Background())
}
