package service

import (
	"context"
	"sync"
	"testing"
	"time"

	blockederrors "detailbay/internal/blockedtimes/errors"
	"detailbay/internal/blockedtimes/validator"
	"detailbay/pkg/auth"
	"detailbay/pkg/config"
	apperrors "detailbay/pkg/errors"
	"detailbay/pkg/logger"
	"detailbay/pkg/model"
)

type mockBlockedTimeRepository struct {
	createFunc     func(ctx context.Context, block *model.BlockedTime) error
	findByIDFunc   func(ctx context.Context, id string) (*model.BlockedTime, error)
	findByDateFunc func(ctx context.Context, date string) ([]*model.BlockedTime, error)
	findAllFunc    func(ctx context.Context, limit int, offset int64) ([]*model.BlockedTime, error)
	countFunc      func(ctx context.Context) (int64, error)
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockBlockedTimeRepository) Create(ctx context.Context, block *model.BlockedTime) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, block)
	}
	block.ID = "65f000000000000000000001"
	return nil
}

func (m *mockBlockedTimeRepository) FindByID(ctx context.Context, id string) (*model.BlockedTime, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, blockederrors.ErrNotFound
}

func (m *mockBlockedTimeRepository) FindByDate(ctx context.Context, date string) ([]*model.BlockedTime, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, date)
	}
	return []*model.BlockedTime{}, nil
}

func (m *mockBlockedTimeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.BlockedTime, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.BlockedTime{}, nil
}

func (m *mockBlockedTimeRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBlockedTimeRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockInvalidator struct {
	mu         sync.Mutex
	dates      []string
	flushedAll bool
}

func (m *mockInvalidator) InvalidateDay(ctx context.Context, date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dates = append(m.dates, date)
}

func (m *mockInvalidator) InvalidateAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushedAll = true
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(t *testing.T, repo *mockBlockedTimeRepository) (*blockedTimeService, *mockInvalidator) {
	t.Helper()
	cfg := testConfig(t)
	invalidator := &mockInvalidator{}

	return &blockedTimeService{
		repo:        repo,
		invalidator: invalidator,
		validator:   validator.NewBlockedTimeValidator(cfg.Log),
		cfg:         cfg,
	}, invalidator
}

func adminPrincipal() auth.Principal {
	return auth.Principal{AdminID: "admin-1"}
}

func TestCreate_FullDay(t *testing.T) {
	repo := &mockBlockedTimeRepository{}
	svc, invalidator := newTestService(t, repo)

	block := &model.BlockedTime{
		Date:      "2026-09-15",
		IsFullDay: true,
		StartTime: "10:00", // must be ignored for a full-day block
		EndTime:   "11:00",
		Reason:    "  staff   training ",
	}

	if err := svc.Create(context.Background(), adminPrincipal(), block); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if block.StartTime != "" || block.EndTime != "" {
		t.Errorf("full-day block should drop times, got %q-%q", block.StartTime, block.EndTime)
	}
	if block.Reason != "staff training" {
		t.Errorf("expected normalized reason, got %q", block.Reason)
	}
	if len(invalidator.dates) != 1 || invalidator.dates[0] != "2026-09-15" {
		t.Errorf("expected cache invalidation for 2026-09-15, got %v", invalidator.dates)
	}
}

func TestCreate_PartialBlock(t *testing.T) {
	repo := &mockBlockedTimeRepository{}
	svc, _ := newTestService(t, repo)

	block := &model.BlockedTime{
		Date:      "2026-09-15",
		StartTime: "12:00",
		EndTime:   "13:00",
	}

	if err := svc.Create(context.Background(), adminPrincipal(), block); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		block *model.BlockedTime
	}{
		{"bad date format", &model.BlockedTime{Date: "09/15/2026", IsFullDay: true}},
		{"partial missing start", &model.BlockedTime{Date: "2026-09-15", EndTime: "13:00"}},
		{"partial missing end", &model.BlockedTime{Date: "2026-09-15", StartTime: "12:00"}},
		{"inverted range", &model.BlockedTime{Date: "2026-09-15", StartTime: "13:00", EndTime: "12:00"}},
		{"empty range", &model.BlockedTime{Date: "2026-09-15", StartTime: "12:00", EndTime: "12:00"}},
		{"bad time format", &model.BlockedTime{Date: "2026-09-15", StartTime: "noon", EndTime: "13:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBlockedTimeRepository{
				createFunc: func(ctx context.Context, block *model.BlockedTime) error {
					t.Error("repository must not be called for invalid input")
					return nil
				},
			}
			svc, _ := newTestService(t, repo)

			err := svc.Create(context.Background(), adminPrincipal(), tt.block)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestCreate_UndatedBlockFlushesAllDays(t *testing.T) {
	repo := &mockBlockedTimeRepository{}
	svc, invalidator := newTestService(t, repo)

	// A recurring daily block, e.g. lunch.
	block := &model.BlockedTime{
		StartTime: "12:00",
		EndTime:   "13:00",
	}

	if err := svc.Create(context.Background(), adminPrincipal(), block); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if !invalidator.flushedAll {
		t.Error("expected full cache flush for an undated block")
	}
	if len(invalidator.dates) != 0 {
		t.Errorf("expected no single-day invalidation, got %v", invalidator.dates)
	}
}

func TestDelete_InvalidatesCache(t *testing.T) {
	stored := &model.BlockedTime{
		ID:        "65f000000000000000000001",
		Date:      "2026-09-15",
		IsFullDay: true,
	}

	repo := &mockBlockedTimeRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BlockedTime, error) {
			return stored, nil
		},
	}
	svc, invalidator := newTestService(t, repo)

	if err := svc.Delete(context.Background(), adminPrincipal(), stored.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if len(invalidator.dates) != 1 || invalidator.dates[0] != stored.Date {
		t.Errorf("expected cache invalidation for %s, got %v", stored.Date, invalidator.dates)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockBlockedTimeRepository{}
	svc, invalidator := newTestService(t, repo)

	err := svc.Delete(context.Background(), adminPrincipal(), "65f000000000000000000001")
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if len(invalidator.dates) != 0 {
		t.Errorf("expected no cache invalidation on failure, got %v", invalidator.dates)
	}
}

func TestGetByDate_RejectsBadDate(t *testing.T) {
	repo := &mockBlockedTimeRepository{}
	svc, _ := newTestService(t, repo)

	_, err := svc.GetByDate(context.Background(), "2026/09/15")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestGetAll_Paginates(t *testing.T) {
	var gotLimit int
	var gotOffset int64

	repo := &mockBlockedTimeRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			return 7, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.BlockedTime, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.BlockedTime{{ID: "65f000000000000000000001"}}, nil
		},
	}
	svc, _ := newTestService(t, repo)

	blocks, count, err := svc.GetAll(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("GetAll() error: %v", err)
	}
	if count != 7 {
		t.Errorf("expected count 7, got %d", count)
	}
	if len(blocks) != 1 {
		t.Errorf("expected 1 block, got %d", len(blocks))
	}
	if gotLimit != 5 || gotOffset != 10 {
		t.Errorf("expected limit=5 offset=10 passed through, got %d/%d", gotLimit, gotOffset)
	}
}
