package service

import (
	"context"
	"errors"
	"sync"

	blockederrors "detailbay/internal/blockedtimes/errors"
	"detailbay/internal/blockedtimes/repository"
	"detailbay/internal/blockedtimes/validator"
	"detailbay/pkg/auth"
	"detailbay/pkg/config"
	apperrors "detailbay/pkg/errors"
	"detailbay/pkg/model"
	"detailbay/pkg/sanitizer"
	"detailbay/pkg/timegrid"
)

// AvailabilityInvalidator drops cached availability for a day after a write
// that changes it.
type AvailabilityInvalidator interface {
	InvalidateDay(ctx context.Context, date string)
	InvalidateAll(ctx context.Context)
}

type BlockedTimeService interface {
	Create(ctx context.Context, principal auth.Principal, block *model.BlockedTime) error
	GetByID(ctx context.Context, id string) (*model.BlockedTime, error)
	GetByDate(ctx context.Context, date string) ([]*model.BlockedTime, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.BlockedTime, int64, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
}

type blockedTimeService struct {
	repo        repository.BlockedTimeRepository
	invalidator AvailabilityInvalidator
	validator   *validator.BlockedTimeValidator
	cfg         *config.Config
}

func NewBlockedTimeService(
	repo repository.BlockedTimeRepository,
	invalidator AvailabilityInvalidator,
	cfg *config.Config,
) BlockedTimeService {
	return &blockedTimeService{
		repo:        repo,
		invalidator: invalidator,
		validator:   validator.NewBlockedTimeValidator(cfg.Log),
		cfg:         cfg,
	}
}

func (s *blockedTimeService) Create(ctx context.Context, principal auth.Principal, block *model.BlockedTime) error {
	block.Reason = sanitizer.NormalizeNotes(block.Reason)
	if block.IsFullDay {
		block.StartTime = ""
		block.EndTime = ""
	}

	if err := s.validator.Validate(block); err != nil {
		return apperrors.Validation("Blocked time validation failed", map[string]any{
			"details": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, block); err != nil {
		return apperrors.Internal("Failed to create blocked time", err)
	}

	s.cfg.Log.Info("Blocked time created",
		"id", block.ID,
		"date", block.Date,
		"full_day", block.IsFullDay,
		"admin_id", principal.AdminID,
	)

	s.invalidateFor(ctx, block.Date)
	return nil
}

func (s *blockedTimeService) GetByID(ctx context.Context, id string) (*model.BlockedTime, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Blocked time ID cannot be empty")
	}

	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return block, nil
}

func (s *blockedTimeService) GetByDate(ctx context.Context, date string) ([]*model.BlockedTime, error) {
	if !timegrid.ValidDate(date) {
		return nil, apperrors.Validation("Date must be in YYYY-MM-DD format", map[string]any{
			"date": date,
		})
	}

	blocks, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch blocked times", err)
	}
	return blocks, nil
}

func (s *blockedTimeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.BlockedTime, int64, error) {
	var wg sync.WaitGroup
	var blocks []*model.BlockedTime
	var count int64
	var findErr, countErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		blocks, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	wg.Wait()

	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count blocked times", countErr)
	}
	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to fetch blocked times", findErr)
	}

	return blocks, count, nil
}

func (s *blockedTimeService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Blocked time ID cannot be empty")
	}

	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLookupError(err, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(err, id)
	}

	s.cfg.Log.Info("Blocked time deleted",
		"id", id,
		"date", block.Date,
		"admin_id", principal.AdminID,
	)

	s.invalidateFor(ctx, block.Date)
	return nil
}

// invalidateFor drops the cached day, or every day for an undated block.
func (s *blockedTimeService) invalidateFor(ctx context.Context, date string) {
	if date == "" {
		s.invalidator.InvalidateAll(ctx)
		return
	}
	s.invalidator.InvalidateDay(ctx, date)
}

func (s *blockedTimeService) mapLookupError(err error, id string) error {
	switch {
	case errors.Is(err, blockederrors.ErrNotFound):
		return apperrors.NotFoundWithID("BlockedTime", id)
	case errors.Is(err, blockederrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid blocked time ID format")
	default:
		return apperrors.Internal("Failed to fetch blocked time", err)
	}
}
