package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "detailbay/internal/bookings/errors"
	"detailbay/internal/bookings/repository"
	"detailbay/internal/bookings/validator"
	timeslotrepo "detailbay/internal/timeslots/repository"
	"detailbay/pkg/auth"
	"detailbay/pkg/config"
	apperrors "detailbay/pkg/errors"
	"detailbay/pkg/model"
	"detailbay/pkg/sanitizer"
	"detailbay/pkg/timegrid"

	"go.mongodb.org/mongo-driver/mongo"
)

// PriceQuoter computes the authoritative total for a booking. The
// client-supplied total is advisory only.
type PriceQuoter interface {
	Quote(ctx context.Context, subPackageID, vehicleType string, addOnIDs []string) (int64, error)
}

// BlockedTimeFinder exposes the day's blocked ranges to the booking path.
type BlockedTimeFinder interface {
	FindByDate(ctx context.Context, date string) ([]*model.BlockedTime, error)
}

// EventPublisher emits booking lifecycle events after commits. Publish
// failures are logged and never roll back the booking.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error
}

// AvailabilityInvalidator drops cached availability for a day after any
// write that changes the taken set.
type AvailabilityInvalidator interface {
	InvalidateDay(ctx context.Context, date string)
}

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByDate(ctx context.Context, date string, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, principal auth.Principal, id string, updates *model.BookingUpdate) error
	UpdateStatus(ctx context.Context, principal auth.Principal, id string, status string) error
	Cancel(ctx context.Context, id string) error
}

type bookingService struct {
	repo        repository.BookingRepository
	lockRepo    repository.BookingLockRepository
	slotRepo    timeslotrepo.TimeSlotRepository
	blockedRepo BlockedTimeFinder
	quoter      PriceQuoter
	events      EventPublisher
	invalidator AvailabilityInvalidator
	validator   *validator.BookingValidator
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	slotRepo timeslotrepo.TimeSlotRepository,
	blockedRepo BlockedTimeFinder,
	quoter PriceQuoter,
	events EventPublisher,
	invalidator AvailabilityInvalidator,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		lockRepo:    lockRepo,
		slotRepo:    slotRepo,
		blockedRepo: blockedRepo,
		quoter:      quoter,
		events:      events,
		invalidator: invalidator,
		validator:   validator,
		cfg:         cfg,
	}
}

// Create runs the whole booking pipeline: sanitize, validate against the
// slot grid and blocked times, price the request server-side, then reserve
// the slot and insert the booking in one transaction. Of N concurrent
// attempts for the same slot exactly one succeeds; the rest get the slot
// conflict error.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.verifySlotInGrid(booking); err != nil {
		return err
	}

	if err := s.verifyNotBlocked(ctx, booking); err != nil {
		return err
	}

	if err := s.priceBooking(ctx, booking); err != nil {
		return err
	}

	lockID, err := s.acquireSlotLock(ctx, booking.Date, booking.Time)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySlotFree(sessCtx, booking.Date, booking.Time); err != nil {
			return err
		}

		endTime, err := timegrid.AddMinutes(booking.Time, s.cfg.SlotIntervalMin)
		if err != nil {
			return apperrors.Internal("Failed to derive slot end time", err)
		}

		slot, err := s.slotRepo.Reserve(sessCtx, booking.Date, booking.Time, endTime)
		if err != nil {
			return apperrors.Internal("Failed to reserve time slot", err)
		}
		booking.TimeSlotID = slot.ID

		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrSlotTaken) {
				return apperrors.SlotUnavailable(booking.Date, booking.Time)
			}
			return apperrors.Internal("Failed to create booking", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"date", booking.Date,
			"time", booking.Time,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.Date,
		"time", booking.Time,
		"vehicle_type", booking.VehicleType,
		"total_price_cents", booking.TotalPrice,
	)

	s.afterWrite(ctx, EventBookingCreated, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByDate(ctx context.Context, date string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if !timegrid.ValidDate(date) {
		return nil, 0, apperrors.InvalidInput("date must be a calendar date in YYYY-MM-DD format")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByDate(ctx, date)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by date", "date", date, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByDate(ctx, date, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings by date", "date", date, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, principal auth.Principal, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if updates.Status != "" && updates.Status != existing.Status {
		if !model.CanTransition(existing.Status, updates.Status) {
			return apperrors.InvalidTransition(existing.Status, updates.Status)
		}
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated", "id", id, "admin_id", principal.AdminID)

	if updates.Status != "" && updates.Status != existing.Status {
		s.afterStatusChange(ctx, merged, updates.Status)
	}
	return nil
}

// UpdateStatus moves a booking along the lifecycle graph. Illegal
// transitions, including any move out of a terminal status, are rejected.
func (s *bookingService) UpdateStatus(ctx context.Context, principal auth.Principal, id string, status string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if !model.IsValidStatus(status) {
		return apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", status))
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLookupError(err, id)
	}

	if status == booking.Status {
		return nil
	}

	if !model.CanTransition(booking.Status, status) {
		return apperrors.InvalidTransition(booking.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", booking.Status,
		"to", status,
		"admin_id", principal.AdminID,
	)

	booking.Status = status
	s.afterStatusChange(ctx, booking, status)
	return nil
}

// Cancel is the customer-facing path. Cancelling frees the slot: the
// booking drops out of the live set, so availability and the partial unique
// index stop counting it.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLookupError(err, id)
	}

	if booking.Status == model.StatusCancelled {
		return nil
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return apperrors.InvalidTransition(booking.Status, model.StatusCancelled)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "date", booking.Date, "time", booking.Time)

	booking.Status = model.StatusCancelled
	s.afterStatusChange(ctx, booking, model.StatusCancelled)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.CustomerEmail = sanitizer.NormalizeEmail(b.CustomerEmail)
	b.CustomerPhone = sanitizer.NormalizePhone(b.CustomerPhone)
	b.Notes = sanitizer.NormalizeNotes(b.Notes)
	b.AddOnIDs = sanitizer.NormalizeStringSlice(b.AddOnIDs)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.CustomerName != "" {
		merged.CustomerName = updates.CustomerName
	}
	if updates.CustomerEmail != "" {
		merged.CustomerEmail = updates.CustomerEmail
	}
	if updates.CustomerPhone != "" {
		merged.CustomerPhone = updates.CustomerPhone
	}
	if updates.Notes != "" {
		merged.Notes = updates.Notes
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifySlotInGrid rejects times outside the operating window or off the
// slot boundary, and dates already in the past.
func (s *bookingService) verifySlotInGrid(booking *model.Booking) error {
	today := time.Now().Format(timegrid.DateLayout)
	if booking.Date < today {
		return apperrors.Validation("Booking date is in the past", map[string]any{
			"date": booking.Date,
		})
	}

	slots, err := timegrid.Generate(s.cfg.OpeningTime, s.cfg.ClosingTime, s.cfg.SlotIntervalMin)
	if err != nil {
		return apperrors.Internal("Failed to build slot grid", err)
	}

	for _, slot := range slots {
		if slot == booking.Time {
			return nil
		}
	}

	return apperrors.Validation("Requested time is not a bookable slot", map[string]any{
		"time":    booking.Time,
		"opening": s.cfg.OpeningTime,
		"closing": s.cfg.ClosingTime,
	})
}

func (s *bookingService) verifyNotBlocked(ctx context.Context, booking *model.Booking) error {
	blocks, err := s.blockedRepo.FindByDate(ctx, booking.Date)
	if err != nil {
		return apperrors.Internal("Failed to check blocked times", err)
	}

	slotEnd, err := timegrid.AddMinutes(booking.Time, s.cfg.SlotIntervalMin)
	if err != nil {
		return apperrors.Internal("Failed to derive slot end time", err)
	}

	for _, block := range blocks {
		if block.IsFullDay {
			return apperrors.SlotUnavailable(booking.Date, booking.Time)
		}
		if timegrid.Overlaps(booking.Time, slotEnd, block.StartTime, block.EndTime) {
			return apperrors.SlotUnavailable(booking.Date, booking.Time)
		}
	}

	return nil
}

// priceBooking recomputes the total server-side and overrides whatever the
// client sent; a mismatch is logged, not rejected.
func (s *bookingService) priceBooking(ctx context.Context, booking *model.Booking) error {
	if s.quoter == nil {
		return nil
	}

	total, err := s.quoter.Quote(ctx, booking.SubPackageID, booking.VehicleType, booking.AddOnIDs)
	if err != nil {
		return err
	}

	if booking.TotalPrice != 0 && booking.TotalPrice != total {
		s.cfg.Log.Warn("Client-supplied total disagrees with computed price",
			"client_total_cents", booking.TotalPrice,
			"computed_total_cents", total,
		)
	}

	booking.TotalPrice = total
	return nil
}

func (s *bookingService) verifySlotFree(ctx context.Context, date, startTime string) error {
	_, err := s.repo.FindLiveBySlot(ctx, date, startTime)
	if err == nil {
		return apperrors.SlotUnavailable(date, startTime)
	}
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return nil
	}
	return apperrors.Internal("Failed to check slot occupancy", err)
}

func (s *bookingService) mapLookupError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

func (s *bookingService) acquireSlotLock(ctx context.Context, date, startTime string) (string, error) {
	lockID := fmt.Sprintf("slot_%s_%s", date, startTime)

	lock := &model.BookingLock{
		ID:        lockID,
		Date:      date,
		StartTime: startTime,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.SlotUnavailable(date, startTime)
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) afterWrite(ctx context.Context, eventType string, booking *model.Booking) {
	if s.invalidator != nil {
		s.invalidator.InvalidateDay(ctx, booking.Date)
	}

	if s.events != nil {
		if err := s.events.PublishBookingEvent(ctx, eventType, booking); err != nil {
			s.cfg.Log.Warn("Failed to publish booking event",
				"event_type", eventType,
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}
}

func (s *bookingService) afterStatusChange(ctx context.Context, booking *model.Booking, status string) {
	var eventType string
	switch status {
	case model.StatusConfirmed:
		eventType = EventBookingConfirmed
	case model.StatusCancelled:
		eventType = EventBookingCancelled
	case model.StatusCompleted:
		eventType = EventBookingCompleted
	default:
		return
	}

	s.afterWrite(ctx, eventType, booking)
}
