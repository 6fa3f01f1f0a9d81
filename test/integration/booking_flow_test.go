package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	availabilityservice "detailbay/internal/availability/service"
	blockedrepo "detailbay/internal/blockedtimes/repository"
	bookingserrors "detailbay/internal/bookings/errors"
	bookingrepo "detailbay/internal/bookings/repository"
	migrations "detailbay/internal/migrations/mongo"
	timeslotrepo "detailbay/internal/timeslots/repository"
	"detailbay/pkg/client"
	"detailbay/pkg/config"
	"detailbay/pkg/logger"
	"detailbay/pkg/model"
	"detailbay/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func testConfig(t *testing.T, helper *testutil.MongoHelper) *config.Config {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "integration-test",
	})

	return &config.Config{
		Log:               log,
		MongoDatabaseName: helper.DBName,
		OpeningTime:       "09:00",
		ClosingTime:       "17:00",
		SlotIntervalMin:   30,
		SlotLockTTL:       10 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Client:            &client.Client{Mongo: helper.Client},
	}
}

func setup(t *testing.T) (*testutil.MongoHelper, *config.Config) {
	t.Helper()

	helper := testutil.NewMongoHelper(t)
	t.Cleanup(func() {
		helper.Cleanup(t)
		helper.Close(t)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	require.NoError(t, migrations.RunMigration(ctx, helper.Client, helper.DBName))

	helper.Cleanup(t)
	return helper, testConfig(t, helper)
}

func pendingBooking(date, startTime string) *model.Booking {
	return &model.Booking{
		PackageID:     "65f000000000000000000010",
		SubPackageID:  "65f000000000000000000011",
		VehicleType:   "sedan",
		Date:          date,
		Time:          startTime,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+12125551234",
		Status:        model.StatusPending,
		TotalPrice:    15000,
	}
}

func TestSlotReservationIsGetOrCreate(t *testing.T) {
	_, cfg := setup(t)
	repo := timeslotrepo.NewMongoTimeSlotRepository(cfg)
	ctx := context.Background()

	first, err := repo.Reserve(ctx, "2026-09-15", "10:00", "10:30")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := repo.Reserve(ctx, "2026-09-15", "10:00", "10:30")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same slot must resolve to the same row")

	other, err := repo.Reserve(ctx, "2026-09-15", "10:30", "11:00")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestConcurrentSlotReservation(t *testing.T) {
	_, cfg := setup(t)
	repo := timeslotrepo.NewMongoTimeSlotRepository(cfg)

	const workers = 8
	var wg sync.WaitGroup
	ids := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slot, err := repo.Reserve(context.Background(), "2026-09-16", "11:00", "11:30")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = slot.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "every caller must see the same slot row")
	}
}

func TestBookingUniqueIndexBlocksDoubleBooking(t *testing.T) {
	_, cfg := setup(t)
	repo := bookingrepo.NewMongoBookingRepository(cfg)
	ctx := context.Background()

	first := pendingBooking("2026-09-17", "10:00")
	require.NoError(t, repo.Create(ctx, first))

	second := pendingBooking("2026-09-17", "10:00")
	err := repo.Create(ctx, second)
	require.ErrorIs(t, err, bookingserrors.ErrSlotTaken)

	// Cancelling drops the first booking out of the partial index, so the
	// slot can be taken again.
	require.NoError(t, repo.UpdateStatus(ctx, first.ID, model.StatusCancelled))

	third := pendingBooking("2026-09-17", "10:00")
	require.NoError(t, repo.Create(ctx, third))
}

func TestAdvisoryLockSingleHolder(t *testing.T) {
	_, cfg := setup(t)
	repo := bookingrepo.NewBookingLockRepository(cfg)
	ctx := context.Background()

	lock := &model.BookingLock{
		ID:        "slot_2026-09-18_10:00",
		Date:      "2026-09-18",
		StartTime: "10:00",
		ExpiresAt: time.Now().Add(10 * time.Second),
	}

	_, err := repo.Create(ctx, lock)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.BookingLock{
		ID:        "slot_2026-09-18_10:00",
		Date:      "2026-09-18",
		StartTime: "10:00",
		ExpiresAt: time.Now().Add(10 * time.Second),
	})
	require.Error(t, err)
	assert.True(t, mongo.IsDuplicateKeyError(err), "second acquisition must fail on the _id")

	require.NoError(t, repo.Delete(ctx, lock.ID))

	_, err = repo.Create(ctx, lock)
	require.NoError(t, err, "released lock must be acquirable again")
}

func TestAvailabilityReflectsBookingsAndBlocks(t *testing.T) {
	_, cfg := setup(t)
	ctx := context.Background()

	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	blocked := blockedrepo.NewMongoBlockedTimeRepository(cfg)
	availability := availabilityservice.NewAvailabilityService(bookings, blocked, nil, cfg)

	const date = "2026-09-21"

	require.NoError(t, bookings.Create(ctx, pendingBooking(date, "10:00")))

	cancelled := pendingBooking(date, "14:00")
	require.NoError(t, bookings.Create(ctx, cancelled))
	require.NoError(t, bookings.UpdateStatus(ctx, cancelled.ID, model.StatusCancelled))

	require.NoError(t, blocked.Create(ctx, &model.BlockedTime{
		Date:      date,
		StartTime: "12:00",
		EndTime:   "13:00",
		Reason:    "lunch",
	}))

	day, err := availability.GetDay(ctx, date)
	require.NoError(t, err)
	require.Len(t, day.Slots, 17)

	byStart := make(map[string]bool, len(day.Slots))
	for _, slot := range day.Slots {
		byStart[slot.StartTime] = slot.IsAvailable
	}

	assert.False(t, byStart["10:00"], "booked slot must be unavailable")
	assert.False(t, byStart["12:00"], "blocked slot must be unavailable")
	assert.False(t, byStart["12:30"], "blocked slot must be unavailable")
	assert.True(t, byStart["13:00"], "slot after the block must be available")
	assert.True(t, byStart["14:00"], "cancelled booking must not hold its slot")
}
