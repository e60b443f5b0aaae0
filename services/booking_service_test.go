package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-admin/models"
	"hotel-admin/realtime"
	"hotel-admin/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// flakyRooms fails SetRoomStatus while down is set.
type flakyRooms struct {
	*RoomService
	down bool
}

func (f *flakyRooms) SetRoomStatus(ctx context.Context, roomID uint, status models.RoomStatus, actor string) error {
	if f.down {
		return errors.New("room store unavailable")
	}
	return f.RoomService.SetRoomStatus(ctx, roomID, status, actor)
}

type bookingFixture struct {
	db       *gorm.DB
	rooms    *RoomService
	bookings *BookingService
	pub      *recordingPublisher
	room     models.Room
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	rooms := NewRoomService(db, nil, pub)
	return bookingFixture{
		db:       db,
		rooms:    rooms,
		bookings: NewBookingService(db, rooms, pub),
		pub:      pub,
		room:     mustCreateRoom(t, rooms, "101"),
	}
}

func (f bookingFixture) create(t *testing.T, in time.Time, out time.Time) models.Booking {
	t.Helper()
	created, err := f.bookings.Create(context.Background(), BookingInput{
		RoomID:     f.room.ID,
		GuestName:  "Grace Hopper",
		GuestEmail: "grace@example.com",
		CheckIn:    in,
		CheckOut:   out,
		TotalPrice: 240,
	}, "tester")
	require.NoError(t, err)
	return created.Booking
}

func TestBookingCreateDefaultsToPending(t *testing.T) {
	f := newBookingFixture(t)

	b := f.create(t, day(1), day(3))

	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	room, err := f.rooms.Get(context.Background(), f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, room.Status, "create leaves the room alone")
}

func TestBookingCreateRejectsBadInput(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, BookingInput{
		RoomID: f.room.ID, GuestName: "X", GuestEmail: "x@example.com",
		CheckIn: day(5), CheckOut: day(4),
	}, "tester")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "checkOut")

	_, err = f.bookings.Create(ctx, BookingInput{
		RoomID: 999, GuestName: "X", GuestEmail: "x@example.com",
		CheckIn: day(1), CheckOut: day(2),
	}, "tester")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestBookingCreateReportsOverlaps(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	first := f.create(t, day(1), day(4))
	cancelled := f.create(t, day(2), day(3))
	_, err := f.bookings.Update(ctx, cancelled.ID, BookingUpdate{Status: statusPtr(models.BookingCancelled)}, "tester")
	require.NoError(t, err)

	created, err := f.bookings.Create(ctx, BookingInput{
		RoomID: f.room.ID, GuestName: "Y", GuestEmail: "y@example.com",
		CheckIn: day(3), CheckOut: day(6),
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID}, created.Overlaps)

	backToBack, err := f.bookings.Create(ctx, BookingInput{
		RoomID: f.room.ID, GuestName: "Z", GuestEmail: "z@example.com",
		CheckIn: day(6), CheckOut: day(8),
	}, "tester")
	require.NoError(t, err)
	assert.Empty(t, backToBack.Overlaps)
}

func TestBookingListByDateRange(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	early := f.create(t, day(1), day(3))
	late := f.create(t, day(10), day(12))

	got, err := f.bookings.ListByDateRange(ctx, day(2), day(5))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, early.ID, got[0].ID)

	got, err = f.bookings.ListByDateRange(ctx, day(1), day(30))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, late.ID, got[1].ID)

	_, err = f.bookings.ListByDateRange(ctx, day(5), day(1))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBookingUpdateSynchronizesRoom(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.create(t, day(1), day(3))

	res, err := f.bookings.Update(ctx, b.ID, BookingUpdate{Status: statusPtr(models.BookingConfirmed)}, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, res.RoomStatus, "payment still pending")

	res, err = f.bookings.Update(ctx, b.ID, BookingUpdate{PaymentStatus: paymentPtr(models.PaymentCompleted)}, "tester")
	require.NoError(t, err)
	assert.Equal(t, SyncApplied, res.Outcome)
	room, err := f.rooms.Get(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)

	_, err = f.bookings.Update(ctx, b.ID, BookingUpdate{Status: statusPtr(models.BookingCompleted)}, "tester")
	require.NoError(t, err)
	room, err = f.rooms.Get(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, room.Status)

	history, err := f.bookings.History(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for _, ev := range history {
		assert.True(t, ev.RoomSynced)
	}
}

func TestBookingUpdatePendingThenReconciled(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	flaky := &flakyRooms{RoomService: f.rooms, down: true}
	bookings := NewBookingService(f.db, flaky, f.pub)
	b := f.create(t, day(1), day(3))

	upd := BookingUpdate{Status: statusPtr(models.BookingConfirmed), PaymentStatus: paymentPtr(models.PaymentCompleted)}
	res, err := bookings.Update(ctx, b.ID, upd, "tester")
	require.ErrorIs(t, err, ErrRoomSyncPending)
	assert.Equal(t, SyncRoomPending, res.Outcome)

	stored, err := bookings.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, stored.Status, "booking write survives the room failure")

	pending, err := bookings.PendingRoomSyncs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, pending)

	rec := NewRoomSyncReconciler(bookings)
	assert.Zero(t, rec.RunOnce(ctx), "still down")

	flaky.down = false
	assert.Equal(t, 1, rec.RunOnce(ctx))

	room, err := f.rooms.Get(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)
	assert.Equal(t, reconcilerActor, room.UpdatedBy)

	pending, err = bookings.PendingRoomSyncs(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReconcilerSkipsRoomChangedAfterFailure(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	flaky := &flakyRooms{RoomService: f.rooms, down: true}
	bookings := NewBookingService(f.db, flaky, f.pub)
	b := f.create(t, day(1), day(3))

	upd := BookingUpdate{Status: statusPtr(models.BookingConfirmed), PaymentStatus: paymentPtr(models.PaymentCompleted)}
	_, err := bookings.Update(ctx, b.ID, upd, "tester")
	require.ErrorIs(t, err, ErrRoomSyncPending)

	flaky.down = false
	maint := NewMaintenanceService(f.db, f.rooms, f.pub)
	scheduled, err := maint.Schedule(ctx, MaintenanceInput{RoomID: f.room.ID, StartDate: day(4), EndDate: day(5), Reason: "Burst pipe"}, "engineer")
	require.NoError(t, err)
	require.Equal(t, SyncApplied, scheduled.Outcome)

	stale, err := bookings.RoomChangedSince(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stale)

	rec := NewRoomSyncReconciler(bookings)
	assert.Zero(t, rec.RunOnce(ctx))

	room, err := f.rooms.Get(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomMaintenance, room.Status)
	assert.Equal(t, "engineer", room.UpdatedBy)

	pending, err := bookings.PendingRoomSyncs(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	history, err := bookings.History(ctx, b.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.True(t, last.Superseded)
	assert.False(t, last.RoomSynced)
}

func TestBookingDeleteKeepsRoomAndDropsHistory(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.create(t, day(1), day(3))
	_, err := f.bookings.Update(ctx, b.ID, BookingUpdate{
		Status:        statusPtr(models.BookingConfirmed),
		PaymentStatus: paymentPtr(models.PaymentCompleted),
	}, "tester")
	require.NoError(t, err)

	require.NoError(t, f.bookings.Delete(ctx, b.ID))

	room, err := f.rooms.Get(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)

	var events int64
	require.NoError(t, f.db.Model(&models.BookingStatusEvent{}).Count(&events).Error)
	assert.Zero(t, events)
	assert.ErrorIs(t, f.bookings.Delete(ctx, b.ID), ErrBookingNotFound)
	assert.Contains(t, f.pub.actions(realtime.TopicBookings), "deleted")
}

func TestReconcilerStartOff(t *testing.T) {
	f := newBookingFixture(t)
	rec := NewRoomSyncReconciler(f.bookings)

	require.NoError(t, rec.Start("off"))
	assert.Error(t, rec.Start("not a schedule"))
}
