package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"hotel-admin/models"
	"hotel-admin/realtime"
	"hotel-admin/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCreateDefaultsAndDuplicates(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRoomService(testutil.NewDB(t), nil, pub)
	ctx := context.Background()

	room := mustCreateRoom(t, svc, " 101 ")
	assert.Equal(t, "101", room.Number)
	assert.Equal(t, models.RoomAvailable, room.Status)
	assert.Equal(t, "tester", room.UpdatedBy)
	assert.NotNil(t, room.Images)

	_, err := svc.Create(ctx, RoomInput{Number: "101", Type: models.RoomTypeSuite, Capacity: 4}, "tester")
	assert.ErrorIs(t, err, ErrDuplicateRoomNumber)
	assert.Equal(t, []string{"created"}, pub.actions(realtime.TopicRooms))
}

func TestRoomCreateValidation(t *testing.T) {
	svc := NewRoomService(testutil.NewDB(t), nil, nil)

	_, err := svc.Create(context.Background(), RoomInput{
		Number:    "",
		Type:      "penthouse",
		Price:     -1,
		Capacity:  0,
		Amenities: []string{"jacuzzi"},
	}, "tester")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"number", "type", "price", "capacity"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestRoomUpdateIsPartial(t *testing.T) {
	svc := NewRoomService(testutil.NewDB(t), nil, nil)
	room := mustCreateRoom(t, svc, "201")

	price := 180.0
	updated, err := svc.Update(context.Background(), room.ID, RoomUpdate{Price: &price}, "editor")
	require.NoError(t, err)

	assert.Equal(t, 180.0, updated.Price)
	assert.Equal(t, room.Number, updated.Number)
	assert.Equal(t, room.Capacity, updated.Capacity)
	assert.Equal(t, "editor", updated.UpdatedBy)

	_, err = svc.Update(context.Background(), 999, RoomUpdate{Price: &price}, "editor")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomListFiltersByStatus(t *testing.T) {
	svc := NewRoomService(testutil.NewDB(t), nil, nil)
	ctx := context.Background()
	a := mustCreateRoom(t, svc, "301")
	mustCreateRoom(t, svc, "302")
	require.NoError(t, svc.SetRoomStatus(ctx, a.ID, models.RoomCleaning, "tester"))

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cleaning, err := svc.List(ctx, models.RoomCleaning)
	require.NoError(t, err)
	require.Len(t, cleaning, 1)
	assert.Equal(t, "301", cleaning[0].Number)

	_, err = svc.List(ctx, "flooded")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSetRoomStatusUnchangedValueAndMissingRoom(t *testing.T) {
	svc := NewRoomService(testutil.NewDB(t), nil, nil)
	ctx := context.Background()
	room := mustCreateRoom(t, svc, "401")

	require.NoError(t, svc.SetRoomStatus(ctx, room.ID, models.RoomAvailable, "tester"))
	assert.ErrorIs(t, svc.SetRoomStatus(ctx, 999, models.RoomOccupied, "tester"), ErrRoomNotFound)
}

func TestRoomImagesLocalStore(t *testing.T) {
	dir := t.TempDir()
	svc := NewRoomService(testutil.NewDB(t), NewLocalImageStore(dir, "/uploads"), nil)
	ctx := context.Background()
	room := mustCreateRoom(t, svc, "501")

	b64 := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))
	withImage, err := svc.AddImage(ctx, room.ID, b64, "tester")
	require.NoError(t, err)
	require.Len(t, withImage.Images, 1)
	assert.True(t, strings.HasPrefix(withImage.Images[0], "/uploads/rooms/"))

	_, err = svc.AddImage(ctx, room.ID, "%%%", "tester")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	cleared, err := svc.UpdateImages(ctx, room.ID, nil, "tester")
	require.NoError(t, err)
	assert.Empty(t, cleared.Images)
}

func TestRoomDelete(t *testing.T) {
	svc := NewRoomService(testutil.NewDB(t), nil, nil)
	ctx := context.Background()
	room := mustCreateRoom(t, svc, "601")

	require.NoError(t, svc.Delete(ctx, room.ID))
	_, err := svc.Get(ctx, room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, room.ID), ErrRoomNotFound)
}
