package models

import "time"

// BookingStatusEvent records every status/payment change applied to a booking
// together with the room status derived from it. RoomSynced is false while the
// dependent room write has not succeeded. Superseded marks a failed write that
// was dropped because the room changed afterwards.
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID     uint          `gorm:"not null;index" json:"bookingId"`
	RoomID        uint          `gorm:"not null;index" json:"roomId"`
	Status        BookingStatus `gorm:"size:20;not null" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null" json:"paymentStatus"`
	RoomStatus    RoomStatus    `gorm:"size:20;not null" json:"roomStatus"`
	RoomSynced    bool          `gorm:"index;not null;default:false" json:"roomSynced"`
	SyncError     string        `gorm:"type:text" json:"syncError,omitempty"`
	Superseded    bool          `gorm:"not null;default:false" json:"superseded,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"createdBy,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	SyncedAt  *time.Time `json:"syncedAt,omitempty"`
}

func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
