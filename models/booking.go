package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Booking references exactly one room. Bookings on the same room are not
// constrained against overlapping dates.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomID uint `gorm:"column:room_id;index;not null" json:"roomId"`

	GuestName  string `gorm:"size:255;not null" json:"guestName"`
	GuestEmail string `gorm:"size:255;index" json:"guestEmail"`
	GuestPhone string `gorm:"size:50" json:"guestPhone,omitempty"`

	CheckIn  time.Time `gorm:"column:check_in;index" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;index" json:"checkOut"`

	Status          BookingStatus `gorm:"size:20;index;not null;default:pending" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"column:payment_status;size:20;not null;default:pending" json:"paymentStatus"`
	TotalPrice      float64       `gorm:"column:total_price" json:"totalPrice"`
	SpecialRequests string        `gorm:"column:special_requests;type:text" json:"specialRequests,omitempty"`

	CreatedBy string    `gorm:"size:255" json:"createdBy,omitempty"`
	UpdatedBy string    `gorm:"size:255" json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
