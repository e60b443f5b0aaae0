package models

import (
	"time"

	"gorm.io/datatypes"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeDeluxe   RoomType = "deluxe"
	RoomTypeSuite    RoomType = "suite"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite:
		return true
	}
	return false
}

// RoomStatus is the operational state of a physical room, independent of any booking status.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "available"
	RoomOccupied     RoomStatus = "occupied"
	RoomMaintenance  RoomStatus = "maintenance"
	RoomCleaning     RoomStatus = "cleaning"
	RoomDoNotDisturb RoomStatus = "do-not-disturb"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning, RoomDoNotDisturb:
		return true
	}
	return false
}

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Number      string                      `gorm:"column:number;uniqueIndex;size:50;not null" json:"number"`
	Type        RoomType                    `gorm:"size:20;not null" json:"type"`
	Price       float64                     `json:"price"`
	Status      RoomStatus                  `gorm:"size:20;index;not null;default:available" json:"status"`
	Capacity    int                         `json:"capacity"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Description string                      `gorm:"type:text" json:"description"`

	// audit of the last status/detail edit made by staff
	UpdatedBy   string     `gorm:"size:255" json:"updatedBy,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
