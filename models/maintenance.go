package models

import "time"

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in-progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

type Maintenance struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomID    uint              `gorm:"column:room_id;index;not null" json:"roomId"`
	StartDate time.Time         `gorm:"column:start_date;index" json:"startDate"`
	EndDate   time.Time         `gorm:"column:end_date;index" json:"endDate"`
	Reason    string            `gorm:"type:text" json:"reason"`
	Status    MaintenanceStatus `gorm:"size:20;not null;default:scheduled" json:"status"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`

	CreatedBy string    `gorm:"size:255" json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Maintenance) TableName() string {
	return "maintenance_records"
}
