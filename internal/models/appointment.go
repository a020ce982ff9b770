package models

import "time"

// Appointment is the only persisted entity. JSON names follow the
// collection format shared with the browser clients.
type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ClientName string `gorm:"size:100;not null" json:"clientName"`
	Phone      string `gorm:"size:20" json:"phone"`
	CarModel   string `gorm:"size:100" json:"carModel"`
	Plate      string `gorm:"size:10" json:"plate"`

	ServiceType string  `gorm:"size:50;not null" json:"serviceType"`
	VehicleSize string  `gorm:"size:20" json:"vehicleSize,omitempty"`
	HasWax      bool    `json:"hasWax"`
	TotalPrice  float64 `json:"totalPrice"`

	Date string `gorm:"size:10;index:idx_appointments_slot" json:"date"`
	Time string `gorm:"size:5;index:idx_appointments_slot" json:"time"`

	Observations string `gorm:"size:500" json:"observations"`
	Status       string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
