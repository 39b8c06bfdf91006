package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a booking attempt against exactly one shop, unlike a
// ServiceRequest which fans out to several shops in parallel.
type Appointment struct {
	Base
	UserID        uuid.UUID         `db:"user_id" json:"user_id"`
	BikeID        uuid.UUID         `db:"bike_id" json:"bike_id"`
	ShopID        uuid.UUID         `db:"shop_id" json:"shop_id"`
	Category      ServiceCategory   `db:"category" json:"category"`
	RequestedTime time.Time         `db:"requested_time" json:"requested_time"`
	Urgency       Urgency           `db:"urgency" json:"urgency"`
	Notes         string            `db:"notes" json:"notes,omitempty"`
	Status        AppointmentStatus `db:"status" json:"status"`
}

type CreateAppointmentRequest struct {
	BikeID        uuid.UUID `json:"bike_id" binding:"required"`
	ShopID        uuid.UUID `json:"shop_id" binding:"required"`
	Category      string    `json:"category" binding:"required,servicecategory"`
	RequestedTime time.Time `json:"requested_time" binding:"required"`
	Urgency       string    `json:"urgency" binding:"required,oneof=immediate within_week routine"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
