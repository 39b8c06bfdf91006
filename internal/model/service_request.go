package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type RequestStatus string

const (
	RequestStatusSent      RequestStatus = "sent"
	RequestStatusResponded RequestStatus = "responded"
	RequestStatusScheduled RequestStatus = "scheduled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// requestTransitions encodes the allowed lifecycle:
// sent -> responded -> scheduled, with cancellation possible from sent
// or responded. Scheduled and cancelled are terminal.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusSent:      {RequestStatusResponded, RequestStatusCancelled},
	RequestStatusResponded: {RequestStatusScheduled, RequestStatusCancelled},
}

// CanTransition reports whether a status change is permitted.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusSent, RequestStatusResponded, RequestStatusScheduled, RequestStatusCancelled:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyImmediate  Urgency = "immediate"
	UrgencyWithinWeek Urgency = "within_week"
	UrgencyRoutine    Urgency = "routine"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyImmediate, UrgencyWithinWeek, UrgencyRoutine:
		return true
	}
	return false
}

// Phrase resolves the urgency to the fixed wording used in outreach
// messages.
func (u Urgency) Phrase() string {
	switch u {
	case UrgencyImmediate:
		return "as soon as possible"
	case UrgencyWithinWeek:
		return "within the next week"
	default:
		return "at your earliest convenience"
	}
}

// ServiceRequest is the audit record of one fan-out inquiry: a single
// "send to N shops" action. Status transitions past "sent" are driven
// by out-of-band shop replies, not by this service's matching flow.
type ServiceRequest struct {
	Base
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	BikeID        uuid.UUID       `db:"bike_id" json:"bike_id"`
	ShopIDs       pq.StringArray  `db:"shop_ids" json:"shop_ids"`
	Category      ServiceCategory `db:"category" json:"category"`
	Description   string          `db:"description" json:"description"`
	Urgency       Urgency         `db:"urgency" json:"urgency"`
	PreferredDate *time.Time      `db:"preferred_date" json:"preferred_date,omitempty"`
	Location      string          `db:"location" json:"location,omitempty"`
	Status        RequestStatus   `db:"status" json:"status"`
}

// CreateServiceRequestRequest is the API payload for the compose flow.
type CreateServiceRequestRequest struct {
	BikeID        uuid.UUID  `json:"bike_id" binding:"required"`
	ShopIDs       []string   `json:"shop_ids" binding:"required,min=1"`
	Category      string     `json:"category" binding:"required,servicecategory"`
	Description   string     `json:"description" binding:"max=2000"`
	Urgency       string     `json:"urgency" binding:"required,oneof=immediate within_week routine"`
	PreferredDate *time.Time `json:"preferred_date"`
	Location      string     `json:"location"`
}
