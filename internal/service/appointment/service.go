// Package appointment handles single-shop bookings. An appointment
// targets exactly one shop; parallel multi-shop outreach lives in the
// request package.
package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/repository"
	"github.com/motoshop/directory-api/pkg/messaging"
)

const bookedChannel = "appointment.booked"

// ErrNotFound covers both a missing appointment and one owned by a
// different user.
var ErrNotFound = errors.New("appointment not found")

type BookInput struct {
	UserID        uuid.UUID
	BikeID        uuid.UUID
	ShopID        uuid.UUID
	Category      model.ServiceCategory
	RequestedTime time.Time
	Urgency       model.Urgency
	Notes         string
}

type Service struct {
	appointments repository.AppointmentRepository
	shops        repository.ShopRepository
	bikes        repository.BikeRepository
	broker       messaging.Broker
}

// NewService builds the booking service. broker is optional.
func NewService(
	appointments repository.AppointmentRepository,
	shops repository.ShopRepository,
	bikes repository.BikeRepository,
	broker messaging.Broker,
) *Service {
	return &Service{
		appointments: appointments,
		shops:        shops,
		bikes:        bikes,
		broker:       broker,
	}
}

// Book creates a pending appointment after verifying the shop exists
// and the bike belongs to the requester.
func (s *Service) Book(ctx context.Context, in *BookInput) (*model.Appointment, error) {
	if err := s.validate(in); err != nil {
		return nil, fmt.Errorf("invalid appointment: %w", err)
	}

	if _, err := s.shops.Get(ctx, in.ShopID); err != nil {
		return nil, fmt.Errorf("failed to load shop: %w", err)
	}

	bike, err := s.bikes.Get(ctx, in.BikeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bike: %w", err)
	}
	if bike.UserID != in.UserID {
		return nil, fmt.Errorf("bike does not belong to requester")
	}

	apt := &model.Appointment{
		UserID:        in.UserID,
		BikeID:        in.BikeID,
		ShopID:        in.ShopID,
		Category:      in.Category,
		RequestedTime: in.RequestedTime,
		Urgency:       in.Urgency,
		Notes:         in.Notes,
		Status:        model.AppointmentStatusPending,
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, bookedChannel, apt); err != nil {
			log.Warn().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to publish booked event")
		}
	}

	return apt, nil
}

// Get returns the appointment only to its owner; anyone else sees
// ErrNotFound.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if apt.UserID != userID {
		return nil, ErrNotFound
	}
	return apt, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	apts, err := s.appointments.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return apts, nil
}

// UpdateStatus enforces the booking lifecycle: pending may be confirmed
// or cancelled, confirmed may complete or cancel, completed and
// cancelled are terminal.
func (s *Service) UpdateStatus(ctx context.Context, id, userID uuid.UUID, to model.AppointmentStatus) (*model.Appointment, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("unknown status: %s", to)
	}

	apt, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !apt.Status.CanTransition(to) {
		return nil, fmt.Errorf("cannot transition appointment from %s to %s", apt.Status, to)
	}

	if err := s.appointments.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	apt.Status = to
	return apt, nil
}

func (s *Service) validate(in *BookInput) error {
	if in.UserID == uuid.Nil {
		return fmt.Errorf("user ID is required")
	}
	if in.BikeID == uuid.Nil {
		return fmt.Errorf("bike ID is required")
	}
	if in.ShopID == uuid.Nil {
		return fmt.Errorf("shop ID is required")
	}
	if !in.Category.Valid() {
		return fmt.Errorf("unknown service category: %s", in.Category)
	}
	if !in.Urgency.Valid() {
		return fmt.Errorf("unknown urgency: %s", in.Urgency)
	}
	if !in.RequestedTime.After(time.Now()) {
		return fmt.Errorf("requested time must be in the future")
	}
	return nil
}
