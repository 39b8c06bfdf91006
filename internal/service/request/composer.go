// Package request implements the multi-shop outreach composer: one
// "send to N shops" action produces a templated email per reachable
// shop plus a single persisted ServiceRequest as the audit trail.
package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/motoshop/directory-api/internal/email"
	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/repository"
	"github.com/motoshop/directory-api/pkg/messaging"
)

const sentChannel = "service_request.sent"

// ErrNotFound covers both a missing record and a record owned by a
// different user: callers can not distinguish the two.
var ErrNotFound = errors.New("service request not found")

type ComposeInput struct {
	UserID        uuid.UUID
	BikeID        uuid.UUID
	ShopIDs       []uuid.UUID
	Category      model.ServiceCategory
	Description   string
	Urgency       model.Urgency
	PreferredDate *time.Time
	Location      string
}

// EmailArtifact is one shop-specific outreach message, usable whether
// it was transmitted by the sender, copy-pasted by the user, or neither.
type EmailArtifact struct {
	ShopID   uuid.UUID `json:"shop_id"`
	ShopName string    `json:"shop_name"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
}

// SkippedShop reports a selected shop that was excluded from the
// artifact set, so the caller can tell the user instead of silently
// dropping it.
type SkippedShop struct {
	ShopID uuid.UUID `json:"shop_id"`
	Reason string    `json:"reason"`
}

type ComposeResult struct {
	Artifacts []EmailArtifact       `json:"artifacts"`
	Skipped   []SkippedShop         `json:"skipped,omitempty"`
	Request   *model.ServiceRequest `json:"request,omitempty"`
}

type Service struct {
	requests repository.ServiceRequestRepository
	shops    repository.ShopRepository
	bikes    repository.BikeRepository
	users    repository.UserRepository
	sender   email.Service
	broker   messaging.Broker
}

// NewService builds the composer. sender and broker are optional:
// without a sender the artifacts are returned for manual transmission,
// without a broker no sent-event is published.
func NewService(
	requests repository.ServiceRequestRepository,
	shops repository.ShopRepository,
	bikes repository.BikeRepository,
	users repository.UserRepository,
	sender email.Service,
	broker messaging.Broker,
) *Service {
	return &Service{
		requests: requests,
		shops:    shops,
		bikes:    bikes,
		users:    users,
		sender:   sender,
		broker:   broker,
	}
}

// Compose builds one outreach artifact per reachable selected shop and
// persists the ServiceRequest audit record with status "sent".
//
// Composition and persistence are independent: when the insert fails
// the already-built artifacts are still returned alongside the error,
// so the user's work is not discarded.
func (s *Service) Compose(ctx context.Context, in *ComposeInput) (*ComposeResult, error) {
	if err := s.validate(in); err != nil {
		return nil, fmt.Errorf("invalid service request: %w", err)
	}

	user, err := s.users.Get(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}

	bike, err := s.bikes.Get(ctx, in.BikeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bike: %w", err)
	}
	if bike.UserID != in.UserID {
		return nil, fmt.Errorf("bike does not belong to requester")
	}

	shops, err := s.shops.GetMany(ctx, in.ShopIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected shops: %w", err)
	}
	if len(shops) == 0 {
		return nil, fmt.Errorf("no selected shops found")
	}

	result := &ComposeResult{}
	for _, shop := range shops {
		if !shop.HasEmail() {
			result.Skipped = append(result.Skipped, SkippedShop{
				ShopID: shop.ID,
				Reason: "shop has no email address",
			})
			continue
		}

		artifact, err := buildArtifact(shop, user, bike, in)
		if err != nil {
			return nil, fmt.Errorf("failed to render outreach email: %w", err)
		}
		result.Artifacts = append(result.Artifacts, artifact)
	}

	req := &model.ServiceRequest{
		UserID:        in.UserID,
		BikeID:        in.BikeID,
		ShopIDs:       shopIDStrings(in.ShopIDs),
		Category:      in.Category,
		Description:   in.Description,
		Urgency:       in.Urgency,
		PreferredDate: in.PreferredDate,
		Location:      in.Location,
		Status:        model.RequestStatusSent,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return result, fmt.Errorf("failed to persist service request: %w", err)
	}
	result.Request = req

	s.dispatch(ctx, req, result.Artifacts)
	return result, nil
}

// Get returns the request only to its owner; anyone else sees
// ErrNotFound.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*model.ServiceRequest, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	if req.UserID != userID {
		return nil, ErrNotFound
	}
	return req, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ServiceRequest, error) {
	reqs, err := s.requests.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return reqs, nil
}

// UpdateStatus enforces the request lifecycle. Transitions past "sent"
// reflect out-of-band shop replies recorded by the user.
func (s *Service) UpdateStatus(ctx context.Context, id, userID uuid.UUID, to model.RequestStatus) (*model.ServiceRequest, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("unknown status: %s", to)
	}

	req, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !req.Status.CanTransition(to) {
		return nil, fmt.Errorf("cannot transition service request from %s to %s", req.Status, to)
	}

	if err := s.requests.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("failed to update service request: %w", err)
	}

	req.Status = to
	return req, nil
}

// dispatch is best-effort delivery and event publication; failures are
// logged and never fail the compose.
func (s *Service) dispatch(ctx context.Context, req *model.ServiceRequest, artifacts []EmailArtifact) {
	if s.sender != nil {
		for _, a := range artifacts {
			if err := s.sender.Send(ctx, a.To, a.Subject, a.Body); err != nil {
				log.Warn().Err(err).Str("shop_id", a.ShopID.String()).Msg("outreach email delivery failed")
			}
		}
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, sentChannel, req); err != nil {
			log.Warn().Err(err).Str("request_id", req.ID.String()).Msg("failed to publish sent event")
		}
	}
}

func (s *Service) validate(in *ComposeInput) error {
	if in.UserID == uuid.Nil {
		return fmt.Errorf("user ID is required")
	}
	if in.BikeID == uuid.Nil {
		return fmt.Errorf("bike ID is required")
	}
	if len(in.ShopIDs) == 0 {
		return fmt.Errorf("at least one shop is required")
	}
	if !in.Category.Valid() {
		return fmt.Errorf("unknown service category: %s", in.Category)
	}
	if !in.Urgency.Valid() {
		return fmt.Errorf("unknown urgency: %s", in.Urgency)
	}
	return nil
}

func shopIDStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
