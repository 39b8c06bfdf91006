package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/motoshop/directory-api/internal/model"
)

// All repository interfaces in one file
type (
	// ShopRepository is read-only from the core's perspective: shops are
	// seeded externally and never mutated by the matching engine.
	ShopRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Shop, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Shop, error)
		Search(ctx context.Context, filter *model.ShopFilter) ([]*model.Shop, error)
		NearbyByService(ctx context.Context, q *model.NearbyQuery) ([]*model.RankedShop, error)
		ListOfferings(ctx context.Context, shopID uuid.UUID) ([]*model.ShopServiceOffering, error)
		OfferingShopIDs(ctx context.Context, category model.ServiceCategory, shopIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	}

	ServiceRequestRepository interface {
		Create(ctx context.Context, req *model.ServiceRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error)
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ServiceRequest, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.RequestStatus) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	}

	BikeRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Bike, error)
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Bike, error)
	}

	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	}
)
