package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/repository"
)

type serviceRequestRepository struct {
	db *sqlx.DB
}

func NewServiceRequestRepository(db *sqlx.DB) repository.ServiceRequestRepository {
	return &serviceRequestRepository{db: db}
}

func (r *serviceRequestRepository) Create(ctx context.Context, req *model.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (
			id, user_id, bike_id, shop_ids, category, description,
			urgency, preferred_date, location, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.UserID,
		req.BikeID,
		req.ShopIDs,
		req.Category,
		req.Description,
		req.Urgency,
		req.PreferredDate,
		req.Location,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}
	return nil
}

func (r *serviceRequestRepository) Get(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	query := `
		SELECT id, user_id, bike_id, shop_ids, category, description,
			   urgency, preferred_date, location, status, created_at, updated_at
		FROM service_requests
		WHERE id = $1
	`
	var req model.ServiceRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	return &req, nil
}

func (r *serviceRequestRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ServiceRequest, error) {
	query := `
		SELECT id, user_id, bike_id, shop_ids, category, description,
			   urgency, preferred_date, location, status, created_at, updated_at
		FROM service_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var reqs []*model.ServiceRequest
	if err := r.db.SelectContext(ctx, &reqs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return reqs, nil
}

func (r *serviceRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RequestStatus) error {
	query := `
		UPDATE service_requests
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update service request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service request not found")
	}
	return nil
}
