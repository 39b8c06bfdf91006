package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/repository"
)

type bikeRepository struct {
	db *sqlx.DB
}

func NewBikeRepository(db *sqlx.DB) repository.BikeRepository {
	return &bikeRepository{db: db}
}

func (r *bikeRepository) Get(ctx context.Context, id uuid.UUID) (*model.Bike, error) {
	query := `
		SELECT id, user_id, make, model, year, nickname, mileage,
			   license_plate, created_at, updated_at
		FROM bikes
		WHERE id = $1
	`
	var bike model.Bike
	if err := r.db.GetContext(ctx, &bike, query, id); err != nil {
		return nil, fmt.Errorf("failed to get bike: %w", err)
	}
	return &bike, nil
}

func (r *bikeRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Bike, error) {
	query := `
		SELECT id, user_id, make, model, year, nickname, mileage,
			   license_plate, created_at, updated_at
		FROM bikes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var bikes []*model.Bike
	if err := r.db.SelectContext(ctx, &bikes, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bikes: %w", err)
	}
	return bikes, nil
}
