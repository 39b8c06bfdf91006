package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/repository"
)

// Unbounded scans over the shop table are a hazard with large imported
// datasets, so every listing query is capped.
const (
	defaultShopLimit = 50
	maxShopLimit     = 200
)

const shopColumns = `
	id, name, address, city, country, latitude, longitude, phone, email,
	website, rating, review_count, business_hours, created_at, updated_at`

type shopRepository struct {
	db *sqlx.DB
}

func NewShopRepository(db *sqlx.DB) repository.ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Get(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	query := `SELECT` + shopColumns + ` FROM shops WHERE id = $1`

	var shop model.Shop
	if err := r.db.GetContext(ctx, &shop, query, id); err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}

func (r *shopRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Shop, error) {
	query := `SELECT` + shopColumns + ` FROM shops WHERE id = ANY($1)`

	var shops []*model.Shop
	if err := r.db.SelectContext(ctx, &shops, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get shops: %w", err)
	}
	return shops, nil
}

// Search applies plain predicate filtering. Ordering here is only the
// non-geo default (rating descending); ranking belongs to the matching
// service.
func (r *shopRepository) Search(ctx context.Context, filter *model.ShopFilter) ([]*model.Shop, error) {
	var (
		conds []string
		args  []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SearchTerm != "" {
		p := arg("%" + filter.SearchTerm + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR address ILIKE %s OR city ILIKE %s)", p, p, p))
	}
	if filter.City != "" {
		conds = append(conds, fmt.Sprintf("LOWER(city) = LOWER(%s)", arg(filter.City)))
	}
	if filter.Country != "" {
		conds = append(conds, fmt.Sprintf("LOWER(country) = LOWER(%s)", arg(filter.Country)))
	}
	if filter.MinRating != nil {
		conds = append(conds, fmt.Sprintf("rating >= %s", arg(*filter.MinRating)))
	}
	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM shop_service_offerings o WHERE o.shop_id = shops.id AND o.category = %s)",
			arg(string(filter.Category)),
		))
	}

	query := `SELECT` + shopColumns + ` FROM shops`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY rating DESC NULLS LAST, review_count DESC LIMIT %s", arg(capLimit(filter.Limit)))

	var shops []*model.Shop
	if err := r.db.SelectContext(ctx, &shops, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search shops: %w", err)
	}
	return shops, nil
}

// NearbyByService pushes the whole radius search down to Postgres: the
// Haversine distance, the null-coordinate and country exclusions, the
// radius cut and the full sort policy run in one query. An empty result
// is returned as-is; radius widening is the caller's explicit decision.
func (r *shopRepository) NearbyByService(ctx context.Context, q *model.NearbyQuery) ([]*model.RankedShop, error) {
	query := `
		SELECT ` + shopColumns + `,
			distance_km,
			($4 = '' OR EXISTS (
				SELECT 1 FROM shop_service_offerings o
				WHERE o.shop_id = sub.id AND o.category = $4
			)) AS offers_service
		FROM (
			SELECT s.*, 2 * 6371 * asin(sqrt(
				pow(sin(radians((s.latitude - $1) / 2)), 2) +
				cos(radians($1)) * cos(radians(s.latitude)) *
				pow(sin(radians((s.longitude - $2) / 2)), 2)
			)) AS distance_km
			FROM shops s
			WHERE s.latitude IS NOT NULL
			AND s.longitude IS NOT NULL
			AND ($3 = '' OR LOWER(s.country) = LOWER($3))
		) sub
		WHERE distance_km <= $5
		ORDER BY offers_service DESC, distance_km ASC, rating DESC NULLS LAST
		LIMIT $6
	`

	var shops []*model.RankedShop
	err := r.db.SelectContext(ctx, &shops, query,
		q.Latitude,
		q.Longitude,
		q.Country,
		string(q.Category),
		q.RadiusKm,
		capLimit(q.Limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby shops: %w", err)
	}
	return shops, nil
}

func (r *shopRepository) ListOfferings(ctx context.Context, shopID uuid.UUID) ([]*model.ShopServiceOffering, error) {
	query := `
		SELECT id, shop_id, category, price_min, price_max, duration_minutes
		FROM shop_service_offerings
		WHERE shop_id = $1
		ORDER BY category
	`

	var offerings []*model.ShopServiceOffering
	if err := r.db.SelectContext(ctx, &offerings, query, shopID); err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return offerings, nil
}

func (r *shopRepository) OfferingShopIDs(ctx context.Context, category model.ServiceCategory, shopIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	query := `
		SELECT DISTINCT shop_id
		FROM shop_service_offerings
		WHERE category = $1 AND shop_id = ANY($2)
	`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, string(category), pq.Array(shopIDs)); err != nil {
		return nil, fmt.Errorf("failed to resolve offering shops: %w", err)
	}

	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func capLimit(limit int) int {
	if limit <= 0 {
		return defaultShopLimit
	}
	if limit > maxShopLimit {
		return maxShopLimit
	}
	return limit
}
