// Package matching implements the shop discovery core: radius-filtered,
// country-scoped, service-annotated ranking of repair shops around a
// user's point.
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/motoshop/directory-api/internal/geo"
	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/repository"
)

const (
	DefaultRadiusKm = 25.0
	DefaultLimit    = 20

	// fallbackCandidateCap bounds the candidate set pulled for in-memory
	// ranking when the pushdown query is unavailable.
	fallbackCandidateCap = 200
)

type Service struct {
	shops repository.ShopRepository
}

func NewService(shops repository.ShopRepository) *Service {
	return &Service{shops: shops}
}

// FindNearbyShopsByService returns shops within q.RadiusKm of the user
// point, hard-filtered by country when one is given, annotated with
// distance and service match, and sorted: service-matching shops first,
// then nearest, then best rated with unrated last.
//
// The radius query is pushed down to the repository when it supports
// it; if that fails the same policy runs in memory over a capped
// candidate set. Zero matches is a valid empty result, never an error
// and never a silent radius widening.
func (s *Service) FindNearbyShopsByService(ctx context.Context, q *model.NearbyQuery) ([]*model.RankedShop, error) {
	if !model.ValidCoordinate(q.Latitude, q.Longitude) {
		return nil, fmt.Errorf("coordinates out of range: lat=%f lon=%f", q.Latitude, q.Longitude)
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, fmt.Errorf("unknown service category: %s", q.Category)
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = DefaultRadiusKm
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	ranked, err := s.shops.NearbyByService(ctx, q)
	if err == nil {
		if ranked == nil {
			ranked = []*model.RankedShop{}
		}
		return ranked, nil
	}
	log.Warn().Err(err).Msg("nearby pushdown query failed, ranking client-side")

	return s.findNearbyFallback(ctx, q)
}

func (s *Service) findNearbyFallback(ctx context.Context, q *model.NearbyQuery) ([]*model.RankedShop, error) {
	candidates, err := s.shops.Search(ctx, &model.ShopFilter{
		Country: q.Country,
		Limit:   fallbackCandidateCap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load shop candidates: %w", err)
	}

	offers := map[uuid.UUID]bool{}
	if q.Category != "" && len(candidates) > 0 {
		ids := make([]uuid.UUID, 0, len(candidates))
		for _, shop := range candidates {
			ids = append(ids, shop.ID)
		}
		offers, err = s.shops.OfferingShopIDs(ctx, q.Category, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve service offerings: %w", err)
		}
	}

	return rankShops(q, candidates, offers), nil
}

// FallbackListing is the degraded, non-geo path used when the user's
// location could not be resolved: a rating-ordered listing optionally
// scoped to a manually chosen city.
func (s *Service) FallbackListing(ctx context.Context, city string, category model.ServiceCategory, limit int) ([]*model.Shop, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("unknown service category: %s", category)
	}

	shops, err := s.shops.Search(ctx, &model.ShopFilter{
		City:     city,
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, nil
}

// rankShops is the pure in-memory rendition of the matching policy.
// Filtering and distance computation complete for the full candidate
// set before any sorting begins.
func rankShops(q *model.NearbyQuery, candidates []*model.Shop, offers map[uuid.UUID]bool) []*model.RankedShop {
	ranked := make([]*model.RankedShop, 0, len(candidates))

	for _, shop := range candidates {
		// Shops that were never geocoded can not be distance-ranked.
		if !shop.HasCoordinates() {
			continue
		}
		if q.Country != "" && !countryMatches(shop.Country, q.Country) {
			continue
		}

		distance := geo.DistanceKm(q.Latitude, q.Longitude, *shop.Latitude, *shop.Longitude)
		if distance > q.RadiusKm {
			continue
		}

		ranked = append(ranked, &model.RankedShop{
			Shop:          *shop,
			DistanceKm:    distance,
			OffersService: q.Category == "" || offers[shop.ID],
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.OffersService != b.OffersService {
			return a.OffersService
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		return ratingValue(a.Rating) > ratingValue(b.Rating)
	})

	if len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}
	return ranked
}

func countryMatches(shopCountry *string, userCountry string) bool {
	if shopCountry == nil {
		return false
	}
	return strings.EqualFold(*shopCountry, userCountry)
}

// ratingValue sorts nil ratings after every rated shop.
func ratingValue(r *float64) float64 {
	if r == nil {
		return -1
	}
	return *r
}
