package model

import (
	"github.com/google/uuid"
)

// Shop is a repair business in the directory. Coordinates are nullable:
// some imported shops were never geocoded, and those can not take part
// in any radius search. Email is optional and gates the outreach path.
type Shop struct {
	Base
	Name          string   `db:"name" json:"name"`
	Address       string   `db:"address" json:"address"`
	City          string   `db:"city" json:"city"`
	Country       *string  `db:"country" json:"country,omitempty"`
	Latitude      *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude     *float64 `db:"longitude" json:"longitude,omitempty"`
	Phone         string   `db:"phone" json:"phone,omitempty"`
	Email         *string  `db:"email" json:"email,omitempty"`
	Website       string   `db:"website" json:"website,omitempty"`
	Rating        *float64 `db:"rating" json:"rating,omitempty"`
	ReviewCount   int      `db:"review_count" json:"review_count"`
	BusinessHours string   `db:"business_hours" json:"business_hours,omitempty"`
}

// HasCoordinates reports whether the shop can be distance-ranked.
func (s *Shop) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// HasEmail reports whether the shop can receive outreach email.
func (s *Shop) HasEmail() bool {
	return s.Email != nil && *s.Email != ""
}

// ShopServiceOffering associates a shop with a category it services,
// optionally with a price range and an estimated duration in minutes.
type ShopServiceOffering struct {
	ID       uuid.UUID       `db:"id" json:"id"`
	ShopID   uuid.UUID       `db:"shop_id" json:"shop_id"`
	Category ServiceCategory `db:"category" json:"category"`
	PriceMin *float64        `db:"price_min" json:"price_min,omitempty"`
	PriceMax *float64        `db:"price_max" json:"price_max,omitempty"`
	Duration *int            `db:"duration_minutes" json:"duration_minutes,omitempty"`
}

// ShopFilter is the predicate set the repository supports. Limit is
// always capped server-side; zero means "use the default cap".
type ShopFilter struct {
	SearchTerm string          `form:"q"`
	City       string          `form:"city"`
	Country    string          `form:"country"`
	MinRating  *float64        `form:"min_rating"`
	Category   ServiceCategory `form:"category"`
	Limit      int             `form:"limit"`
}

// NearbyQuery is the parameter set for a radius search. Country, when
// set, is a hard filter, not a ranking hint.
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	Category  ServiceCategory
	RadiusKm  float64
	Limit     int
	Country   string
}

// RankedShop is a shop annotated by the matching service. OffersService
// is true when the shop services the requested category, or trivially
// when no category was requested.
type RankedShop struct {
	Shop
	DistanceKm    float64 `db:"distance_km" json:"distance_km"`
	OffersService bool    `db:"offers_service" json:"offers_service"`
}
