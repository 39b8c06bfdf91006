// Package location turns raw device coordinates into a UserLocation,
// optionally enriched with country and city via reverse geocoding.
// Resolution is deliberately forgiving: an unavailable device location
// resolves to nil (callers fall back to manual city selection) and a
// geocoding failure still yields a coordinates-only result.
package location

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/motoshop/directory-api/internal/geocode"
	"github.com/motoshop/directory-api/internal/model"
)

// DefaultTimeout bounds device-location acquisition. The provider must
// resolve to "unavailable" rather than hang.
const DefaultTimeout = 10 * time.Second

// Provider yields the device's current coordinates. Denial, timeout and
// unsupported platform are all reported as an error and treated
// uniformly as "no location".
type Provider interface {
	CurrentLocation(ctx context.Context) (lat, lon, accuracyM float64, err error)
}

// Geocoder resolves coordinates to an address block.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*geocode.Address, error)
}

type Resolver struct {
	provider Provider
	geocoder Geocoder
	timeout  time.Duration
}

func NewResolver(provider Provider, geocoder Geocoder, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{provider: provider, geocoder: geocoder, timeout: timeout}
}

// Resolve obtains the device location and, when wantCountry is set,
// enriches it with country and city. A nil result means the location
// could not be determined; that is not an error condition and callers
// must degrade to a non-geo listing.
func (r *Resolver) Resolve(ctx context.Context, wantCountry bool) *model.UserLocation {
	if r.provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lat, lon, accuracy, err := r.provider.CurrentLocation(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("device location unavailable")
		return nil
	}
	if !model.ValidCoordinate(lat, lon) {
		log.Warn().Float64("lat", lat).Float64("lon", lon).Msg("provider returned out-of-range coordinates")
		return nil
	}

	loc := &model.UserLocation{Latitude: lat, Longitude: lon, AccuracyM: accuracy}
	if wantCountry {
		r.enrich(ctx, loc)
	}
	return loc
}

// ResolveCoordinates builds a UserLocation from coordinates the client
// already holds, enriching with country/city when requested. Invalid
// ranges are a caller contract violation and return an error.
func (r *Resolver) ResolveCoordinates(ctx context.Context, lat, lon, accuracy float64, wantCountry bool) (*model.UserLocation, error) {
	if !model.ValidCoordinate(lat, lon) {
		return nil, fmt.Errorf("coordinates out of range: lat=%f lon=%f", lat, lon)
	}

	loc := &model.UserLocation{Latitude: lat, Longitude: lon, AccuracyM: accuracy}
	if wantCountry {
		r.enrich(ctx, loc)
	}
	return loc, nil
}

// enrich fails open: distance-based search must work even when country
// resolution does not.
func (r *Resolver) enrich(ctx context.Context, loc *model.UserLocation) {
	if r.geocoder == nil {
		return
	}

	addr, err := r.geocoder.Reverse(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		log.Debug().Err(err).Msg("reverse geocoding failed, proceeding with coordinates only")
		return
	}

	loc.Country = addr.Country
	loc.CountryCode = addr.CountryCode
	loc.City = addr.City
}
