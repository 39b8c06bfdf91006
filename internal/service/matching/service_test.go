package matching

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoshop/directory-api/internal/geo"
	"github.com/motoshop/directory-api/internal/model"
)

// fakeShopRepo drives the service through both the pushdown and the
// in-memory path. With nearbyErr set, FindNearbyShopsByService falls
// back to Search + OfferingShopIDs + rankShops.
type fakeShopRepo struct {
	shops        []*model.Shop
	offers       map[uuid.UUID]bool
	nearbyResult []*model.RankedShop
	nearbyErr    error
	searchErr    error
}

func (f *fakeShopRepo) Get(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	for _, s := range f.shops {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeShopRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Shop, error) {
	var out []*model.Shop
	for _, id := range ids {
		if s, err := f.Get(ctx, id); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShopRepo) Search(ctx context.Context, filter *model.ShopFilter) ([]*model.Shop, error) {
	return f.shops, f.searchErr
}

func (f *fakeShopRepo) NearbyByService(ctx context.Context, q *model.NearbyQuery) ([]*model.RankedShop, error) {
	return f.nearbyResult, f.nearbyErr
}

func (f *fakeShopRepo) ListOfferings(ctx context.Context, shopID uuid.UUID) ([]*model.ShopServiceOffering, error) {
	return nil, nil
}

func (f *fakeShopRepo) OfferingShopIDs(ctx context.Context, category model.ServiceCategory, shopIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return f.offers, nil
}

func ptr[T any](v T) *T { return &v }

func makeShop(name string, lat, lon float64, country string, rating *float64) *model.Shop {
	s := &model.Shop{
		Name:      name,
		City:      "Testville",
		Latitude:  &lat,
		Longitude: &lon,
		Rating:    rating,
	}
	s.ID = uuid.New()
	if country != "" {
		s.Country = &country
	}
	return s
}

// fallbackRepo wires the given shops into a repo whose pushdown always
// fails, forcing the pure client-side policy under test.
func fallbackRepo(shops []*model.Shop, offers map[uuid.UUID]bool) *fakeShopRepo {
	return &fakeShopRepo{shops: shops, offers: offers, nearbyErr: errors.New("no pushdown")}
}

func TestRadiusFilterCorrectness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	userLat, userLon := 52.52, 13.405

	var shops []*model.Shop
	for i := 0; i < 200; i++ {
		lat := userLat + (rng.Float64()-0.5)*4
		lon := userLon + (rng.Float64()-0.5)*4
		shops = append(shops, makeShop("shop", lat, lon, "", ptr(rng.Float64()*5)))
	}

	svc := NewService(fallbackRepo(shops, nil))

	for _, radius := range []float64{5, 25, 80, 150} {
		result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
			Latitude:  userLat,
			Longitude: userLon,
			RadiusKm:  radius,
			Limit:     200,
		})
		require.NoError(t, err)

		for _, rs := range result {
			assert.LessOrEqual(t, rs.DistanceKm, radius)
			assert.InDelta(t, geo.DistanceKm(userLat, userLon, *rs.Latitude, *rs.Longitude), rs.DistanceKm, 1e-9)
		}
	}
}

func TestCountryHardFilter(t *testing.T) {
	stockholm := makeShop("Stockholm Moto", 59.33, 18.07, "Sweden", ptr(4.5))
	paris := makeShop("Paris Garage", 48.8566, 2.3522, "France", ptr(4.9))

	svc := NewService(fallbackRepo([]*model.Shop{paris, stockholm}, nil))

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  59.3293,
		Longitude: 18.0686,
		RadiusKm:  50,
		Limit:     10,
		Country:   "sweden", // case-insensitive
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Stockholm Moto", result[0].Name)
}

func TestShopsWithoutCoordinatesExcluded(t *testing.T) {
	located := makeShop("Located", 59.33, 18.07, "", nil)
	unlocated := &model.Shop{Name: "No Coords"}
	unlocated.ID = uuid.New()

	svc := NewService(fallbackRepo([]*model.Shop{unlocated, located}, nil))

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  59.3293,
		Longitude: 18.0686,
		RadiusKm:  50,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Located", result[0].Name)
}

func TestServiceMatchBeatsDistance(t *testing.T) {
	// Same distance north of the user, one offers brakes one does not.
	offering := makeShop("Offers Brakes", 51.55, -0.1278, "", ptr(3.0))
	other := makeShop("No Brakes", 51.55, -0.1278, "", ptr(5.0))
	offers := map[uuid.UUID]bool{offering.ID: true}

	svc := NewService(fallbackRepo([]*model.Shop{other, offering}, offers))

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  51.5074,
		Longitude: -0.1278,
		Category:  model.CategoryBrake,
		RadiusKm:  25,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Offers Brakes", result[0].Name)
	assert.True(t, result[0].OffersService)
	assert.False(t, result[1].OffersService)
}

func TestRatingTieBreakWithNulls(t *testing.T) {
	rated := makeShop("Rated", 51.55, -0.1278, "", ptr(2.1))
	unrated := makeShop("Unrated", 51.55, -0.1278, "", nil)

	svc := NewService(fallbackRepo([]*model.Shop{unrated, rated}, nil))

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  51.5074,
		Longitude: -0.1278,
		RadiusKm:  25,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Rated", result[0].Name)
	assert.Equal(t, "Unrated", result[1].Name)
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	remote := makeShop("Far Away", 48.8566, 2.3522, "", nil)

	svc := NewService(fallbackRepo([]*model.Shop{remote}, nil))

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  59.3293,
		Longitude: 18.0686,
		RadiusKm:  10,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestLimitTruncatesAfterSort(t *testing.T) {
	var shops []*model.Shop
	for i := 0; i < 30; i++ {
		shops = append(shops, makeShop("shop", 51.51+float64(i)*0.001, -0.1278, "", nil))
	}

	svc := NewService(fallbackRepo(shops, nil))

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  51.5074,
		Longitude: -0.1278,
		RadiusKm:  25,
		Limit:     5,
	})
	require.NoError(t, err)
	require.Len(t, result, 5)
	for i := 1; i < len(result); i++ {
		assert.LessOrEqual(t, result[i-1].DistanceKm, result[i].DistanceKm)
	}
}

// The quick-book scenario end to end: a shop just outside the radius is
// dropped, and within the radius a brake shop outranks a closer shop
// that can not do brakes.
func TestFindNearbyLondonBrakeScenario(t *testing.T) {
	uk := "United Kingdom"

	shopA := makeShop("Shop A", 51.6441, -0.1278, uk, ptr(4.8)) // ~15.2km, offers brake
	shopB := makeShop("Shop B", 51.5883, -0.1278, uk, ptr(4.0)) // ~9km, offers brake
	shopC := makeShop("Shop C", 51.5344, -0.1278, uk, ptr(4.9)) // ~3km, no brake service

	offers := map[uuid.UUID]bool{shopA.ID: true, shopB.ID: true}
	svc := NewService(fallbackRepo([]*model.Shop{shopA, shopB, shopC}, offers))

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  51.5074,
		Longitude: -0.1278,
		Category:  model.CategoryBrake,
		RadiusKm:  15,
		Limit:     10,
		Country:   "United Kingdom",
	})
	require.NoError(t, err)
	require.Len(t, result, 2, "Shop A is beyond the radius and must be excluded")

	assert.Equal(t, "Shop B", result[0].Name, "service match beats raw distance")
	assert.True(t, result[0].OffersService)
	assert.Equal(t, "Shop C", result[1].Name)
	assert.False(t, result[1].OffersService)
}

func TestPushdownResultUsedWhenAvailable(t *testing.T) {
	pushed := []*model.RankedShop{
		{Shop: *makeShop("From SQL", 1, 1, "", nil), DistanceKm: 1.5, OffersService: true},
	}
	repo := &fakeShopRepo{nearbyResult: pushed}

	svc := NewService(repo)

	result, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude:  1,
		Longitude: 1,
		RadiusKm:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, pushed, result)
}

func TestInvalidInputsRejected(t *testing.T) {
	svc := NewService(&fakeShopRepo{})

	_, err := svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{Latitude: 95, Longitude: 0})
	assert.Error(t, err)

	_, err = svc.FindNearbyShopsByService(context.Background(), &model.NearbyQuery{
		Latitude: 0, Longitude: 0, Category: "welding",
	})
	assert.Error(t, err)
}

func TestFallbackListing(t *testing.T) {
	shops := []*model.Shop{makeShop("City Shop", 1, 1, "", ptr(4.0))}
	svc := NewService(&fakeShopRepo{shops: shops})

	result, err := svc.FallbackListing(context.Background(), "Testville", model.CategoryTire, 10)
	require.NoError(t, err)
	assert.Len(t, result, 1)

	_, err = svc.FallbackListing(context.Background(), "", "nonsense", 10)
	assert.Error(t, err)
}
