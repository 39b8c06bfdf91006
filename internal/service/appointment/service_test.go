package appointment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoshop/directory-api/internal/model"
)

type fakeAppointmentRepo struct {
	stored    map[uuid.UUID]*model.Appointment
	createErr error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{stored: map[uuid.UUID]*model.Appointment{}}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	apt.ID = uuid.New()
	f.stored[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.stored[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return apt, nil
}

func (f *fakeAppointmentRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.stored {
		if apt.UserID == userID {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	apt, ok := f.stored[id]
	if !ok {
		return errors.New("not found")
	}
	apt.Status = status
	return nil
}

type fakeShopRepo struct {
	shop *model.Shop
}

func (f *fakeShopRepo) Get(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	if f.shop == nil || f.shop.ID != id {
		return nil, errors.New("not found")
	}
	return f.shop, nil
}

func (f *fakeShopRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Shop, error) {
	return nil, nil
}

func (f *fakeShopRepo) Search(ctx context.Context, filter *model.ShopFilter) ([]*model.Shop, error) {
	return nil, nil
}

func (f *fakeShopRepo) NearbyByService(ctx context.Context, q *model.NearbyQuery) ([]*model.RankedShop, error) {
	return nil, nil
}

func (f *fakeShopRepo) ListOfferings(ctx context.Context, shopID uuid.UUID) ([]*model.ShopServiceOffering, error) {
	return nil, nil
}

func (f *fakeShopRepo) OfferingShopIDs(ctx context.Context, category model.ServiceCategory, shopIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return nil, nil
}

type fakeBikeRepo struct {
	bike *model.Bike
}

func (f *fakeBikeRepo) Get(ctx context.Context, id uuid.UUID) (*model.Bike, error) {
	if f.bike == nil || f.bike.ID != id {
		return nil, errors.New("not found")
	}
	return f.bike, nil
}

func (f *fakeBikeRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Bike, error) {
	return []*model.Bike{f.bike}, nil
}

type fixture struct {
	svc          *Service
	appointments *fakeAppointmentRepo
	userID       uuid.UUID
	bike         *model.Bike
	shop         *model.Shop
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()

	bike := &model.Bike{UserID: userID, Make: "Yamaha", Model: "MT-07", Year: 2021}
	bike.ID = uuid.New()

	shop := &model.Shop{Name: "City Motorcycles"}
	shop.ID = uuid.New()

	appointments := newFakeAppointmentRepo()

	return &fixture{
		svc:          NewService(appointments, &fakeShopRepo{shop: shop}, &fakeBikeRepo{bike: bike}, nil),
		appointments: appointments,
		userID:       userID,
		bike:         bike,
		shop:         shop,
	}
}

func (fx *fixture) input() *BookInput {
	return &BookInput{
		UserID:        fx.userID,
		BikeID:        fx.bike.ID,
		ShopID:        fx.shop.ID,
		Category:      model.CategoryOilChange,
		RequestedTime: time.Now().Add(48 * time.Hour),
		Urgency:       model.UrgencyRoutine,
		Notes:         "Prefer a morning slot",
	}
}

func TestBook(t *testing.T) {
	fx := newFixture(t)

	apt, err := fx.svc.Book(context.Background(), fx.input())
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.Equal(t, fx.shop.ID, apt.ShopID)
	assert.NotEqual(t, uuid.Nil, apt.ID)

	listed, err := fx.svc.ListForUser(context.Background(), fx.userID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestBookRejectsPastTime(t *testing.T) {
	fx := newFixture(t)

	in := fx.input()
	in.RequestedTime = time.Now().Add(-time.Hour)

	_, err := fx.svc.Book(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}

func TestBookRejectsUnknownShop(t *testing.T) {
	fx := newFixture(t)

	in := fx.input()
	in.ShopID = uuid.New()

	_, err := fx.svc.Book(context.Background(), in)
	assert.Error(t, err)
}

func TestBookRejectsForeignBike(t *testing.T) {
	fx := newFixture(t)
	fx.bike.UserID = uuid.New()

	_, err := fx.svc.Book(context.Background(), fx.input())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestBookValidation(t *testing.T) {
	fx := newFixture(t)

	in := fx.input()
	in.Category = "upholstery"
	_, err := fx.svc.Book(context.Background(), in)
	assert.Error(t, err)

	in = fx.input()
	in.Urgency = "someday"
	_, err = fx.svc.Book(context.Background(), in)
	assert.Error(t, err)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	fx := newFixture(t)

	apt, err := fx.svc.Book(context.Background(), fx.input())
	require.NoError(t, err)

	apt, err = fx.svc.UpdateStatus(context.Background(), apt.ID, fx.userID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)

	apt, err = fx.svc.UpdateStatus(context.Background(), apt.ID, fx.userID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, apt.Status)

	// Completed is terminal.
	_, err = fx.svc.UpdateStatus(context.Background(), apt.ID, fx.userID, model.AppointmentStatusCancelled)
	assert.Error(t, err)
}

func TestUpdateStatusRejectsSkippedStates(t *testing.T) {
	fx := newFixture(t)

	apt, err := fx.svc.Book(context.Background(), fx.input())
	require.NoError(t, err)

	// pending may not jump straight to completed.
	_, err = fx.svc.UpdateStatus(context.Background(), apt.ID, fx.userID, model.AppointmentStatusCompleted)
	assert.Error(t, err)

	_, err = fx.svc.UpdateStatus(context.Background(), apt.ID, fx.userID, "archived")
	assert.Error(t, err)

	apt, err = fx.svc.UpdateStatus(context.Background(), apt.ID, fx.userID, model.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)

	_, err = fx.svc.UpdateStatus(context.Background(), apt.ID, fx.userID, model.AppointmentStatusConfirmed)
	assert.Error(t, err)
}

func TestGetAndUpdateHideForeignAppointments(t *testing.T) {
	fx := newFixture(t)

	apt, err := fx.svc.Book(context.Background(), fx.input())
	require.NoError(t, err)

	stranger := uuid.New()

	_, err = fx.svc.Get(context.Background(), apt.ID, stranger)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.svc.UpdateStatus(context.Background(), apt.ID, stranger, model.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	// A booking that does not exist looks the same as a foreign one.
	_, err = fx.svc.Get(context.Background(), uuid.New(), fx.userID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The owner still sees it untouched.
	apt, err = fx.svc.Get(context.Background(), apt.ID, fx.userID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
}
