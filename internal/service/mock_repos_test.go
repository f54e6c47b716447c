package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tablebook/internal/model"
	apperrors "tablebook/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		loc.LocationID = "loc-" + loc.Name
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, includeInactive bool) ([]model.Location, error) {
	var result []model.Location
	for _, l := range m.locations {
		if !includeInactive && !l.IsActive {
			continue
		}
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.locations, id)
	return nil
}

// ── Mock TableRepository ──

type mockTableRepo struct {
	tables    map[string]*model.RestaurantTable
	locations *mockLocationRepo // GetByID 预加载 Location 关联
}

func newMockTableRepo(locations *mockLocationRepo) *mockTableRepo {
	return &mockTableRepo{
		tables:    make(map[string]*model.RestaurantTable),
		locations: locations,
	}
}

func (m *mockTableRepo) Create(_ context.Context, table *model.RestaurantTable) error {
	if table.TableID == "" {
		table.TableID = "table-" + table.TableNumber
	}
	m.tables[table.TableID] = table
	return nil
}

func (m *mockTableRepo) GetByID(_ context.Context, id string) (*model.RestaurantTable, error) {
	t, ok := m.tables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	if m.locations != nil {
		if loc, ok := m.locations.locations[t.LocationID]; ok {
			cp.Location = loc
		}
	}
	return &cp, nil
}

func (m *mockTableRepo) ListByLocation(_ context.Context, locationID string, minCapacity int) ([]model.RestaurantTable, error) {
	var result []model.RestaurantTable
	for _, t := range m.tables {
		if t.LocationID != locationID || !t.IsActive {
			continue
		}
		if minCapacity > 0 && t.Capacity < minCapacity {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTableRepo) Update(_ context.Context, table *model.RestaurantTable) error {
	m.tables[table.TableID] = table
	return nil
}

func (m *mockTableRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.tables, id)
	return nil
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	reservations map[string]*model.Reservation
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[string]*model.Reservation)}
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	if r, ok := m.reservations[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) ListByDateAndLocation(_ context.Context, date time.Time, locationID string, includeCancelled bool) ([]model.Reservation, error) {
	day := date.Format("2006-01-02")
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.Date.Format("2006-01-02") != day || r.LocationID != locationID {
			continue
		}
		if !includeCancelled && r.Status == model.StatusCancelled {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockReservationRepo) ListByUserEmail(_ context.Context, email string) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.UserEmail == email {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) ListByWaiter(_ context.Context, waiterID string) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.WaiterID != nil && *r.WaiterID == waiterID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) UpsertChecked(_ context.Context, res *model.Reservation, includeCancelled bool) error {
	day := res.Date.Format("2006-01-02")
	for _, r := range m.reservations {
		if r.ReservationID == res.ReservationID {
			continue
		}
		if r.Date.Format("2006-01-02") != day ||
			r.LocationAddress != res.LocationAddress ||
			r.TableID != res.TableID {
			continue
		}
		if !includeCancelled && r.Status == model.StatusCancelled {
			continue
		}
		if r.UserEmail == res.UserEmail {
			continue
		}
		if r.TimeFrom < res.TimeTo && r.TimeTo > res.TimeFrom {
			return apperrors.ErrTimeConflict
		}
	}
	if res.ReservationID == "" {
		res.ReservationID = fmt.Sprintf("res-%d", len(m.reservations)+1)
	}
	m.reservations[res.ReservationID] = res
	return nil
}

func (m *mockReservationRepo) UpdateStatus(_ context.Context, id, status string, updatedBy string) error {
	r, ok := m.reservations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	r.UpdatedBy = &updatedBy
	r.UpdatedAt = time.Now()
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
