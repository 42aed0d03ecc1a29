package service_test

import (
	"context"
	"time"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
)

// ---------- Mocks ----------

type mockUserRepo struct {
	nextID    int64
	users     map[int64]*domain.User
	byEmail   map[string]*domain.User
	createErr error
	findErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		nextID:  1,
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *mockUserRepo) add(u *domain.User) *domain.User {
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	return u
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	user.IsActive = true
	return m.add(user), nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byEmail[email], nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) TouchLastLogin(_ context.Context, id int64) error {
	if u, ok := m.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

type mockClassroomRepo struct {
	nextID     int64
	classrooms map[int64]*domain.Classroom
	updateErr  error
}

func newMockClassroomRepo() *mockClassroomRepo {
	return &mockClassroomRepo{
		nextID:     1,
		classrooms: make(map[int64]*domain.Classroom),
	}
}

func (m *mockClassroomRepo) add(c *domain.Classroom) *domain.Classroom {
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.classrooms[c.ID] = c
	return c
}

func (m *mockClassroomRepo) Create(_ context.Context, req *domain.CreateClassroomRequest) (*domain.Classroom, error) {
	return m.add(&domain.Classroom{
		Name:      req.Name,
		Location:  req.Location,
		Capacity:  req.Capacity,
		Status:    req.Status,
		Utilities: req.Utilities,
	}), nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id int64) (*domain.Classroom, error) {
	return m.classrooms[id], nil
}

func (m *mockClassroomRepo) List(_ context.Context, location string) ([]domain.Classroom, error) {
	var out []domain.Classroom
	for _, c := range m.classrooms {
		if location == "" || c.Location == location {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockClassroomRepo) UpdateState(_ context.Context, id int64, patch domain.ClassroomStatePatch) (*domain.Classroom, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	c, ok := m.classrooms[id]
	if !ok {
		return nil, nil
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Utilities != nil {
		c.Utilities = patch.Utilities
	}
	if patch.Note != nil && *patch.Note != "" {
		c.Notes = append(c.Notes, domain.Note{ClassroomID: id, Text: *patch.Note, CreatedAt: time.Now()})
	}
	c.UpdatedAt = time.Now()
	return c, nil
}

func (m *mockClassroomRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.classrooms[id]; !ok {
		return false, nil
	}
	delete(m.classrooms, id)
	return true, nil
}

type mockReservationRepo struct {
	nextID       int64
	reservations map[int64]*domain.Reservation
	views        map[int64]*domain.ReservationView
	createErr    error
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{
		nextID:       1,
		reservations: make(map[int64]*domain.Reservation),
		views:        make(map[int64]*domain.ReservationView),
	}
}

func (m *mockReservationRepo) add(r *domain.Reservation) *domain.Reservation {
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.reservations[r.ID] = r
	m.views[r.ID] = &domain.ReservationView{
		ID:        r.ID,
		Status:    r.Status,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Purpose:   r.Purpose,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	return r
}

func (m *mockReservationRepo) Create(_ context.Context, userID int64, req *domain.CreateReservationRequest) (*domain.Reservation, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.add(&domain.Reservation{
		UserID:      userID,
		ClassroomID: req.ClassroomID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Purpose:     req.Purpose,
		Status:      domain.ReservationPending,
	}), nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	return m.reservations[id], nil
}

func (m *mockReservationRepo) GetViewByID(_ context.Context, id int64) (*domain.ReservationView, error) {
	return m.views[id], nil
}

func (m *mockReservationRepo) ListViews(_ context.Context) ([]domain.ReservationView, error) {
	var out []domain.ReservationView
	for _, v := range m.views {
		out = append(out, *v)
	}
	return out, nil
}

func (m *mockReservationRepo) Decide(_ context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok || r.Status != domain.ReservationPending {
		return nil, nil
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	m.views[id].Status = status
	return r, nil
}

func (m *mockReservationRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.reservations[id]; !ok {
		return false, nil
	}
	delete(m.reservations, id)
	delete(m.views, id)
	return true, nil
}

type mockIdempotencyRepo struct {
	keys map[string]int64
}

func newMockIdempotencyRepo() *mockIdempotencyRepo {
	return &mockIdempotencyRepo{keys: make(map[string]int64)}
}

func (m *mockIdempotencyRepo) CheckOrCreate(_ context.Context, key string, reservationID int64) (int64, error) {
	if existing, ok := m.keys[key]; ok {
		return existing, nil
	}
	if reservationID > 0 {
		m.keys[key] = reservationID
	}
	return 0, nil
}

func (m *mockIdempotencyRepo) CleanupExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type mockPublisher struct {
	published  []publishedEvent
	publishErr error
}

type publishedEvent struct {
	subject string
	data    interface{}
}

func (m *mockPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedEvent{subject: subject, data: data})
	return nil
}

func (m *mockPublisher) Close() error { return nil }
