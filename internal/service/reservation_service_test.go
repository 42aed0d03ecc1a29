package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/internal/service"
	"github.com/PAUBookIt/book-it-backend/pkg/events"
)

type reservationFixture struct {
	svc          service.ReservationService
	users        *mockUserRepo
	classrooms   *mockClassroomRepo
	reservations *mockReservationRepo
	idempotency  *mockIdempotencyRepo
	bus          *mockPublisher
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		users:        newMockUserRepo(),
		classrooms:   newMockClassroomRepo(),
		reservations: newMockReservationRepo(),
		idempotency:  newMockIdempotencyRepo(),
		bus:          &mockPublisher{},
	}
	f.svc = service.NewReservationService(f.reservations, f.classrooms, f.users, f.idempotency, f.bus)
	return f
}

func (f *reservationFixture) seedStudent() domain.Actor {
	nt := domain.NormalStudent
	u := f.users.add(&domain.User{
		Role:       domain.RoleNormal,
		NormalType: &nt,
		Name:       "Ada Obi",
		Email:      "ada.obi@pau.edu.ng",
		IsActive:   true,
	})
	return domain.Actor{ID: u.ID, Email: u.Email, Role: u.Role, SubType: u.SubType()}
}

func (f *reservationFixture) seedClassroom() *domain.Classroom {
	return f.classrooms.add(&domain.Classroom{
		Name:     "SST 101",
		Location: "SST",
		Capacity: 60,
		Status:   domain.ClassroomAvailable,
	})
}

func validRequest(classroomID int64) *domain.CreateReservationRequest {
	start := time.Now().Add(24 * time.Hour)
	return &domain.CreateReservationRequest{
		ClassroomID: classroomID,
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
	}
}

func TestCreateReservationStartsPending(t *testing.T) {
	f := newReservationFixture()
	actor := f.seedStudent()
	room := f.seedClassroom()

	res, err := f.svc.Create(context.Background(), actor, validRequest(room.ID), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.Status != domain.ReservationPending {
		t.Errorf("status = %q, want PENDING", res.Status)
	}
	if res.UserID != actor.ID {
		t.Errorf("user_id = %d, want %d", res.UserID, actor.ID)
	}
	if res.Purpose != domain.DefaultPurpose {
		t.Errorf("purpose = %q, want default", res.Purpose)
	}

	if len(f.bus.published) != 1 || f.bus.published[0].subject != events.ReservationCreated {
		t.Errorf("expected one %s event, got %+v", events.ReservationCreated, f.bus.published)
	}
}

func TestCreateReservationInvalidInterval(t *testing.T) {
	f := newReservationFixture()
	actor := f.seedStudent()
	room := f.seedClassroom()

	req := validRequest(room.ID)
	req.EndTime = req.StartTime.Add(-time.Hour)

	if _, err := f.svc.Create(context.Background(), actor, req, ""); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Errorf("Create() error = %v, want ErrInvalidInterval", err)
	}
	if len(f.reservations.reservations) != 0 {
		t.Error("invalid request should not persist a reservation")
	}
}

func TestCreateReservationAnonymousRejected(t *testing.T) {
	f := newReservationFixture()
	room := f.seedClassroom()

	_, err := f.svc.Create(context.Background(), domain.Actor{}, validRequest(room.ID), "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Create() error = %v, want ErrUnauthorized", err)
	}
}

func TestCreateReservationUnknownClassroom(t *testing.T) {
	f := newReservationFixture()
	actor := f.seedStudent()

	_, err := f.svc.Create(context.Background(), actor, validRequest(999), "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestCreateReservationIdempotencyReplay(t *testing.T) {
	f := newReservationFixture()
	actor := f.seedStudent()
	room := f.seedClassroom()

	first, err := f.svc.Create(context.Background(), actor, validRequest(room.ID), "key-1")
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	second, err := f.svc.Create(context.Background(), actor, validRequest(room.ID), "key-1")
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("replayed create returned id %d, want %d", second.ID, first.ID)
	}
	if len(f.reservations.reservations) != 1 {
		t.Errorf("reservation count = %d, want 1", len(f.reservations.reservations))
	}
}

func TestDecideReservation(t *testing.T) {
	f := newReservationFixture()
	student := f.seedStudent()
	room := f.seedClassroom()
	admin := domain.Actor{ID: 99, Role: domain.RoleAdmin, SubType: "facility"}

	res, err := f.svc.Create(context.Background(), student, validRequest(room.ID), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := f.svc.Decide(context.Background(), admin, res.ID, "APPROVED")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if updated.Status != domain.ReservationApproved {
		t.Errorf("status = %q, want APPROVED", updated.Status)
	}

	var decided int
	for _, e := range f.bus.published {
		if e.subject == events.ReservationDecided {
			decided++
		}
	}
	if decided != 1 {
		t.Errorf("expected one %s event, got %d", events.ReservationDecided, decided)
	}
}

func TestDecideReservationNonAdminRejected(t *testing.T) {
	f := newReservationFixture()
	student := f.seedStudent()
	room := f.seedClassroom()

	res, err := f.svc.Create(context.Background(), student, validRequest(room.ID), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = f.svc.Decide(context.Background(), student, res.ID, "APPROVED")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Decide() error = %v, want ErrUnauthorized", err)
	}

	// The rejected decision must leave the reservation untouched.
	stored := f.reservations.reservations[res.ID]
	if stored.Status != domain.ReservationPending {
		t.Errorf("status after rejected decide = %q, want PENDING", stored.Status)
	}
}

func TestDecideReservationAbsorbing(t *testing.T) {
	f := newReservationFixture()
	student := f.seedStudent()
	room := f.seedClassroom()
	admin := domain.Actor{ID: 99, Role: domain.RoleAdmin, SubType: "security"}

	res, err := f.svc.Create(context.Background(), student, validRequest(room.ID), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := f.svc.Decide(context.Background(), admin, res.ID, "DENIED"); err != nil {
		t.Fatalf("first Decide() error = %v", err)
	}

	// Both decided states absorb: a second decision fails and changes nothing.
	_, err = f.svc.Decide(context.Background(), admin, res.ID, "APPROVED")
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Errorf("second Decide() error = %v, want ErrAlreadyDecided", err)
	}
	if f.reservations.reservations[res.ID].Status != domain.ReservationDenied {
		t.Error("second decision must not overwrite the first")
	}
}

func TestDecideReservationInvalidStatus(t *testing.T) {
	f := newReservationFixture()
	student := f.seedStudent()
	room := f.seedClassroom()
	admin := domain.Actor{ID: 99, Role: domain.RoleAdmin, SubType: "facility"}

	res, err := f.svc.Create(context.Background(), student, validRequest(room.ID), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, status := range []string{"PENDING", "approved", "CANCELLED", ""} {
		if _, err := f.svc.Decide(context.Background(), admin, res.ID, status); !errors.Is(err, domain.ErrMissingFields) {
			t.Errorf("Decide(%q) error = %v, want ErrMissingFields", status, err)
		}
	}
}

func TestDecideReservationNotFound(t *testing.T) {
	f := newReservationFixture()
	admin := domain.Actor{ID: 99, Role: domain.RoleAdmin, SubType: "facility"}

	_, err := f.svc.Decide(context.Background(), admin, 404, "APPROVED")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Decide() error = %v, want ErrNotFound", err)
	}
}

func TestListReservationsPartitions(t *testing.T) {
	f := newReservationFixture()
	student := f.seedStudent()
	room := f.seedClassroom()
	admin := domain.Actor{ID: 99, Role: domain.RoleAdmin, SubType: "facility"}

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 4; i++ {
		res, err := f.svc.Create(ctx, student, validRequest(room.ID), "")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, res.ID)
	}

	if _, err := f.svc.Decide(ctx, admin, ids[0], "APPROVED"); err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if _, err := f.svc.Decide(ctx, admin, ids[1], "DENIED"); err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	list, err := f.svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(list.Pending) != 2 || len(list.Approved) != 1 || len(list.Denied) != 1 {
		t.Errorf("partition sizes = %d/%d/%d, want 2/1/1",
			len(list.Pending), len(list.Approved), len(list.Denied))
	}
	// Every reservation lands in exactly one bucket.
	if total := len(list.Pending) + len(list.Approved) + len(list.Denied); total != 4 {
		t.Errorf("total partitioned = %d, want 4", total)
	}
	if list.LastUpdate.IsZero() {
		t.Error("last_update should be set")
	}
}

func TestListReservationsEmptyBuckets(t *testing.T) {
	f := newReservationFixture()

	list, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Pending == nil || list.Approved == nil || list.Denied == nil {
		t.Error("empty buckets must be empty slices, not nil")
	}
}

func TestRemoveReservation(t *testing.T) {
	f := newReservationFixture()
	student := f.seedStudent()
	room := f.seedClassroom()
	admin := domain.Actor{ID: 99, Role: domain.RoleAdmin, SubType: "facility"}

	res, err := f.svc.Create(context.Background(), student, validRequest(room.ID), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.svc.Remove(context.Background(), student, res.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("non-admin Remove() error = %v, want ErrUnauthorized", err)
	}
	if err := f.svc.Remove(context.Background(), admin, res.ID); err != nil {
		t.Errorf("admin Remove() error = %v", err)
	}
	if err := f.svc.Remove(context.Background(), admin, res.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("repeat Remove() error = %v, want ErrNotFound", err)
	}
}
