package service

import (
	"context"
	"fmt"
	"time"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/internal/repository"
	"github.com/PAUBookIt/book-it-backend/pkg/events"
	"github.com/PAUBookIt/book-it-backend/pkg/logger"
)

type ReservationService interface {
	Create(ctx context.Context, actor domain.Actor, req *domain.CreateReservationRequest, idempotencyKey string) (*domain.Reservation, error)
	Get(ctx context.Context, id int64) (*domain.ReservationView, error)
	List(ctx context.Context) (*domain.ReservationList, error)
	Decide(ctx context.Context, actor domain.Actor, id int64, status string) (*domain.Reservation, error)
	Remove(ctx context.Context, actor domain.Actor, id int64) error
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	classroomRepo   repository.ClassroomRepository
	userRepo        repository.UserRepository
	idempotencyRepo repository.IdempotencyRepository
	eventBus        events.Publisher
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	classroomRepo repository.ClassroomRepository,
	userRepo repository.UserRepository,
	idempotencyRepo repository.IdempotencyRepository,
	eventBus events.Publisher,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		classroomRepo:   classroomRepo,
		userRepo:        userRepo,
		idempotencyRepo: idempotencyRepo,
		eventBus:        eventBus,
	}
}

// Create inserts a reservation in PENDING status. Classroom availability
// is not touched here: room state is maintained independently through
// the registry, and approval never flips it either.
func (s *reservationService) Create(ctx context.Context, actor domain.Actor, req *domain.CreateReservationRequest, idempotencyKey string) (*domain.Reservation, error) {
	if !domain.CanPerform(actor, domain.ActionCreateReservation) {
		return nil, domain.ErrUnauthorized
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}

	classroom, err := s.classroomRepo.GetByID(ctx, req.ClassroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load classroom: %w", err)
	}
	if classroom == nil {
		return nil, fmt.Errorf("classroom: %w", domain.ErrNotFound)
	}

	if idempotencyKey != "" {
		existingID, err := s.idempotencyRepo.CheckOrCreate(ctx, idempotencyKey, 0)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if existingID > 0 {
			return s.reservationRepo.GetByID(ctx, existingID)
		}
	}

	reservation, err := s.reservationRepo.Create(ctx, actor.ID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	if idempotencyKey != "" {
		if _, err := s.idempotencyRepo.CheckOrCreate(ctx, idempotencyKey, reservation.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to store idempotency record", "error", err, "reservation_id", reservation.ID)
		}
	}

	event := events.ReservationCreatedEvent{
		ReservationID: reservation.ID,
		UserID:        user.ID,
		UserEmail:     user.Email,
		UserName:      user.Name,
		ClassroomID:   classroom.ID,
		ClassroomName: classroom.Name,
		StartTime:     reservation.StartTime,
		EndTime:       reservation.EndTime,
		Purpose:       reservation.Purpose,
		CreatedAt:     reservation.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.ReservationCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish reservation created event", "error", err, "reservation_id", reservation.ID)
	}

	return reservation, nil
}

func (s *reservationService) Get(ctx context.Context, id int64) (*domain.ReservationView, error) {
	view, err := s.reservationRepo.GetViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	return view, nil
}

// List partitions every reservation by current status, newest first.
func (s *reservationService) List(ctx context.Context) (*domain.ReservationList, error) {
	views, err := s.reservationRepo.ListViews(ctx)
	if err != nil {
		return nil, err
	}

	list := &domain.ReservationList{
		Pending:    []domain.ReservationView{},
		Approved:   []domain.ReservationView{},
		Denied:     []domain.ReservationView{},
		LastUpdate: time.Now(),
	}
	for _, v := range views {
		switch v.Status {
		case domain.ReservationApproved:
			list.Approved = append(list.Approved, v)
		case domain.ReservationDenied:
			list.Denied = append(list.Denied, v)
		default:
			list.Pending = append(list.Pending, v)
		}
	}
	return list, nil
}

// Decide transitions a PENDING reservation to APPROVED or DENIED.
// Both target states are absorbing: deciding twice fails.
func (s *reservationService) Decide(ctx context.Context, actor domain.Actor, id int64, status string) (*domain.Reservation, error) {
	if !domain.CanPerform(actor, domain.ActionDecideReservation) {
		return nil, domain.ErrUnauthorized
	}

	target, ok := domain.ParseReservationStatus(status)
	if !ok || !target.Decided() {
		return nil, fmt.Errorf("%w: status must be APPROVED or DENIED", domain.ErrMissingFields)
	}

	existing, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if existing.Status.Decided() {
		return nil, domain.ErrAlreadyDecided
	}

	updated, err := s.reservationRepo.Decide(ctx, id, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	if updated == nil {
		// Lost a race with another decision.
		return nil, domain.ErrAlreadyDecided
	}

	if view, err := s.reservationRepo.GetViewByID(ctx, id); err == nil && view != nil {
		event := events.ReservationDecidedEvent{
			ReservationID: view.ID,
			UserEmail:     view.UserEmail,
			UserName:      view.UserName,
			ClassroomName: view.ClassroomName,
			Status:        string(updated.Status),
			StartTime:     view.StartTime,
			EndTime:       view.EndTime,
			DecidedBy:     actor.ID,
			DecidedAt:     updated.UpdatedAt,
		}
		if err := s.eventBus.Publish(ctx, events.ReservationDecided, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish reservation decided event", "error", err, "reservation_id", id)
		}
	}

	logger.InfoContext(ctx, "Reservation decided", "reservation_id", id, "status", updated.Status, "decided_by", actor.ID)
	return updated, nil
}

func (s *reservationService) Remove(ctx context.Context, actor domain.Actor, id int64) error {
	if !domain.CanPerform(actor, domain.ActionDecideReservation) {
		return domain.ErrUnauthorized
	}

	deleted, err := s.reservationRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	logger.InfoContext(ctx, "Reservation deleted", "reservation_id", id, "deleted_by", actor.ID)
	return nil
}
