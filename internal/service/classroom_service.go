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

type ClassroomService interface {
	Create(ctx context.Context, actor domain.Actor, req *domain.CreateClassroomRequest) (*domain.Classroom, error)
	Get(ctx context.Context, id int64) (*domain.Classroom, error)
	List(ctx context.Context, location string) (map[string][]domain.Classroom, error)
	UpdateState(ctx context.Context, actor domain.Actor, id int64, patch domain.ClassroomStatePatch) (*domain.Classroom, error)
	Remove(ctx context.Context, actor domain.Actor, id int64) error
}

type classroomService struct {
	classroomRepo repository.ClassroomRepository
	eventBus      events.Publisher
}

func NewClassroomService(classroomRepo repository.ClassroomRepository, eventBus events.Publisher) ClassroomService {
	return &classroomService{
		classroomRepo: classroomRepo,
		eventBus:      eventBus,
	}
}

func (s *classroomService) Create(ctx context.Context, actor domain.Actor, req *domain.CreateClassroomRequest) (*domain.Classroom, error) {
	if !domain.CanPerform(actor, domain.ActionUpdateRoomState) {
		return nil, domain.ErrUnauthorized
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	classroom, err := s.classroomRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create classroom: %w", err)
	}

	logger.InfoContext(ctx, "Classroom created", "classroom_id", classroom.ID, "name", classroom.Name)
	return classroom, nil
}

func (s *classroomService) Get(ctx context.Context, id int64) (*domain.Classroom, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, domain.ErrNotFound
	}
	return classroom, nil
}

// List returns classrooms grouped by campus zone so the caller can
// render one section per location.
func (s *classroomService) List(ctx context.Context, location string) (map[string][]domain.Classroom, error) {
	classrooms, err := s.classroomRepo.List(ctx, location)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.Classroom)
	for _, c := range classrooms {
		grouped[c.Location] = append(grouped[c.Location], c)
	}
	return grouped, nil
}

func (s *classroomService) UpdateState(ctx context.Context, actor domain.Actor, id int64, patch domain.ClassroomStatePatch) (*domain.Classroom, error) {
	if !domain.CanPerform(actor, domain.ActionUpdateRoomState) {
		return nil, domain.ErrUnauthorized
	}
	if patch.IsEmpty() {
		return nil, domain.ErrMissingFields
	}

	classroom, err := s.classroomRepo.UpdateState(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update classroom: %w", err)
	}
	if classroom == nil {
		return nil, domain.ErrNotFound
	}

	event := events.ClassroomUpdatedEvent{
		ClassroomID: classroom.ID,
		Status:      classroom.Status,
		NoteAdded:   patch.Note != nil && *patch.Note != "",
		UpdatedBy:   actor.ID,
		UpdatedAt:   time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.ClassroomUpdated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish classroom updated event", "error", err, "classroom_id", classroom.ID)
	}

	return classroom, nil
}

func (s *classroomService) Remove(ctx context.Context, actor domain.Actor, id int64) error {
	if !domain.CanPerform(actor, domain.ActionUpdateRoomState) {
		return domain.ErrUnauthorized
	}

	deleted, err := s.classroomRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete classroom: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	logger.InfoContext(ctx, "Classroom deleted", "classroom_id", id)
	return nil
}
