package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/repository"
)

type TrialLessonService interface {
	CreateTrialLesson(ctx context.Context, req *models.CreateTrialLessonRequest) (*models.TrialLesson, error)
	GetTrialLessonByID(ctx context.Context, id string) (*models.TrialLesson, error)
	GetAllTrialLessons(ctx context.Context, page, limit int) ([]models.TrialLessonWithTeacher, int, error)
	UpdateTrialLesson(ctx context.Context, id string, req *models.CreateTrialLessonRequest) error
	UpdateTrialLessonStatus(ctx context.Context, id, status string) error
	DeleteTrialLesson(ctx context.Context, id string) error
}

type trialLessonService struct {
	trialLessonRepo repository.TrialLessonRepository
	teacherRepo     repository.TeacherRepository
	logger          zerolog.Logger
}

func NewTrialLessonService(
	trialLessonRepo repository.TrialLessonRepository,
	teacherRepo repository.TeacherRepository,
	logger zerolog.Logger,
) TrialLessonService {
	return &trialLessonService{
		trialLessonRepo: trialLessonRepo,
		teacherRepo:     teacherRepo,
		logger:          logger,
	}
}

func (s *trialLessonService) CreateTrialLesson(ctx context.Context, req *models.CreateTrialLessonRequest) (*models.TrialLesson, error) {
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, newValidationError("scheduled_at", "expected RFC3339 timestamp")
	}

	if req.TeacherID != nil {
		exists, err := s.teacherRepo.Exists(ctx, *req.TeacherID)
		if err != nil {
			return nil, fmt.Errorf("failed to check teacher existence: %w", err)
		}
		if !exists {
			return nil, newIntegrityError("trial lesson references an unknown teacher")
		}
	}

	trialLesson := &models.TrialLesson{
		ID:          uuid.New().String(),
		StudentName: req.StudentName,
		Instrument:  req.Instrument,
		TeacherID:   req.TeacherID,
		ScheduledAt: scheduledAt,
		Status:      models.TrialLessonStatusPending.String(),
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.trialLessonRepo.Create(ctx, trialLesson); err != nil {
		return nil, fmt.Errorf("failed to create trial lesson: %w", err)
	}

	s.logger.Info().
		Str("trial_lesson_id", trialLesson.ID).
		Str("student_name", trialLesson.StudentName).
		Msg("Trial lesson created")

	return trialLesson, nil
}

func (s *trialLessonService) GetTrialLessonByID(ctx context.Context, id string) (*models.TrialLesson, error) {
	trialLesson, err := s.trialLessonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trial lesson: %w", err)
	}
	if trialLesson == nil {
		return nil, ErrTrialLessonNotFound
	}

	return trialLesson, nil
}

func (s *trialLessonService) GetAllTrialLessons(ctx context.Context, page, limit int) ([]models.TrialLessonWithTeacher, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	trialLessons, total, err := s.trialLessonRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get trial lessons: %w", err)
	}

	return trialLessons, total, nil
}

func (s *trialLessonService) UpdateTrialLesson(ctx context.Context, id string, req *models.CreateTrialLessonRequest) error {
	trialLesson, err := s.trialLessonRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get trial lesson: %w", err)
	}
	if trialLesson == nil {
		return ErrTrialLessonNotFound
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return newValidationError("scheduled_at", "expected RFC3339 timestamp")
	}

	if req.TeacherID != nil {
		exists, err := s.teacherRepo.Exists(ctx, *req.TeacherID)
		if err != nil {
			return fmt.Errorf("failed to check teacher existence: %w", err)
		}
		if !exists {
			return newIntegrityError("trial lesson references an unknown teacher")
		}
	}

	trialLesson.StudentName = req.StudentName
	trialLesson.Instrument = req.Instrument
	trialLesson.TeacherID = req.TeacherID
	trialLesson.ScheduledAt = scheduledAt
	trialLesson.Notes = req.Notes
	trialLesson.UpdatedAt = time.Now()

	return s.trialLessonRepo.Update(ctx, trialLesson)
}

func (s *trialLessonService) UpdateTrialLessonStatus(ctx context.Context, id, status string) error {
	if !models.IsValidTrialLessonStatus(status) {
		return newValidationError("status", "must be pending, confirmed, completed or cancelled")
	}

	trialLesson, err := s.trialLessonRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get trial lesson: %w", err)
	}
	if trialLesson == nil {
		return ErrTrialLessonNotFound
	}

	return s.trialLessonRepo.UpdateStatus(ctx, id, status)
}

func (s *trialLessonService) DeleteTrialLesson(ctx context.Context, id string) error {
	trialLesson, err := s.trialLessonRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get trial lesson: %w", err)
	}
	if trialLesson == nil {
		return ErrTrialLessonNotFound
	}

	return s.trialLessonRepo.Delete(ctx, id)
}
