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

type TeacherService interface {
	CreateTeacher(ctx context.Context, req *models.CreateTeacherRequest) (*models.Teacher, error)
	GetTeacherByID(ctx context.Context, id string) (*models.Teacher, error)
	GetAllTeachers(ctx context.Context, page, limit int) ([]models.Teacher, int, error)
	UpdateTeacher(ctx context.Context, id string, req *models.CreateTeacherRequest) error
	DeleteTeacher(ctx context.Context, id string) error
}

type teacherService struct {
	teacherRepo repository.TeacherRepository
	logger      zerolog.Logger
}

func NewTeacherService(teacherRepo repository.TeacherRepository, logger zerolog.Logger) TeacherService {
	return &teacherService{
		teacherRepo: teacherRepo,
		logger:      logger,
	}
}

func (s *teacherService) CreateTeacher(ctx context.Context, req *models.CreateTeacherRequest) (*models.Teacher, error) {
	existingTeacher, err := s.teacherRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing teacher: %w", err)
	}
	if existingTeacher != nil {
		return nil, newValidationError("email", "teacher with this email already exists")
	}

	teacher := &models.Teacher{
		ID:          uuid.New().String(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Instruments: req.Instruments,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}

	s.logger.Info().
		Str("teacher_id", teacher.ID).
		Str("email", teacher.Email).
		Msg("Teacher created")

	return teacher, nil
}

func (s *teacherService) GetTeacherByID(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return nil, ErrTeacherNotFound
	}

	return teacher, nil
}

func (s *teacherService) GetAllTeachers(ctx context.Context, page, limit int) ([]models.Teacher, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	teachers, total, err := s.teacherRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get all teachers: %w", err)
	}

	return teachers, total, nil
}

func (s *teacherService) UpdateTeacher(ctx context.Context, id string, req *models.CreateTeacherRequest) error {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return ErrTeacherNotFound
	}

	if req.Email != teacher.Email {
		existingTeacher, err := s.teacherRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email availability: %w", err)
		}
		if existingTeacher != nil {
			return newValidationError("email", "email already in use by another teacher")
		}
	}

	teacher.FirstName = req.FirstName
	teacher.LastName = req.LastName
	teacher.Email = req.Email
	teacher.Phone = req.Phone
	teacher.Instruments = req.Instruments
	teacher.UpdatedAt = time.Now()

	return s.teacherRepo.Update(ctx, teacher)
}

func (s *teacherService) DeleteTeacher(ctx context.Context, id string) error {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return ErrTeacherNotFound
	}

	return s.teacherRepo.Delete(ctx, id)
}
