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

type ContractService interface {
	// SaveContract создаёт новый договор (id == "") или обновляет существующий.
	SaveContract(ctx context.Context, id string, req *models.SaveContractRequest) (*models.SaveContractResponse, error)
	GetContractByID(ctx context.Context, id string) (*models.ContractDetailResponse, error)
	GetAllContracts(ctx context.Context, page, limit int) (*models.ContractsResponse, error)
	GetContractsByStudent(ctx context.Context, studentID string) ([]models.ContractWithDetails, error)
}

type contractService struct {
	tx           repository.Transactor
	contractRepo repository.ContractRepository
	lessonRepo   repository.LessonRepository
	studentRepo  repository.StudentRepository
	teacherRepo  repository.TeacherRepository
	notifier     NotificationService
	maxLessons   int
	logger       zerolog.Logger
}

func NewContractService(
	tx repository.Transactor,
	contractRepo repository.ContractRepository,
	lessonRepo repository.LessonRepository,
	studentRepo repository.StudentRepository,
	teacherRepo repository.TeacherRepository,
	notifier NotificationService,
	maxLessons int,
	logger zerolog.Logger,
) ContractService {
	if maxLessons < 1 {
		maxLessons = models.MaxLessonsPerContract
	}
	return &contractService{
		tx:           tx,
		contractRepo: contractRepo,
		lessonRepo:   lessonRepo,
		studentRepo:  studentRepo,
		teacherRepo:  teacherRepo,
		notifier:     notifier,
		maxLessons:   maxLessons,
		logger:       logger,
	}
}

func (s *contractService) SaveContract(ctx context.Context, id string, req *models.SaveContractRequest) (*models.SaveContractResponse, error) {
	// Вся валидация до первой записи.
	if !models.IsValidContractVariant(req.Variant) {
		return nil, newValidationError("variant", "unknown contract variant")
	}
	if req.LessonCount < 1 || req.LessonCount > s.maxLessons {
		return nil, newValidationError("lesson_count",
			fmt.Sprintf("must be between 1 and %d", s.maxLessons))
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return nil, newValidationError("discount_percent", "must be between 0 and 100")
	}
	if req.Status != nil && !models.IsValidContractStatus(*req.Status) {
		return nil, newValidationError("status", "must be active or completed")
	}

	studentExists, err := s.studentRepo.Exists(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student existence: %w", err)
	}
	if !studentExists {
		return nil, newIntegrityError("contract references an unknown student")
	}

	teacherExists, err := s.teacherRepo.Exists(ctx, req.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check teacher existence: %w", err)
	}
	if !teacherExists {
		return nil, newIntegrityError("contract references an unknown teacher")
	}

	if id == "" {
		return s.createContract(ctx, req)
	}
	return s.updateContract(ctx, id, req)
}

func (s *contractService) createContract(ctx context.Context, req *models.SaveContractRequest) (*models.SaveContractResponse, error) {
	// Новый договор всегда начинается активным, ручное завершение
	// доступно только при обновлении.
	if req.Status != nil && *req.Status == models.ContractStatusCompleted.String() {
		return nil, newValidationError("status", "new contract cannot start as completed")
	}

	warnings := []string{}
	if req.DiscountPercent == 100 {
		warnings = append(warnings, "contract has a 100% discount")
	}

	contract := &models.Contract{
		ID:              uuid.New().String(),
		StudentID:       req.StudentID,
		TeacherID:       req.TeacherID,
		Variant:         req.Variant,
		LessonCount:     req.LessonCount,
		DiscountPercent: req.DiscountPercent,
		Status:          models.ContractStatusActive.String(),
		AttendanceCount: fmt.Sprintf("0/%d", req.LessonCount),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.contractRepo.Create(ctx, contract); err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		lessons := make([]models.Lesson, 0, req.LessonCount)
		for i := 1; i <= req.LessonCount; i++ {
			lessons = append(lessons, models.Lesson{
				ID:           uuid.New().String(),
				ContractID:   contract.ID,
				LessonNumber: i,
				IsAvailable:  true,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			})
		}

		if err := s.lessonRepo.CreateBatch(ctx, lessons); err != nil {
			return fmt.Errorf("failed to create lesson batch: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("contract_id", contract.ID).
		Str("student_id", contract.StudentID).
		Int("lesson_count", contract.LessonCount).
		Msg("Contract created")

	return &models.SaveContractResponse{
		ContractID: contract.ID,
		Warnings:   warnings,
	}, nil
}

// updateContract правит поля договора, согласует журнал занятий с новым
// количеством и прогоняет машину состояний. Ручной перевод в completed
// всегда выполняется и всегда претендует на уведомление, дедупликация
// живёт в эмиттере. Повторное открытие completed-договора здесь запрещено.
func (s *contractService) updateContract(ctx context.Context, id string, req *models.SaveContractRequest) (*models.SaveContractResponse, error) {
	warnings := []string{}
	var fulfilledContractID string

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		acquired, err := s.contractRepo.TryAdvisoryLock(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to acquire contract lock: %w", err)
		}
		if !acquired {
			return ErrContractBusy
		}

		contract, err := s.contractRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if contract == nil {
			return ErrContractNotFound
		}

		if req.Status != nil &&
			*req.Status == models.ContractStatusActive.String() &&
			contract.Status == models.ContractStatusCompleted.String() {
			return newValidationError("status", "completed contract cannot be reopened")
		}

		previousCount := contract.LessonCount
		contract.StudentID = req.StudentID
		contract.TeacherID = req.TeacherID
		contract.Variant = req.Variant
		contract.LessonCount = req.LessonCount
		contract.DiscountPercent = req.DiscountPercent

		if err := s.contractRepo.Update(ctx, contract); err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		if req.LessonCount < previousCount {
			existing, err := s.lessonRepo.GetByContractID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get contract lessons: %w", err)
			}
			for _, lesson := range existing {
				if lesson.LessonNumber > req.LessonCount && lesson.IsCompleted() {
					warnings = append(warnings, "completed lessons were removed when reducing the lesson count")
					break
				}
			}
			if err := s.lessonRepo.DeleteAboveNumber(ctx, id, req.LessonCount); err != nil {
				return fmt.Errorf("failed to trim lessons: %w", err)
			}
		} else if req.LessonCount > previousCount {
			added := make([]models.Lesson, 0, req.LessonCount-previousCount)
			for i := previousCount + 1; i <= req.LessonCount; i++ {
				added = append(added, models.Lesson{
					ID:           uuid.New().String(),
					ContractID:   id,
					LessonNumber: i,
					IsAvailable:  true,
					CreatedAt:    time.Now(),
					UpdatedAt:    time.Now(),
				})
			}
			if err := s.lessonRepo.CreateBatch(ctx, added); err != nil {
				return fmt.Errorf("failed to extend lesson batch: %w", err)
			}
		}

		lessons, err := s.lessonRepo.GetByContractID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get contract lessons: %w", err)
		}
		stats := EvaluateCompletion(lessons)

		attendance := FormatAttendance(stats)
		if attendance != contract.AttendanceCount {
			if err := s.contractRepo.UpdateAttendanceCount(ctx, id, attendance); err != nil {
				return fmt.Errorf("failed to update attendance count: %w", err)
			}
		}

		manualComplete := req.Status != nil && *req.Status == models.ContractStatusCompleted.String()
		if contract.Status == models.ContractStatusActive.String() && (manualComplete || stats.IsComplete) {
			if err := s.contractRepo.UpdateStatus(ctx, id, models.ContractStatusCompleted.String()); err != nil {
				return fmt.Errorf("failed to update contract status: %w", err)
			}
			fulfilledContractID = id
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if fulfilledContractID != "" {
		if _, err := s.notifier.EmitContractFulfilled(ctx, fulfilledContractID); err != nil {
			s.logger.Error().Err(err).
				Str("contract_id", fulfilledContractID).
				Msg("Failed to emit contract fulfilled notification")
		}
	}

	s.logger.Info().
		Str("contract_id", id).
		Msg("Contract updated")

	return &models.SaveContractResponse{
		ContractID: id,
		Warnings:   warnings,
	}, nil
}

func (s *contractService) GetContractByID(ctx context.Context, id string) (*models.ContractDetailResponse, error) {
	contract, err := s.contractRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if contract == nil {
		return nil, ErrContractNotFound
	}

	lessons, err := s.lessonRepo.GetByContractID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract lessons: %w", err)
	}

	return &models.ContractDetailResponse{
		Contract: *contract,
		Stats:    EvaluateCompletion(lessons),
		Lessons:  lessons,
	}, nil
}

func (s *contractService) GetAllContracts(ctx context.Context, page, limit int) (*models.ContractsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	contracts, total, err := s.contractRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get contracts: %w", err)
	}

	return &models.ContractsResponse{
		Contracts: contracts,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

func (s *contractService) GetContractsByStudent(ctx context.Context, studentID string) ([]models.ContractWithDetails, error) {
	exists, err := s.studentRepo.Exists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student existence: %w", err)
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	contracts, err := s.contractRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student contracts: %w", err)
	}

	return contracts, nil
}
