package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/repository"
)

type LessonService interface {
	UpdateLesson(ctx context.Context, id string, req *models.UpdateLessonRequest) (*models.LessonSnapshot, error)
	BatchUpdateLessons(ctx context.Context, req *models.BatchUpdateLessonsRequest) (*models.BatchUpdateResult, error)
	GetLessonsByContract(ctx context.Context, contractID string) ([]models.Lesson, error)
}

type lessonService struct {
	tx           repository.Transactor
	lessonRepo   repository.LessonRepository
	contractRepo repository.ContractRepository
	notifier     NotificationService
	logger       zerolog.Logger
}

func NewLessonService(
	tx repository.Transactor,
	lessonRepo repository.LessonRepository,
	contractRepo repository.ContractRepository,
	notifier NotificationService,
	logger zerolog.Logger,
) LessonService {
	return &lessonService{
		tx:           tx,
		lessonRepo:   lessonRepo,
		contractRepo: contractRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

const lessonDateLayout = "2006-01-02"

// UpdateLesson применяет частичное обновление занятия и, в той же транзакции,
// пересчитывает выполнение договора. Переход active -> completed делается
// синхронно одним проходом: ничто не перезапускает оценку повторно.
// Уведомление отправляется после commit и не откатывает переход при сбое.
func (s *lessonService) UpdateLesson(ctx context.Context, id string, req *models.UpdateLessonRequest) (*models.LessonSnapshot, error) {
	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(lessonDateLayout, *req.Date)
		if err != nil {
			return nil, newValidationError("date", fmt.Sprintf("expected format %s", lessonDateLayout))
		}
		date = &parsed
	}

	var snapshot *models.LessonSnapshot
	var fulfilledContractID string

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		lesson, err := s.lessonRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get lesson: %w", err)
		}
		if lesson == nil {
			return ErrLessonNotFound
		}

		// Сериализация всех операций по одному договору.
		acquired, err := s.contractRepo.TryAdvisoryLock(ctx, lesson.ContractID)
		if err != nil {
			return fmt.Errorf("failed to acquire contract lock: %w", err)
		}
		if !acquired {
			return ErrContractBusy
		}

		// Повторное чтение под блокировкой: строка могла измениться.
		lesson, err = s.lessonRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get lesson: %w", err)
		}
		if lesson == nil {
			return ErrLessonNotFound
		}

		contract, err := s.contractRepo.GetByID(ctx, lesson.ContractID)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if contract == nil {
			return newIntegrityError("lesson references a missing contract")
		}

		if req.LessonNumber != nil {
			if *req.LessonNumber < 1 || *req.LessonNumber > contract.LessonCount {
				return newValidationError("lesson_number",
					fmt.Sprintf("must be between 1 and %d", contract.LessonCount))
			}
			if *req.LessonNumber != lesson.LessonNumber {
				siblings, err := s.lessonRepo.GetByContractID(ctx, lesson.ContractID)
				if err != nil {
					return fmt.Errorf("failed to get contract lessons: %w", err)
				}
				for _, sibling := range siblings {
					if sibling.ID != lesson.ID && sibling.LessonNumber == *req.LessonNumber {
						return newValidationError("lesson_number", "already used within this contract")
					}
				}
			}
			lesson.LessonNumber = *req.LessonNumber
		}

		if req.Date != nil {
			lesson.Date = date // пустая строка очищает дату
		}
		if req.Comment != nil {
			lesson.Comment = req.Comment
		}
		if req.IsAvailable != nil {
			lesson.IsAvailable = *req.IsAvailable
		}

		if err := s.lessonRepo.Update(ctx, lesson); err != nil {
			return fmt.Errorf("failed to update lesson: %w", err)
		}

		lessons, err := s.lessonRepo.GetByContractID(ctx, lesson.ContractID)
		if err != nil {
			return fmt.Errorf("failed to get contract lessons: %w", err)
		}

		stats := EvaluateCompletion(lessons)

		attendance := FormatAttendance(stats)
		if attendance != contract.AttendanceCount {
			if err := s.contractRepo.UpdateAttendanceCount(ctx, contract.ID, attendance); err != nil {
				return fmt.Errorf("failed to update attendance count: %w", err)
			}
			contract.AttendanceCount = attendance
		}

		if contract.Status == models.ContractStatusActive.String() && stats.IsComplete {
			if err := s.contractRepo.UpdateStatus(ctx, contract.ID, models.ContractStatusCompleted.String()); err != nil {
				return fmt.Errorf("failed to update contract status: %w", err)
			}
			contract.Status = models.ContractStatusCompleted.String()
			fulfilledContractID = contract.ID
		}

		snapshot = &models.LessonSnapshot{
			Lesson:   *lesson,
			Contract: *contract,
			Stats:    stats,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if fulfilledContractID != "" {
		// Переход уже зафиксирован: сбой уведомления логируем и глотаем.
		if _, err := s.notifier.EmitContractFulfilled(ctx, fulfilledContractID); err != nil {
			s.logger.Error().Err(err).
				Str("contract_id", fulfilledContractID).
				Msg("Failed to emit contract fulfilled notification")
		}
	}

	return snapshot, nil
}

// BatchUpdateLessons применяет каждое обновление независимо: отказ одного
// элемента не откатывает остальные.
func (s *lessonService) BatchUpdateLessons(ctx context.Context, req *models.BatchUpdateLessonsRequest) (*models.BatchUpdateResult, error) {
	result := &models.BatchUpdateResult{
		Failures: []models.BatchUpdateFailure{},
	}

	for _, item := range req.Updates {
		update := item.UpdateLessonRequest
		if _, err := s.UpdateLesson(ctx, item.LessonID, &update); err != nil {
			result.Failures = append(result.Failures, models.BatchUpdateFailure{
				LessonID: item.LessonID,
				Reason:   err.Error(),
			})
			continue
		}
		result.SuccessCount++
	}

	s.logger.Info().
		Int("success_count", result.SuccessCount).
		Int("failure_count", len(result.Failures)).
		Msg("Batch lesson update finished")

	return result, nil
}

func (s *lessonService) GetLessonsByContract(ctx context.Context, contractID string) ([]models.Lesson, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if contract == nil {
		return nil, ErrContractNotFound
	}

	lessons, err := s.lessonRepo.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract lessons: %w", err)
	}

	return lessons, nil
}
