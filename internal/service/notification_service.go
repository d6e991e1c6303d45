package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/repository"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/service/integration"
)

type NotificationService interface {
	// EmitContractFulfilled создаёт уведомление о выполненном договоре.
	// Возвращает created = false, если уведомление для договора уже есть.
	EmitContractFulfilled(ctx context.Context, contractID string) (bool, error)
	GetNotifications(ctx context.Context, actor models.Actor, onlyUnread bool, page, limit int) (*models.NotificationsResponse, error)
	MarkAsRead(ctx context.Context, actor models.Actor, id string) error
	UnreadCount(ctx context.Context, actor models.Actor) (*models.UnreadCountResponse, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	contractRepo     repository.ContractRepository
	lessonRepo       repository.LessonRepository
	events           integration.EventPublisher
	logger           zerolog.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	contractRepo repository.ContractRepository,
	lessonRepo repository.LessonRepository,
	events integration.EventPublisher,
	logger zerolog.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		contractRepo:     contractRepo,
		lessonRepo:       lessonRepo,
		events:           events,
		logger:           logger,
	}
}

func (s *notificationService) EmitContractFulfilled(ctx context.Context, contractID string) (bool, error) {
	// Дедупликация: не больше одного contract_fulfilled на договор.
	// Проверка перед вставкой, без уникального ограничения: гонка возможна
	// и принята как допустимый зазор.
	exists, err := s.notificationRepo.ExistsByContractAndType(ctx, contractID, models.NotificationTypeContractFulfilled.String())
	if err != nil {
		return false, fmt.Errorf("failed to check existing notifications: %w", err)
	}
	if exists {
		s.logger.Debug().
			Str("contract_id", contractID).
			Msg("Contract fulfilled notification already exists, skipping")
		return false, nil
	}

	contract, err := s.contractRepo.GetByIDWithDetails(ctx, contractID)
	if err != nil {
		return false, fmt.Errorf("failed to get contract: %w", err)
	}
	if contract == nil {
		return false, ErrContractNotFound
	}

	lessons, err := s.lessonRepo.GetByContractID(ctx, contractID)
	if err != nil {
		return false, fmt.Errorf("failed to get contract lessons: %w", err)
	}
	stats := EvaluateCompletion(lessons)

	notification := &models.Notification{
		ID:         uuid.New().String(),
		Type:       models.NotificationTypeContractFulfilled.String(),
		ContractID: contract.ID,
		StudentID:  contract.StudentID,
		TeacherID:  nil, // только для администратора
		Message:    renderFulfilledMessage(contract, stats),
		IsRead:     false,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info().
		Str("notification_id", notification.ID).
		Str("contract_id", contract.ID).
		Msg("Contract fulfilled notification created")

	if s.events != nil {
		event := &models.ContractFulfilledEvent{
			ContractID:     contract.ID,
			StudentID:      contract.StudentID,
			NotificationID: notification.ID,
			Completed:      stats.Completed,
			Available:      stats.Available,
			Excluded:       stats.Excluded,
			Timestamp:      time.Now().Unix(),
		}
		if err := s.events.PublishContractFulfilled(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish contract fulfilled event")
		}
	}

	return true, nil
}

func renderFulfilledMessage(contract *models.ContractWithDetails, stats models.CompletionStats) string {
	studentName := contract.StudentName
	if studentName == "" || studentName == " " {
		studentName = "unknown student"
	}

	teacherName := contract.TeacherName
	if teacherName == "" || teacherName == " " {
		teacherName = "unknown teacher"
	}

	variantName := models.ContractVariantDisplayName(contract.Variant)

	message := fmt.Sprintf(
		"%s has fulfilled the %s: %d of %d available lessons completed (teacher: %s).",
		studentName, variantName, stats.Completed, stats.Available, teacherName,
	)

	if stats.Excluded > 0 {
		message += fmt.Sprintf(" %d lessons were excluded from accounting.", stats.Excluded)
	}

	return message
}

func (s *notificationService) GetNotifications(ctx context.Context, actor models.Actor, onlyUnread bool, page, limit int) (*models.NotificationsResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	notifications, total, err := s.notificationRepo.GetAll(ctx, onlyUnread, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	return &models.NotificationsResponse{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification == nil {
		return ErrNotificationNotFound
	}

	return s.notificationRepo.MarkAsRead(ctx, id)
}

func (s *notificationService) UnreadCount(ctx context.Context, actor models.Actor) (*models.UnreadCountResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	count, err := s.notificationRepo.CountUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &models.UnreadCountResponse{
		UnreadCount: count,
		CheckedAt:   time.Now(),
	}, nil
}
