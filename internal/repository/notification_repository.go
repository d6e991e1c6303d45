package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ExistsByContractAndType(ctx context.Context, contractID, notificationType string) (bool, error)
	GetAll(ctx context.Context, onlyUnread bool, limit, offset int) ([]models.Notification, int, error)
	MarkAsRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int, error)
}

type notificationRepository struct {
	*PostgresRepository
}

func NewNotificationRepository(db *sql.DB, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, type, contract_id, student_id, teacher_id, message, is_read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		notification.ID,
		notification.Type,
		notification.ContractID,
		notification.StudentID,
		notification.TeacherID,
		notification.Message,
		notification.IsRead,
		notification.CreatedAt,
		notification.UpdatedAt,
	)

	return err
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	query := `
		SELECT id, type, contract_id, student_id, teacher_id, message, is_read, created_at, updated_at
		FROM notifications
		WHERE id = $1
	`

	notification := &models.Notification{}
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&notification.ID,
		&notification.Type,
		&notification.ContractID,
		&notification.StudentID,
		&notification.TeacherID,
		&notification.Message,
		&notification.IsRead,
		&notification.CreatedAt,
		&notification.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return notification, err
}

func (r *notificationRepository) ExistsByContractAndType(ctx context.Context, contractID, notificationType string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM notifications WHERE contract_id = $1 AND type = $2)`

	var exists bool
	err := r.conn(ctx).QueryRowContext(ctx, query, contractID, notificationType).Scan(&exists)
	return exists, err
}

func (r *notificationRepository) GetAll(ctx context.Context, onlyUnread bool, limit, offset int) ([]models.Notification, int, error) {
	countQuery := `SELECT COUNT(*) FROM notifications WHERE ($1 = false OR is_read = false)`
	var total int
	err := r.conn(ctx).QueryRowContext(ctx, countQuery, onlyUnread).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, type, contract_id, student_id, teacher_id, message, is_read, created_at, updated_at
		FROM notifications
		WHERE ($1 = false OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, onlyUnread, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification
		err := rows.Scan(
			&notification.ID,
			&notification.Type,
			&notification.ContractID,
			&notification.StudentID,
			&notification.TeacherID,
			&notification.Message,
			&notification.IsRead,
			&notification.CreatedAt,
			&notification.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, notification)
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id string) error {
	query := `
		UPDATE notifications
		SET is_read = true, updated_at = $1
		WHERE id = $2
	`

	_, err := r.conn(ctx).ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE is_read = false`

	var count int
	err := r.conn(ctx).QueryRowContext(ctx, query).Scan(&count)
	return count, err
}
