package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

type LessonRepository interface {
	CreateBatch(ctx context.Context, lessons []models.Lesson) error
	GetByID(ctx context.Context, id string) (*models.Lesson, error)
	GetByContractID(ctx context.Context, contractID string) ([]models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	DeleteAboveNumber(ctx context.Context, contractID string, lessonNumber int) error
}

type lessonRepository struct {
	*PostgresRepository
}

func NewLessonRepository(db *sql.DB, logger zerolog.Logger) LessonRepository {
	return &lessonRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *lessonRepository) CreateBatch(ctx context.Context, lessons []models.Lesson) error {
	query := `
		INSERT INTO lessons (id, contract_id, lesson_number, date, comment, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, lesson := range lessons {
		_, err := r.conn(ctx).ExecContext(ctx, query,
			lesson.ID,
			lesson.ContractID,
			lesson.LessonNumber,
			lesson.Date,
			lesson.Comment,
			lesson.IsAvailable,
			lesson.CreatedAt,
			lesson.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *lessonRepository) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := `
		SELECT id, contract_id, lesson_number, date, comment, is_available, created_at, updated_at
		FROM lessons
		WHERE id = $1
	`

	lesson := &models.Lesson{}
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.ContractID,
		&lesson.LessonNumber,
		&lesson.Date,
		&lesson.Comment,
		&lesson.IsAvailable,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return lesson, err
}

func (r *lessonRepository) GetByContractID(ctx context.Context, contractID string) ([]models.Lesson, error) {
	query := `
		SELECT id, contract_id, lesson_number, date, comment, is_available, created_at, updated_at
		FROM lessons
		WHERE contract_id = $1
		ORDER BY lesson_number
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.ContractID,
			&lesson.LessonNumber,
			&lesson.Date,
			&lesson.Comment,
			&lesson.IsAvailable,
			&lesson.CreatedAt,
			&lesson.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}

	return lessons, nil
}

// Update намеренно не трогает contract_id: связь занятия с договором
// неизменяема, обновление не может её обнулить.
func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	query := `
		UPDATE lessons
		SET lesson_number = $1, date = $2, comment = $3, is_available = $4, updated_at = $5
		WHERE id = $6
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		lesson.LessonNumber,
		lesson.Date,
		lesson.Comment,
		lesson.IsAvailable,
		time.Now(),
		lesson.ID,
	)

	return err
}

func (r *lessonRepository) DeleteAboveNumber(ctx context.Context, contractID string, lessonNumber int) error {
	query := `DELETE FROM lessons WHERE contract_id = $1 AND lesson_number > $2`
	_, err := r.conn(ctx).ExecContext(ctx, query, contractID, lessonNumber)
	return err
}
