package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

type TrialLessonRepository interface {
	Create(ctx context.Context, trialLesson *models.TrialLesson) error
	GetByID(ctx context.Context, id string) (*models.TrialLesson, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.TrialLessonWithTeacher, int, error)
	Update(ctx context.Context, trialLesson *models.TrialLesson) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type trialLessonRepository struct {
	*PostgresRepository
}

func NewTrialLessonRepository(db *sql.DB, logger zerolog.Logger) TrialLessonRepository {
	return &trialLessonRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *trialLessonRepository) Create(ctx context.Context, trialLesson *models.TrialLesson) error {
	query := `
		INSERT INTO trial_lessons (id, student_name, instrument, teacher_id, scheduled_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		trialLesson.ID,
		trialLesson.StudentName,
		trialLesson.Instrument,
		trialLesson.TeacherID,
		trialLesson.ScheduledAt,
		trialLesson.Status,
		trialLesson.Notes,
		trialLesson.CreatedAt,
		trialLesson.UpdatedAt,
	)

	return err
}

func (r *trialLessonRepository) GetByID(ctx context.Context, id string) (*models.TrialLesson, error) {
	query := `
		SELECT id, student_name, instrument, teacher_id, scheduled_at, status, notes, created_at, updated_at
		FROM trial_lessons
		WHERE id = $1
	`

	trialLesson := &models.TrialLesson{}
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&trialLesson.ID,
		&trialLesson.StudentName,
		&trialLesson.Instrument,
		&trialLesson.TeacherID,
		&trialLesson.ScheduledAt,
		&trialLesson.Status,
		&trialLesson.Notes,
		&trialLesson.CreatedAt,
		&trialLesson.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return trialLesson, err
}

func (r *trialLessonRepository) GetAll(ctx context.Context, limit, offset int) ([]models.TrialLessonWithTeacher, int, error) {
	countQuery := `SELECT COUNT(*) FROM trial_lessons`
	var total int
	err := r.conn(ctx).QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			tl.id, tl.student_name, tl.instrument, tl.teacher_id, tl.scheduled_at, tl.status, tl.notes, tl.created_at, tl.updated_at,
			t.first_name || ' ' || t.last_name as teacher_name
		FROM trial_lessons tl
		LEFT JOIN teachers t ON tl.teacher_id = t.id
		ORDER BY tl.scheduled_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trialLessons []models.TrialLessonWithTeacher
	for rows.Next() {
		var trialLesson models.TrialLessonWithTeacher
		err := rows.Scan(
			&trialLesson.ID,
			&trialLesson.StudentName,
			&trialLesson.Instrument,
			&trialLesson.TeacherID,
			&trialLesson.ScheduledAt,
			&trialLesson.Status,
			&trialLesson.Notes,
			&trialLesson.CreatedAt,
			&trialLesson.UpdatedAt,
			&trialLesson.TeacherName,
		)
		if err != nil {
			return nil, 0, err
		}
		trialLessons = append(trialLessons, trialLesson)
	}

	return trialLessons, total, nil
}

func (r *trialLessonRepository) Update(ctx context.Context, trialLesson *models.TrialLesson) error {
	query := `
		UPDATE trial_lessons
		SET student_name = $1, instrument = $2, teacher_id = $3, scheduled_at = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		trialLesson.StudentName,
		trialLesson.Instrument,
		trialLesson.TeacherID,
		trialLesson.ScheduledAt,
		trialLesson.Notes,
		time.Now(),
		trialLesson.ID,
	)

	return err
}

func (r *trialLessonRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE trial_lessons
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.conn(ctx).ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *trialLessonRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trial_lessons WHERE id = $1`
	_, err := r.conn(ctx).ExecContext(ctx, query, id)
	return err
}
