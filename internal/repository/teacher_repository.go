package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (*models.Teacher, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Teacher, int, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type teacherRepository struct {
	*PostgresRepository
}

func NewTeacherRepository(db *sql.DB, logger zerolog.Logger) TeacherRepository {
	return &teacherRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (id, first_name, last_name, email, phone, instruments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		teacher.ID,
		teacher.FirstName,
		teacher.LastName,
		teacher.Email,
		teacher.Phone,
		teacher.Instruments,
		teacher.CreatedAt,
		teacher.UpdatedAt,
	)

	return err
}

func (r *teacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, instruments, created_at, updated_at
		FROM teachers
		WHERE id = $1
	`

	teacher := &models.Teacher{}
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.Email,
		&teacher.Phone,
		&teacher.Instruments,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return teacher, err
}

func (r *teacherRepository) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, instruments, created_at, updated_at
		FROM teachers
		WHERE email = $1
	`

	teacher := &models.Teacher{}
	err := r.conn(ctx).QueryRowContext(ctx, query, email).Scan(
		&teacher.ID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.Email,
		&teacher.Phone,
		&teacher.Instruments,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return teacher, err
}

func (r *teacherRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Teacher, int, error) {
	countQuery := `SELECT COUNT(*) FROM teachers`
	var total int
	err := r.conn(ctx).QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, first_name, last_name, email, phone, instruments, created_at, updated_at
		FROM teachers
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teachers []models.Teacher
	for rows.Next() {
		var teacher models.Teacher
		err := rows.Scan(
			&teacher.ID,
			&teacher.FirstName,
			&teacher.LastName,
			&teacher.Email,
			&teacher.Phone,
			&teacher.Instruments,
			&teacher.CreatedAt,
			&teacher.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, teacher)
	}

	return teachers, total, nil
}

func (r *teacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	query := `
		UPDATE teachers
		SET first_name = $1, last_name = $2, email = $3, phone = $4, instruments = $5, updated_at = $6
		WHERE id = $7
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		teacher.FirstName,
		teacher.LastName,
		teacher.Email,
		teacher.Phone,
		teacher.Instruments,
		time.Now(),
		teacher.ID,
	)

	return err
}

func (r *teacherRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM teachers WHERE id = $1`
	_, err := r.conn(ctx).ExecContext(ctx, query, id)
	return err
}

func (r *teacherRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)`

	var exists bool
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
