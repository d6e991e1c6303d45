package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.StudentWithStats, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.StudentWithStats, int, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type studentRepository struct {
	*PostgresRepository
}

func NewStudentRepository(db *sql.DB, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, first_name, last_name, email, phone, instrument, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		student.ID,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Phone,
		student.Instrument,
		student.CreatedAt,
		student.UpdatedAt,
	)

	return err
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*models.StudentWithStats, error) {
	query := `
		SELECT
			s.id, s.first_name, s.last_name, s.email, s.phone, s.instrument, s.created_at, s.updated_at,
			COUNT(c.id) as total_contracts,
			COUNT(c.id) FILTER (WHERE c.status = 'active') as active_contracts
		FROM students s
		LEFT JOIN contracts c ON c.student_id = s.id
		WHERE s.id = $1
		GROUP BY s.id
	`

	student := &models.StudentWithStats{}
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Phone,
		&student.Instrument,
		&student.CreatedAt,
		&student.UpdatedAt,
		&student.TotalContracts,
		&student.ActiveContracts,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return student, err
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, instrument, created_at, updated_at
		FROM students
		WHERE email = $1
	`

	student := &models.Student{}
	err := r.conn(ctx).QueryRowContext(ctx, query, email).Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Phone,
		&student.Instrument,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return student, err
}

func (r *studentRepository) GetAll(ctx context.Context, limit, offset int) ([]models.StudentWithStats, int, error) {
	countQuery := `SELECT COUNT(*) FROM students`
	var total int
	err := r.conn(ctx).QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			s.id, s.first_name, s.last_name, s.email, s.phone, s.instrument, s.created_at, s.updated_at,
			COUNT(c.id) as total_contracts,
			COUNT(c.id) FILTER (WHERE c.status = 'active') as active_contracts
		FROM students s
		LEFT JOIN contracts c ON c.student_id = s.id
		GROUP BY s.id
		ORDER BY s.last_name, s.first_name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []models.StudentWithStats
	for rows.Next() {
		var student models.StudentWithStats
		err := rows.Scan(
			&student.ID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.Phone,
			&student.Instrument,
			&student.CreatedAt,
			&student.UpdatedAt,
			&student.TotalContracts,
			&student.ActiveContracts,
		)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}

	return students, total, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, email = $3, phone = $4, instrument = $5, updated_at = $6
		WHERE id = $7
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Phone,
		student.Instrument,
		time.Now(),
		student.ID,
	)

	return err
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM students WHERE id = $1`
	_, err := r.conn(ctx).ExecContext(ctx, query, id)
	return err
}

func (r *studentRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`

	var exists bool
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
