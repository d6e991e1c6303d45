package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	GetByIDWithDetails(ctx context.Context, id string) (*models.ContractWithDetails, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.ContractWithDetails, int, error)
	GetByStudentID(ctx context.Context, studentID string) ([]models.ContractWithDetails, error)
	Update(ctx context.Context, contract *models.Contract) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateAttendanceCount(ctx context.Context, id, attendanceCount string) error
	TryAdvisoryLock(ctx context.Context, contractID string) (bool, error)
}

type contractRepository struct {
	*PostgresRepository
}

func NewContractRepository(db *sql.DB, logger zerolog.Logger) ContractRepository {
	return &contractRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (id, student_id, teacher_id, variant, lesson_count, discount_percent, status, attendance_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		contract.ID,
		contract.StudentID,
		contract.TeacherID,
		contract.Variant,
		contract.LessonCount,
		contract.DiscountPercent,
		contract.Status,
		contract.AttendanceCount,
		contract.CreatedAt,
		contract.UpdatedAt,
	)

	return err
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	query := `
		SELECT id, student_id, teacher_id, variant, lesson_count, discount_percent, status, attendance_count, created_at, updated_at
		FROM contracts
		WHERE id = $1
	`

	contract := &models.Contract{}
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&contract.ID,
		&contract.StudentID,
		&contract.TeacherID,
		&contract.Variant,
		&contract.LessonCount,
		&contract.DiscountPercent,
		&contract.Status,
		&contract.AttendanceCount,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return contract, err
}

func (r *contractRepository) GetByIDWithDetails(ctx context.Context, id string) (*models.ContractWithDetails, error) {
	query := `
		SELECT
			c.id, c.student_id, c.teacher_id, c.variant, c.lesson_count, c.discount_percent, c.status, c.attendance_count, c.created_at, c.updated_at,
			COALESCE(s.first_name || ' ' || s.last_name, '') as student_name,
			COALESCE(t.first_name || ' ' || t.last_name, '') as teacher_name
		FROM contracts c
		LEFT JOIN students s ON c.student_id = s.id
		LEFT JOIN teachers t ON c.teacher_id = t.id
		WHERE c.id = $1
	`

	contract := &models.ContractWithDetails{}
	err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&contract.ID,
		&contract.StudentID,
		&contract.TeacherID,
		&contract.Variant,
		&contract.LessonCount,
		&contract.DiscountPercent,
		&contract.Status,
		&contract.AttendanceCount,
		&contract.CreatedAt,
		&contract.UpdatedAt,
		&contract.StudentName,
		&contract.TeacherName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return contract, err
}

func (r *contractRepository) GetAll(ctx context.Context, limit, offset int) ([]models.ContractWithDetails, int, error) {
	countQuery := `SELECT COUNT(*) FROM contracts`
	var total int
	err := r.conn(ctx).QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			c.id, c.student_id, c.teacher_id, c.variant, c.lesson_count, c.discount_percent, c.status, c.attendance_count, c.created_at, c.updated_at,
			COALESCE(s.first_name || ' ' || s.last_name, '') as student_name,
			COALESCE(t.first_name || ' ' || t.last_name, '') as teacher_name
		FROM contracts c
		LEFT JOIN students s ON c.student_id = s.id
		LEFT JOIN teachers t ON c.teacher_id = t.id
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contracts []models.ContractWithDetails
	for rows.Next() {
		var contract models.ContractWithDetails
		err := rows.Scan(
			&contract.ID,
			&contract.StudentID,
			&contract.TeacherID,
			&contract.Variant,
			&contract.LessonCount,
			&contract.DiscountPercent,
			&contract.Status,
			&contract.AttendanceCount,
			&contract.CreatedAt,
			&contract.UpdatedAt,
			&contract.StudentName,
			&contract.TeacherName,
		)
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, contract)
	}

	return contracts, total, nil
}

func (r *contractRepository) GetByStudentID(ctx context.Context, studentID string) ([]models.ContractWithDetails, error) {
	query := `
		SELECT
			c.id, c.student_id, c.teacher_id, c.variant, c.lesson_count, c.discount_percent, c.status, c.attendance_count, c.created_at, c.updated_at,
			COALESCE(s.first_name || ' ' || s.last_name, '') as student_name,
			COALESCE(t.first_name || ' ' || t.last_name, '') as teacher_name
		FROM contracts c
		LEFT JOIN students s ON c.student_id = s.id
		LEFT JOIN teachers t ON c.teacher_id = t.id
		WHERE c.student_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []models.ContractWithDetails
	for rows.Next() {
		var contract models.ContractWithDetails
		err := rows.Scan(
			&contract.ID,
			&contract.StudentID,
			&contract.TeacherID,
			&contract.Variant,
			&contract.LessonCount,
			&contract.DiscountPercent,
			&contract.Status,
			&contract.AttendanceCount,
			&contract.CreatedAt,
			&contract.UpdatedAt,
			&contract.StudentName,
			&contract.TeacherName,
		)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}

	return contracts, nil
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	query := `
		UPDATE contracts
		SET student_id = $1, teacher_id = $2, variant = $3, lesson_count = $4, discount_percent = $5, updated_at = $6
		WHERE id = $7
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		contract.StudentID,
		contract.TeacherID,
		contract.Variant,
		contract.LessonCount,
		contract.DiscountPercent,
		time.Now(),
		contract.ID,
	)

	return err
}

func (r *contractRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE contracts
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.conn(ctx).ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *contractRepository) UpdateAttendanceCount(ctx context.Context, id, attendanceCount string) error {
	query := `
		UPDATE contracts
		SET attendance_count = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.conn(ctx).ExecContext(ctx, query, attendanceCount, time.Now(), id)
	return err
}

// TryAdvisoryLock берёт advisory-блокировку уровня транзакции по ключу договора.
// Работает только внутри WithinTx, освобождается на commit/rollback.
func (r *contractRepository) TryAdvisoryLock(ctx context.Context, contractID string) (bool, error) {
	query := `SELECT pg_try_advisory_xact_lock($1)`

	var acquired bool
	err := r.conn(ctx).QueryRowContext(ctx, query, advisoryLockKey(contractID)).Scan(&acquired)
	if err != nil {
		return false, err
	}

	return acquired, nil
}
