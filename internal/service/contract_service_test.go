package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

func validContractRequest(studentID, teacherID string) *models.SaveContractRequest {
	return &models.SaveContractRequest{
		StudentID:       studentID,
		TeacherID:       teacherID,
		Variant:         "ten_lesson_card",
		LessonCount:     10,
		DiscountPercent: 0,
	}
}

func (e *env) seedPeople() (studentID, teacherID string) {
	ctx := context.Background()
	student := &models.Student{ID: "student-1", FirstName: "Anna", LastName: "Berg", Email: "anna@example.com"}
	teacher := &models.Teacher{ID: "teacher-1", FirstName: "Max", LastName: "Keller", Email: "max@example.com"}
	e.students.Create(ctx, student)
	e.teachers.Create(ctx, teacher)
	e.contracts.studentNames[student.ID] = student.DisplayName()
	e.contracts.teacherNames[teacher.ID] = teacher.DisplayName()
	return student.ID, teacher.ID
}

func TestSaveContract_Validation(t *testing.T) {
	e := newEnv()
	studentID, teacherID := e.seedPeople()

	tests := []struct {
		name   string
		mutate func(req *models.SaveContractRequest)
		field  string
	}{
		{
			name:   "unknown variant",
			mutate: func(req *models.SaveContractRequest) { req.Variant = "weekend_special" },
			field:  "variant",
		},
		{
			name:   "lesson count too small",
			mutate: func(req *models.SaveContractRequest) { req.LessonCount = 0 },
			field:  "lesson_count",
		},
		{
			name:   "lesson count above limit",
			mutate: func(req *models.SaveContractRequest) { req.LessonCount = models.MaxLessonsPerContract + 1 },
			field:  "lesson_count",
		},
		{
			name:   "negative discount",
			mutate: func(req *models.SaveContractRequest) { req.DiscountPercent = -5 },
			field:  "discount_percent",
		},
		{
			name:   "discount above 100",
			mutate: func(req *models.SaveContractRequest) { req.DiscountPercent = 101 },
			field:  "discount_percent",
		},
		{
			name:   "unknown status value",
			mutate: func(req *models.SaveContractRequest) { req.Status = strPtr("paused") },
			field:  "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validContractRequest(studentID, teacherID)
			tt.mutate(req)

			_, err := e.contractSvc.SaveContract(context.Background(), "", req)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	// Ни одна вставка не прошла.
	assert.Empty(t, e.contracts.contracts)
}

func TestSaveContract_UnknownStudent(t *testing.T) {
	e := newEnv()
	_, teacherID := e.seedPeople()

	_, err := e.contractSvc.SaveContract(context.Background(), "", validContractRequest("ghost", teacherID))

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
}

func TestSaveContract_UnknownTeacher(t *testing.T) {
	e := newEnv()
	studentID, _ := e.seedPeople()

	_, err := e.contractSvc.SaveContract(context.Background(), "", validContractRequest(studentID, "ghost"))

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
}

func TestSaveContract_CreateSeedsLessonLedger(t *testing.T) {
	e := newEnv()
	studentID, teacherID := e.seedPeople()

	resp, err := e.contractSvc.SaveContract(context.Background(), "", validContractRequest(studentID, teacherID))
	require.NoError(t, err)
	require.NotEmpty(t, resp.ContractID)
	assert.Empty(t, resp.Warnings)

	contract, _ := e.contracts.GetByID(context.Background(), resp.ContractID)
	require.NotNil(t, contract)
	assert.Equal(t, models.ContractStatusActive.String(), contract.Status)
	assert.Equal(t, "0/10", contract.AttendanceCount)

	lessons, _ := e.lessons.GetByContractID(context.Background(), resp.ContractID)
	require.Len(t, lessons, 10)
	for i, lesson := range lessons {
		assert.Equal(t, i+1, lesson.LessonNumber)
		assert.True(t, lesson.IsAvailable)
		assert.Nil(t, lesson.Date)
	}
}

func TestSaveContract_FullDiscountWarning(t *testing.T) {
	e := newEnv()
	studentID, teacherID := e.seedPeople()

	req := validContractRequest(studentID, teacherID)
	req.DiscountPercent = 100

	resp, err := e.contractSvc.SaveContract(context.Background(), "", req)
	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "100%")
}

func TestSaveContract_UpdateNotFound(t *testing.T) {
	e := newEnv()
	studentID, teacherID := e.seedPeople()

	_, err := e.contractSvc.SaveContract(context.Background(), "missing", validContractRequest(studentID, teacherID))

	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestSaveContract_ManualCompletion(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 5, []int{1, 2}, nil)

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 5
	req.Status = strPtr(models.ContractStatusCompleted.String())

	_, err := e.contractSvc.SaveContract(context.Background(), "c1", req)
	require.NoError(t, err)

	contract, _ := e.contracts.GetByID(context.Background(), "c1")
	assert.Equal(t, models.ContractStatusCompleted.String(), contract.Status)
	assert.Equal(t, 1, e.contracts.statusWriteCount())

	// Ручной перевод уведомляет даже при незаполненном журнале.
	notifications := e.notifications.all()
	require.Len(t, notifications, 1)
	assert.Nil(t, notifications[0].TeacherID)

	// Повторное сохранение с тем же статусом ничего не добавляет.
	_, err = e.contractSvc.SaveContract(context.Background(), "c1", req)
	require.NoError(t, err)
	assert.Len(t, e.notifications.all(), 1)
	assert.Equal(t, 1, e.contracts.statusWriteCount())
}

func TestSaveContract_CreateWithCompletedStatusRejected(t *testing.T) {
	e := newEnv()
	studentID, teacherID := e.seedPeople()

	req := validContractRequest(studentID, teacherID)
	req.Status = strPtr(models.ContractStatusCompleted.String())

	_, err := e.contractSvc.SaveContract(context.Background(), "", req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "status", validationErr.Field)
	assert.Empty(t, e.contracts.contracts)
}

func TestSaveContract_ManualCompletionSurvivesNotificationFailure(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 5, []int{1}, nil)
	e.notifications.createErr = errors.New("insert failed")

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 5
	req.Status = strPtr(models.ContractStatusCompleted.String())

	_, err := e.contractSvc.SaveContract(context.Background(), "c1", req)
	require.NoError(t, err)

	contract, _ := e.contracts.GetByID(context.Background(), "c1")
	assert.Equal(t, models.ContractStatusCompleted.String(), contract.Status)
	assert.Equal(t, 1, e.contracts.statusWriteCount())
	assert.Empty(t, e.notifications.all())
}

func TestSaveContract_ConfiguredLessonLimit(t *testing.T) {
	e := newEnv()
	studentID, teacherID := e.seedPeople()

	svc := NewContractService(e.tx, e.contracts, e.lessons, e.students, e.teachers, e.notifier, 5, zerolog.Nop())

	req := validContractRequest(studentID, teacherID)
	req.LessonCount = 6

	_, err := svc.SaveContract(context.Background(), "", req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "lesson_count", validationErr.Field)
	assert.Contains(t, validationErr.Reason, "5")

	req.LessonCount = 5
	resp, err := svc.SaveContract(context.Background(), "", req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ContractID)
}

func TestSaveContract_ReopenRejected(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 5, nil, nil)
	e.contracts.UpdateStatus(context.Background(), "c1", models.ContractStatusCompleted.String())

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 5
	req.Status = strPtr(models.ContractStatusActive.String())

	_, err := e.contractSvc.SaveContract(context.Background(), "c1", req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "status", validationErr.Field)

	contract, _ := e.contracts.GetByID(context.Background(), "c1")
	assert.Equal(t, models.ContractStatusCompleted.String(), contract.Status)
}

func TestSaveContract_ReduceLessonCountTrimsLedger(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 10, []int{1, 2, 9}, nil)

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 8

	resp, err := e.contractSvc.SaveContract(context.Background(), "c1", req)
	require.NoError(t, err)

	// Занятие 9 было проведено и срезано, об этом предупреждаем.
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "reducing")

	lessons, _ := e.lessons.GetByContractID(context.Background(), "c1")
	assert.Len(t, lessons, 8)

	contract, _ := e.contracts.GetByID(context.Background(), "c1")
	assert.Equal(t, "2/8", contract.AttendanceCount)
}

func TestSaveContract_ReduceLessonCountCanComplete(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 10, []int{1, 2, 3}, nil)

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 3

	_, err := e.contractSvc.SaveContract(context.Background(), "c1", req)
	require.NoError(t, err)

	contract, _ := e.contracts.GetByID(context.Background(), "c1")
	assert.Equal(t, models.ContractStatusCompleted.String(), contract.Status)
	assert.Equal(t, "3/3", contract.AttendanceCount)
	assert.Len(t, e.notifications.all(), 1)
}

func TestSaveContract_GrowLessonCountReopensNothing(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 3, []int{1, 2, 3}, nil)
	e.contracts.UpdateStatus(context.Background(), "c1", models.ContractStatusCompleted.String())

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 5

	_, err := e.contractSvc.SaveContract(context.Background(), "c1", req)
	require.NoError(t, err)

	lessons, _ := e.lessons.GetByContractID(context.Background(), "c1")
	assert.Len(t, lessons, 5)

	// Статус назад не переключается, журнал просто расширен.
	contract, _ := e.contracts.GetByID(context.Background(), "c1")
	assert.Equal(t, models.ContractStatusCompleted.String(), contract.Status)
	assert.Equal(t, "3/5", contract.AttendanceCount)
}

func TestSaveContract_Busy(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 5, nil, nil)

	require.True(t, e.locks.tryAcquire("c1"))
	defer e.locks.release([]string{"c1"})

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 5

	_, err := e.contractSvc.SaveContract(context.Background(), "c1", req)

	assert.ErrorIs(t, err, ErrContractBusy)
}

func TestConcurrentManualCompletion_SingleTransition(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 5, []int{1}, nil)

	req := validContractRequest("student-1", "teacher-1")
	req.LessonCount = 5
	req.Status = strPtr(models.ContractStatusCompleted.String())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.contractSvc.SaveContract(context.Background(), "c1", req)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrContractBusy)
		}
	}

	assert.Equal(t, 1, e.contracts.statusWriteCount())
	assert.LessOrEqual(t, len(e.notifications.all()), 1)
}

func TestGetContractByID(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 4, []int{1, 2}, []int{4})

	detail, err := e.contractSvc.GetContractByID(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "Anna Berg", detail.Contract.StudentName)
	assert.Equal(t, 2, detail.Stats.Completed)
	assert.Equal(t, 3, detail.Stats.Available)
	assert.Equal(t, 1, detail.Stats.Excluded)
	assert.Len(t, detail.Lessons, 4)

	_, err = e.contractSvc.GetContractByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestGetContractsByStudent(t *testing.T) {
	e := newEnv()
	e.seedContract("c1", 4, nil, nil)

	contracts, err := e.contractSvc.GetContractsByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Len(t, contracts, 1)

	_, err = e.contractSvc.GetContractsByStudent(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
