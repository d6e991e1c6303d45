package service

import (
	"context"
	"sort"
	"sync"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

// Фейковые репозитории в памяти. Advisory-блокировки моделируются таблицей
// ключей, освобождаемой на выходе из WithinTx, как pg_try_advisory_xact_lock.

type lockTable struct {
	mu   sync.Mutex
	held map[string]bool
}

func newLockTable() *lockTable {
	return &lockTable{held: map[string]bool{}}
}

func (lt *lockTable) tryAcquire(key string) bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.held[key] {
		return false
	}
	lt.held[key] = true
	return true
}

func (lt *lockTable) release(keys []string) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	for _, key := range keys {
		delete(lt.held, key)
	}
}

type txStateKey struct{}

type txState struct {
	mu   sync.Mutex
	keys []string
}

type fakeTx struct {
	locks *lockTable
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	st := &txState{}
	err := fn(context.WithValue(ctx, txStateKey{}, st))
	f.locks.release(st.keys)
	return err
}

type fakeContractRepo struct {
	mu           sync.Mutex
	contracts    map[string]*models.Contract
	studentNames map[string]string
	teacherNames map[string]string
	locks        *lockTable
	statusWrites int
}

func newFakeContractRepo(locks *lockTable) *fakeContractRepo {
	return &fakeContractRepo{
		contracts:    map[string]*models.Contract{},
		studentNames: map[string]string{},
		teacherNames: map[string]string{},
		locks:        locks,
	}
}

func (f *fakeContractRepo) Create(ctx context.Context, contract *models.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *contract
	f.contracts[contract.ID] = &c
	return nil
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contract, ok := f.contracts[id]
	if !ok {
		return nil, nil
	}
	c := *contract
	return &c, nil
}

func (f *fakeContractRepo) GetByIDWithDetails(ctx context.Context, id string) (*models.ContractWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contract, ok := f.contracts[id]
	if !ok {
		return nil, nil
	}
	return &models.ContractWithDetails{
		Contract:    *contract,
		StudentName: f.studentNames[contract.StudentID],
		TeacherName: f.teacherNames[contract.TeacherID],
	}, nil
}

func (f *fakeContractRepo) GetAll(ctx context.Context, limit, offset int) ([]models.ContractWithDetails, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var contracts []models.ContractWithDetails
	for _, contract := range f.contracts {
		contracts = append(contracts, models.ContractWithDetails{Contract: *contract})
	}
	return contracts, len(contracts), nil
}

func (f *fakeContractRepo) GetByStudentID(ctx context.Context, studentID string) ([]models.ContractWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var contracts []models.ContractWithDetails
	for _, contract := range f.contracts {
		if contract.StudentID == studentID {
			contracts = append(contracts, models.ContractWithDetails{Contract: *contract})
		}
	}
	return contracts, nil
}

func (f *fakeContractRepo) Update(ctx context.Context, contract *models.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.contracts[contract.ID]
	if !ok {
		return nil
	}
	existing.StudentID = contract.StudentID
	existing.TeacherID = contract.TeacherID
	existing.Variant = contract.Variant
	existing.LessonCount = contract.LessonCount
	existing.DiscountPercent = contract.DiscountPercent
	return nil
}

func (f *fakeContractRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusWrites++
	if contract, ok := f.contracts[id]; ok {
		contract.Status = status
	}
	return nil
}

func (f *fakeContractRepo) UpdateAttendanceCount(ctx context.Context, id, attendanceCount string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if contract, ok := f.contracts[id]; ok {
		contract.AttendanceCount = attendanceCount
	}
	return nil
}

func (f *fakeContractRepo) TryAdvisoryLock(ctx context.Context, contractID string) (bool, error) {
	if !f.locks.tryAcquire(contractID) {
		return false, nil
	}
	if st, ok := ctx.Value(txStateKey{}).(*txState); ok {
		st.mu.Lock()
		st.keys = append(st.keys, contractID)
		st.mu.Unlock()
	}
	return true, nil
}

func (f *fakeContractRepo) statusWriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusWrites
}

type fakeLessonRepo struct {
	mu      sync.Mutex
	lessons map[string]*models.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: map[string]*models.Lesson{}}
}

func (f *fakeLessonRepo) CreateBatch(ctx context.Context, lessons []models.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, lesson := range lessons {
		l := lesson
		f.lessons[lesson.ID] = &l
	}
	return nil
}

func (f *fakeLessonRepo) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, nil
	}
	l := *lesson
	return &l, nil
}

func (f *fakeLessonRepo) GetByContractID(ctx context.Context, contractID string) ([]models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lessons []models.Lesson
	for _, lesson := range f.lessons {
		if lesson.ContractID == contractID {
			lessons = append(lessons, *lesson)
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].LessonNumber < lessons[j].LessonNumber
	})
	return lessons, nil
}

func (f *fakeLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.lessons[lesson.ID]
	if !ok {
		return nil
	}
	// contract_id намеренно не копируется, как в SQL-версии.
	existing.LessonNumber = lesson.LessonNumber
	existing.Date = lesson.Date
	existing.Comment = lesson.Comment
	existing.IsAvailable = lesson.IsAvailable
	return nil
}

func (f *fakeLessonRepo) DeleteAboveNumber(ctx context.Context, contractID string, lessonNumber int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, lesson := range f.lessons {
		if lesson.ContractID == contractID && lesson.LessonNumber > lessonNumber {
			delete(f.lessons, id)
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
	createErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	n := *notification
	f.notifications = append(f.notifications, &n)
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, notification := range f.notifications {
		if notification.ID == id {
			n := *notification
			return &n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) ExistsByContractAndType(ctx context.Context, contractID, notificationType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, notification := range f.notifications {
		if notification.ContractID == contractID && notification.Type == notificationType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) GetAll(ctx context.Context, onlyUnread bool, limit, offset int) ([]models.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notifications []models.Notification
	for _, notification := range f.notifications {
		if onlyUnread && notification.IsRead {
			continue
		}
		notifications = append(notifications, *notification)
	}
	return notifications, len(notifications), nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, notification := range f.notifications {
		if notification.ID == id {
			notification.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, notification := range f.notifications {
		if !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) all() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notifications []models.Notification
	for _, notification := range f.notifications {
		notifications = append(notifications, *notification)
	}
	return notifications
}

type fakeStudentRepo struct {
	mu             sync.Mutex
	students       map[string]*models.Student
	totalContracts map[string]int
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		students:       map[string]*models.Student{},
		totalContracts: map[string]int{},
	}
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *student
	f.students[student.ID] = &s
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id string) (*models.StudentWithStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	return &models.StudentWithStats{
		Student:        *student,
		TotalContracts: f.totalContracts[id],
	}, nil
}

func (f *fakeStudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, student := range f.students {
		if student.Email == email {
			s := *student
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) GetAll(ctx context.Context, limit, offset int) ([]models.StudentWithStats, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var students []models.StudentWithStats
	for _, student := range f.students {
		students = append(students, models.StudentWithStats{Student: *student})
	}
	return students, len(students), nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *student
	f.students[student.ID] = &s
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.students[id]
	return ok, nil
}

type fakeTeacherRepo struct {
	mu       sync.Mutex
	teachers map[string]*models.Teacher
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{teachers: map[string]*models.Teacher{}}
}

func (f *fakeTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := *teacher
	f.teachers[teacher.ID] = &t
	return nil
}

func (f *fakeTeacherRepo) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, nil
	}
	t := *teacher
	return &t, nil
}

func (f *fakeTeacherRepo) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, teacher := range f.teachers {
		if teacher.Email == email {
			t := *teacher
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTeacherRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Teacher, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var teachers []models.Teacher
	for _, teacher := range f.teachers {
		teachers = append(teachers, *teacher)
	}
	return teachers, len(teachers), nil
}

func (f *fakeTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := *teacher
	f.teachers[teacher.ID] = &t
	return nil
}

func (f *fakeTeacherRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.teachers, id)
	return nil
}

func (f *fakeTeacherRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.teachers[id]
	return ok, nil
}
