package models

import "time"

// Data Transfer Objects

type CreateStudentRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1,max=255"`
	LastName   string `json:"last_name" validate:"required,min=1,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone" validate:"max=64"`
	Instrument string `json:"instrument" validate:"max=128"`
}

type CreateTeacherRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=255"`
	LastName    string `json:"last_name" validate:"required,min=1,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" validate:"max=64"`
	Instruments string `json:"instruments" validate:"max=255"`
}

// SaveContractRequest покрывает и создание, и обновление договора.
// Status задаётся только при ручном переводе договора в completed.
type SaveContractRequest struct {
	StudentID       string  `json:"student_id" validate:"required,uuid"`
	TeacherID       string  `json:"teacher_id" validate:"required,uuid"`
	Variant         string  `json:"variant" validate:"required"`
	LessonCount     int     `json:"lesson_count" validate:"required"`
	DiscountPercent float64 `json:"discount_percent"`
	Status          *string `json:"status,omitempty"`
}

type SaveContractResponse struct {
	ContractID string   `json:"contract_id"`
	Warnings   []string `json:"warnings"`
}

// UpdateLessonRequest описывает частичное обновление занятия. Присутствующее поле
// применяется, отсутствующее не трогается. Пустая строка в Date очищает дату.
// Ссылка на договор здесь отсутствует намеренно: её нельзя изменить или
// обнулить через обновление занятия.
type UpdateLessonRequest struct {
	Date         *string `json:"date,omitempty"` // формат 2006-01-02
	Comment      *string `json:"comment,omitempty"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
	LessonNumber *int    `json:"lesson_number,omitempty"`
}

type LessonUpdateItem struct {
	LessonID string `json:"lesson_id" validate:"required,uuid"`
	UpdateLessonRequest
}

type BatchUpdateLessonsRequest struct {
	Updates []LessonUpdateItem `json:"updates" validate:"required,min=1,dive"`
}

type BatchUpdateFailure struct {
	LessonID string `json:"lesson_id"`
	Reason   string `json:"reason"`
}

type BatchUpdateResult struct {
	SuccessCount int                  `json:"success_count"`
	Failures     []BatchUpdateFailure `json:"failures"`
}

type CreateTrialLessonRequest struct {
	StudentName string  `json:"student_name" validate:"required,min=1,max=255"`
	Instrument  string  `json:"instrument" validate:"required,max=128"`
	TeacherID   *string `json:"teacher_id,omitempty" validate:"omitempty,uuid"`
	ScheduledAt string  `json:"scheduled_at" validate:"required"` // RFC3339
	Notes       string  `json:"notes" validate:"max=1000"`
}

type UpdateTrialLessonStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type ContractsResponse struct {
	Contracts []ContractWithDetails `json:"contracts"`
	Total     int                   `json:"total"`
	Page      int                   `json:"page"`
	Limit     int                   `json:"limit"`
}

type ContractDetailResponse struct {
	Contract ContractWithDetails `json:"contract"`
	Stats    CompletionStats     `json:"stats"`
	Lessons  []Lesson            `json:"lessons"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}

type LessonSnapshot struct {
	Lesson   Lesson          `json:"lesson"`
	Contract Contract        `json:"contract"`
	Stats    CompletionStats `json:"stats"`
}

type UnreadCountResponse struct {
	UnreadCount int       `json:"unread_count"`
	CheckedAt   time.Time `json:"checked_at"`
}
