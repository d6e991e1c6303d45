package models

import (
	"time"
)

type TrialLesson struct {
	ID          string    `json:"id" db:"id"`
	StudentName string    `json:"student_name" db:"student_name"`
	Instrument  string    `json:"instrument" db:"instrument"`
	TeacherID   *string   `json:"teacher_id,omitempty" db:"teacher_id"`
	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	Status      string    `json:"status" db:"status"` // pending, confirmed, completed, cancelled
	Notes       string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type TrialLessonWithTeacher struct {
	TrialLesson
	TeacherName *string `json:"teacher_name,omitempty" db:"teacher_name"`
}

type TrialLessonStatus string

const (
	TrialLessonStatusPending   TrialLessonStatus = "pending"
	TrialLessonStatusConfirmed TrialLessonStatus = "confirmed"
	TrialLessonStatusCompleted TrialLessonStatus = "completed"
	TrialLessonStatusCancelled TrialLessonStatus = "cancelled"
)

func (ts TrialLessonStatus) String() string {
	return string(ts)
}

func IsValidTrialLessonStatus(status string) bool {
	switch status {
	case "pending", "confirmed", "completed", "cancelled":
		return true
	default:
		return false
	}
}
