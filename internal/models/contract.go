package models

import (
	"time"
)

type Contract struct {
	ID              string    `json:"id" db:"id"`
	StudentID       string    `json:"student_id" db:"student_id"`
	TeacherID       string    `json:"teacher_id" db:"teacher_id"`
	Variant         string    `json:"variant" db:"variant"` // ten_lesson_card, half_year, full_year, trial_package
	LessonCount     int       `json:"lesson_count" db:"lesson_count"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	Status          string    `json:"status" db:"status"` // active, completed
	AttendanceCount string    `json:"attendance_count" db:"attendance_count"` // "completed/available"
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type ContractWithDetails struct {
	Contract
	StudentName string `json:"student_name" db:"student_name"`
	TeacherName string `json:"teacher_name" db:"teacher_name"`
}

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
)

func (cs ContractStatus) String() string {
	return string(cs)
}

func IsValidContractStatus(status string) bool {
	switch status {
	case "active", "completed":
		return true
	default:
		return false
	}
}

// MaxLessonsPerContract ограничивает количество занятий в одном договоре.
const MaxLessonsPerContract = 18

// ContractVariantNames задаёт отображаемые названия вариантов договора.
var ContractVariantNames = map[string]string{
	"trial_package":   "Trial Package",
	"ten_lesson_card": "10 Lesson Card",
	"half_year":       "Half Year Contract",
	"full_year":       "Full Year Contract",
}

func IsValidContractVariant(variant string) bool {
	_, ok := ContractVariantNames[variant]
	return ok
}

func ContractVariantDisplayName(variant string) string {
	if name, ok := ContractVariantNames[variant]; ok {
		return name
	}
	return "contract"
}
