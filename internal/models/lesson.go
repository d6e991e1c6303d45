package models

import (
	"time"
)

type Lesson struct {
	ID           string     `json:"id" db:"id"`
	ContractID   string     `json:"contract_id" db:"contract_id"`
	LessonNumber int        `json:"lesson_number" db:"lesson_number"`
	Date         *time.Time `json:"date,omitempty" db:"date"` // дата проставлена = занятие проведено
	Comment      *string    `json:"comment,omitempty" db:"comment"`
	IsAvailable  bool       `json:"is_available" db:"is_available"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (l *Lesson) IsCompleted() bool {
	return l.Date != nil
}

// CompletionStats содержит результат оценки выполнения договора по журналу занятий.
type CompletionStats struct {
	Completed            int     `json:"completed"`
	Available            int     `json:"available"`
	Total                int     `json:"total"`
	Excluded             int     `json:"excluded"`
	IsComplete           bool    `json:"is_complete"`
	CompletionPercentage float64 `json:"completion_percentage"`
}
