package models

import (
	"time"
)

type Notification struct {
	ID         string    `json:"id" db:"id"`
	Type       string    `json:"type" db:"type"`
	ContractID string    `json:"contract_id" db:"contract_id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	// TeacherID всегда NULL для contract_fulfilled: уведомление видно только администратору.
	TeacherID *string   `json:"teacher_id,omitempty" db:"teacher_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type NotificationType string

const (
	NotificationTypeContractFulfilled NotificationType = "contract_fulfilled"
)

func (nt NotificationType) String() string {
	return string(nt)
}
