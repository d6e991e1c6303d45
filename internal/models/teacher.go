package models

import (
	"time"
)

type Teacher struct {
	ID          string    `json:"id" db:"id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Instruments string    `json:"instruments,omitempty" db:"instruments"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (t *Teacher) DisplayName() string {
	switch {
	case t == nil:
		return ""
	case t.FirstName == "" && t.LastName == "":
		return ""
	case t.FirstName == "":
		return t.LastName
	case t.LastName == "":
		return t.FirstName
	default:
		return t.FirstName + " " + t.LastName
	}
}
