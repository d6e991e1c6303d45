package models

import (
	"time"
)

type Student struct {
	ID         string    `json:"id" db:"id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone,omitempty" db:"phone"`
	Instrument string    `json:"instrument,omitempty" db:"instrument"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type StudentWithStats struct {
	Student
	TotalContracts  int `json:"total_contracts" db:"total_contracts"`
	ActiveContracts int `json:"active_contracts" db:"active_contracts"`
}

func (s *Student) DisplayName() string {
	switch {
	case s == nil:
		return ""
	case s.FirstName == "" && s.LastName == "":
		return ""
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}
