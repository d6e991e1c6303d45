package service

import (
	"errors"
	"fmt"
)

// Типизированные ошибки для корректного маппинга на HTTP-коды в delivery-слое.
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrTrialLessonNotFound  = errors.New("trial lesson not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Договор заблокирован параллельной операцией, вызывающий должен повторить.
	ErrContractBusy = errors.New("contract is locked by another operation")

	// Операция доступна только администратору.
	ErrForbidden = errors.New("administrator role required")
)

// ValidationError означает, что входные данные нарушают документированное ограничение.
// Всегда возвращается до каких-либо изменений в БД.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IntegrityError означает, что операция нарушила бы обязательную связь между записями.
// Фатальна для операции, запись не изменяется.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation: %s", e.Reason)
}

func newIntegrityError(reason string) error {
	return &IntegrityError{Reason: reason}
}
