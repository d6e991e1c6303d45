package models

// Actor описывает, кто выполняет операцию. Аутентификация живёт снаружи,
// сюда приходит только роль из запроса.
type Actor struct {
	Role string `json:"role"`
}

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
