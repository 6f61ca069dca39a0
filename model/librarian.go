// model/librarian.go
package model

import "time"

type Role string

const (
	RoleAdmin            Role = "admin"
	RoleStaff            Role = "staff"
	RoleStudentAssistant Role = "student_assistant"
)

type Librarian struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	EmployeeID   string    `json:"employee_id,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
