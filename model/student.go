// model/student.go
package model

import "time"

// Student is a patron. StudentID is the barcode-scannable identifier printed
// on the library card, distinct from the row ID.
type Student struct {
	ID             int64     `json:"id"`
	StudentID      string    `json:"student_id"`
	Name           string    `json:"name"`
	GradeLevel     int       `json:"grade_level"`
	Section        string    `json:"section,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Guardian       string    `json:"guardian,omitempty"`
	GuardianPhone  string    `json:"guardian_phone,omitempty"`
	BorrowingLimit int       `json:"borrowing_limit"`
	IsBlocked      bool      `json:"is_blocked"`
	BlockReason    string    `json:"block_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// KioskStudent is the projection exposed to the unattended kiosk. Guardian
// contact details and email stay out of it.
type KioskStudent struct {
	ID             int64  `json:"id"`
	StudentID      string `json:"student_id"`
	Name           string `json:"name"`
	GradeLevel     int    `json:"grade_level"`
	Section        string `json:"section,omitempty"`
	BorrowingLimit int    `json:"borrowing_limit"`
	IsBlocked      bool   `json:"is_blocked"`
	BlockReason    string `json:"block_reason,omitempty"`
}
