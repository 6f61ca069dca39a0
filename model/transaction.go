// model/transaction.go
package model

import "time"

// Transaction is one borrowing event (a loan). A loan is open while
// IsReturned is false; at most one open loan may exist per book.
//
// MaxRenewals is snapshotted at checkout so a later policy change does not
// retroactively affect loans already out. IsOverdue is sticky: once set it
// never reverts, even if the book comes back.
type Transaction struct {
	ID           int64      `json:"id"`
	StudentID    int64      `json:"student_id"`
	BookID       int64      `json:"book_id"`
	LibrarianID  *int64     `json:"librarian_id,omitempty"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	IsReturned   bool       `json:"is_returned"`
	IsOverdue    bool       `json:"is_overdue"`
	RenewalCount int        `json:"renewal_count"`
	MaxRenewals  int        `json:"max_renewals"`
	Device       string     `json:"device,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// LoanRow is a transaction joined with student/book display fields, the shape
// circulation listings return.
type LoanRow struct {
	TransactionID   int64      `json:"transaction_id"`
	StudentRowID    int64      `json:"student_row_id"`
	StudentID       string     `json:"student_id"`
	StudentName     string     `json:"student_name"`
	GradeLevel      int        `json:"grade_level"`
	BookID          int64      `json:"book_id"`
	BookTitle       string     `json:"book_title"`
	AccessionNumber string     `json:"accession_number"`
	CheckoutDate    time.Time  `json:"checkout_date"`
	DueDate         time.Time  `json:"due_date"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	IsReturned      bool       `json:"is_returned"`
	IsOverdue       bool       `json:"is_overdue"`
	RenewalCount    int        `json:"renewal_count"`
	Device          string     `json:"device,omitempty"`
	DaysOverdue     int        `json:"days_overdue,omitempty"`
}
