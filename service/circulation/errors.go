package circulation

import "errors"

// Reason codes for circulation rejections. Controllers switch on these to
// pick a status code; messages are safe to surface verbatim.
type ErrCode string

const (
	ErrStudentNotFound    ErrCode = "STUDENT_NOT_FOUND"
	ErrStudentBlocked     ErrCode = "STUDENT_BLOCKED"
	ErrBookNotFound       ErrCode = "BOOK_NOT_FOUND"
	ErrBookNotAvailable   ErrCode = "BOOK_NOT_AVAILABLE"
	ErrLimitReached       ErrCode = "LIMIT_REACHED"
	ErrHasOverdue         ErrCode = "HAS_OVERDUE"
	ErrNoActiveLoan       ErrCode = "NO_ACTIVE_LOAN"
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrAlreadyReturned    ErrCode = "ALREADY_RETURNED"
	ErrMaxRenewalsReached ErrCode = "MAX_RENEWALS_REACHED"
	ErrCannotRenewOverdue ErrCode = "CANNOT_RENEW_OVERDUE"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the reason code, or "" for plain errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Reason is the structured result of a borrow pre-check.
type Reason struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
}

func (r *Reason) err() error {
	return makeErr(r.Code, r.Message)
}
