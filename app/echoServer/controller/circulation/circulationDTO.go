package circulation

type ValidateReq struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	BookID    int64 `json:"book_id" validate:"required,gt=0"`
}

type CheckoutReq struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	BookID    int64  `json:"book_id" validate:"required,gt=0"`
	Device    string `json:"device,omitempty"`
}

type CheckinReq struct {
	BookID int64  `json:"book_id" validate:"required,gt=0"`
	Device string `json:"device,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type RenewReq struct {
	Device string `json:"device,omitempty"`
}
