package kiosk

type CheckoutReq struct {
	StudentID       string `json:"student_id" validate:"required"`
	AccessionNumber string `json:"accession_number" validate:"required"`
}

type CheckinReq struct {
	AccessionNumber string `json:"accession_number" validate:"required"`
}
