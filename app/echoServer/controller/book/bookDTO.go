package book

type CreateBookReq struct {
	AccessionNumber string  `json:"accession_number" validate:"required"`
	ISBN            string  `json:"isbn,omitempty"`
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Category        string  `json:"category,omitempty"`
	Condition       string  `json:"condition,omitempty"`
	Location        string  `json:"location,omitempty"`
	ReplacementCost float64 `json:"replacement_cost" validate:"gte=0"`
	Summary         string  `json:"summary,omitempty"`
}

type UpdateBookReq struct {
	ISBN            string  `json:"isbn,omitempty"`
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Category        string  `json:"category,omitempty"`
	Condition       string  `json:"condition,omitempty"`
	Location        string  `json:"location,omitempty"`
	ReplacementCost float64 `json:"replacement_cost" validate:"gte=0"`
	Summary         string  `json:"summary,omitempty"`
}

type SetStatusReq struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

type BulkImportReq struct {
	Books []CreateBookReq `json:"books" validate:"required,min=1,dive"`
}

type CheckDuplicatesReq struct {
	AccessionNumbers []string `json:"accession_numbers" validate:"required,min=1"`
}
