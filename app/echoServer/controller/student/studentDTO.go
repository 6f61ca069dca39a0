package student

type StudentReq struct {
	StudentID     string `json:"student_id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	GradeLevel    int    `json:"grade_level" validate:"gte=0,lte=12"`
	Section       string `json:"section,omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty"`
	Guardian      string `json:"guardian,omitempty"`
	GuardianPhone string `json:"guardian_phone,omitempty"`
}

type UpdateStudentReq struct {
	Name           string `json:"name" validate:"required"`
	GradeLevel     int    `json:"grade_level" validate:"gte=0,lte=12"`
	Section        string `json:"section,omitempty"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty"`
	Guardian       string `json:"guardian,omitempty"`
	GuardianPhone  string `json:"guardian_phone,omitempty"`
	BorrowingLimit int    `json:"borrowing_limit,omitempty" validate:"gte=0"`
}

type BlockReq struct {
	Reason string `json:"reason" validate:"required"`
}

type BulkImportReq struct {
	Students []StudentReq `json:"students" validate:"required,min=1,dive"`
}

type CheckDuplicatesReq struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1"`
}
