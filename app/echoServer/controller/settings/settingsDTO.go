package settings

import "encoding/json"

type SetSettingReq struct {
	Key         string          `json:"key" validate:"required"`
	Value       json.RawMessage `json:"value" validate:"required"`
	Description string          `json:"description,omitempty"`
}

type AddHolidayReq struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	IsRecurring bool   `json:"is_recurring"`
}
