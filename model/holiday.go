// model/holiday.go
package model

import "time"

type HolidayType string

const (
	HolidayNational HolidayType = "national"
	HolidaySchool   HolidayType = "school"
	HolidaySpecial  HolidayType = "special"
)

// Holiday is a non-lending calendar day. Date is normalized to local
// midnight; time-of-day is never significant.
type Holiday struct {
	ID          int64       `json:"id"`
	Date        time.Time   `json:"date"`
	Name        string      `json:"name"`
	Type        HolidayType `json:"type"`
	IsRecurring bool        `json:"is_recurring"`
}
