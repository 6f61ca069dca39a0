// model/setting.go
package model

import (
	"encoding/json"
	"time"
)

// Setting is one row of the key/value policy store. Value is JSON; the
// policy resolver knows the schema per key and substitutes defaults when a
// key is absent.
type Setting struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Well-known setting keys.
const (
	SettingBorrowingDays      = "borrowingDays"
	SettingMaxRenewals        = "maxRenewals"
	SettingBorrowingLimits    = "borrowingLimits"
	SettingOverdueGracePeriod = "overdueGracePeriod"
	SettingSchoolName         = "schoolName"
	SettingLibraryName        = "libraryName"
)
