// Package policy resolves borrowing rules from the settings store,
// substituting defaults so the system works before any settings exist.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"schoollib/model"
	settingsrepo "schoollib/repository/settings"
)

// Defaults applied when a setting key is absent.
const (
	DefaultBorrowingDays = 14
	DefaultMaxRenewals   = 2

	// Fallback limit for grade levels outside 1-12.
	DefaultBorrowingLimit = 3
)

// GradeLimits is the per-band borrowing limit table. Bands mirror the
// Philippine K-12 structure.
type GradeLimits struct {
	Grades1to3   int `json:"1-3"`
	Grades4to6   int `json:"4-6"`
	Grades7to10  int `json:"7-10"`
	Grades11to12 int `json:"11-12"`
}

var defaultGradeLimits = GradeLimits{
	Grades1to3:   1,
	Grades4to6:   2,
	Grades7to10:  5,
	Grades11to12: 7,
}

var ErrInvalidValue = errors.New("invalid setting value")

type Service interface {
	BorrowingDays(ctx context.Context) (int, error)
	MaxRenewals(ctx context.Context) (int, error)
	BorrowingLimit(ctx context.Context, gradeLevel int) (int, error)

	// Set validates and writes one policy setting. Malformed or
	// out-of-range values are rejected rather than stored.
	Set(ctx context.Context, key string, value json.RawMessage, description string) error
	List(ctx context.Context) ([]model.Setting, error)
	Delete(ctx context.Context, key string) error
	InitializeDefaults(ctx context.Context) error
}

type service struct{ r settingsrepo.Repo }

func New(r settingsrepo.Repo) Service { return &service{r: r} }

func (s *service) intSetting(ctx context.Context, key string, def int) (int, error) {
	raw, found, err := s.r.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		// A malformed stored value falls back rather than poisoning
		// due-date arithmetic. Writes are validated, so this only
		// happens for rows written outside the API.
		return def, nil
	}
	return v, nil
}

func (s *service) BorrowingDays(ctx context.Context) (int, error) {
	return s.intSetting(ctx, model.SettingBorrowingDays, DefaultBorrowingDays)
}

func (s *service) MaxRenewals(ctx context.Context) (int, error) {
	return s.intSetting(ctx, model.SettingMaxRenewals, DefaultMaxRenewals)
}

// LimitForGrade maps a grade level onto the band table. Anything outside
// 1-12 (zero, negative, 13+) gets the explicit fallback, never an error.
func LimitForGrade(limits GradeLimits, gradeLevel int) int {
	switch {
	case gradeLevel >= 1 && gradeLevel <= 3:
		return limits.Grades1to3
	case gradeLevel >= 4 && gradeLevel <= 6:
		return limits.Grades4to6
	case gradeLevel >= 7 && gradeLevel <= 10:
		return limits.Grades7to10
	case gradeLevel >= 11 && gradeLevel <= 12:
		return limits.Grades11to12
	default:
		return DefaultBorrowingLimit
	}
}

func (s *service) gradeLimits(ctx context.Context) (GradeLimits, error) {
	raw, found, err := s.r.Get(ctx, model.SettingBorrowingLimits)
	if err != nil {
		return GradeLimits{}, err
	}
	if !found {
		return defaultGradeLimits, nil
	}
	limits := defaultGradeLimits
	if err := json.Unmarshal(raw, &limits); err != nil {
		return defaultGradeLimits, nil
	}
	return limits, nil
}

func (s *service) BorrowingLimit(ctx context.Context, gradeLevel int) (int, error) {
	limits, err := s.gradeLimits(ctx)
	if err != nil {
		return 0, err
	}
	return LimitForGrade(limits, gradeLevel), nil
}

func (s *service) Set(ctx context.Context, key string, value json.RawMessage, description string) error {
	switch key {
	case model.SettingBorrowingDays:
		var v int
		if err := json.Unmarshal(value, &v); err != nil || v < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidValue, key)
		}
	case model.SettingMaxRenewals, model.SettingOverdueGracePeriod:
		var v int
		if err := json.Unmarshal(value, &v); err != nil || v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidValue, key)
		}
	case model.SettingBorrowingLimits:
		var limits GradeLimits
		if err := json.Unmarshal(value, &limits); err != nil {
			return fmt.Errorf("%w: %s must map grade bands to integers", ErrInvalidValue, key)
		}
		for _, n := range []int{limits.Grades1to3, limits.Grades4to6, limits.Grades7to10, limits.Grades11to12} {
			if n < 1 {
				return fmt.Errorf("%w: grade-band limits must be positive", ErrInvalidValue)
			}
		}
	default:
		if !json.Valid(value) {
			return fmt.Errorf("%w: not valid JSON", ErrInvalidValue)
		}
	}
	return s.r.Upsert(ctx, key, value, description)
}

func (s *service) List(ctx context.Context) ([]model.Setting, error) {
	return s.r.List(ctx)
}

func (s *service) Delete(ctx context.Context, key string) error {
	return s.r.Delete(ctx, key)
}

func (s *service) InitializeDefaults(ctx context.Context) error {
	defaults := []struct {
		key   string
		value any
		desc  string
	}{
		{model.SettingBorrowingDays, DefaultBorrowingDays, "Default number of borrowing days"},
		{model.SettingMaxRenewals, DefaultMaxRenewals, "Maximum number of renewals allowed"},
		{model.SettingBorrowingLimits, defaultGradeLimits, "Borrowing limits by grade level range"},
		{model.SettingOverdueGracePeriod, 0, "Grace period days before marking as overdue"},
		{model.SettingSchoolName, "School Library", "Name of the school"},
		{model.SettingLibraryName, "Library Management System", "Name of the library"},
	}
	for _, d := range defaults {
		if _, found, err := s.r.Get(ctx, d.key); err != nil {
			return err
		} else if found {
			continue
		}
		raw, err := json.Marshal(d.value)
		if err != nil {
			return err
		}
		if err := s.r.Upsert(ctx, d.key, raw, d.desc); err != nil {
			return err
		}
	}
	return nil
}
