package calendar

import (
	"context"
	"errors"
	"time"

	"schoollib/model"
	holidayrepo "schoollib/repository/holiday"
)

var ErrBadHolidayType = errors.New("invalid holiday type")

type Service interface {
	List(ctx context.Context, year int) ([]model.Holiday, error)
	Add(ctx context.Context, date time.Time, name string, typ model.HolidayType, recurring bool) (int64, error)
	Remove(ctx context.Context, id int64) error
	IsHoliday(ctx context.Context, date time.Time) (bool, error)

	// HolidaySet loads all registered holidays for due-date computation.
	HolidaySet(ctx context.Context) (HolidaySet, error)

	// SeedPhilippineHolidays registers the standard Philippine school-year
	// closures for a year. Existing entries are kept, not duplicated.
	SeedPhilippineHolidays(ctx context.Context, year int) (int, error)
}

type service struct{ r holidayrepo.Repo }

func New(r holidayrepo.Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, year int) ([]model.Holiday, error) {
	if year == 0 {
		return s.r.ListAll(ctx)
	}
	return s.r.ListYear(ctx, year)
}

func (s *service) Add(ctx context.Context, date time.Time, name string, typ model.HolidayType, recurring bool) (int64, error) {
	switch typ {
	case model.HolidayNational, model.HolidaySchool, model.HolidaySpecial:
	default:
		return 0, ErrBadHolidayType
	}
	h := &model.Holiday{
		Date:        StartOfDay(date),
		Name:        name,
		Type:        typ,
		IsRecurring: recurring,
	}
	return s.r.Add(ctx, h)
}

func (s *service) Remove(ctx context.Context, id int64) error {
	return s.r.Delete(ctx, id)
}

func (s *service) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	return s.r.ExistsOn(ctx, StartOfDay(date))
}

func (s *service) HolidaySet(ctx context.Context) (HolidaySet, error) {
	dates, err := s.r.Dates(ctx)
	if err != nil {
		return nil, err
	}
	return NewHolidaySet(dates), nil
}

type preset struct {
	month time.Month
	day   int
	name  string
	typ   model.HolidayType
	rec   bool
}

var philippinePresets = []preset{
	{time.January, 1, "New Year's Day", model.HolidayNational, true},
	{time.April, 9, "Araw ng Kagitingan", model.HolidayNational, true},
	{time.May, 1, "Labor Day", model.HolidayNational, true},
	{time.June, 12, "Independence Day", model.HolidayNational, true},
	{time.August, 21, "Ninoy Aquino Day", model.HolidayNational, true},
	{time.August, 26, "National Heroes Day", model.HolidayNational, true},
	{time.November, 30, "Bonifacio Day", model.HolidayNational, true},
	{time.December, 25, "Christmas Day", model.HolidayNational, true},
	{time.December, 30, "Rizal Day", model.HolidayNational, true},
	{time.February, 25, "EDSA People Power Revolution Anniversary", model.HolidaySpecial, true},
	{time.November, 1, "All Saints' Day", model.HolidaySpecial, true},
	{time.November, 2, "All Souls' Day", model.HolidaySpecial, true},
	{time.December, 8, "Feast of the Immaculate Conception", model.HolidaySpecial, true},
	{time.December, 24, "Christmas Eve", model.HolidaySpecial, true},
	{time.December, 31, "New Year's Eve", model.HolidaySpecial, true},
	{time.October, 14, "Semestral Break", model.HolidaySchool, false},
	{time.October, 15, "Semestral Break", model.HolidaySchool, false},
	{time.October, 16, "Semestral Break", model.HolidaySchool, false},
	{time.October, 17, "Semestral Break", model.HolidaySchool, false},
	{time.October, 18, "Semestral Break", model.HolidaySchool, false},
	{time.December, 22, "Christmas Break", model.HolidaySchool, false},
	{time.December, 23, "Christmas Break", model.HolidaySchool, false},
	{time.December, 26, "Christmas Break", model.HolidaySchool, false},
	{time.December, 27, "Christmas Break", model.HolidaySchool, false},
	{time.December, 28, "Christmas Break", model.HolidaySchool, false},
	{time.December, 29, "Christmas Break", model.HolidaySchool, false},
}

func (s *service) SeedPhilippineHolidays(ctx context.Context, year int) (int, error) {
	added := 0
	for _, p := range philippinePresets {
		date := time.Date(year, p.month, p.day, 0, 0, 0, 0, time.Local)
		id, err := s.r.Add(ctx, &model.Holiday{
			Date: date, Name: p.name, Type: p.typ, IsRecurring: p.rec,
		})
		if err != nil {
			return added, err
		}
		if id != 0 {
			added++
		}
	}
	return added, nil
}
