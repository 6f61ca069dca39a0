package policy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoollib/model"
)

type settingsRepoMock struct {
	data map[string]json.RawMessage
}

func newSettingsMock() *settingsRepoMock {
	return &settingsRepoMock{data: map[string]json.RawMessage{}}
}

func (m *settingsRepoMock) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *settingsRepoMock) List(_ context.Context) ([]model.Setting, error) {
	out := make([]model.Setting, 0, len(m.data))
	for k, v := range m.data {
		out = append(out, model.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (m *settingsRepoMock) Upsert(_ context.Context, key string, value json.RawMessage, _ string) error {
	m.data[key] = value
	return nil
}

func (m *settingsRepoMock) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestLimitForGrade(t *testing.T) {
	limits := GradeLimits{Grades1to3: 1, Grades4to6: 2, Grades7to10: 5, Grades11to12: 7}

	cases := []struct {
		grade int
		want  int
	}{
		{1, 1}, {2, 1}, {3, 1},
		{4, 2}, {5, 2}, {6, 2},
		{7, 5}, {8, 5}, {9, 5}, {10, 5},
		{11, 7}, {12, 7},
		{0, DefaultBorrowingLimit},
		{-1, DefaultBorrowingLimit},
		{13, DefaultBorrowingLimit},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LimitForGrade(limits, c.grade), "grade %d", c.grade)
	}
}

func TestDefaultsWhenUnset(t *testing.T) {
	svc := New(newSettingsMock())
	ctx := context.Background()

	days, err := svc.BorrowingDays(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultBorrowingDays, days)

	renewals, err := svc.MaxRenewals(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxRenewals, renewals)

	limit, err := svc.BorrowingLimit(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
}

func TestStoredValuesWin(t *testing.T) {
	repo := newSettingsMock()
	repo.data[model.SettingBorrowingDays] = json.RawMessage(`7`)
	repo.data[model.SettingMaxRenewals] = json.RawMessage(`1`)
	repo.data[model.SettingBorrowingLimits] = json.RawMessage(`{"1-3":2,"4-6":3,"7-10":4,"11-12":6}`)

	svc := New(repo)
	ctx := context.Background()

	days, err := svc.BorrowingDays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, days)

	renewals, err := svc.MaxRenewals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, renewals)

	limit, err := svc.BorrowingLimit(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, limit)
}

func TestMalformedStoredValueFallsBack(t *testing.T) {
	repo := newSettingsMock()
	repo.data[model.SettingBorrowingDays] = json.RawMessage(`"fourteen"`)

	svc := New(repo)
	days, err := svc.BorrowingDays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultBorrowingDays, days)
}

func TestSetValidation(t *testing.T) {
	svc := New(newSettingsMock())
	ctx := context.Background()

	cases := []struct {
		name  string
		key   string
		value string
		ok    bool
	}{
		{"valid days", model.SettingBorrowingDays, `10`, true},
		{"zero days", model.SettingBorrowingDays, `0`, false},
		{"negative days", model.SettingBorrowingDays, `-3`, false},
		{"non-numeric days", model.SettingBorrowingDays, `"ten"`, false},
		{"zero renewals ok", model.SettingMaxRenewals, `0`, true},
		{"negative renewals", model.SettingMaxRenewals, `-1`, false},
		{"valid limits", model.SettingBorrowingLimits, `{"1-3":1,"4-6":2,"7-10":5,"11-12":7}`, true},
		{"zero band limit", model.SettingBorrowingLimits, `{"1-3":0,"4-6":2,"7-10":5,"11-12":7}`, false},
		{"free-form key valid json", model.SettingSchoolName, `"Rizal High"`, true},
		{"free-form key broken json", model.SettingSchoolName, `{broken`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := svc.Set(ctx, c.key, json.RawMessage(c.value), "")
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidValue)
			}
		})
	}
}

func TestInitializeDefaultsKeepsExisting(t *testing.T) {
	repo := newSettingsMock()
	repo.data[model.SettingBorrowingDays] = json.RawMessage(`21`)

	svc := New(repo)
	require.NoError(t, svc.InitializeDefaults(context.Background()))

	// The pre-existing value survives, the missing keys get defaults.
	assert.Equal(t, json.RawMessage(`21`), repo.data[model.SettingBorrowingDays])
	assert.Contains(t, repo.data, model.SettingMaxRenewals)
	assert.Contains(t, repo.data, model.SettingBorrowingLimits)
	assert.Contains(t, repo.data, model.SettingOverdueGracePeriod)
}
