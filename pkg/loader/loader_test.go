package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/model"
)

const testdata = "../../testdata"

func TestLoad_JSON(t *testing.T) {
	cfg, err := New("").Load(filepath.Join(testdata, "sample_week.json"))
	require.NoError(t, err)

	assert.Equal(t, "Sample week", cfg.Name())
	assert.Len(t, cfg.Employees(), 5)
	require.Len(t, cfg.Shifts(), 10)
	assert.Equal(t, "d0_front", cfg.ShiftIDs()[0])
	assert.Equal(t, "d0_back", cfg.ShiftIDs()[1])

	e2, ok := cfg.Employee("e2")
	require.True(t, ok)
	assert.Equal(t, "Employee 2", e2.Name)
	assert.True(t, e2.Skills.Has("stock"))
	require.Len(t, e2.Availability, 1)
	assert.True(t, e2.Availability[0].Start.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))

	s, _ := cfg.Shift("d0_front")
	assert.Equal(t, 8*time.Hour, s.Duration())
	assert.Equal(t, 1, s.RequiredHeadcount)

	assert.Equal(t, 200, cfg.Solver.MaxIterations)
	assert.Equal(t, []string{"stock"}, cfg.Preferences.EmployeeShiftPreferences["e2"].PreferSkill)
}

func TestLoad_YAMLTemplates(t *testing.T) {
	cfg, err := New("").Load(filepath.Join(testdata, "sample_week.yaml"))
	require.NoError(t, err)

	ids := cfg.ShiftIDs()
	require.Len(t, ids, 10)
	assert.Equal(t, "front_20260105T0900", ids[0])
	assert.Equal(t, "front_20260109T0900", ids[4])
	assert.Equal(t, "back_20260105T0900", ids[5])

	s, _ := cfg.Shift("back_20260107T0900")
	require.NotNil(t, s)
	assert.True(t, s.End.Equal(time.Date(2026, 1, 7, 17, 0, 0, 0, time.UTC)))
	assert.True(t, s.RequiredSkills.Has("stock"))

	// 未配置的项使用默认值
	assert.Equal(t, model.DefaultFairnessWeight, cfg.Preferences.FairnessWeight)
	assert.Equal(t, model.DefaultPreferenceWeight, cfg.Preferences.PreferenceWeight)
	assert.Equal(t, model.DefaultBacktrackingLimit, cfg.Solver.BacktrackingLimit)
	assert.Equal(t, []string{"stock"}, cfg.Preferences.EmployeeShiftPreferences["e2"].PreferSkill)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := New("").Parse([]byte(`{
		"employees": [{"id": "a"}],
		"shifts": [{"id": "s", "start": "2026-01-05T09:00", "end": "2026-01-05T17:00"}]
	}`), "json")
	require.NoError(t, err)

	a, _ := cfg.Employee("a")
	assert.Equal(t, "a", a.Name, "名称默认为 ID")
	s, _ := cfg.Shift("s")
	assert.Equal(t, model.DefaultRequiredHeadcount, s.RequiredHeadcount)
	assert.Equal(t, model.DefaultPolicies(), cfg.Policies)
	assert.Equal(t, model.DefaultSolverConfig(), cfg.Solver)
	assert.NotNil(t, cfg.Preferences.EmployeeShiftPreferences)
}

func TestParse_ZeroHeadcount(t *testing.T) {
	cfg, err := New("").Parse([]byte(`{
		"employees": [],
		"shifts": [{"id": "s", "start": "2026-01-05T09:00:00", "end": "2026-01-05T17:00:00", "required_headcount": 0}]
	}`), "json")
	require.NoError(t, err)

	s, _ := cfg.Shift("s")
	assert.Equal(t, 0, s.RequiredHeadcount, "显式 0 不应被默认值覆盖")
}

func TestParse_TimeZone(t *testing.T) {
	cfg, err := New("").Parse([]byte(`
employees: [{id: a}]
shifts:
  - id: s
    start: "2026-01-05T09:00:00+02:00"
    end: "2026-01-05T17:00:00+02:00"
`), "yaml")
	require.NoError(t, err)

	s, _ := cfg.Shift("s")
	assert.True(t, s.Start.Equal(time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC)))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHIFTPLAN_SOLVER__MAX_SECONDS", "0.5")
	t.Setenv("SHIFTPLAN_POLICIES__MIN_REST_HOURS", "12")
	t.Setenv("SHIFTPLAN_SERVER__ADDR", ":9999")

	cfg, err := New(DefaultEnvPrefix).Load(filepath.Join(testdata, "sample_week.json"))
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Solver.MaxSeconds)
	assert.Equal(t, 12, cfg.Policies.MinRestHours)
	assert.Equal(t, 200, cfg.Solver.MaxIterations)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"不支持的格式", write("c.toml", "x = 1")},
		{"文件不存在", filepath.Join(dir, "missing.json")},
		{"JSON 语法错误", write("broken.json", "{")},
		{"缺少员工", write("noemp.json", `{"shifts": []}`)},
		{"缺少班次", write("noshift.json", `{"employees": []}`)},
		{"员工缺少 ID", write("noid.json", `{"employees": [{"name": "x"}], "shifts": []}`)},
		{"结束早于开始", write("order.json", `{"employees": [], "shifts": [
			{"id": "s", "start": "2026-01-05T17:00:00", "end": "2026-01-05T09:00:00"}]}`)},
		{"人数为负", write("neg.json", `{"employees": [], "shifts": [
			{"id": "s", "start": "2026-01-05T09:00:00", "end": "2026-01-05T17:00:00", "required_headcount": -1}]}`)},
		{"时间格式错误", write("time.json", `{"employees": [], "shifts": [
			{"id": "s", "start": "monday", "end": "2026-01-05T17:00:00"}]}`)},
		{"重复班次", write("dup.json", `{"employees": [], "shifts": [
			{"id": "s", "start": "2026-01-05T09:00:00", "end": "2026-01-05T17:00:00"},
			{"id": "s", "start": "2026-01-06T09:00:00", "end": "2026-01-06T17:00:00"}]}`)},
		{"策略为负", write("pol.json", `{"employees": [], "shifts": [], "policies": {"min_rest_hours": -1}}`)},
		{"非法 RRULE", write("rrule.yaml", `
employees: []
shift_templates:
  - {id_prefix: t, start: "2026-01-05T09:00:00", rrule: "NOT_A_RULE", duration_hours: 8}
`)},
		{"RRULE 无界", write("unbounded.yaml", `
employees: []
shift_templates:
  - {id_prefix: t, start: "2026-01-05T09:00:00", rrule: "FREQ=DAILY", duration_hours: 8}
`)},
	}

	l := New("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(tt.path)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeConfigInvalid), "error = %v", err)
		})
	}
}

func TestLoad_FieldErrors(t *testing.T) {
	_, err := New("").Parse([]byte(`{"employees": [], "shifts": [], "policies": {"min_rest_hours": -1}}`), "json")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConfigInvalid, appErr.Code)
	assert.Equal(t, "gte=0", appErr.Fields["policies.min_rest_hours"])

	var ve *apperrors.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.HasErrors())
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2026-01-05T09:30:00", time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)},
		{"2026-01-05T09:30", time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)},
		{"2026-01-05 09:30:00", time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)},
		{"2026-01-05", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2026-01-05T09:30:00Z", time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)},
		{" 2026-01-05T09:30:00-05:00 ", time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %v", got)
		})
	}

	_, err := ParseTime("next tuesday")
	assert.Error(t, err)
}
