package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/scoring"
	"github.com/paiban/shiftplan/pkg/scheduler/solver"
)

var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

type fakeRecorder struct {
	generates int
	validates int
	calls     map[string]int
	failures  int
}

func (r *fakeRecorder) ObserveGenerate(*solver.Result) { r.generates++ }
func (r *fakeRecorder) ObserveValidate(*constraint.Report) { r.validates++ }
func (r *fakeRecorder) ObserveToolCall(name string, err error) {
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[name]++
	if err != nil {
		r.failures++
	}
}

func createStoreConfig(t *testing.T) *model.Config {
	t.Helper()
	week := []model.TimeWindow{{Start: monday, End: monday.AddDate(0, 0, 7)}}
	cfg, err := model.NewConfig(
		[]*model.Employee{
			{ID: "e1", Skills: model.NewSkillSet("cashier"), Availability: week},
			{ID: "e2", Skills: model.NewSkillSet("stock"), Availability: week},
		},
		[]*model.Shift{{
			ID:                "s1",
			Start:             monday.Add(9 * time.Hour),
			End:               monday.Add(17 * time.Hour),
			RequiredHeadcount: 1,
			RequiredSkills:    model.NewSkillSet("cashier"),
		}},
	)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	cfg.Solver.MaxIterations = 10
	cfg.Solver.MaxSeconds = 60
	cfg.Meta["name"] = "store"
	return cfg
}

func TestFacade_Generate(t *testing.T) {
	f := NewFacade()
	rec := &fakeRecorder{}
	f.SetRecorder(rec)

	res, err := f.Generate(context.Background(), createStoreConfig(t))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !res.OK {
		t.Errorf("expected ok, notes = %v", res.Notes)
	}
	if got := res.Schedule.Assigned("s1"); len(got) != 1 || got[0] != "e1" {
		t.Errorf("s1 = %v, expected [e1]", got)
	}
	if res.Iterations != 10 {
		t.Errorf("Iterations = %d, expected 10", res.Iterations)
	}
	if rec.generates != 1 {
		t.Errorf("recorder generates = %d, expected 1", rec.generates)
	}
}

func TestFacade_ValidateScoreExplain(t *testing.T) {
	f := NewFacade()
	cfg := createStoreConfig(t)
	sched := model.ScheduleFromMap(map[string][]string{"s1": {"e2"}})

	rep := f.Validate(cfg, sched)
	if rep.OK || len(rep.ByCode(constraint.CodeMissingSkill)) != 1 {
		t.Errorf("Validate() = %+v, expected one MISSING_SKILL", rep)
	}

	score, err := f.Score(cfg, sched)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if score.Components[scoring.ComponentFairness] != -0.5 {
		t.Errorf("fairness = %v, expected -0.5", score.Components[scoring.ComponentFairness])
	}

	md := f.Explain(cfg, sched).Markdown
	for _, want := range []string{"# Schedule explanation — store", "- Valid: **false**", "**MISSING_SKILL**"} {
		if !strings.Contains(md, want) {
			t.Errorf("Explain() 缺少 %q:\n%s", want, md)
		}
	}
}

func TestFacade_ScoreUnresolvedShift(t *testing.T) {
	f := NewFacade()
	sched := model.ScheduleFromMap(map[string][]string{"ghost": {"e1"}})

	_, err := f.Score(createStoreConfig(t), sched)
	if !apperrors.Is(err, apperrors.CodeInternal) {
		t.Errorf("Score() error = %v, expected INTERNAL_ERROR", err)
	}
}

func TestRegistry_Call(t *testing.T) {
	f := NewFacade()
	rec := &fakeRecorder{}
	f.SetRecorder(rec)
	reg := DefaultRegistry(f)
	cfg := createStoreConfig(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		tool     string
		req      Request
		wantCode apperrors.Code
	}{
		{"生成", ToolGenerate, Request{Config: cfg}, ""},
		{"生成缺少配置", ToolGenerate, Request{}, apperrors.CodeInvalidInput},
		{"校验", ToolValidate, Request{Config: cfg, Schedule: model.NewSchedule()}, ""},
		{"校验缺少排班", ToolValidate, Request{Config: cfg}, apperrors.CodeNoSchedule},
		{"评分", ToolScore, Request{Config: cfg, Schedule: model.NewSchedule()}, ""},
		{"说明", ToolExplain, Request{Config: cfg, Schedule: model.NewSchedule()}, ""},
		{"未知工具", "schedule_delete", Request{Config: cfg}, apperrors.CodeToolNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := reg.Call(ctx, tt.tool, tt.req)
			if tt.wantCode != "" {
				if apperrors.GetCode(err) != tt.wantCode {
					t.Errorf("Call(%s) error = %v, expected %s", tt.tool, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Call(%s) error = %v", tt.tool, err)
			}
			if out == nil {
				t.Errorf("Call(%s) returned nil", tt.tool)
			}
		})
	}

	if rec.calls[ToolGenerate] != 2 || rec.failures != 3 {
		t.Errorf("recorder calls = %v failures = %d", rec.calls, rec.failures)
	}
}

func TestRegistry_ToolNotFoundMessage(t *testing.T) {
	_, err := NewRegistry().Call(context.Background(), "nope", Request{})
	if err == nil || !strings.Contains(err.Error(), "Tool not found: nope") {
		t.Errorf("error = %v", err)
	}
}

func TestRegistry_List(t *testing.T) {
	reg := DefaultRegistry(NewFacade())

	names := reg.Names()
	expected := []string{ToolGenerate, ToolValidate, ToolScore, ToolExplain}
	if len(names) != len(expected) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Names()[%d] = %s, expected %s", i, names[i], expected[i])
		}
	}
	for name, desc := range reg.List() {
		if desc == "" {
			t.Errorf("%s 缺少描述", name)
		}
	}

	reg.Register(ToolScore, "override", nil)
	if len(reg.Names()) != 4 || reg.List()[ToolScore] != "override" {
		t.Error("同名注册应覆盖且不改变顺序")
	}
}
