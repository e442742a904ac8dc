package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/scoring"
	"github.com/paiban/shiftplan/pkg/stats"
)

var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func createTestInput(t *testing.T, name string, sched *model.Schedule, violations []constraint.Violation) Input {
	t.Helper()
	cfg, err := model.NewConfig(
		[]*model.Employee{{ID: "e1"}, {ID: "e2"}},
		[]*model.Shift{
			{ID: "s2", Start: monday.Add(33 * time.Hour), End: monday.Add(41 * time.Hour), RequiredHeadcount: 1},
			{ID: "s1", Start: monday.Add(9 * time.Hour), End: monday.Add(17 * time.Hour), RequiredHeadcount: 1},
		},
	)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if name != "" {
		cfg.Meta["name"] = name
	}
	return Input{
		Config:     cfg,
		Schedule:   sched,
		Validation: constraint.NewReport(violations),
		Score: scoring.Report{
			Total:      -0.5,
			Components: map[string]float64{"preferences": 0, "fairness": -0.5},
			Notes:      []string{},
		},
		Workload: stats.NewWorkloadAnalyzer().Analyze(cfg, sched),
		Coverage: stats.NewCoverageAnalyzer().Analyze(cfg, sched),
	}
}

func TestMarkdown_Valid(t *testing.T) {
	sched := model.ScheduleFromMap(map[string][]string{"s1": {"e1"}, "s2": {"e1"}})
	md := Markdown(createTestInput(t, "Week 2", sched, nil))

	expected := []string{
		"# Schedule explanation — Week 2",
		"- Valid: **true**",
		"- Score: **-0.500** (components: fairness=-0.500, preferences=0.000)",
		"## Assignments",
		"- `s1` 2026-01-05T09:00:00Z → 2026-01-05T17:00:00Z : e1",
		"## Workload",
		"- e2: 0 shift(s), 0.0h",
	}
	for _, want := range expected {
		if !strings.Contains(md, want) {
			t.Errorf("缺少 %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Violations") {
		t.Error("合法排班不应包含违规章节")
	}
	if strings.Index(md, "`s1`") > strings.Index(md, "`s2`") {
		t.Error("分配应按班次 ID 排序")
	}
}

func TestMarkdown_Invalid(t *testing.T) {
	var violations []constraint.Violation
	for i := 0; i < 60; i++ {
		violations = append(violations, constraint.Violation{
			Code:    constraint.CodeUnderCoverage,
			Message: fmt.Sprintf("v%d", i),
		})
	}
	md := Markdown(createTestInput(t, "", model.NewSchedule(), violations))

	if !strings.HasPrefix(md, "# Schedule explanation —\n") {
		t.Errorf("无名称时标题应去掉尾部空白:\n%s", md)
	}
	if !strings.Contains(md, "- Valid: **false**") {
		t.Error("应标记为非法")
	}
	if !strings.Contains(md, ": (unfilled)") {
		t.Error("未分配班次应标记 (unfilled)")
	}
	if got := strings.Count(md, "- **UNDER_COVERAGE**"); got != MaxViolations {
		t.Errorf("违规条数 = %d, expected %d", got, MaxViolations)
	}
}

func TestMarkdown_Notes(t *testing.T) {
	in := createTestInput(t, "x", model.NewSchedule(), nil)
	in.Score.Notes = []string{scoring.NoteFlatFairness}

	md := Markdown(in)
	if !strings.Contains(md, "- Notes: "+scoring.NoteFlatFairness) {
		t.Errorf("缺少提示行:\n%s", md)
	}
}
