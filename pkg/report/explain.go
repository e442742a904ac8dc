// Package report 将校验、评分和分配结果渲染为 Markdown
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/scoring"
	"github.com/paiban/shiftplan/pkg/stats"
)

// MaxViolations 最多列出的违规条数
const MaxViolations = 50

// Input 渲染所需的全部结果
type Input struct {
	Config     *model.Config
	Schedule   *model.Schedule
	Validation *constraint.Report
	Score      scoring.Report
	Workload   *stats.WorkloadMetrics
	Coverage   *stats.CoverageMetrics
}

// Markdown 渲染排班说明
// 分配按班次 ID 排序列出，未分配的班次标记为 (unfilled)
func Markdown(in Input) string {
	var lines []string

	lines = append(lines, strings.TrimSpace("# Schedule explanation — "+in.Config.Name()))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("- Valid: **%t**", in.Validation.OK))
	lines = append(lines, fmt.Sprintf("- Score: **%.3f** (components: %s)", in.Score.Total, components(in.Score.Components)))
	if len(in.Score.Notes) > 0 {
		lines = append(lines, "- Notes: "+strings.Join(in.Score.Notes, ", "))
	}

	lines = append(lines, "")
	lines = append(lines, "## Assignments")
	ids := in.Config.ShiftIDs()
	sort.Strings(ids)
	for _, sid := range ids {
		shift, _ := in.Config.Shift(sid)
		assigned := "(unfilled)"
		if eids := in.Schedule.Assigned(sid); len(eids) > 0 {
			assigned = strings.Join(eids, ", ")
		}
		lines = append(lines, fmt.Sprintf("- `%s` %s → %s : %s",
			sid, shift.Start.Format(time.RFC3339), shift.End.Format(time.RFC3339), assigned))
	}

	if in.Workload != nil && in.Workload.Employees > 0 {
		lines = append(lines, "")
		lines = append(lines, "## Workload")
		lines = append(lines, fmt.Sprintf("- Mean shifts: %.2f, stddev: %.3f, gini: %.3f",
			in.Workload.MeanShifts, in.Workload.ShiftStdDev, in.Workload.ShiftGini))
		if in.Coverage != nil {
			lines = append(lines, fmt.Sprintf("- Coverage: %.1f%% (%d/%d slots)",
				in.Coverage.OverallCoverage, in.Coverage.AssignedSlots, in.Coverage.RequiredSlots))
		}
		for _, st := range in.Workload.EmployeeStats {
			lines = append(lines, fmt.Sprintf("- %s: %d shift(s), %.1fh", st.EmployeeID, st.ShiftCount, st.TotalHours))
		}
	}

	if !in.Validation.OK {
		lines = append(lines, "")
		lines = append(lines, "## Violations")
		violations := in.Validation.Violations
		if len(violations) > MaxViolations {
			violations = violations[:MaxViolations]
		}
		for _, v := range violations {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", v.Code, v.Message))
		}
	}

	return strings.Join(lines, "\n")
}

// components 按名称排序输出得分项
func components(c map[string]float64) string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.3f", name, c[name]))
	}
	return strings.Join(parts, ", ")
}
