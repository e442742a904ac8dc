package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paiban/shiftplan/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	TotalShifts     int     `json:"total_shifts"`     // 总班次数
	FilledShifts    int     `json:"filled_shifts"`    // 人数已满足的班次数
	RequiredSlots   int     `json:"required_slots"`   // 需求人次
	AssignedSlots   int     `json:"assigned_slots"`   // 已分配人次（不超过需求）
	OverallCoverage float64 `json:"overall_coverage"` // 整体覆盖率 (%)

	DailyCoverage map[string]DayCoverage `json:"daily_coverage"`
	Uncovered     []UncoveredShift       `json:"uncovered_shifts"`
}

// DayCoverage 每日覆盖情况
type DayCoverage struct {
	Date          string  `json:"date"`
	TotalShifts   int     `json:"total_shifts"`
	RequiredSlots int     `json:"required_slots"`
	AssignedSlots int     `json:"assigned_slots"`
	CoverageRate  float64 `json:"coverage_rate"`
	TotalHours    float64 `json:"total_hours"`
}

// UncoveredShift 人数不足的班次
type UncoveredShift struct {
	ShiftID        string   `json:"shift_id"`
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Required       int      `json:"required"`
	Assigned       int      `json:"assigned"`
	RequiredSkills []string `json:"required_skills"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 按配置中的班次统计覆盖率，日期取班次开始时间
func (c *CoverageAnalyzer) Analyze(cfg *model.Config, sched *model.Schedule) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage: make(map[string]DayCoverage),
		Uncovered:     []UncoveredShift{},
	}
	if cfg == nil {
		return metrics
	}

	for _, shift := range cfg.Shifts() {
		assigned := 0
		if sched != nil {
			assigned = len(sched.Assigned(shift.ID))
		}
		counted := assigned
		if counted > shift.RequiredHeadcount {
			counted = shift.RequiredHeadcount
		}

		metrics.TotalShifts++
		metrics.RequiredSlots += shift.RequiredHeadcount
		metrics.AssignedSlots += counted

		date := shift.Start.Format("2006-01-02")
		day := metrics.DailyCoverage[date]
		day.Date = date
		day.TotalShifts++
		day.RequiredSlots += shift.RequiredHeadcount
		day.AssignedSlots += counted
		day.TotalHours += float64(assigned) * shift.DurationHours()
		metrics.DailyCoverage[date] = day

		if assigned >= shift.RequiredHeadcount {
			metrics.FilledShifts++
			continue
		}
		metrics.Uncovered = append(metrics.Uncovered, UncoveredShift{
			ShiftID:        shift.ID,
			Date:           date,
			StartTime:      shift.Start.Format("15:04"),
			EndTime:        shift.End.Format("15:04"),
			Required:       shift.RequiredHeadcount,
			Assigned:       assigned,
			RequiredSkills: shift.RequiredSkills.Sorted(),
		})
	}

	metrics.OverallCoverage = rate(metrics.AssignedSlots, metrics.RequiredSlots)
	for date, day := range metrics.DailyCoverage {
		day.CoverageRate = rate(day.AssignedSlots, day.RequiredSlots)
		metrics.DailyCoverage[date] = day
	}

	return metrics
}

// rate 需求为 0 时视为完全覆盖
func rate(assigned, required int) float64 {
	if required == 0 {
		return 100
	}
	return float64(assigned) / float64(required) * 100
}

// GenerateCoverageReport 生成覆盖率文本报告
func (c *CoverageAnalyzer) GenerateCoverageReport(metrics *CoverageMetrics) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Coverage: %.1f%% (%d/%d slots, %d/%d shifts filled)\n",
		metrics.OverallCoverage, metrics.AssignedSlots, metrics.RequiredSlots,
		metrics.FilledShifts, metrics.TotalShifts)

	dates := make([]string, 0, len(metrics.DailyCoverage))
	for d := range metrics.DailyCoverage {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		day := metrics.DailyCoverage[d]
		fmt.Fprintf(&sb, "  %s: %.1f%% (%d/%d)\n", d, day.CoverageRate, day.AssignedSlots, day.RequiredSlots)
	}

	for _, u := range metrics.Uncovered {
		fmt.Fprintf(&sb, "  short: %s %s %s-%s needs %d has %d\n",
			u.ShiftID, u.Date, u.StartTime, u.EndTime, u.Required, u.Assigned)
	}
	return sb.String()
}
