// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/paiban/shiftplan/pkg/model"
)

// WorkloadMetrics 工作量指标
type WorkloadMetrics struct {
	Employees   int `json:"employees"`
	Assignments int `json:"assignments"`

	// 班次数
	MeanShifts  float64 `json:"mean_shifts"`
	ShiftStdDev float64 `json:"shift_std_dev"` // 总体标准差，与评分的公平项一致
	ShiftGini   float64 `json:"shift_gini"`    // 0=完全均衡
	MaxShifts   int     `json:"max_shifts"`
	MinShifts   int     `json:"min_shifts"`

	// 工时
	MeanHours   float64 `json:"mean_hours"`
	HoursStdDev float64 `json:"hours_std_dev"`
	HoursGini   float64 `json:"hours_gini"`

	NightShiftGini   float64 `json:"night_shift_gini"`
	WeekendShiftGini float64 `json:"weekend_shift_gini"`

	EmployeeStats []EmployeeStat `json:"employee_stats"`
}

// EmployeeStat 员工统计
type EmployeeStat struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	ShiftCount    int     `json:"shift_count"`
	TotalHours    float64 `json:"total_hours"`
	NightShifts   int     `json:"night_shifts"`
	WeekendShifts int     `json:"weekend_shifts"`
	Deviation     float64 `json:"deviation"` // 与平均班次数的偏差百分比
}

// WorkloadAnalyzer 工作量分析器
type WorkloadAnalyzer struct {
	nightShiftStart int // 夜班开始时间（小时）
	nightShiftEnd   int // 夜班结束时间（小时）
}

// NewWorkloadAnalyzer 创建工作量分析器
func NewWorkloadAnalyzer() *WorkloadAnalyzer {
	return &WorkloadAnalyzer{
		nightShiftStart: 22,
		nightShiftEnd:   6,
	}
}

// Analyze 统计所有已配置员工的工作量，未分配的员工按 0 计入
// 排班中的未知班次和未知员工不参与统计
func (a *WorkloadAnalyzer) Analyze(cfg *model.Config, sched *model.Schedule) *WorkloadMetrics {
	metrics := &WorkloadMetrics{EmployeeStats: []EmployeeStat{}}
	if cfg == nil || len(cfg.Employees()) == 0 {
		return metrics
	}

	index := make(map[string]int, len(cfg.Employees()))
	for i, e := range cfg.Employees() {
		index[e.ID] = i
		metrics.EmployeeStats = append(metrics.EmployeeStats, EmployeeStat{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
		})
	}

	if sched != nil {
		for _, sid := range sched.ShiftIDs() {
			shift, ok := cfg.Shift(sid)
			if !ok {
				continue
			}
			for _, eid := range sched.Assigned(sid) {
				i, ok := index[eid]
				if !ok {
					continue
				}
				st := &metrics.EmployeeStats[i]
				st.ShiftCount++
				st.TotalHours += shift.DurationHours()
				if a.isNightShift(shift.Start, shift.End) {
					st.NightShifts++
				}
				if isWeekend(shift.Start) {
					st.WeekendShifts++
				}
				metrics.Assignments++
			}
		}
	}

	n := len(metrics.EmployeeStats)
	counts := make([]float64, n)
	hours := make([]float64, n)
	nights := make([]float64, n)
	weekends := make([]float64, n)
	for i, st := range metrics.EmployeeStats {
		counts[i] = float64(st.ShiftCount)
		hours[i] = st.TotalHours
		nights[i] = float64(st.NightShifts)
		weekends[i] = float64(st.WeekendShifts)
	}

	metrics.Employees = n
	metrics.MeanShifts, metrics.ShiftStdDev = popMeanStdDev(counts)
	metrics.MeanHours, metrics.HoursStdDev = popMeanStdDev(hours)
	metrics.ShiftGini = gini(counts)
	metrics.HoursGini = gini(hours)
	metrics.NightShiftGini = gini(nights)
	metrics.WeekendShiftGini = gini(weekends)

	maxShifts, minShifts := countRange(metrics.EmployeeStats)
	metrics.MaxShifts = maxShifts
	metrics.MinShifts = minShifts

	for i := range metrics.EmployeeStats {
		if metrics.MeanShifts > 0 {
			metrics.EmployeeStats[i].Deviation =
				(counts[i] - metrics.MeanShifts) / metrics.MeanShifts * 100
		}
	}

	return metrics
}

// Busiest 按班次数降序返回员工统计，数量相同时保持配置顺序
func (m *WorkloadMetrics) Busiest() []EmployeeStat {
	out := make([]EmployeeStat, len(m.EmployeeStats))
	copy(out, m.EmployeeStats)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ShiftCount > out[j].ShiftCount
	})
	return out
}

// isNightShift 判断是否是夜班
func (a *WorkloadAnalyzer) isNightShift(start, end time.Time) bool {
	// 开始时间在22点后，或跨日结束在6点前
	if start.Hour() >= a.nightShiftStart {
		return true
	}
	return end.YearDay() != start.YearDay() && end.Hour() <= a.nightShiftEnd
}

// isWeekend 按开始时间判断是否是周末
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func popMeanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(variance)
}

func countRange(stats []EmployeeStat) (max, min int) {
	if len(stats) == 0 {
		return 0, 0
	}
	max, min = stats[0].ShiftCount, stats[0].ShiftCount
	for _, st := range stats[1:] {
		if st.ShiftCount > max {
			max = st.ShiftCount
		}
		if st.ShiftCount < min {
			min = st.ShiftCount
		}
	}
	return
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := floats.Sum(sorted)
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
