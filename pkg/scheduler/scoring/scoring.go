// Package scoring 计算排班的软目标得分
package scoring

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/paiban/shiftplan/pkg/model"
)

// 得分组成项
const (
	ComponentFairness    = "fairness"
	ComponentPreferences = "preferences"
)

// NoteFlatFairness 公平性项为零时的提示
const NoteFlatFairness = "Fairness score is flat (small roster)."

// Report 得分报告，越高越好
type Report struct {
	Total      float64            `json:"total"`
	Components map[string]float64 `json:"components"`
	Notes      []string           `json:"notes"`
}

// Score 计算公平性与偏好得分，无副作用
func Score(cfg *model.Config, sched *model.Schedule) Report {
	components := make(map[string]float64, 2)
	notes := []string{}

	fairness := Fairness(cfg, sched)
	components[ComponentFairness] = fairness * cfg.Preferences.FairnessWeight
	components[ComponentPreferences] = PreferencePoints(cfg, sched) * cfg.Preferences.PreferenceWeight

	total := components[ComponentFairness] + components[ComponentPreferences]
	if fairness == 0 {
		notes = append(notes, NoteFlatFairness)
	}

	return Report{Total: total, Components: components, Notes: notes}
}

// Fairness 返回未加权的公平性项：所有员工班次数的总体标准差取负
// 少于两名员工时为 0
func Fairness(cfg *model.Config, sched *model.Schedule) float64 {
	employees := cfg.Employees()
	if len(employees) < 2 {
		return 0
	}

	load := sched.Load()
	counts := make([]float64, len(employees))
	for i, e := range employees {
		counts[i] = float64(load[e.ID])
	}

	_, variance := stat.PopMeanVariance(counts, nil)
	if variance <= 0 {
		return 0
	}
	return -math.Sqrt(variance)
}

// PreferencePoints 返回偏好命中次数：班次所需技能与员工偏好技能有交集
func PreferencePoints(cfg *model.Config, sched *model.Schedule) float64 {
	points := 0.0
	for _, sid := range sched.ShiftIDs() {
		shift, ok := cfg.Shift(sid)
		if !ok || len(shift.RequiredSkills) == 0 {
			continue
		}
		for _, eid := range sched.Assigned(sid) {
			preferred := cfg.Preferences.PreferredSkills(eid)
			if len(preferred) > 0 && shift.RequiredSkills.Intersects(preferred) {
				points++
			}
		}
	}
	return points
}
