// Package solver 提供排班求解器
package solver

import "github.com/paiban/shiftplan/pkg/model"

// Eligibility 班次 -> 合格员工（按声明顺序）
// 合格：技能覆盖班次要求且有可用窗口完整包含班次
type Eligibility map[string][]string

// NewEligibility 计算所有班次的合格员工
func NewEligibility(cfg *model.Config) Eligibility {
	out := make(Eligibility, len(cfg.Shifts()))
	for _, shift := range cfg.Shifts() {
		out[shift.ID] = EligibleEmployees(cfg, shift)
	}
	return out
}

// EligibleEmployees 返回班次的合格员工
func EligibleEmployees(cfg *model.Config, shift *model.Shift) []string {
	var out []string
	for _, emp := range cfg.Employees() {
		if emp.CanWork(shift) {
			out = append(out, emp.ID)
		}
	}
	return out
}

// Hardness 班次难度：合格员工数
func (e Eligibility) Hardness(shiftID string) int {
	return len(e[shiftID])
}

// Candidates 返回合格员工的拷贝
func (e Eligibility) Candidates(shiftID string) []string {
	src := e[shiftID]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Contains 检查员工是否合格
func (e Eligibility) Contains(shiftID, employeeID string) bool {
	for _, id := range e[shiftID] {
		if id == employeeID {
			return true
		}
	}
	return false
}
