// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// MaxShiftsPerWeekConstraint 每周最大班次数约束
type MaxShiftsPerWeekConstraint struct {
	*BaseConstraint
}

// NewMaxShiftsPerWeekConstraint 创建每周最大班次数约束
func NewMaxShiftsPerWeekConstraint() *MaxShiftsPerWeekConstraint {
	return &MaxShiftsPerWeekConstraint{
		BaseConstraint: NewBaseConstraint("max_shifts_per_week", constraint.TypeMaxShiftsPerWeek),
	}
}

// Evaluate 每个超限员工产生一条违规，与超出多少无关
func (c *MaxShiftsPerWeekConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	var violations []constraint.Violation
	limit := ctx.Config.Policies.MaxShiftsPerWeek

	for _, eid := range ctx.AssignedEmployees() {
		count := len(ctx.EmployeeShiftIDs(eid))
		if count > limit {
			violations = append(violations, c.CreateViolation(
				constraint.CodeMaxShiftsWeek,
				fmt.Sprintf("%s assigned %d shifts (cap %d)", eid, count, limit),
				"", eid,
			))
		}
	}
	return violations
}
