// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// AvailabilityConstraint 引用完整性与员工可用时间约束
type AvailabilityConstraint struct {
	*BaseConstraint
}

// NewAvailabilityConstraint 创建可用性约束
func NewAvailabilityConstraint() *AvailabilityConstraint {
	return &AvailabilityConstraint{
		BaseConstraint: NewBaseConstraint("availability", constraint.TypeAvailability),
	}
}

// Evaluate 评估整个排班
func (c *AvailabilityConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	var violations []constraint.Violation

	for _, sid := range ctx.Schedule.ShiftIDs() {
		shift, ok := ctx.Config.Shift(sid)
		if !ok {
			// 未知班次的员工不再检查
			violations = append(violations, c.CreateViolation(
				constraint.CodeUnknownShift,
				fmt.Sprintf("Unknown shift: %s", sid),
				sid, "",
			))
			continue
		}

		for _, eid := range ctx.Schedule.Assigned(sid) {
			emp, ok := ctx.Config.Employee(eid)
			if !ok {
				violations = append(violations, c.CreateViolation(
					constraint.CodeUnknownEmployee,
					fmt.Sprintf("Unknown employee: %s", eid),
					sid, eid,
				))
				continue
			}
			if !emp.AvailableFor(shift.Start, shift.End) {
				violations = append(violations, c.CreateViolation(
					constraint.CodeNotAvailable,
					fmt.Sprintf("%s not available for shift %s", eid, sid),
					sid, eid,
				))
			}
		}
	}
	return violations
}
