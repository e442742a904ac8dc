// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"
	"time"

	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// consecutiveGap 相邻班次间隔不超过该值即视为连续
const consecutiveGap = 18 * time.Hour

// MinRestBetweenShiftsConstraint 班次间最小休息时间约束
type MinRestBetweenShiftsConstraint struct {
	*BaseConstraint
}

// NewMinRestBetweenShiftsConstraint 创建班次间最小休息约束
func NewMinRestBetweenShiftsConstraint() *MinRestBetweenShiftsConstraint {
	return &MinRestBetweenShiftsConstraint{
		BaseConstraint: NewBaseConstraint("min_rest_hours", constraint.TypeMinRestHours),
	}
}

// Evaluate 每对间隔不足的相邻班次产生一条违规
func (c *MinRestBetweenShiftsConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	var violations []constraint.Violation
	minRest := time.Duration(ctx.Config.Policies.MinRestHours) * time.Hour

	for _, eid := range ctx.AssignedEmployees() {
		sorted := ctx.EmployeeShifts(eid)
		for i := 0; i+1 < len(sorted); i++ {
			prev, next := sorted[i], sorted[i+1]
			if next.Start.Sub(prev.End) < minRest {
				violations = append(violations, c.CreateViolation(
					constraint.CodeMinRest,
					fmt.Sprintf("%s has insufficient rest between %s and %s", eid, prev.ID, next.ID),
					next.ID, eid,
				))
			}
		}
	}
	return violations
}

// MaxConsecutiveShiftsConstraint 最大连续班次约束
type MaxConsecutiveShiftsConstraint struct {
	*BaseConstraint
}

// NewMaxConsecutiveShiftsConstraint 创建最大连续班次约束
func NewMaxConsecutiveShiftsConstraint() *MaxConsecutiveShiftsConstraint {
	return &MaxConsecutiveShiftsConstraint{
		BaseConstraint: NewBaseConstraint("max_consecutive_shifts", constraint.TypeMaxConsecutive),
	}
}

// Evaluate 每个员工至多产生一条违规
func (c *MaxConsecutiveShiftsConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	var violations []constraint.Violation
	limit := ctx.Config.Policies.MaxConsecutiveShifts

	for _, eid := range ctx.AssignedEmployees() {
		sorted := ctx.EmployeeShifts(eid)
		run := 1
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Start.Sub(sorted[i-1].End) <= consecutiveGap {
				run++
			} else {
				run = 1
			}
			if run > limit {
				violations = append(violations, c.CreateViolation(
					constraint.CodeMaxConsecutive,
					fmt.Sprintf("%s exceeds max consecutive shifts (%d)", eid, limit),
					"", eid,
				))
				break
			}
		}
	}
	return violations
}
