// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// DuplicateAssignmentConstraint 同一班次重复分配约束
type DuplicateAssignmentConstraint struct {
	*BaseConstraint
}

// NewDuplicateAssignmentConstraint 创建重复分配约束
func NewDuplicateAssignmentConstraint() *DuplicateAssignmentConstraint {
	return &DuplicateAssignmentConstraint{
		BaseConstraint: NewBaseConstraint("duplicate_assignment", constraint.TypeDuplicateAssigned),
	}
}

// Evaluate 同一员工在一个班次中多次出现时，每个班次每人一条违规
func (c *DuplicateAssignmentConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	var violations []constraint.Violation

	for _, sid := range ctx.Schedule.ShiftIDs() {
		seen := make(map[string]int)
		for _, eid := range ctx.Schedule.Assigned(sid) {
			seen[eid]++
			if seen[eid] == 2 {
				violations = append(violations, c.CreateViolation(
					constraint.CodeDuplicateAssignment,
					fmt.Sprintf("%s assigned more than once to %s", eid, sid),
					sid, eid,
				))
			}
		}
	}
	return violations
}
