// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// CoverageConstraint 班次人数覆盖约束
type CoverageConstraint struct {
	*BaseConstraint
}

// NewCoverageConstraint 创建覆盖约束
func NewCoverageConstraint() *CoverageConstraint {
	return &CoverageConstraint{
		BaseConstraint: NewBaseConstraint("coverage", constraint.TypeCoverage),
	}
}

// Evaluate 每个人数不足的班次产生一条违规
func (c *CoverageConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	var violations []constraint.Violation

	for _, shift := range ctx.Config.Shifts() {
		assigned := len(ctx.Schedule.Assigned(shift.ID))
		if assigned < shift.RequiredHeadcount {
			violations = append(violations, c.CreateViolation(
				constraint.CodeUnderCoverage,
				fmt.Sprintf("Shift %s needs %d but has %d", shift.ID, shift.RequiredHeadcount, assigned),
				shift.ID, "",
			))
		}
	}
	return violations
}
