// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"
	"strings"

	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// SkillRequiredConstraint 技能要求约束
type SkillRequiredConstraint struct {
	*BaseConstraint
}

// NewSkillRequiredConstraint 创建技能要求约束
func NewSkillRequiredConstraint() *SkillRequiredConstraint {
	return &SkillRequiredConstraint{
		BaseConstraint: NewBaseConstraint("skills", constraint.TypeSkills),
	}
}

// Evaluate 评估整个排班
func (c *SkillRequiredConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	var violations []constraint.Violation

	for _, sid := range ctx.Schedule.ShiftIDs() {
		shift, ok := ctx.Config.Shift(sid)
		if !ok || len(shift.RequiredSkills) == 0 {
			continue
		}

		for _, eid := range ctx.Schedule.Assigned(sid) {
			emp, ok := ctx.Config.Employee(eid)
			if !ok {
				continue
			}
			if !emp.HasSkills(shift.RequiredSkills) {
				violations = append(violations, c.CreateViolation(
					constraint.CodeMissingSkill,
					fmt.Sprintf("%s missing skill(s) for %s: requires [%s]",
						eid, sid, strings.Join(shift.RequiredSkills.Sorted(), ", ")),
					sid, eid,
				))
			}
		}
	}
	return violations
}
