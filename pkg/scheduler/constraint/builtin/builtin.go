// Package builtin 提供内置约束实现
package builtin

import (
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// RegisterDefaultConstraints 按规范顺序注册默认约束
func RegisterDefaultConstraints(suite *constraint.Suite) {
	suite.Register(NewCoverageConstraint())
	suite.Register(NewAvailabilityConstraint())
	suite.Register(NewSkillRequiredConstraint())
	suite.Register(NewMaxShiftsPerWeekConstraint())
	suite.Register(NewMinRestBetweenShiftsConstraint())
	suite.Register(NewMaxConsecutiveShiftsConstraint())
	suite.Register(NewDuplicateAssignmentConstraint())
}

// NewDefaultSuite 创建带默认约束的约束集
func NewDefaultSuite() *constraint.Suite {
	suite := constraint.NewSuite()
	RegisterDefaultConstraints(suite)
	return suite
}
