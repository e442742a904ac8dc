// Package builtin 提供内置约束实现
package builtin

import (
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// BaseConstraint 约束基类
type BaseConstraint struct {
	name string
	typ  constraint.Type
}

// NewBaseConstraint 创建基础约束
func NewBaseConstraint(name string, typ constraint.Type) *BaseConstraint {
	return &BaseConstraint{name: name, typ: typ}
}

// Name 返回约束名称
func (c *BaseConstraint) Name() string { return c.name }

// Type 返回约束类型
func (c *BaseConstraint) Type() constraint.Type { return c.typ }

// CreateViolation 创建违规记录
func (c *BaseConstraint) CreateViolation(code constraint.Code, message, shiftID, employeeID string) constraint.Violation {
	return constraint.Violation{
		Code:       code,
		Message:    message,
		ShiftID:    shiftID,
		EmployeeID: employeeID,
	}
}

// Evaluate 默认评估实现（子类需覆盖）
func (c *BaseConstraint) Evaluate(ctx *constraint.Context) []constraint.Violation {
	return nil
}
