// Package constraint 定义约束接口和约束集
package constraint

import (
	"sort"

	"github.com/paiban/shiftplan/pkg/model"
)

// Type 约束类型标识
type Type string

const (
	TypeCoverage          Type = "coverage"
	TypeAvailability      Type = "availability"
	TypeSkills            Type = "skills"
	TypeMaxShiftsPerWeek  Type = "max_shifts_per_week"
	TypeMinRestHours      Type = "min_rest_hours"
	TypeMaxConsecutive    Type = "max_consecutive_shifts"
	TypeDuplicateAssigned Type = "duplicate_assignment"
)

// Code 违规代码，对外契约的一部分
type Code string

const (
	CodeUnderCoverage       Code = "UNDER_COVERAGE"
	CodeUnknownShift        Code = "UNKNOWN_SHIFT"
	CodeUnknownEmployee     Code = "UNKNOWN_EMPLOYEE"
	CodeNotAvailable        Code = "NOT_AVAILABLE"
	CodeMissingSkill        Code = "MISSING_SKILL"
	CodeMaxShiftsWeek       Code = "MAX_SHIFTS_WEEK"
	CodeMinRest             Code = "MIN_REST"
	CodeMaxConsecutive      Code = "MAX_CONSECUTIVE"
	CodeDuplicateAssignment Code = "DUPLICATE_ASSIGNMENT"
)

// Constraint 约束接口
type Constraint interface {
	// Name 返回约束名称
	Name() string

	// Type 返回约束类型
	Type() Type

	// Evaluate 评估整个排班方案，返回全部违规
	Evaluate(ctx *Context) []Violation
}

// Violation 一条硬约束违规
type Violation struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	ShiftID    string `json:"shift_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// Context 校验上下文，缓存排班的反向索引
type Context struct {
	Config   *model.Config
	Schedule *model.Schedule

	employees      []string
	employeeShifts map[string][]string
}

// NewContext 创建校验上下文
func NewContext(cfg *model.Config, sched *model.Schedule) *Context {
	return &Context{
		Config:         cfg,
		Schedule:       sched,
		employees:      sched.Employees(),
		employeeShifts: sched.EmployeeShifts(),
	}
}

// AssignedEmployees 返回排班中出现的员工，按首次出现顺序
func (c *Context) AssignedEmployees() []string {
	return c.employees
}

// EmployeeShiftIDs 返回员工被分配的班次 ID
func (c *Context) EmployeeShiftIDs(employeeID string) []string {
	return c.employeeShifts[employeeID]
}

// EmployeeShifts 返回员工的已知班次，按开始时间稳定排序
func (c *Context) EmployeeShifts(employeeID string) []*model.Shift {
	ids := c.employeeShifts[employeeID]
	shifts := make([]*model.Shift, 0, len(ids))
	for _, sid := range ids {
		if s, ok := c.Config.Shift(sid); ok {
			shifts = append(shifts, s)
		}
	}
	sort.SliceStable(shifts, model.ByStart(shifts))
	return shifts
}

// Report 校验报告
type Report struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations"`
}

// NewReport 由违规列表创建报告
func NewReport(violations []Violation) *Report {
	if violations == nil {
		violations = []Violation{}
	}
	return &Report{OK: len(violations) == 0, Violations: violations}
}

// Count 返回违规数量
func (r *Report) Count() int {
	return len(r.Violations)
}

// ByCode 返回指定代码的违规
func (r *Report) ByCode(code Code) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Code == code {
			out = append(out, v)
		}
	}
	return out
}

// CountByCode 按代码统计违规数量
func (r *Report) CountByCode() map[Code]int {
	out := make(map[Code]int)
	for _, v := range r.Violations {
		out[v.Code]++
	}
	return out
}
