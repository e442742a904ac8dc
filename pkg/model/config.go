// Package model 定义排班引擎的核心数据模型
package model

import "fmt"

// 默认值
const (
	DefaultMaxShiftsPerWeek     = 5
	DefaultMaxConsecutiveShifts = 3
	DefaultMinRestHours         = 10
	DefaultFairnessWeight       = 1.0
	DefaultPreferenceWeight     = 0.3
	DefaultMaxSeconds           = 2.0
	DefaultMaxIterations        = 800
	DefaultRandomSeed           = 7
	DefaultBacktrackingLimit    = 3000
	DefaultRequiredHeadcount    = 1
)

// Policies 全局排班规则
type Policies struct {
	MaxShiftsPerWeek     int `json:"max_shifts_per_week"`
	MaxConsecutiveShifts int `json:"max_consecutive_shifts"`
	MinRestHours         int `json:"min_rest_hours"`
}

// DefaultPolicies 返回默认规则
func DefaultPolicies() Policies {
	return Policies{
		MaxShiftsPerWeek:     DefaultMaxShiftsPerWeek,
		MaxConsecutiveShifts: DefaultMaxConsecutiveShifts,
		MinRestHours:         DefaultMinRestHours,
	}
}

// Preferences 软目标权重与员工偏好
type Preferences struct {
	FairnessWeight           float64                       `json:"fairness_weight"`
	PreferenceWeight         float64                       `json:"preference_weight"`
	EmployeeShiftPreferences map[string]EmployeePreference `json:"employee_shift_preferences,omitempty"`
}

// DefaultPreferences 返回默认偏好配置
func DefaultPreferences() Preferences {
	return Preferences{
		FairnessWeight:           DefaultFairnessWeight,
		PreferenceWeight:         DefaultPreferenceWeight,
		EmployeeShiftPreferences: map[string]EmployeePreference{},
	}
}

// PreferredSkills 返回员工偏好的技能集合
func (p Preferences) PreferredSkills(employeeID string) SkillSet {
	pref, ok := p.EmployeeShiftPreferences[employeeID]
	if !ok {
		return nil
	}
	return NewSkillSet(pref.PreferSkill...)
}

// SolverConfig 求解预算与随机种子
type SolverConfig struct {
	MaxSeconds        float64 `json:"max_seconds"`
	MaxIterations     int     `json:"max_iterations"`
	RandomSeed        int64   `json:"random_seed"`
	BacktrackingLimit int     `json:"backtracking_limit"`
}

// DefaultSolverConfig 返回默认求解配置
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxSeconds:        DefaultMaxSeconds,
		MaxIterations:     DefaultMaxIterations,
		RandomSeed:        DefaultRandomSeed,
		BacktrackingLimit: DefaultBacktrackingLimit,
	}
}

// Config 排班问题聚合根
// 构建后只读；员工和班次保持声明顺序以保证迭代确定性
type Config struct {
	Policies    Policies       `json:"policies"`
	Preferences Preferences    `json:"preferences"`
	Solver      SolverConfig   `json:"solver"`
	Meta        map[string]any `json:"meta,omitempty"`

	employees   []*Employee
	shifts      []*Shift
	employeeMap map[string]*Employee
	shiftMap    map[string]*Shift
}

// NewConfig 创建排班配置，ID 重复时返回错误
func NewConfig(employees []*Employee, shifts []*Shift) (*Config, error) {
	c := &Config{
		Policies:    DefaultPolicies(),
		Preferences: DefaultPreferences(),
		Solver:      DefaultSolverConfig(),
		Meta:        map[string]any{},
		employees:   make([]*Employee, 0, len(employees)),
		shifts:      make([]*Shift, 0, len(shifts)),
		employeeMap: make(map[string]*Employee, len(employees)),
		shiftMap:    make(map[string]*Shift, len(shifts)),
	}

	for _, e := range employees {
		if _, dup := c.employeeMap[e.ID]; dup {
			return nil, fmt.Errorf("duplicate employee id %q", e.ID)
		}
		c.employees = append(c.employees, e)
		c.employeeMap[e.ID] = e
	}
	for _, s := range shifts {
		if _, dup := c.shiftMap[s.ID]; dup {
			return nil, fmt.Errorf("duplicate shift id %q", s.ID)
		}
		c.shifts = append(c.shifts, s)
		c.shiftMap[s.ID] = s
	}
	return c, nil
}

// Employees 返回按声明顺序排列的员工
func (c *Config) Employees() []*Employee {
	return c.employees
}

// Shifts 返回按声明顺序排列的班次
func (c *Config) Shifts() []*Shift {
	return c.shifts
}

// Employee 按 ID 查找员工
func (c *Config) Employee(id string) (*Employee, bool) {
	e, ok := c.employeeMap[id]
	return e, ok
}

// Shift 按 ID 查找班次
func (c *Config) Shift(id string) (*Shift, bool) {
	s, ok := c.shiftMap[id]
	return s, ok
}

// EmployeeIDs 返回员工 ID 列表
func (c *Config) EmployeeIDs() []string {
	ids := make([]string, len(c.employees))
	for i, e := range c.employees {
		ids[i] = e.ID
	}
	return ids
}

// ShiftIDs 返回班次 ID 列表
func (c *Config) ShiftIDs() []string {
	ids := make([]string, len(c.shifts))
	for i, s := range c.shifts {
		ids[i] = s.ID
	}
	return ids
}

// Name 返回 meta.name
func (c *Config) Name() string {
	if v, ok := c.Meta["name"].(string); ok {
		return v
	}
	return ""
}
