// Package model 定义排班引擎的核心数据模型
package model

import "time"

// Employee 员工
type Employee struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Skills       SkillSet     `json:"skills"`
	Availability []TimeWindow `json:"availability"`
}

// AvailableFor 检查员工是否有可用窗口完整覆盖 [start, end]
func (e *Employee) AvailableFor(start, end time.Time) bool {
	for _, w := range e.Availability {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}

// HasSkills 检查员工是否具备全部所需技能
func (e *Employee) HasSkills(required SkillSet) bool {
	return e.Skills.Covers(required)
}

// CanWork 检查员工是否满足班次的技能和可用性要求
func (e *Employee) CanWork(s *Shift) bool {
	if len(s.RequiredSkills) > 0 && !e.HasSkills(s.RequiredSkills) {
		return false
	}
	return e.AvailableFor(s.Start, s.End)
}

// EmployeePreference 员工偏好
type EmployeePreference struct {
	PreferSkill []string `json:"prefer_skill,omitempty"` // 偏好技能标签
}
