// Package model 定义排班引擎的核心数据模型
package model

import "time"

// Shift 班次
type Shift struct {
	ID                string    `json:"id"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	RequiredHeadcount int       `json:"required_headcount"`
	RequiredSkills    SkillSet  `json:"required_skills"`
}

// Duration 返回班次时长
func (s *Shift) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// DurationHours 返回班次时长（小时）
func (s *Shift) DurationHours() float64 {
	return s.Duration().Hours()
}

// Window 返回班次时间窗口
func (s *Shift) Window() TimeWindow {
	return TimeWindow{Start: s.Start, End: s.End}
}

// ByStart 按开始时间排序班次
func ByStart(shifts []*Shift) func(i, j int) bool {
	return func(i, j int) bool {
		return shifts[i].Start.Before(shifts[j].Start)
	}
}
