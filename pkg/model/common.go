// Package model 定义排班引擎的核心数据模型
package model

import (
	"encoding/json"
	"sort"
	"time"
)

// TimeWindow 时间窗口（闭区间）
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration 返回时间窗口的持续时间
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains 检查窗口是否完整包含 [start, end]
func (w TimeWindow) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Overlaps 检查两个时间窗口是否重叠
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// SkillSet 技能标签集合
type SkillSet map[string]struct{}

// NewSkillSet 创建技能集合
func NewSkillSet(tags ...string) SkillSet {
	s := make(SkillSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has 检查是否包含某个技能
func (s SkillSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Covers 检查是否为 required 的超集
func (s SkillSet) Covers(required SkillSet) bool {
	for t := range required {
		if !s.Has(t) {
			return false
		}
	}
	return true
}

// Intersects 检查两个集合是否有交集
func (s SkillSet) Intersects(other SkillSet) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for t := range small {
		if large.Has(t) {
			return true
		}
	}
	return false
}

// Sorted 返回排序后的技能列表
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON 序列化为有序数组
func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON 从数组反序列化
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewSkillSet(tags...)
	return nil
}
