// Package model 定义排班引擎的核心数据模型
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Schedule 排班结果：班次 -> 有序员工列表
// 班次键保持插入顺序；分配列表不做隐式排序
type Schedule struct {
	order       []string
	assignments map[string][]string
}

// NewSchedule 创建空排班
func NewSchedule() *Schedule {
	return &Schedule{assignments: make(map[string][]string)}
}

// ScheduleFromMap 从映射创建排班，班次按 ID 排序插入
func ScheduleFromMap(m map[string][]string) *Schedule {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := NewSchedule()
	for _, k := range keys {
		s.Set(k, m[k])
	}
	return s
}

// Set 设置班次的分配（复制传入切片）
func (s *Schedule) Set(shiftID string, employeeIDs []string) {
	if _, ok := s.assignments[shiftID]; !ok {
		s.order = append(s.order, shiftID)
	}
	list := make([]string, len(employeeIDs))
	copy(list, employeeIDs)
	s.assignments[shiftID] = list
}

// Append 向班次追加员工
func (s *Schedule) Append(shiftID, employeeID string) {
	if _, ok := s.assignments[shiftID]; !ok {
		s.order = append(s.order, shiftID)
	}
	s.assignments[shiftID] = append(s.assignments[shiftID], employeeID)
}

// Assigned 返回班次的分配列表，调用方不得修改
func (s *Schedule) Assigned(shiftID string) []string {
	return s.assignments[shiftID]
}

// Has 检查排班中是否存在该班次键
func (s *Schedule) Has(shiftID string) bool {
	_, ok := s.assignments[shiftID]
	return ok
}

// ShiftIDs 返回按插入顺序排列的班次键
func (s *Schedule) ShiftIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len 返回班次键数量
func (s *Schedule) Len() int {
	return len(s.order)
}

// Size 返回分配总数
func (s *Schedule) Size() int {
	n := 0
	for _, list := range s.assignments {
		n += len(list)
	}
	return n
}

// Clone 深拷贝
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{
		order:       make([]string, len(s.order)),
		assignments: make(map[string][]string, len(s.assignments)),
	}
	copy(c.order, s.order)
	for k, v := range s.assignments {
		list := make([]string, len(v))
		copy(list, v)
		c.assignments[k] = list
	}
	return c
}

// Equal 比较两个排班的分配是否相同（不比较键顺序）
func (s *Schedule) Equal(other *Schedule) bool {
	if len(s.assignments) != len(other.assignments) {
		return false
	}
	for k, a := range s.assignments {
		b, ok := other.assignments[k]
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// Employees 返回出现过的员工，按首次出现顺序
func (s *Schedule) Employees() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, sid := range s.order {
		for _, eid := range s.assignments[sid] {
			if _, ok := seen[eid]; ok {
				continue
			}
			seen[eid] = struct{}{}
			out = append(out, eid)
		}
	}
	return out
}

// EmployeeShifts 反转为 员工 -> 班次列表
func (s *Schedule) EmployeeShifts() map[string][]string {
	out := make(map[string][]string)
	for _, sid := range s.order {
		for _, eid := range s.assignments[sid] {
			out[eid] = append(out[eid], sid)
		}
	}
	return out
}

// Load 返回每个员工的分配次数
func (s *Schedule) Load() map[string]int {
	out := make(map[string]int)
	for _, list := range s.assignments {
		for _, eid := range list {
			out[eid]++
		}
	}
	return out
}

// Assignments 返回分配映射的拷贝
func (s *Schedule) Assignments() map[string][]string {
	return s.Clone().assignments
}

type scheduleDoc struct {
	Assignments json.RawMessage `json:"assignments"`
}

// MarshalJSON 序列化为 {"assignments": {...}}，保持键顺序
func (s *Schedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"assignments":{`)
	for i, sid := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sid)
		if err != nil {
			return nil, err
		}
		list := s.assignments[sid]
		if list == nil {
			list = []string{}
		}
		val, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON 反序列化，保持文件中的键顺序
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var doc scheduleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*s = *NewSchedule()
	if len(doc.Assignments) == 0 || string(doc.Assignments) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(doc.Assignments))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("assignments: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		sid, ok := tok.(string)
		if !ok {
			return fmt.Errorf("assignments: expected shift id, got %v", tok)
		}
		var list []string
		if err := dec.Decode(&list); err != nil {
			return fmt.Errorf("assignments[%s]: %w", sid, err)
		}
		s.Set(sid, list)
	}
	_, err = dec.Token()
	return err
}
