// Package constraint 定义约束接口和约束集
package constraint

import (
	"sync"

	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/model"
)

// Suite 有序约束集
// 约束按注册顺序执行，该顺序即报告中违规的排列顺序
type Suite struct {
	constraints []Constraint
	mu          sync.RWMutex
	logger      *logger.SchedulerLogger
}

// NewSuite 创建约束集
func NewSuite() *Suite {
	return &Suite{
		constraints: make([]Constraint, 0),
		logger:      logger.NewSchedulerLogger(),
	}
}

// Register 注册约束，同类型约束原位替换
func (s *Suite) Register(c Constraint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.constraints {
		if existing.Type() == c.Type() {
			s.constraints[i] = c
			return
		}
	}
	s.constraints = append(s.constraints, c)
}

// Unregister 注销约束
func (s *Suite) Unregister(t Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.constraints {
		if c.Type() == t {
			s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
			return
		}
	}
}

// GetConstraint 获取约束
func (s *Suite) GetConstraint(t Type) Constraint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.constraints {
		if c.Type() == t {
			return c
		}
	}
	return nil
}

// GetAll 获取所有约束
func (s *Suite) GetAll() []Constraint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Constraint, len(s.constraints))
	copy(result, s.constraints)
	return result
}

// Names 返回约束名称列表
func (s *Suite) Names() []string {
	all := s.GetAll()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name()
	}
	return names
}

// Count 返回约束数量
func (s *Suite) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.constraints)
}

// Validate 执行全部约束并拼接违规，不短路
func (s *Suite) Validate(cfg *model.Config, sched *model.Schedule) *Report {
	constraints := s.GetAll()
	ctx := NewContext(cfg, sched)

	var violations []Violation
	for _, c := range constraints {
		found := c.Evaluate(ctx)
		if len(found) > 0 {
			s.logger.ConstraintViolation(c.Name(), len(found))
		}
		violations = append(violations, found...)
	}
	return NewReport(violations)
}
