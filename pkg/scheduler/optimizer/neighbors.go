// Package optimizer 提供排班优化算法
package optimizer

import (
	"math/rand"

	"github.com/paiban/shiftplan/pkg/model"
)

// Move 交换移动：EmployeeA 从 ShiftA 换到 ShiftB，EmployeeB 反之
type Move struct {
	ShiftA    string
	ShiftB    string
	EmployeeA string
	EmployeeB string
}

// NeighborhoodGenerator 邻域生成器
type NeighborhoodGenerator struct {
	rng      *rand.Rand
	shiftIDs []string
}

// NewNeighborhoodGenerator 创建邻域生成器，班次候选取自配置
func NewNeighborhoodGenerator(rng *rand.Rand, shiftIDs []string) *NeighborhoodGenerator {
	return &NeighborhoodGenerator{rng: rng, shiftIDs: shiftIDs}
}

// ProposeSwap 随机选取一次交换
// 返回 false 表示本步浪费：同一班次、任一班次无人或抽到同一员工
func (n *NeighborhoodGenerator) ProposeSwap(current *model.Schedule) (Move, bool) {
	if len(n.shiftIDs) == 0 {
		return Move{}, false
	}

	s1 := n.shiftIDs[n.rng.Intn(len(n.shiftIDs))]
	s2 := n.shiftIDs[n.rng.Intn(len(n.shiftIDs))]
	if s1 == s2 {
		return Move{}, false
	}

	a1 := current.Assigned(s1)
	a2 := current.Assigned(s2)
	if len(a1) == 0 || len(a2) == 0 {
		return Move{}, false
	}

	e1 := a1[n.rng.Intn(len(a1))]
	e2 := a2[n.rng.Intn(len(a2))]
	if e1 == e2 {
		return Move{}, false
	}

	return Move{ShiftA: s1, ShiftB: s2, EmployeeA: e1, EmployeeB: e2}, true
}

// Apply 在拷贝上执行交换，不修改 current
func (m Move) Apply(current *model.Schedule) *model.Schedule {
	next := current.Clone()
	next.Set(m.ShiftA, replace(current.Assigned(m.ShiftA), m.EmployeeA, m.EmployeeB))
	next.Set(m.ShiftB, replace(current.Assigned(m.ShiftB), m.EmployeeB, m.EmployeeA))
	return next
}

func replace(list []string, from, to string) []string {
	out := make([]string, len(list))
	for i, id := range list {
		if id == from {
			id = to
		}
		out[i] = id
	}
	return out
}
