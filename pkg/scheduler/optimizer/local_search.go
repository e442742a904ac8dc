// Package optimizer 提供排班优化算法
package optimizer

import (
	"math/rand"

	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/scoring"
)

// DefaultClimbSteps 单次爬山的提议步数
const DefaultClimbSteps = 20

// ClimbStats 单次爬山统计
type ClimbStats struct {
	Steps    int `json:"steps"`
	Wasted   int `json:"wasted"`
	Rejected int `json:"rejected"`
	Accepted int `json:"accepted"`
}

// Add 累加统计
func (s *ClimbStats) Add(other ClimbStats) {
	s.Steps += other.Steps
	s.Wasted += other.Wasted
	s.Rejected += other.Rejected
	s.Accepted += other.Accepted
}

// AcceptFunc 接受候选时的回调
type AcceptFunc func(candidate *model.Schedule, report *constraint.Report, score float64)

// LocalSearchOptimizer 局部搜索优化器
// 只接受整体合法且得分不降的交换
type LocalSearchOptimizer struct {
	cfg       *model.Config
	suite     *constraint.Suite
	neighbors *NeighborhoodGenerator
	steps     int
	onAccept  AcceptFunc
}

// NewLocalSearchOptimizer 创建局部搜索优化器
func NewLocalSearchOptimizer(cfg *model.Config, suite *constraint.Suite, rng *rand.Rand) *LocalSearchOptimizer {
	return &LocalSearchOptimizer{
		cfg:       cfg,
		suite:     suite,
		neighbors: NewNeighborhoodGenerator(rng, cfg.ShiftIDs()),
		steps:     DefaultClimbSteps,
	}
}

// SetSteps 设置单次爬山步数
func (o *LocalSearchOptimizer) SetSteps(steps int) {
	if steps > 0 {
		o.steps = steps
	}
}

// OnAccept 设置接受回调
func (o *LocalSearchOptimizer) OnAccept(fn AcceptFunc) {
	o.onAccept = fn
}

// Climb 从 start 出发执行一次有界爬山，返回最终方案
// start 不会被修改
func (o *LocalSearchOptimizer) Climb(start *model.Schedule) (*model.Schedule, ClimbStats) {
	var stats ClimbStats
	best := start.Clone()
	bestScore := scoring.Score(o.cfg, best).Total

	for stats.Steps < o.steps {
		stats.Steps++

		move, ok := o.neighbors.ProposeSwap(best)
		if !ok {
			stats.Wasted++
			continue
		}

		candidate := move.Apply(best)
		report := o.suite.Validate(o.cfg, candidate)
		if !report.OK {
			stats.Rejected++
			continue
		}

		score := scoring.Score(o.cfg, candidate).Total
		if score >= bestScore {
			best = candidate
			bestScore = score
			stats.Accepted++
			if o.onAccept != nil {
				o.onAccept(candidate, report, score)
			}
		}
	}
	return best, stats
}
