// Package solver 提供排班求解器
package solver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/optimizer"
)

// 求解提示
const (
	NoteValidContinuing = "Valid schedule found; continuing small improvements within budget."
	NoteCancelled       = "Search stopped early: context cancelled."

	noteEvery     = 50
	minTimeBudget = 100 * time.Millisecond
)

// Solver 求解器接口
type Solver interface {
	// Solve 生成排班方案
	Solve(ctx context.Context, cfg *model.Config) (*Result, error)

	// Name 返回求解器名称
	Name() string
}

// Result 求解结果
type Result struct {
	RunID      string               `json:"run_id"`
	Schedule   *model.Schedule      `json:"schedule"`
	OK         bool                 `json:"ok"`
	Iterations int                  `json:"iterations"`
	Seconds    float64              `json:"seconds"`
	Notes      []string             `json:"notes"`
	Statistics Statistics           `json:"statistics"`
	Report     *constraint.Report   `json:"-"`
	Search     optimizer.ClimbStats `json:"-"`
}

// Statistics 求解统计
type Statistics struct {
	GreedyViolations int `json:"greedy_violations"`
	RepairAttempts   int `json:"repair_attempts"`
	Repairs          int `json:"repairs"`
	FinalViolations  int `json:"final_violations"`
	Assignments      int `json:"assignments"`
}

// LocalSearchSolver 贪心构造 + 有界修复 + 交换爬山
type LocalSearchSolver struct {
	suite  *constraint.Suite
	logger *logger.SchedulerLogger
	steps  int
}

// NewLocalSearchSolver 创建求解器
func NewLocalSearchSolver(suite *constraint.Suite) *LocalSearchSolver {
	return &LocalSearchSolver{
		suite:  suite,
		logger: logger.NewSchedulerLogger(),
		steps:  optimizer.DefaultClimbSteps,
	}
}

// Name 返回求解器名称
func (s *LocalSearchSolver) Name() string {
	return "LocalSearchSolver"
}

// SetClimbSteps 设置单次爬山步数
func (s *LocalSearchSolver) SetClimbSteps(steps int) {
	if steps > 0 {
		s.steps = steps
	}
}

// Solve 生成排班；不可行不是错误，以 OK=false 和提示返回
// 仅在配置为空或进入局部搜索前上下文已取消时返回错误
func (s *LocalSearchSolver) Solve(ctx context.Context, cfg *model.Config) (*Result, error) {
	if cfg == nil {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "配置为空")
	}

	start := time.Now()
	runID := uuid.NewString()
	rng := rand.New(rand.NewSource(cfg.Solver.RandomSeed))
	s.logger.StartSchedule(runID, len(cfg.Employees()), len(cfg.Shifts()), cfg.Solver.RandomSeed)

	result := &Result{RunID: runID, Notes: []string{}}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTimeout, "求解被取消")
	}

	// 阶段一：贪心构造
	elig := NewEligibility(cfg)
	sched := GreedyConstruct(cfg, elig, rng)
	report := s.suite.Validate(cfg, sched)
	result.Statistics.GreedyViolations = report.Count()
	s.logger.PhaseComplete(runID, "greedy", report.Count(), time.Since(start))

	// 修复：消耗 backtracking_limit 预算
	if !report.OK {
		repaired := Repair(cfg, s.suite, elig, sched, cfg.Solver.BacktrackingLimit)
		sched = repaired.Schedule
		result.Statistics.RepairAttempts = repaired.Attempts
		result.Statistics.Repairs = repaired.Repairs
		s.logger.PhaseComplete(runID, "repair", s.suite.Validate(cfg, sched).Count(), time.Since(start))
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTimeout, "求解被取消")
	}

	// 阶段二：有界局部搜索
	maxIter := cfg.Solver.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}
	budget := time.Duration(cfg.Solver.MaxSeconds * float64(time.Second))
	if budget < minTimeBudget {
		budget = minTimeBudget
	}

	opt := optimizer.NewLocalSearchOptimizer(cfg, s.suite, rng)
	opt.SetSteps(s.steps)

	for time.Since(start) < budget && result.Iterations < maxIter {
		if ctx.Err() != nil {
			result.Notes = append(result.Notes, NoteCancelled)
			break
		}
		result.Iterations++

		improved, stats := opt.Climb(sched)
		result.Search.Add(stats)
		if !improved.Equal(sched) {
			sched = improved
		}

		if result.Iterations%noteEvery == 0 && s.suite.Validate(cfg, sched).OK {
			result.Notes = append(result.Notes, NoteValidContinuing)
		}
	}
	s.logger.PhaseComplete(runID, "local_search", -1, time.Since(start))

	final := s.suite.Validate(cfg, sched)
	elapsed := time.Since(start)

	result.Schedule = sched
	result.OK = final.OK
	result.Report = final
	result.Seconds = elapsed.Seconds()
	result.Statistics.FinalViolations = final.Count()
	result.Statistics.Assignments = sched.Size()
	if !final.OK {
		result.Notes = append(result.Notes, fmt.Sprintf(
			"Schedule not fully valid (%d violation(s)). Consider relaxing policies or adding staff.", final.Count()))
	}

	s.logger.ScheduleComplete(runID, elapsed, result.Iterations, result.OK)
	return result, nil
}
