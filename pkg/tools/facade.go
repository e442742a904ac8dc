// Package tools 将排班引擎暴露为四个命名操作
package tools

import (
	"context"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/report"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/shiftplan/pkg/scheduler/scoring"
	"github.com/paiban/shiftplan/pkg/scheduler/solver"
	"github.com/paiban/shiftplan/pkg/stats"
)

// Recorder 观察工具调用，nil 表示不记录
type Recorder interface {
	ObserveGenerate(result *solver.Result)
	ObserveValidate(report *constraint.Report)
	ObserveToolCall(name string, err error)
}

// GenerateResult 生成结果
type GenerateResult struct {
	RunID      string            `json:"run_id"`
	OK         bool              `json:"ok"`
	Iterations int               `json:"iterations"`
	Seconds    float64           `json:"seconds"`
	Notes      []string          `json:"notes"`
	Statistics solver.Statistics `json:"statistics"`
	Schedule   *model.Schedule   `json:"schedule"`
}

// ExplainResult 说明结果
type ExplainResult struct {
	Markdown string `json:"markdown"`
}

// Facade 引擎门面
type Facade struct {
	suite    *constraint.Suite
	solver   solver.Solver
	recorder Recorder
}

// NewFacade 使用默认约束集和局部搜索求解器创建门面
func NewFacade() *Facade {
	suite := builtin.NewDefaultSuite()
	return &Facade{
		suite:  suite,
		solver: solver.NewLocalSearchSolver(suite),
	}
}

// SetRecorder 设置指标记录器
func (f *Facade) SetRecorder(r Recorder) {
	f.recorder = r
}

// Suite 返回门面使用的约束集
func (f *Facade) Suite() *constraint.Suite {
	return f.suite
}

// Generate 求解排班；不可行时返回 ok=false 而不是错误
func (f *Facade) Generate(ctx context.Context, cfg *model.Config) (*GenerateResult, error) {
	res, err := f.solver.Solve(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if f.recorder != nil {
		f.recorder.ObserveGenerate(res)
	}
	return &GenerateResult{
		RunID:      res.RunID,
		OK:         res.OK,
		Iterations: res.Iterations,
		Seconds:    res.Seconds,
		Notes:      res.Notes,
		Statistics: res.Statistics,
		Schedule:   res.Schedule,
	}, nil
}

// Validate 校验硬约束
func (f *Facade) Validate(cfg *model.Config, sched *model.Schedule) *constraint.Report {
	rep := f.suite.Validate(cfg, sched)
	if f.recorder != nil {
		f.recorder.ObserveValidate(rep)
	}
	return rep
}

// Score 计算软目标得分
// 排班引用了无法解析的班次时返回 INTERNAL_ERROR，正常流程中校验会先报告 UNKNOWN_SHIFT
func (f *Facade) Score(cfg *model.Config, sched *model.Schedule) (scoring.Report, error) {
	for _, sid := range sched.ShiftIDs() {
		if _, ok := cfg.Shift(sid); !ok {
			return scoring.Report{}, apperrors.Internal("shift %q cannot be resolved during scoring", sid)
		}
	}
	return scoring.Score(cfg, sched), nil
}

// Explain 汇总校验、评分、分配和工作量为 Markdown
func (f *Facade) Explain(cfg *model.Config, sched *model.Schedule) ExplainResult {
	md := report.Markdown(report.Input{
		Config:     cfg,
		Schedule:   sched,
		Validation: f.Validate(cfg, sched),
		Score:      scoring.Score(cfg, sched),
		Workload:   stats.NewWorkloadAnalyzer().Analyze(cfg, sched),
		Coverage:   stats.NewCoverageAnalyzer().Analyze(cfg, sched),
	})
	return ExplainResult{Markdown: md}
}
