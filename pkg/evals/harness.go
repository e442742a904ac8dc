// Package evals 运行 JSONL 冒烟数据集
package evals

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paiban/shiftplan/pkg/loader"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/tools"
)

// maxReportedViolations 每个用例最多记录的违规数
const maxReportedViolations = 20

// Case 数据集中的一行
type Case struct {
	ID         string `json:"id"`
	ConfigPath string `json:"config_path"`
	ExpectOK   *bool  `json:"expect_ok"`
}

// Expected 未填写 expect_ok 时默认期望可行
func (c Case) Expected() bool {
	return c.ExpectOK == nil || *c.ExpectOK
}

// CaseResult 单个用例结果
type CaseResult struct {
	CaseID     string                 `json:"case_id"`
	SolverOK   bool                   `json:"solver_ok"`
	ValidOK    bool                   `json:"valid_ok"`
	ExpectOK   bool                   `json:"expect_ok"`
	Passed     bool                   `json:"passed"`
	Error      string                 `json:"error,omitempty"`
	Violations []constraint.Violation `json:"violations"`
}

// Summary 数据集运行汇总
type Summary struct {
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Failed  []CaseResult `json:"failed"`
	Results []CaseResult `json:"results"`
}

// OK 是否全部通过
func (s *Summary) OK() bool {
	return len(s.Failed) == 0
}

// Harness 评测器
type Harness struct {
	facade *tools.Facade
	loader *loader.Loader
}

// NewHarness 创建评测器
func NewHarness(facade *tools.Facade, l *loader.Loader) *Harness {
	return &Harness{facade: facade, loader: l}
}

// ReadDataset 读取 JSONL 数据集，跳过空行；相对路径按数据集所在目录解析
func ReadDataset(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	base := filepath.Dir(path)
	var cases []Case
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var c Case
		if err := json.Unmarshal([]byte(text), &c); err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", line, err)
		}
		if c.ConfigPath == "" {
			return nil, fmt.Errorf("dataset line %d: config_path is required", line)
		}
		if !filepath.IsAbs(c.ConfigPath) {
			c.ConfigPath = filepath.Join(base, c.ConfigPath)
		}
		if c.ID == "" {
			c.ID = c.ConfigPath
		}
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return cases, nil
}

// RunCase 求解并重新校验；校验结果与期望不一致即失败
func (h *Harness) RunCase(ctx context.Context, c Case) CaseResult {
	res := CaseResult{CaseID: c.ID, ExpectOK: c.Expected(), Violations: []constraint.Violation{}}

	cfg, err := h.loader.Load(c.ConfigPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	gen, err := h.facade.Generate(ctx, cfg)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	report := h.facade.Validate(cfg, gen.Schedule)
	res.SolverOK = gen.OK
	res.ValidOK = report.OK
	res.Passed = report.OK == res.ExpectOK
	violations := report.Violations
	if len(violations) > maxReportedViolations {
		violations = violations[:maxReportedViolations]
	}
	res.Violations = violations
	return res
}

// Run 依次运行所有用例
func (h *Harness) Run(ctx context.Context, cases []Case) *Summary {
	log := logger.Component("evals")
	summary := &Summary{Failed: []CaseResult{}, Results: []CaseResult{}}
	for _, c := range cases {
		r := h.RunCase(ctx, c)
		summary.Total++
		summary.Results = append(summary.Results, r)
		if r.Passed {
			summary.Passed++
		} else {
			summary.Failed = append(summary.Failed, r)
		}
		log.Info().
			Str("case", r.CaseID).
			Bool("valid", r.ValidOK).
			Bool("expect_ok", r.ExpectOK).
			Bool("passed", r.Passed).
			Msg("用例完成")
	}
	return summary
}
