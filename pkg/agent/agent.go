// Package agent 提供离线的对话式排班助手
package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/router"
	"github.com/paiban/shiftplan/pkg/store"
	"github.com/paiban/shiftplan/pkg/tools"
)

// DefaultMaxSteps 单次会话最多处理的输入行数
const DefaultMaxSteps = 20

// 对话输出
const (
	Banner       = "ShiftSchedulingAgent (offline) — type 'quit' to exit."
	Hint         = "Try: 'generate schedule', 'validate', 'score', 'explain'"
	Prompt       = "> "
	ReplyUnknown = "I can: generate | validate | score | explain. (offline router)"
	ReplyNoSched = "No schedule yet. Run 'generate' first."
)

// Agent 把用户输入路由到工具，并在多轮之间记住最近的排班
type Agent struct {
	registry *tools.Registry
	router   *router.Router
	store    store.Store
	cfg      *model.Config
	maxSteps int

	last *model.Schedule
}

// New 创建助手
func New(cfg *model.Config, registry *tools.Registry, rt *router.Router, st store.Store) *Agent {
	return &Agent{
		registry: registry,
		router:   rt,
		store:    st,
		cfg:      cfg,
		maxSteps: DefaultMaxSteps,
	}
}

// SetMaxSteps 设置最多处理的输入行数
func (a *Agent) SetMaxSteps(n int) {
	if n > 0 {
		a.maxSteps = n
	}
}

// Run 运行对话循环，遇到 quit/exit、输入结束或步数用尽时返回
func (a *Agent) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := logger.Component("agent")
	fmt.Fprintln(out, Banner)
	fmt.Fprintln(out, Hint)
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for step := 0; step < a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "quit", "exit":
			return nil
		}

		tool, ok := a.router.Route(text)
		if !ok {
			fmt.Fprintln(out, ReplyUnknown)
			continue
		}
		log.Debug().Int("step", step).Str("tool", tool).Msg("路由到工具")

		if err := a.handle(ctx, tool, out); err != nil {
			log.Warn().Err(err).Str("tool", tool).Msg("工具调用失败")
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
	return nil
}

func (a *Agent) handle(ctx context.Context, tool string, out io.Writer) error {
	if tool == tools.ToolGenerate {
		res, err := a.registry.Call(ctx, tool, tools.Request{Config: a.cfg})
		if err != nil {
			return err
		}
		gen, ok := res.(*tools.GenerateResult)
		if !ok {
			return apperrors.Internal("unexpected result type %T", res)
		}
		a.last = gen.Schedule
		if err := a.store.Save(ctx, gen.Schedule); err != nil {
			return err
		}
		fmt.Fprintf(out, "Generated schedule → %v\n", a.store)
		if len(gen.Notes) > 0 {
			fmt.Fprintln(out, "Notes:", strings.Join(gen.Notes, "; "))
		}
		return nil
	}

	sched, err := a.schedule(ctx)
	if apperrors.Is(err, apperrors.CodeNoSchedule) {
		fmt.Fprintln(out, ReplyNoSched)
		return nil
	}
	if err != nil {
		return err
	}

	res, err := a.registry.Call(ctx, tool, tools.Request{Config: a.cfg, Schedule: sched})
	if err != nil {
		return err
	}
	if exp, ok := res.(tools.ExplainResult); ok {
		fmt.Fprintln(out, exp.Markdown)
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// schedule 优先使用本会话生成的排班，否则从存储读取
func (a *Agent) schedule(ctx context.Context) (*model.Schedule, error) {
	if a.last != nil {
		return a.last, nil
	}
	sched, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.last = sched
	return sched, nil
}
