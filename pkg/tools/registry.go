package tools

import (
	"context"
	"sync"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/model"
)

// 工具名称
const (
	ToolGenerate = "schedule_generate"
	ToolValidate = "schedule_validate"
	ToolScore    = "schedule_score"
	ToolExplain  = "schedule_explain"
)

// Request 工具调用参数
type Request struct {
	Config   *model.Config
	Schedule *model.Schedule
}

// Func 工具函数，返回值可直接序列化为 JSON
type Func func(ctx context.Context, req Request) (any, error)

// Tool 已注册的工具
type Tool struct {
	Name        string
	Description string
	Fn          Func
}

// Registry 工具注册表，保持注册顺序
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	order    []string
	recorder Recorder
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// DefaultRegistry 注册四个排班工具
func DefaultRegistry(f *Facade) *Registry {
	r := NewRegistry()
	r.recorder = f.recorder

	r.Register(ToolGenerate, "Generate a schedule from a config.", func(ctx context.Context, req Request) (any, error) {
		if req.Config == nil {
			return nil, apperrors.InvalidInput("config", "required")
		}
		return f.Generate(ctx, req.Config)
	})
	r.Register(ToolValidate, "Validate a schedule against hard constraints.", func(ctx context.Context, req Request) (any, error) {
		if err := requireSchedule(req); err != nil {
			return nil, err
		}
		return f.Validate(req.Config, req.Schedule), nil
	})
	r.Register(ToolScore, "Score a schedule with soft preferences.", func(ctx context.Context, req Request) (any, error) {
		if err := requireSchedule(req); err != nil {
			return nil, err
		}
		return f.Score(req.Config, req.Schedule)
	})
	r.Register(ToolExplain, "Explain a schedule in markdown.", func(ctx context.Context, req Request) (any, error) {
		if err := requireSchedule(req); err != nil {
			return nil, err
		}
		return f.Explain(req.Config, req.Schedule), nil
	})
	return r
}

func requireSchedule(req Request) error {
	if req.Config == nil {
		return apperrors.InvalidInput("config", "required")
	}
	if req.Schedule == nil {
		return apperrors.ErrNoSchedule
	}
	return nil
}

// Register 注册工具，同名覆盖
func (r *Registry) Register(name, description string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = Tool{Name: name, Description: description, Fn: fn}
}

// Call 按名称调用工具
func (r *Registry) Call(ctx context.Context, name string, req Request) (any, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		err := apperrors.ToolNotFound(name)
		r.observe(name, err)
		return nil, err
	}
	out, err := tool.Fn(ctx, req)
	r.observe(name, err)
	return out, err
}

func (r *Registry) observe(name string, err error) {
	if r.recorder != nil {
		r.recorder.ObserveToolCall(name, err)
	}
}

// List 返回工具名称到描述的映射
func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.tools))
	for name, tool := range r.tools {
		out[name] = tool.Description
	}
	return out
}

// Names 按注册顺序返回工具名称
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}
