package handler

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/tools"

	"github.com/paiban/shiftplan/internal/repository"
)

// Generate 生成排班
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := h.decode(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out, err := h.registry.Call(r.Context(), tools.ToolGenerate, tools.Request{Config: cfg})
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			err = apperrors.Wrap(err, apperrors.CodeTimeout, "排班计算超时")
		case errors.Is(err, context.Canceled):
			err = apperrors.Wrap(err, apperrors.CodeInternal, "排班请求已取消")
		}
		respondError(w, r, err)
		return
	}
	res := out.(*tools.GenerateResult)

	if h.runs != nil {
		h.saveRun(r, cfg, res)
	}
	respondJSON(w, http.StatusOK, res)
}

// saveRun 持久化失败只记录日志，不影响响应
func (h *Handler) saveRun(r *http.Request, cfg *model.Config, res *tools.GenerateResult) {
	score, err := h.facade.Score(cfg, res.Schedule)
	if err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Msg("评分失败，跳过保存")
		return
	}
	if err := h.runs.Create(r.Context(), repository.RunFromResult(cfg, res, score.Total)); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Str("run_id", res.RunID).Msg("保存排班记录失败")
	}
}

// Validate 校验排班
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	h.callWithSchedule(w, r, tools.ToolValidate)
}

// Score 排班评分
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	h.callWithSchedule(w, r, tools.ToolScore)
}

// Explain 排班说明
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	h.callWithSchedule(w, r, tools.ToolExplain)
}

func (h *Handler) callWithSchedule(w http.ResponseWriter, r *http.Request, tool string) {
	cfg, sched, err := h.decode(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out, err := h.registry.Call(r.Context(), tool, tools.Request{Config: cfg, Schedule: sched})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// ListTools 返回已注册工具及描述
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	type toolInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	descriptions := h.registry.List()
	list := make([]toolInfo, 0, len(descriptions))
	for _, name := range h.registry.Names() {
		list = append(list, toolInfo{Name: name, Description: descriptions[name]})
	}
	respondJSON(w, http.StatusOK, map[string]any{"tools": list})
}
