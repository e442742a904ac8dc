package handler

import (
	"net/http"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/stats"
)

// WorkloadResponse 工作量响应
type WorkloadResponse struct {
	Workload *stats.WorkloadMetrics `json:"workload"`
	Coverage *stats.CoverageMetrics `json:"coverage"`
}

// Workload 工作量与覆盖率分析
func (h *Handler) Workload(w http.ResponseWriter, r *http.Request) {
	cfg, sched, err := h.decode(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if sched == nil {
		respondError(w, r, apperrors.ErrNoSchedule)
		return
	}

	respondJSON(w, http.StatusOK, WorkloadResponse{
		Workload: stats.NewWorkloadAnalyzer().Analyze(cfg, sched),
		Coverage: stats.NewCoverageAnalyzer().Analyze(cfg, sched),
	})
}

// Coverage 覆盖率分析，附带文本摘要
func (h *Handler) Coverage(w http.ResponseWriter, r *http.Request) {
	cfg, sched, err := h.decode(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if sched == nil {
		respondError(w, r, apperrors.ErrNoSchedule)
		return
	}

	analyzer := stats.NewCoverageAnalyzer()
	m := analyzer.Analyze(cfg, sched)
	respondJSON(w, http.StatusOK, map[string]any{
		"coverage": m,
		"summary":  analyzer.GenerateCoverageReport(m),
	})
}
