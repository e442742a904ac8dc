package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "github.com/paiban/shiftplan/pkg/errors"

	"github.com/paiban/shiftplan/internal/repository"
)

// ListRuns 分页列出已保存的排班运行，支持 name、ok、limit、offset 查询参数
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.DefaultListFilter()
	if name := q.Get("name"); name != "" {
		filter = filter.WithName(name)
	}
	if v := q.Get("ok"); v != "" {
		ok, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, r, apperrors.InvalidInput("ok", "must be a boolean"))
			return
		}
		filter = filter.WithOK(ok)
	}
	limit, err := queryInt(r, "limit", filter.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		respondError(w, r, err)
		return
	}
	filter = filter.WithLimit(limit).WithOffset(offset)

	runs, total, err := h.runs.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*repository.ScheduleRun{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": runs, "total": total})
}

// GetRun 按 ID 读取运行记录
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperrors.Wrap(err, apperrors.CodeInvalidInput, "无效的运行ID格式"))
		return
	}
	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperrors.InvalidInput(key, "must be a non-negative integer")
	}
	return n, nil
}
