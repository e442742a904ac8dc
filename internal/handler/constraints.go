package handler

import (
	"net/http"

	"github.com/paiban/shiftplan/internal/constraints"
)

// ListConstraints 返回默认规则下的约束库
func (h *Handler) ListConstraints(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, constraints.LibraryResponse{Library: constraints.GetLibrary()})
}

// ResolveConstraints 返回按请求配置中的规则与偏好填充参数的约束库
func (h *Handler) ResolveConstraints(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := h.decode(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, constraints.LibraryResponse{
		Library: constraints.Library(cfg.Policies, cfg.Preferences),
	})
}
