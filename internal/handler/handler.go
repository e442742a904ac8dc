// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/loader"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/tools"

	"github.com/paiban/shiftplan/internal/repository"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 4 << 20

// RunRepository 排班运行记录的读写
type RunRepository interface {
	Create(ctx context.Context, run *repository.ScheduleRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.ScheduleRun, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*repository.ScheduleRun, int, error)
}

// Handler 排班 API 处理器
type Handler struct {
	facade   *tools.Facade
	registry *tools.Registry
	loader   *loader.Loader
	runs     RunRepository
}

// New 创建处理器，runs 为 nil 时不持久化运行记录
func New(facade *tools.Facade, runs RunRepository) *Handler {
	return &Handler{
		facade:   facade,
		registry: tools.DefaultRegistry(facade),
		loader:   loader.New(""),
		runs:     runs,
	}
}

// Request 请求体：问题配置与可选的排班
type Request struct {
	Config json.RawMessage `json:"config"`
	// ConfigFormat 为 yaml 时 config 为 YAML 文本字符串
	ConfigFormat string          `json:"config_format,omitempty"`
	Schedule     *model.Schedule `json:"schedule,omitempty"`
}

// decode 解析请求体并加载配置
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*model.Config, *model.Schedule, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败")
	}
	if len(req.Config) == 0 || string(req.Config) == "null" {
		return nil, nil, apperrors.InvalidInput("config", "required")
	}

	data, format := []byte(req.Config), "json"
	if strings.EqualFold(req.ConfigFormat, "yaml") {
		var text string
		if err := json.Unmarshal(req.Config, &text); err != nil {
			return nil, nil, apperrors.InvalidInput("config", "yaml config must be a string")
		}
		data, format = []byte(text), "yaml"
	}

	cfg, err := h.loader.Parse(data, format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, req.Schedule, nil
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应，非 AppError 按内部错误处理
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, apperrors.CodeInternal, "内部错误")
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("请求失败")
	}

	body := map[string]any{
		"error":   true,
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Cause != nil {
		body["details"] = appErr.Cause.Error()
	} else if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	respondJSON(w, appErr.HTTPStatus, body)
}

// withTimeout 为请求上下文设置截止时间
func withTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
