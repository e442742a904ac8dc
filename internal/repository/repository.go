// Package repository 提供排班运行记录的数据访问层
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
)

// PostgreSQL 错误码
const (
	pqUniqueViolation = "23505"
	pqUndefinedTable  = "42P01"
)

// ListFilter 列表查询过滤器
type ListFilter struct {
	Name   string `json:"name,omitempty"`
	OK     *bool  `json:"ok,omitempty"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

// DefaultListFilter 返回默认过滤器
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 20}
}

// WithLimit 设置限制
func (f ListFilter) WithLimit(limit int) ListFilter {
	f.Limit = limit
	return f
}

// WithOffset 设置偏移
func (f ListFilter) WithOffset(offset int) ListFilter {
	f.Offset = offset
	return f
}

// WithName 按配置名称过滤
func (f ListFilter) WithName(name string) ListFilter {
	f.Name = name
	return f
}

// WithOK 按是否可行过滤
func (f ListFilter) WithOK(ok bool) ListFilter {
	f.OK = &ok
	return f
}

// DB 数据库接口
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner 行扫描接口
type Scanner interface {
	Scan(dest ...any) error
}

// translate 把驱动错误转换为 AppError
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperrors.Wrap(err, apperrors.CodeAlreadyExists, op+": 记录已存在").WithDetails(pqErr.Constraint)
		case pqUndefinedTable:
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, op+": 表不存在，请先执行迁移")
		}
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, op)
}
