// Package database 提供 PostgreSQL 连接和表结构管理
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/paiban/shiftplan/internal/config"
	"github.com/paiban/shiftplan/pkg/logger"
)

// SlowQueryThreshold 超过该耗时的语句记录告警
const SlowQueryThreshold = 100 * time.Millisecond

// schema 排班运行记录表
const schema = `
CREATE TABLE IF NOT EXISTS schedule_runs (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	ok          BOOLEAN NOT NULL,
	iterations  INTEGER NOT NULL DEFAULT 0,
	seconds     DOUBLE PRECISION NOT NULL DEFAULT 0,
	seed        BIGINT NOT NULL DEFAULT 0,
	score       DOUBLE PRECISION NOT NULL DEFAULT 0,
	notes       TEXT[] NOT NULL DEFAULT '{}',
	shift_ids   TEXT[] NOT NULL DEFAULT '{}',
	assignments JSON NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_schedule_runs_created_at ON schedule_runs (created_at DESC);
`

// DB 数据库连接封装
type DB struct {
	*sql.DB
	cfg *config.DatabaseConfig
}

// New 通过 DSN 打开连接池并检查连通性
func New(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	return Open(ctx, cfg.DSN(), cfg)
}

// Open 使用给定 DSN 连接，cfg 仅提供连接池参数，可为 nil
func Open(ctx context.Context, dsn string, cfg *config.DatabaseConfig) (*DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("解析数据库连接串失败: %w", err)
	}
	db := sql.OpenDB(connector)

	if cfg != nil {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	ev := logger.Component("database").Info()
	if cfg != nil {
		ev = ev.Str("host", cfg.Host).Int("port", cfg.Port).Str("database", cfg.Name)
	}
	ev.Msg("数据库连接成功")

	return &DB{DB: db, cfg: cfg}, nil
}

// Migrate 创建所需的表
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("初始化表结构失败: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (db *DB) Close() error {
	if db.DB != nil {
		logger.Component("database").Info().Msg("关闭数据库连接")
		return db.DB.Close()
	}
	return nil
}

// Health 健康检查
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Transaction 执行事务，fn 返回错误或 panic 时回滚
func (db *DB) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开始事务失败: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("事务回滚失败: %v (原始错误: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("事务提交失败: %w", err)
	}
	return nil
}

// ExecContext 执行语句并记录慢查询
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := db.DB.ExecContext(ctx, query, args...)
	logSlow(query, time.Since(start))
	return result, err
}

// QueryContext 执行查询并记录慢查询
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.DB.QueryContext(ctx, query, args...)
	logSlow(query, time.Since(start))
	return rows, err
}

// QueryRowContext 执行单行查询
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

func logSlow(query string, d time.Duration) {
	if d <= SlowQueryThreshold {
		return
	}
	logger.Component("database").Warn().
		Str("query", truncateQuery(query)).
		Dur("duration", d).
		Msg("慢SQL查询")
}

func truncateQuery(query string) string {
	if len(query) > 200 {
		return query[:200] + "..."
	}
	return query
}
