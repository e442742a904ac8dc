package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/tools"
)

// ScheduleRun 一次排班运行的持久化记录
type ScheduleRun struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	OK         *bool           `json:"ok"` // nil 表示未校验
	Iterations int             `json:"iterations"`
	Seconds    float64         `json:"seconds"`
	Seed       int64           `json:"seed"`
	Score      float64         `json:"score"`
	Notes      []string        `json:"notes"`
	Schedule   *model.Schedule `json:"schedule"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RunFromResult 由生成结果构建运行记录
func RunFromResult(cfg *model.Config, res *tools.GenerateResult, score float64) *ScheduleRun {
	ok := res.OK
	run := &ScheduleRun{
		Name:       cfg.Name(),
		OK:         &ok,
		Iterations: res.Iterations,
		Seconds:    res.Seconds,
		Seed:       cfg.Solver.RandomSeed,
		Score:      score,
		Notes:      res.Notes,
		Schedule:   res.Schedule,
	}
	if id, err := uuid.Parse(res.RunID); err == nil {
		run.ID = id
	}
	return run
}

// ScheduleRunRepository 排班运行仓储
type ScheduleRunRepository struct {
	db DB
}

// NewScheduleRunRepository 创建仓储
func NewScheduleRunRepository(db DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

const runColumns = `id, name, ok, iterations, seconds, seed, score, notes, assignments, created_at`

// Create 写入运行记录，ID 为空时自动生成
func (r *ScheduleRunRepository) Create(ctx context.Context, run *ScheduleRun) error {
	if run.Schedule == nil {
		return apperrors.InvalidInput("schedule", "required")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Notes == nil {
		run.Notes = []string{}
	}

	assignments, err := json.Marshal(run.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	var ok sql.NullBool
	if run.OK != nil {
		ok = sql.NullBool{Bool: *run.OK, Valid: true}
	}

	query := `
		INSERT INTO schedule_runs (
			id, name, ok, iterations, seconds, seed, score, notes, shift_ids, assignments, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Name, ok, run.Iterations, run.Seconds, run.Seed, run.Score,
		pq.Array(run.Notes), pq.Array(run.Schedule.ShiftIDs()), string(assignments), run.CreatedAt,
	)
	if err != nil {
		return translate(err, "创建排班记录失败")
	}

	logger.Component("repository").Debug().
		Str("run_id", run.ID.String()).
		Str("name", run.Name).
		Int("shifts", run.Schedule.Len()).
		Msg("排班记录已保存")
	return nil
}

// GetByID 根据ID获取运行记录
func (r *ScheduleRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*ScheduleRun, error) {
	query := `SELECT ` + runColumns + ` FROM schedule_runs WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("schedule run", id.String())
	}
	if err != nil {
		return nil, translate(err, "查询排班记录失败")
	}
	return run, nil
}

// Latest 返回最近一次运行，无记录时返回 NO_SCHEDULE
func (r *ScheduleRunRepository) Latest(ctx context.Context) (*ScheduleRun, error) {
	return r.latest(ctx, "")
}

func (r *ScheduleRunRepository) latest(ctx context.Context, name string) (*ScheduleRun, error) {
	var (
		row   *sql.Row
		query = `SELECT ` + runColumns + ` FROM schedule_runs`
		order = ` ORDER BY created_at DESC LIMIT 1`
	)
	if name != "" {
		row = r.db.QueryRowContext(ctx, query+` WHERE name = $1`+order, name)
	} else {
		row = r.db.QueryRowContext(ctx, query+order)
	}

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNoSchedule
	}
	if err != nil {
		return nil, translate(err, "查询最新排班失败")
	}
	return run, nil
}

// List 分页列出运行记录，返回记录和总数
func (r *ScheduleRunRepository) List(ctx context.Context, filter ListFilter) ([]*ScheduleRun, int, error) {
	where, args := filter.where()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schedule_runs"+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err, "统计排班数量失败")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListFilter().Limit
	}
	query := fmt.Sprintf(`SELECT %s FROM schedule_runs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		runColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, translate(err, "查询排班列表失败")
	}
	defer rows.Close()

	var runs []*ScheduleRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, translate(err, "扫描排班记录失败")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err, "查询排班列表失败")
	}
	return runs, total, nil
}

// Delete 删除运行记录
func (r *ScheduleRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM schedule_runs WHERE id = $1", id)
	if err != nil {
		return translate(err, "删除排班记录失败")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("schedule run", id.String())
	}
	return nil
}

// where 生成过滤条件，占位符从 $1 开始
func (f ListFilter) where() (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if f.Name != "" {
		args = append(args, f.Name)
		conditions = append(conditions, fmt.Sprintf("name = $%d", len(args)))
	}
	if f.OK != nil {
		args = append(args, *f.OK)
		conditions = append(conditions, fmt.Sprintf("ok = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRun(row Scanner) (*ScheduleRun, error) {
	var (
		run         ScheduleRun
		ok          sql.NullBool
		assignments []byte
	)
	if err := row.Scan(
		&run.ID, &run.Name, &ok, &run.Iterations, &run.Seconds, &run.Seed, &run.Score,
		pq.Array(&run.Notes), &assignments, &run.CreatedAt,
	); err != nil {
		return nil, err
	}
	if ok.Valid {
		run.OK = &ok.Bool
	}

	run.Schedule = model.NewSchedule()
	if err := json.Unmarshal(assignments, run.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", run.ID, err)
	}
	return &run, nil
}
