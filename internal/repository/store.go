package repository

import (
	"context"
	"fmt"

	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/store"
)

var _ store.Store = (*ScheduleStore)(nil)

// ScheduleStore 以数据库为后端的排班存储，按名称区分不同问题
type ScheduleStore struct {
	repo *ScheduleRunRepository
	name string
}

// NewScheduleStore 创建存储，name 为空时读取所有记录中最新的一条
func NewScheduleStore(repo *ScheduleRunRepository, name string) *ScheduleStore {
	return &ScheduleStore{repo: repo, name: name}
}

// Save 保存为一条未校验的运行记录
func (s *ScheduleStore) Save(ctx context.Context, sched *model.Schedule) error {
	return s.repo.Create(ctx, &ScheduleRun{Name: s.name, Schedule: sched})
}

// Load 读取最近一次排班
func (s *ScheduleStore) Load(ctx context.Context) (*model.Schedule, error) {
	run, err := s.repo.latest(ctx, s.name)
	if err != nil {
		return nil, err
	}
	return run.Schedule, nil
}

func (s *ScheduleStore) String() string {
	if s.name == "" {
		return "postgres:schedule_runs"
	}
	return fmt.Sprintf("postgres:schedule_runs[%s]", s.name)
}
