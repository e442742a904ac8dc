// Package store 提供排班结果的持久化
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/model"
)

// Store 保存和读取最近一次排班
type Store interface {
	Save(ctx context.Context, sched *model.Schedule) error
	// Load 无排班时返回 NO_SCHEDULE 错误
	Load(ctx context.Context) (*model.Schedule, error)
}

// FileStore 基于文件的排班存储，格式由扩展名决定（.json/.yaml/.yml）
type FileStore struct {
	path string
}

// NewFileStore 创建文件存储
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path 返回文件路径
func (s *FileStore) Path() string {
	return s.path
}

// Save 写入排班，必要时创建父目录
func (s *FileStore) Save(_ context.Context, sched *model.Schedule) error {
	return SaveSchedule(s.path, sched)
}

// Load 读取排班
func (s *FileStore) Load(_ context.Context) (*model.Schedule, error) {
	return LoadSchedule(s.path)
}

// SaveSchedule 将排班写入文件
func SaveSchedule(path string, sched *model.Schedule) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = marshalYAML(sched)
	} else {
		data, err = json.MarshalIndent(sched, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create schedule dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}

	logger.Component("store").Debug().
		Str("path", path).
		Int("shifts", sched.Len()).
		Msg("排班已保存")
	return nil
}

// LoadSchedule 从文件读取排班，文件不存在时返回 NO_SCHEDULE
func LoadSchedule(path string) (*model.Schedule, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(err, apperrors.CodeNoSchedule, "尚无排班，请先生成")
	}
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}

	sched := model.NewSchedule()
	if isYAML(path) {
		err = unmarshalYAML(data, sched)
	} else {
		err = json.Unmarshal(data, sched)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, fmt.Sprintf("排班文件 '%s' 无效", path))
	}
	return sched, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// marshalYAML 通过节点树输出，保持班次顺序
func marshalYAML(sched *model.Schedule) ([]byte, error) {
	assignments := &yaml.Node{Kind: yaml.MappingNode}
	for _, sid := range sched.ShiftIDs() {
		list := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, eid := range sched.Assigned(sid) {
			list.Content = append(list.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: eid})
		}
		assignments.Content = append(assignments.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sid}, list)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "assignments"}, assignments,
	}}
	return yaml.Marshal(doc)
}

func unmarshalYAML(data []byte, sched *model.Schedule) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if root.Kind == 0 {
		return nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping document")
	}

	top := root.Content[0]
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "assignments" {
			continue
		}
		m := top.Content[i+1]
		if m.Tag == "!!null" {
			return nil
		}
		if m.Kind != yaml.MappingNode {
			return fmt.Errorf("assignments: expected mapping")
		}
		for j := 0; j+1 < len(m.Content); j += 2 {
			var list []string
			if err := m.Content[j+1].Decode(&list); err != nil {
				return fmt.Errorf("assignments[%s]: %w", m.Content[j].Value, err)
			}
			sched.Set(m.Content[j].Value, list)
		}
	}
	return nil
}

// String 返回存储位置
func (s *FileStore) String() string {
	return s.path
}
