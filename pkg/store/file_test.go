package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/model"
)

func createTestSchedule() *model.Schedule {
	s := model.NewSchedule()
	s.Set("z_shift", []string{"e2", "e1"})
	s.Set("a_shift", []string{"e3"})
	s.Set("123", []string{"null"})
	s.Set("empty", nil)
	return s
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, name := range []string{"schedule.json", "schedule.yaml", "schedule.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			fs := NewFileStore(path)
			ctx := context.Background()

			want := createTestSchedule()
			require.NoError(t, fs.Save(ctx, want))

			got, err := fs.Load(ctx)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got.Assignments())
			assert.Equal(t, []string{"z_shift", "a_shift", "123", "empty"}, got.ShiftIDs(), "应保持班次顺序")
			assert.Equal(t, []string{"e2", "e1"}, got.Assigned("z_shift"), "不应排序分配列表")
		})
	}
}

func TestSaveSchedule_JSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	s := model.NewSchedule()
	s.Set("s1", []string{"e1"})
	require.NoError(t, SaveSchedule(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"assignments": {"s1": ["e1"]}}`, string(data))
}

func TestLoadSchedule_YAMLInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assignments:
  mon_late: [e4]
  mon_early:
    - e1
    - e2
`), 0o644))

	s, err := LoadSchedule(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"mon_late", "mon_early"}, s.ShiftIDs())
	assert.Equal(t, []string{"e1", "e2"}, s.Assigned("mon_early"))
}

func TestLoadSchedule_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileStore(filepath.Join(dir, "missing.json")).Load(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.CodeNoSchedule), "error = %v", err)

	tests := []struct {
		name string
		body string
	}{
		{"bad.json", `{"assignments": [1, 2]}`},
		{"bad.yaml", "assignments: [a, b]\n"},
		{"list.yaml", "- a\n- b\n"},
		{"value.yaml", "assignments:\n  s1: {a: b}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadSchedule(path)
			assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput), "error = %v", err)
		})
	}
}

func TestLoadSchedule_EmptyDocuments(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"empty.yaml": "",
		"null.yaml":  "assignments:\n",
		"null.json":  `{"assignments": null}`,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		s, err := LoadSchedule(path)
		require.NoError(t, err, name)
		assert.Equal(t, 0, s.Len(), name)
	}
}
