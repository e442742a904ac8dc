// Package loader 从 JSON/YAML 文件加载排班问题配置
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/model"
)

// DefaultEnvPrefix 环境变量覆盖前缀，例如 SHIFTPLAN_SOLVER__MAX_SECONDS
const DefaultEnvPrefix = "SHIFTPLAN_"

// 允许通过环境变量覆盖的配置段
var overridableSections = []string{"solver.", "policies.", "preferences."}

type fileConfig struct {
	Employees   []employeeDef     `json:"employees" validate:"required,dive"`
	Shifts      []shiftDef        `json:"shifts" validate:"required_without=Templates,dive"`
	Templates   []templateDef     `json:"shift_templates" validate:"dive"`
	Policies    policiesDef       `json:"policies"`
	Preferences model.Preferences `json:"preferences"`
	Solver      solverDef         `json:"solver"`
	Meta        map[string]any    `json:"meta"`
}

type windowDef struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtefield=Start"`
}

type employeeDef struct {
	ID           string      `json:"id" validate:"required"`
	Name         string      `json:"name"`
	Skills       []string    `json:"skills"`
	Availability []windowDef `json:"availability" validate:"dive"`
}

type shiftDef struct {
	ID                string    `json:"id" validate:"required"`
	Start             time.Time `json:"start" validate:"required"`
	End               time.Time `json:"end" validate:"required,gtfield=Start"`
	RequiredHeadcount *int      `json:"required_headcount" validate:"omitempty,gte=0"`
	RequiredSkills    []string  `json:"required_skills"`
}

type policiesDef struct {
	MaxShiftsPerWeek     int `json:"max_shifts_per_week" validate:"gte=0"`
	MaxConsecutiveShifts int `json:"max_consecutive_shifts" validate:"gte=0"`
	MinRestHours         int `json:"min_rest_hours" validate:"gte=0"`
}

type solverDef struct {
	MaxSeconds        float64 `json:"max_seconds" validate:"gte=0"`
	MaxIterations     int     `json:"max_iterations" validate:"gte=0"`
	RandomSeed        int64   `json:"random_seed"`
	BacktrackingLimit int     `json:"backtracking_limit" validate:"gte=0"`
}

// Loader 配置加载器
type Loader struct {
	envPrefix string
	validate  *validator.Validate
}

// New 创建加载器，envPrefix 为空时不读取环境变量
func New(envPrefix string) *Loader {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Loader{envPrefix: envPrefix, validate: v}
}

var defaultLoader = New(DefaultEnvPrefix)

// Load 使用默认加载器读取配置文件
func Load(path string) (*model.Config, error) {
	return defaultLoader.Load(path)
}

// Load 按扩展名选择解析器读取配置文件
func (l *Loader) Load(path string) (*model.Config, error) {
	parser, err := parserFor(filepath.Ext(path))
	if err != nil {
		return nil, apperrors.ConfigInvalid(path, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.ConfigInvalid(path, err)
	}
	return l.load(path, file.Provider(path), parser)
}

// Parse 解析内存中的配置，format 为 json 或 yaml
func (l *Loader) Parse(data []byte, format string) (*model.Config, error) {
	parser, err := parserFor("." + format)
	if err != nil {
		return nil, apperrors.ConfigInvalid(format, err)
	}
	return l.load("<"+format+">", bytesProvider(data), parser)
}

func (l *Loader) load(source string, provider koanf.Provider, parser koanf.Parser) (*model.Config, error) {
	k := koanf.New(".")
	if err := k.Load(provider, parser); err != nil {
		return nil, apperrors.ConfigInvalid(source, err)
	}
	if l.envPrefix != "" {
		if err := k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
			return nil, apperrors.ConfigInvalid(source, err)
		}
	}

	fc := fileConfig{
		Policies:    policiesDef(model.DefaultPolicies()),
		Preferences: model.DefaultPreferences(),
		Solver:      solverDef(model.DefaultSolverConfig()),
	}
	if err := k.UnmarshalWithConf("", &fc, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				timeHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           &fc,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, apperrors.ConfigInvalid(source, err)
	}

	if err := l.validate.Struct(&fc); err != nil {
		return nil, validationError(source, err)
	}

	cfg, err := fc.build()
	if err != nil {
		return nil, apperrors.ConfigInvalid(source, err)
	}
	return cfg, nil
}

// validationError 把字段校验失败展开为逐字段的错误说明
func validationError(source string, err error) *apperrors.AppError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.ConfigInvalid(source, err)
	}
	ve := &apperrors.ValidationErrors{}
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		ve.Add(strings.TrimPrefix(fe.Namespace(), "fileConfig."), rule)
	}
	appErr := apperrors.ConfigInvalid(source, ve)
	for _, e := range ve.Errors {
		appErr.WithField(e.Field, e.Message)
	}
	return appErr
}

// envKey 把 SHIFTPLAN_SOLVER__MAX_SECONDS 映射为 solver.max_seconds，其余变量忽略
func (l *Loader) envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	for _, section := range overridableSections {
		if strings.HasPrefix(key, section) {
			return key
		}
	}
	return ""
}

func (fc *fileConfig) build() (*model.Config, error) {
	employees := make([]*model.Employee, 0, len(fc.Employees))
	for _, e := range fc.Employees {
		name := e.Name
		if name == "" {
			name = e.ID
		}
		windows := make([]model.TimeWindow, 0, len(e.Availability))
		for _, w := range e.Availability {
			windows = append(windows, model.TimeWindow{Start: w.Start, End: w.End})
		}
		employees = append(employees, &model.Employee{
			ID:           e.ID,
			Name:         name,
			Skills:       model.NewSkillSet(e.Skills...),
			Availability: windows,
		})
	}

	shifts := make([]*model.Shift, 0, len(fc.Shifts))
	for _, s := range fc.Shifts {
		headcount := model.DefaultRequiredHeadcount
		if s.RequiredHeadcount != nil {
			headcount = *s.RequiredHeadcount
		}
		shifts = append(shifts, &model.Shift{
			ID:                s.ID,
			Start:             s.Start,
			End:               s.End,
			RequiredHeadcount: headcount,
			RequiredSkills:    model.NewSkillSet(s.RequiredSkills...),
		})
	}

	for i, tpl := range fc.Templates {
		expanded, err := tpl.expand()
		if err != nil {
			return nil, fmt.Errorf("shift_templates[%d]: %w", i, err)
		}
		shifts = append(shifts, expanded...)
	}

	cfg, err := model.NewConfig(employees, shifts)
	if err != nil {
		return nil, err
	}
	cfg.Policies = model.Policies(fc.Policies)
	cfg.Preferences = fc.Preferences
	if cfg.Preferences.EmployeeShiftPreferences == nil {
		cfg.Preferences.EmployeeShiftPreferences = map[string]model.EmployeePreference{}
	}
	cfg.Solver = model.SolverConfig(fc.Solver)
	if fc.Meta != nil {
		cfg.Meta = fc.Meta
	}
	return cfg, nil
}

func parserFor(ext string) (koanf.Parser, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %q", ext)
	}
}

// timeHookFunc 把字符串或 YAML 时间戳解码为 time.Time
func timeHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Time{}) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return ParseTime(v)
		case time.Time:
			return v, nil
		}
		return data, nil
	}
}

// bytesProvider 内存配置源
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) {
	return b, nil
}

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, fmt.Errorf("bytes provider does not support Read()")
}
