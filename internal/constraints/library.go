// Package constraints 约束目录，描述引擎内置的硬约束与软目标
package constraints

import (
	"strconv"

	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/shiftplan/pkg/scheduler/scoring"
)

// ConstraintParam 约束参数定义
type ConstraintParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // int, float
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
	Min         string `json:"min,omitempty"`
}

// ConstraintDefinition 约束定义
type ConstraintDefinition struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Type        string            `json:"type"` // hard 硬约束, soft 软目标
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Codes       []constraint.Code `json:"codes,omitempty"`
	Params      []ConstraintParam `json:"params"`
}

// LibraryResponse 约束库响应
type LibraryResponse struct {
	Library []ConstraintDefinition `json:"library"`
}

const (
	KindHard = "hard"
	KindSoft = "soft"
)

// hardDefinitions 按约束类型索引的硬约束描述
var hardDefinitions = map[constraint.Type]ConstraintDefinition{
	constraint.TypeCoverage: {
		DisplayName: "班次人数覆盖",
		Category:    "覆盖",
		Description: "每个班次分配人数不少于需求人数。",
		Codes:       []constraint.Code{constraint.CodeUnderCoverage},
	},
	constraint.TypeAvailability: {
		DisplayName: "员工可用性",
		Category:    "员工",
		Description: "员工只能被分配到其可用时间窗完全覆盖的班次；分配中引用未知员工或未知班次同样记为违规。",
		Codes: []constraint.Code{
			constraint.CodeUnknownShift,
			constraint.CodeUnknownEmployee,
			constraint.CodeNotAvailable,
		},
	},
	constraint.TypeSkills: {
		DisplayName: "技能要求",
		Category:    "员工",
		Description: "员工必须具备班次要求的全部技能。",
		Codes:       []constraint.Code{constraint.CodeMissingSkill},
	},
	constraint.TypeMaxShiftsPerWeek: {
		DisplayName: "每周最多班次",
		Category:    "工时限制",
		Description: "按 ISO 周统计，员工每周班次数不超过上限。",
		Codes:       []constraint.Code{constraint.CodeMaxShiftsWeek},
	},
	constraint.TypeMinRestHours: {
		DisplayName: "班次间最小休息",
		Category:    "休息保障",
		Description: "同一员工相邻两个班次之间的间隔不少于最小休息小时数。",
		Codes:       []constraint.Code{constraint.CodeMinRest},
	},
	constraint.TypeMaxConsecutive: {
		DisplayName: "最多连续班次",
		Category:    "休息保障",
		Description: "同一员工首尾相接的连续班次数不超过上限。",
		Codes:       []constraint.Code{constraint.CodeMaxConsecutive},
	},
	constraint.TypeDuplicateAssigned: {
		DisplayName: "重复分配",
		Category:    "覆盖",
		Description: "同一员工不能在一个班次中出现两次。",
		Codes:       []constraint.Code{constraint.CodeDuplicateAssignment},
	},
}

// GetLibrary 按默认规则生成约束库
func GetLibrary() []ConstraintDefinition {
	return Library(model.DefaultPolicies(), model.DefaultPreferences())
}

// Library 生成约束库，参数默认值取自给定的规则与偏好
// 硬约束顺序与默认约束集的注册顺序一致
func Library(p model.Policies, pref model.Preferences) []ConstraintDefinition {
	suite := builtin.NewDefaultSuite()
	defs := make([]ConstraintDefinition, 0, suite.Count()+2)
	for _, c := range suite.GetAll() {
		def, ok := hardDefinitions[c.Type()]
		if !ok {
			def = ConstraintDefinition{DisplayName: c.Name(), Category: "其他"}
		}
		def.Name = string(c.Type())
		def.Type = KindHard
		def.Params = hardParams(c.Type(), p)
		defs = append(defs, def)
	}

	defs = append(defs,
		ConstraintDefinition{
			Name:        scoring.ComponentFairness,
			DisplayName: "工作量公平",
			Type:        KindSoft,
			Category:    "软目标",
			Description: "所有员工班次数总体标准差的相反数乘以权重，越接近 0 越均衡；少于两名员工时为 0。",
			Params: []ConstraintParam{
				floatParam("fairness_weight", "公平性权重", pref.FairnessWeight),
			},
		},
		ConstraintDefinition{
			Name:        scoring.ComponentPreferences,
			DisplayName: "技能偏好",
			Type:        KindSoft,
			Category:    "软目标",
			Description: "员工被分配到所需技能与其偏好技能有交集的班次时计 1 分，总分乘以权重。",
			Params: []ConstraintParam{
				floatParam("preference_weight", "偏好权重", pref.PreferenceWeight),
			},
		},
	)
	return defs
}

// Find 按名称查找约束定义
func Find(defs []ConstraintDefinition, name string) (ConstraintDefinition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ConstraintDefinition{}, false
}

func hardParams(t constraint.Type, p model.Policies) []ConstraintParam {
	switch t {
	case constraint.TypeMaxShiftsPerWeek:
		return []ConstraintParam{intParam("max_shifts_per_week", "每周最多班次数", p.MaxShiftsPerWeek)}
	case constraint.TypeMinRestHours:
		return []ConstraintParam{intParam("min_rest_hours", "最小休息时间(小时)", p.MinRestHours)}
	case constraint.TypeMaxConsecutive:
		return []ConstraintParam{intParam("max_consecutive_shifts", "最多连续班次数", p.MaxConsecutiveShifts)}
	}
	return []ConstraintParam{}
}

func intParam(name, desc string, v int) ConstraintParam {
	return ConstraintParam{Name: name, Type: "int", Description: desc, Default: strconv.Itoa(v), Min: "0"}
}

func floatParam(name, desc string, v float64) ConstraintParam {
	return ConstraintParam{
		Name:        name,
		Type:        "float",
		Description: desc,
		Default:     strconv.FormatFloat(v, 'f', -1, 64),
		Min:         "0",
	}
}
