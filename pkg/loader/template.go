package loader

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/paiban/shiftplan/pkg/model"
)

// maxOccurrences 单个模板最多展开的班次数
const maxOccurrences = 1000

// templateDef 重复班次模板，按 RRULE 从 start 开始展开
type templateDef struct {
	IDPrefix          string    `json:"id_prefix" validate:"required"`
	Start             time.Time `json:"start" validate:"required"`
	RRule             string    `json:"rrule" validate:"required"`
	DurationHours     float64   `json:"duration_hours" validate:"gt=0"`
	RequiredHeadcount *int      `json:"required_headcount" validate:"omitempty,gte=0"`
	RequiredSkills    []string  `json:"required_skills"`
}

// expand 展开模板，班次 ID 为 <id_prefix>_<YYYYMMDDTHHMM>
// 规则必须以 COUNT 或 UNTIL 收敛
func (t templateDef) expand() ([]*model.Shift, error) {
	rule, err := rrule.StrToRRule(t.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", t.RRule, err)
	}
	rule.DTStart(t.Start)

	headcount := model.DefaultRequiredHeadcount
	if t.RequiredHeadcount != nil {
		headcount = *t.RequiredHeadcount
	}
	duration := time.Duration(t.DurationHours * float64(time.Hour))

	var shifts []*model.Shift
	next := rule.Iterator()
	for {
		start, ok := next()
		if !ok {
			break
		}
		if len(shifts) == maxOccurrences {
			return nil, fmt.Errorf("rrule %q yields more than %d occurrences", t.RRule, maxOccurrences)
		}
		shifts = append(shifts, &model.Shift{
			ID:                fmt.Sprintf("%s_%s", t.IDPrefix, start.Format("20060102T1504")),
			Start:             start,
			End:               start.Add(duration),
			RequiredHeadcount: headcount,
			RequiredSkills:    model.NewSkillSet(t.RequiredSkills...),
		})
	}
	return shifts, nil
}
