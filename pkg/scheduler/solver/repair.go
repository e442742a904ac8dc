// Package solver 提供排班求解器
package solver

import (
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
)

// RepairResult 修复阶段结果
type RepairResult struct {
	Schedule *model.Schedule
	Attempts int
	Repairs  int
}

// Repair 对人数不足的班次做有界的单层替换修复
// 把一名合格员工从其另一个班次移到缺人班次，并由另一名未达上限的合格员工顶替原班次。
// 每个候选计一次尝试，最多 limit 次；只接受总违规数严格下降的候选
func Repair(cfg *model.Config, suite *constraint.Suite, elig Eligibility, start *model.Schedule, limit int) RepairResult {
	res := RepairResult{Schedule: start}
	if limit <= 0 {
		return res
	}

	current := start
	violations := suite.Validate(cfg, current).Count()
	maxShifts := cfg.Policies.MaxShiftsPerWeek

	for _, shift := range cfg.Shifts() {
		for len(current.Assigned(shift.ID)) < shift.RequiredHeadcount {
			next, ok := repairOnce(cfg, suite, elig, current, shift, violations, maxShifts, limit, &res.Attempts)
			if !ok {
				break
			}
			current = next
			violations = suite.Validate(cfg, current).Count()
			res.Repairs++
		}
		if res.Attempts >= limit {
			break
		}
	}

	res.Schedule = current
	return res
}

func repairOnce(cfg *model.Config, suite *constraint.Suite, elig Eligibility, current *model.Schedule,
	target *model.Shift, violations, maxShifts, limit int, attempts *int) (*model.Schedule, bool) {

	load := current.Load()
	owned := current.EmployeeShifts()

	for _, mover := range elig[target.ID] {
		if contains(current.Assigned(target.ID), mover) {
			continue
		}
		for _, donor := range owned[mover] {
			if donor == target.ID {
				continue
			}
			for _, sub := range elig[donor] {
				if sub == mover || load[sub] >= maxShifts || contains(current.Assigned(donor), sub) {
					continue
				}
				if *attempts >= limit {
					return nil, false
				}
				*attempts++

				candidate := current.Clone()
				candidate.Set(donor, substitute(current.Assigned(donor), mover, sub))
				candidate.Append(target.ID, mover)
				if suite.Validate(cfg, candidate).Count() < violations {
					return candidate, true
				}
			}
		}
	}
	return nil, false
}

func contains(list []string, id string) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

func substitute(list []string, from, to string) []string {
	out := make([]string, len(list))
	for i, id := range list {
		if id == from {
			id = to
		}
		out[i] = id
	}
	return out
}
