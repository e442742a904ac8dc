// Package solver 提供排班求解器
package solver

import (
	"math/rand"
	"sort"

	"github.com/paiban/shiftplan/pkg/model"
)

// GreedyConstruct 贪心构造初始排班
// 班次按难度升序（稳定），候选先随机打乱再按当前负载稳定排序，
// 负载已达每周上限的员工跳过。不检查休息与连续班次
func GreedyConstruct(cfg *model.Config, elig Eligibility, rng *rand.Rand) *model.Schedule {
	shifts := make([]*model.Shift, len(cfg.Shifts()))
	copy(shifts, cfg.Shifts())
	sort.SliceStable(shifts, func(i, j int) bool {
		return elig.Hardness(shifts[i].ID) < elig.Hardness(shifts[j].ID)
	})

	limit := cfg.Policies.MaxShiftsPerWeek
	load := make(map[string]int, len(cfg.Employees()))
	sched := model.NewSchedule()

	for _, shift := range shifts {
		candidates := elig.Candidates(shift.ID)
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		sort.SliceStable(candidates, func(i, j int) bool {
			return load[candidates[i]] < load[candidates[j]]
		})

		chosen := make([]string, 0, shift.RequiredHeadcount)
		for _, eid := range candidates {
			if len(chosen) >= shift.RequiredHeadcount {
				break
			}
			if load[eid] >= limit {
				continue
			}
			chosen = append(chosen, eid)
			load[eid]++
		}
		sched.Set(shift.ID, chosen)
	}
	return sched
}
