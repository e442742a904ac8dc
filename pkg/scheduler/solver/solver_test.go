package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	apperrors "github.com/paiban/shiftplan/pkg/errors"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/constraint/builtin"
)

var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func allWeek() []model.TimeWindow {
	return []model.TimeWindow{{Start: monday, End: monday.AddDate(0, 0, 7)}}
}

func dayShift(id string, d, headcount int, skills ...string) *model.Shift {
	base := monday.AddDate(0, 0, d)
	return &model.Shift{
		ID:                id,
		Start:             base.Add(9 * time.Hour),
		End:               base.Add(17 * time.Hour),
		RequiredHeadcount: headcount,
		RequiredSkills:    model.NewSkillSet(skills...),
	}
}

func mustConfig(t *testing.T, emps []*model.Employee, shifts []*model.Shift) *model.Config {
	t.Helper()
	cfg, err := model.NewConfig(emps, shifts)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	// 以迭代数而不是时间为界，保证可复现
	cfg.Solver.MaxSeconds = 60
	cfg.Solver.MaxIterations = 60
	return cfg
}

// createStoreConfig 两名员工、一个需要收银的周一白班
func createStoreConfig(t *testing.T) *model.Config {
	return mustConfig(t,
		[]*model.Employee{
			{ID: "e1", Skills: model.NewSkillSet("cashier"), Availability: allWeek()},
			{ID: "e2", Skills: model.NewSkillSet("stock"), Availability: allWeek()},
		},
		[]*model.Shift{dayShift("s1", 0, 1, "cashier")},
	)
}

// createWeekConfig 五名员工覆盖一周十个班次
func createWeekConfig(t *testing.T) *model.Config {
	var emps []*model.Employee
	for i := 1; i <= 5; i++ {
		skills := model.NewSkillSet("cashier")
		if i%2 == 0 {
			skills = model.NewSkillSet("cashier", "stock")
		}
		emps = append(emps, &model.Employee{ID: fmt.Sprintf("e%d", i), Skills: skills, Availability: allWeek()})
	}
	var shifts []*model.Shift
	for d := 0; d < 5; d++ {
		shifts = append(shifts, dayShift(fmt.Sprintf("d%d_front", d), d, 1, "cashier"))
		shifts = append(shifts, dayShift(fmt.Sprintf("d%d_back", d), d, 1, "stock"))
	}
	cfg := mustConfig(t, emps, shifts)
	cfg.Preferences.EmployeeShiftPreferences = map[string]model.EmployeePreference{
		"e2": {PreferSkill: []string{"stock"}},
	}
	return cfg
}

func TestSolve_SimpleStore(t *testing.T) {
	cfg := createStoreConfig(t)
	s := NewLocalSearchSolver(builtin.NewDefaultSuite())

	result, err := s.Solve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	got := result.Schedule.Assigned("s1")
	if len(got) != 1 || got[0] != "e1" {
		t.Errorf("s1 = %v, expected [e1]", got)
	}
	if !result.OK {
		t.Errorf("OK = false, notes = %v", result.Notes)
	}
	if report := builtin.NewDefaultSuite().Validate(cfg, result.Schedule); !report.OK {
		t.Errorf("violations = %v", report.Violations)
	}
	if result.RunID == "" {
		t.Error("RunID 不应为空")
	}
}

func TestSolve_Deterministic(t *testing.T) {
	cfg := createWeekConfig(t)

	encode := func() string {
		result, err := NewLocalSearchSolver(builtin.NewDefaultSuite()).Solve(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Solve() error = %v", err)
		}
		data, err := json.Marshal(result.Schedule)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		return string(data)
	}

	first := encode()
	for i := 0; i < 3; i++ {
		if got := encode(); got != first {
			t.Fatalf("相同种子结果不一致:\n%s\n%s", first, got)
		}
	}
}

func TestSolve_ValidWeekAndNotes(t *testing.T) {
	cfg := createWeekConfig(t)
	cfg.Solver.MaxIterations = 100

	result, err := NewLocalSearchSolver(builtin.NewDefaultSuite()).Solve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !result.OK {
		t.Fatalf("OK = false, violations = %v", result.Report.Violations)
	}
	if result.Iterations != 100 {
		t.Errorf("Iterations = %d, expected 100", result.Iterations)
	}

	valid := 0
	for _, n := range result.Notes {
		if n == NoteValidContinuing {
			valid++
		}
	}
	if valid != 2 {
		t.Errorf("notes = %v, expected 2 progress notes", result.Notes)
	}
}

func TestSolve_Infeasible(t *testing.T) {
	cfg := mustConfig(t,
		[]*model.Employee{{ID: "e1", Availability: allWeek()}},
		[]*model.Shift{dayShift("a", 0, 1), dayShift("b", 0, 1), dayShift("c", 1, 2)},
	)

	result, err := NewLocalSearchSolver(builtin.NewDefaultSuite()).Solve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("不可行不应返回错误: %v", err)
	}
	if result.OK {
		t.Fatal("OK 应为 false")
	}
	last := result.Notes[len(result.Notes)-1]
	want := fmt.Sprintf("Schedule not fully valid (%d violation(s)). Consider relaxing policies or adding staff.",
		result.Report.Count())
	if last != want {
		t.Errorf("note = %q, expected %q", last, want)
	}
	for _, sid := range result.Schedule.ShiftIDs() {
		if _, ok := cfg.Shift(sid); !ok {
			t.Errorf("求解器引入了未知班次 %s", sid)
		}
	}
}

func TestSolve_BudgetFloors(t *testing.T) {
	cfg := createStoreConfig(t)
	cfg.Solver.MaxIterations = 0
	cfg.Solver.MaxSeconds = 0

	result, err := NewLocalSearchSolver(builtin.NewDefaultSuite()).Solve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if result.Iterations != 1 {
		t.Errorf("Iterations = %d, expected floor of 1", result.Iterations)
	}
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalSearchSolver(builtin.NewDefaultSuite()).Solve(ctx, createStoreConfig(t))
	if !apperrors.Is(err, apperrors.CodeTimeout) {
		t.Errorf("err = %v, expected TIMEOUT", err)
	}
}

func TestGreedyConstruct_HardnessAndCap(t *testing.T) {
	cfg := mustConfig(t,
		[]*model.Employee{
			{ID: "a", Skills: model.NewSkillSet("x", "y"), Availability: allWeek()},
			{ID: "b", Skills: model.NewSkillSet("x"), Availability: allWeek()},
		},
		[]*model.Shift{dayShift("easy", 0, 1, "x"), dayShift("hard", 2, 1, "y")},
	)
	cfg.Policies.MaxShiftsPerWeek = 1

	for seed := int64(0); seed < 20; seed++ {
		sched := GreedyConstruct(cfg, NewEligibility(cfg), rand.New(rand.NewSource(seed)))

		if ids := sched.ShiftIDs(); ids[0] != "hard" {
			t.Fatalf("seed %d: 难度低的班次应先处理, got %v", seed, ids)
		}
		if got := sched.Assigned("hard"); len(got) != 1 || got[0] != "a" {
			t.Errorf("seed %d: hard = %v", seed, got)
		}
		if got := sched.Assigned("easy"); len(got) != 1 || got[0] != "b" {
			t.Errorf("seed %d: easy = %v, a 已达上限应被跳过", seed, got)
		}
	}
}

func TestGreedyConstruct_PrefersLowLoad(t *testing.T) {
	cfg := mustConfig(t,
		[]*model.Employee{
			{ID: "a", Availability: allWeek()},
			{ID: "b", Availability: allWeek()},
		},
		[]*model.Shift{dayShift("s0", 0, 1), dayShift("s2", 2, 1), dayShift("s4", 4, 1), dayShift("s6", 6, 1)},
	)

	load := GreedyConstruct(cfg, NewEligibility(cfg), rand.New(rand.NewSource(3))).Load()
	if load["a"] != 2 || load["b"] != 2 {
		t.Errorf("load = %v, expected 2/2", load)
	}
}

func TestRepair_EjectionChain(t *testing.T) {
	cfg := mustConfig(t,
		[]*model.Employee{
			{ID: "A", Skills: model.NewSkillSet("q", "p"), Availability: allWeek()},
			{ID: "B", Skills: model.NewSkillSet("p", "w"), Availability: allWeek()},
			{ID: "C", Skills: model.NewSkillSet("q", "w"), Availability: allWeek()},
		},
		[]*model.Shift{dayShift("Q", 0, 1, "q"), dayShift("P", 2, 1, "p"), dayShift("W", 4, 1, "w")},
	)
	cfg.Policies.MaxShiftsPerWeek = 1
	suite := builtin.NewDefaultSuite()

	start := model.NewSchedule()
	start.Set("Q", []string{"C"})
	start.Set("P", []string{"B"})
	start.Set("W", nil)

	res := Repair(cfg, suite, NewEligibility(cfg), start, 100)

	if res.Repairs != 1 || res.Attempts != 1 {
		t.Errorf("Repairs = %d, Attempts = %d", res.Repairs, res.Attempts)
	}
	if report := suite.Validate(cfg, res.Schedule); !report.OK {
		t.Errorf("violations = %v", report.Violations)
	}
	if got := res.Schedule.Assigned("P"); got[0] != "A" {
		t.Errorf("P = %v, expected [A]", got)
	}
	if len(start.Assigned("W")) != 0 {
		t.Error("Repair 不应修改输入排班")
	}
}

func TestRepair_Limit(t *testing.T) {
	cfg := createStoreConfig(t)
	suite := builtin.NewDefaultSuite()
	start := model.NewSchedule()

	res := Repair(cfg, suite, NewEligibility(cfg), start, 0)
	if res.Attempts != 0 || !res.Schedule.Equal(start) {
		t.Errorf("limit 0 应跳过修复: %+v", res)
	}

	report := suite.Validate(cfg, res.Schedule)
	if report.OK {
		t.Error("未修复的空排班应不合法")
	}
	if len(report.ByCode(constraint.CodeUnderCoverage)) != 1 {
		t.Error("应有一条 UNDER_COVERAGE")
	}
}
