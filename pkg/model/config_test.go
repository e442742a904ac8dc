package model

import (
	"testing"
)

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(
		[]*Employee{{ID: "e2"}, {ID: "e1"}},
		[]*Shift{{ID: "s2"}, {ID: "s1"}},
	)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if ids := cfg.EmployeeIDs(); ids[0] != "e2" || ids[1] != "e1" {
		t.Errorf("EmployeeIDs() = %v, 应保持声明顺序", ids)
	}
	if ids := cfg.ShiftIDs(); ids[0] != "s2" || ids[1] != "s1" {
		t.Errorf("ShiftIDs() = %v, 应保持声明顺序", ids)
	}
	if _, ok := cfg.Employee("e1"); !ok {
		t.Error("应该找到 e1")
	}
	if _, ok := cfg.Shift("missing"); ok {
		t.Error("不应找到 missing")
	}
	if cfg.Policies != DefaultPolicies() {
		t.Errorf("Policies = %+v, expected defaults", cfg.Policies)
	}
	if cfg.Solver.RandomSeed != DefaultRandomSeed {
		t.Errorf("RandomSeed = %d, expected %d", cfg.Solver.RandomSeed, DefaultRandomSeed)
	}
}

func TestNewConfig_Duplicates(t *testing.T) {
	if _, err := NewConfig([]*Employee{{ID: "e1"}, {ID: "e1"}}, nil); err == nil {
		t.Error("重复员工应返回错误")
	}
	if _, err := NewConfig(nil, []*Shift{{ID: "s1"}, {ID: "s1"}}); err == nil {
		t.Error("重复班次应返回错误")
	}
}

func TestPreferences_PreferredSkills(t *testing.T) {
	p := DefaultPreferences()
	p.EmployeeShiftPreferences["e1"] = EmployeePreference{PreferSkill: []string{"cashier"}}

	if !p.PreferredSkills("e1").Has("cashier") {
		t.Error("e1 应偏好 cashier")
	}
	if len(p.PreferredSkills("e2")) != 0 {
		t.Error("e2 无偏好")
	}
}

func TestConfig_Name(t *testing.T) {
	cfg, _ := NewConfig(nil, nil)
	if cfg.Name() != "" {
		t.Errorf("Name() = %q", cfg.Name())
	}
	cfg.Meta["name"] = "Demo week"
	if cfg.Name() != "Demo week" {
		t.Errorf("Name() = %q", cfg.Name())
	}
}
