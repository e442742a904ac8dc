package model

import (
	"sort"
	"testing"
)

func TestShift_DurationHours(t *testing.T) {
	tests := []struct {
		name     string
		shift    Shift
		expected float64
	}{
		{"白班8小时", Shift{Start: day(5, 9), End: day(5, 17)}, 8},
		{"跨天夜班", Shift{Start: day(5, 22), End: day(6, 6)}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.shift.DurationHours(); result != tt.expected {
				t.Errorf("DurationHours() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestByStart_Stable(t *testing.T) {
	shifts := []*Shift{
		{ID: "late", Start: day(6, 9)},
		{ID: "a", Start: day(5, 9)},
		{ID: "b", Start: day(5, 9)},
	}
	sort.SliceStable(shifts, ByStart(shifts))

	got := []string{shifts[0].ID, shifts[1].ID, shifts[2].ID}
	want := []string{"a", "b", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, expected %v", got, want)
		}
	}
}
