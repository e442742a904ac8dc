package router

import (
	"testing"

	"github.com/paiban/shiftplan/pkg/tools"
)

func TestRouter_Route(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		tool   string
		routed bool
	}{
		{"生成", "Generate schedule", tools.ToolGenerate, true},
		{"构建", "please build one", tools.ToolGenerate, true},
		{"常见拼写错误", "  SCHEDULA next week", tools.ToolGenerate, true},
		{"校验", "check it", tools.ToolValidate, true},
		{"违规", "any violations?", tools.ToolValidate, true},
		{"评分", "score", tools.ToolScore, true},
		{"公平性", "is it fair", tools.ToolScore, true},
		{"说明", "why e1?", tools.ToolExplain, true},
		{"展示", "show me", tools.ToolExplain, true},
		{"生成优先于校验", "generate and validate", tools.ToolGenerate, true},
		{"校验优先于说明", "check and explain", tools.ToolValidate, true},
		{"未命中", "hello", "", false},
		{"空输入", "   ", "", false},
	}

	r := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, ok := r.Route(tt.input)
			if ok != tt.routed || tool != tt.tool {
				t.Errorf("Route(%q) = (%q, %v), expected (%q, %v)", tt.input, tool, ok, tt.tool, tt.routed)
			}
		})
	}
}

func TestRouter_CustomRules(t *testing.T) {
	r := New(Rule{Match: ContainsAny("排班"), Tool: tools.ToolGenerate})

	if tool, ok := r.Route("帮我排班"); !ok || tool != tools.ToolGenerate {
		t.Errorf("Route() = (%q, %v)", tool, ok)
	}
	if _, ok := r.Route("generate"); ok {
		t.Error("自定义规则不应包含内置关键词")
	}
}
