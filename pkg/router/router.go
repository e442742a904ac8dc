// Package router 按关键词把自然语言请求映射为工具名称
package router

import (
	"strings"

	"github.com/paiban/shiftplan/pkg/tools"
)

// Predicate 判断规范化后的文本是否命中
type Predicate func(text string) bool

// Rule 一条路由规则
type Rule struct {
	Match Predicate
	Tool  string
}

// Router 按顺序匹配规则，首个命中即返回
type Router struct {
	rules []Rule
}

// ContainsAny 文本包含任一关键词即命中
func ContainsAny(keywords ...string) Predicate {
	return func(text string) bool {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return true
			}
		}
		return false
	}
}

// New 使用给定规则创建路由器
func New(rules ...Rule) *Router {
	return &Router{rules: rules}
}

// Default 返回内置的四条规则；顺序决定优先级
func Default() *Router {
	return New(
		Rule{ContainsAny("generate", "build", "create schedule", "make schedule", "schedula"), tools.ToolGenerate},
		Rule{ContainsAny("validate", "check", "violations"), tools.ToolValidate},
		Rule{ContainsAny("score", "fair"), tools.ToolScore},
		Rule{ContainsAny("explain", "why", "show"), tools.ToolExplain},
	)
}

// Route 返回命中的工具名称，未命中时 ok=false
func (r *Router) Route(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range r.rules {
		if rule.Match(t) {
			return rule.Tool, true
		}
	}
	return "", false
}
