package filter

import (
	"context"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/pkg/dsl"
)

// RuleFilter 按 CEL 表达式做投放规则过滤：表达式求值为 false 的候选被剔除。
// 规则由运营配置下发（如限价、人群互斥），逻辑不进代码。
type RuleFilter struct {
	rule *dsl.Rule
}

// NewRuleFilter 编译规则表达式并构建过滤器。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	rule, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{rule: rule}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RankContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.rule.Eval(item, rctx)
	if err != nil {
		// 求值失败不剔除：规则坏了宁可多投，不让展示请求失败
		return false, err
	}
	return !keep, nil
}
