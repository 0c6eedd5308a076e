// Package dsl 提供投放规则的表达式求值，使用 CEL (Common Expression Language) 实现。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/openlanka/adkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("user", cel.DynType),
		cel.Variable("params", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Rule 是一条编译好的投放规则，可对任意候选反复求值。
//
// 表达式语法（CEL 标准语法）：
//   - 商品侧：item.category == "books" / item.price < 50000.0
//   - 用户侧："student" in user.categories / user.age >= 18
//   - 组合：item.category == "vehicles" && user.age >= 18
//
// 示例：
//   - `item.price <= 100000.0` → 限价投放
//   - `!("student" in user.categories) || item.category != "vehicles"` → 学生不投车
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译一条规则表达式。表达式为空时规则恒为真。
func Compile(expr string) (*Rule, error) {
	r := &Rule{expr: expr}
	if expr == "" {
		return r, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	r.prg = prg
	return r, nil
}

// Expr 返回规则原始表达式。
func (r *Rule) Expr() string { return r.expr }

// Eval 对候选求值，返回布尔结果。
// 表达式结果非布尔时返回错误；访问不存在的 key 需要用 has() 判存在性。
func (r *Rule) Eval(item *core.Item, rctx *core.RankContext) (bool, error) {
	if r.prg == nil {
		return true, nil
	}

	out, _, err := r.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RankContext) map[string]any {
	itemMap := map[string]any{
		"id":    "",
		"score": 0.0,
	}
	if item != nil {
		itemMap["id"] = item.ID
		itemMap["score"] = item.Score
		if c := item.Catalog; c != nil {
			itemMap["category"] = c.Category
			itemMap["price"] = c.Price
			itemMap["target_categories"] = c.TargetCategories
			itemMap["status"] = c.Status
		}
	}

	userMap := map[string]any{
		"id":         "",
		"age":        0,
		"location":   "",
		"categories": []string{},
	}
	var params map[string]any
	if rctx != nil {
		userMap["id"] = rctx.UserID
		if u := rctx.User; u != nil {
			userMap["age"] = u.Age
			userMap["location"] = u.Location
			if u.Categorization != nil {
				userMap["categories"] = u.Categorization.Categories
			}
		}
		params = rctx.Params
	}
	if params == nil {
		params = map[string]any{}
	}

	return map[string]any{
		"item":   itemMap,
		"user":   userMap,
		"params": params,
	}
}
