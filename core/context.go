package core

import "github.com/openlanka/adkit/pkg/utils"

// RankContext 承载一次投放请求的用户侧信息，贯穿整个 Pipeline 透传。
// User / Profile 允许为 nil：匿名请求或画像尚未生成时各打分项自行跳过。
type RankContext struct {
	UserID string

	// User 是门户用户记录（人口属性 + 分类标签）。
	User *User

	// Profile 是搜索行为衍生的兴趣画像快照。
	Profile *InterestProfile

	// Labels 是请求级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数：limit、position、实验开关等。
	Params map[string]any
}

// Categories 返回用户标签集合；用户缺失时为空集而非 nil 解引用。
func (rctx *RankContext) Categories() map[string]bool {
	if rctx == nil || rctx.User == nil {
		return map[string]bool{}
	}
	return rctx.User.Categorization.CategorySet()
}

// InterestScore 读取某主题兴趣分，画像缺失时为 0。
func (rctx *RankContext) InterestScore(topic Topic) int {
	if rctx == nil {
		return 0
	}
	return rctx.Profile.InterestScore(topic)
}

// PutLabel 写入请求级 Label。
func (rctx *RankContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// Param 按 key 读取请求参数，缺失时返回零值。
func Param[T any](rctx *RankContext, key string) (T, bool) {
	var zero T
	if rctx == nil || rctx.Params == nil {
		return zero, false
	}
	v, ok := rctx.Params[key]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
