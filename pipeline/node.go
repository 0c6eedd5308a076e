package pipeline

import (
	"context"

	"github.com/openlanka/adkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：从目录生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不可投放/不符定向规则的候选
	KindRank        Kind = "rank"        // 排序阶段：按相关性打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：截断、打散等槽位调优
	KindPostProcess Kind = "postprocess" // 后处理阶段：曝光回写等收尾动作
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，方便 Recall 生成、Filter 剔除、ReRank 截断等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RankContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
