package rerank

import (
	"context"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/pipeline"
)

// SlateNode 是槽位截断节点，在排序之后截取前 N 个候选作为槽位。
//
// 使用场景：
//   - 侧边栏 5 个、横幅 3 个等固定槽位数
//   - 配合打散节点使用时放在最后
type SlateNode struct {
	// N 是槽位数量。
	// 如果 N <= 0，则返回所有候选（不截断）。
	N int
}

func (n *SlateNode) Name() string        { return "rerank.slate" }
func (n *SlateNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *SlateNode) Process(
	_ context.Context,
	_ *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}
	if len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
