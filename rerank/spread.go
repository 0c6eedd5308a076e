package rerank

import (
	"context"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/pipeline"
)

// CategorySpread 是一个简单的类目打散节点：每个商品类目只保留排名最高的候选。
// 放在 SlateNode 之前可以避免整个槽位都是同一类商品。
// MaxPerCategory <= 0 按 1 处理。
type CategorySpread struct {
	MaxPerCategory int
}

func (n *CategorySpread) Name() string        { return "rerank.category_spread" }
func (n *CategorySpread) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *CategorySpread) Process(
	_ context.Context,
	_ *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.MaxPerCategory
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cate := ""
		if it.Catalog != nil {
			cate = it.Catalog.Category
		}
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}
	return out, nil
}
