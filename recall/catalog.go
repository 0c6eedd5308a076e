package recall

import (
	"context"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/pipeline"
	"github.com/openlanka/adkit/pkg/utils"
)

// Catalog 是目录召回源：取出全部 approved 状态的商品作为候选集。
// 库存/状态的逐条判定留给 filter 阶段，这里只做粗筛。
// Catalog 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Catalog struct {
	Store core.CatalogStore
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RankContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Catalog) Recall(
	ctx context.Context,
	_ *core.RankContext,
) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, nil
	}

	catalog, err := r.Store.ActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(catalog))
	for _, c := range catalog {
		it := core.NewItem(c)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
