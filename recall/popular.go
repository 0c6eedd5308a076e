package recall

import (
	"context"
	"math/rand"
	"sort"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/pipeline"
	"github.com/openlanka/adkit/pkg/utils"
)

// Popular 是热门兜底召回源：按历史点击总数排序，轻度打散。
// 个性化不可用（匿名用户、画像缺失、存储故障）时的兜底位由它产出，
// 全程不触碰任何个性化状态。
type Popular struct {
	Store    core.CatalogStore
	AdEvents core.AdEventStore

	// Limit 是兜底位数量；取点击榜前 2×Limit 再打散，避免兜底位一成不变。
	Limit int

	// Rand 可注入随机源（测试固定种子），零值时用全局源。
	Rand *rand.Rand
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RankContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Popular) Recall(
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
	if len(catalog) == 0 {
		return nil, nil
	}

	clicks := map[string]int64{}
	if r.AdEvents != nil {
		if got, err := r.AdEvents.ClicksByItem(ctx); err == nil {
			clicks = got
		}
		// 点击计数读不到就按全零排序，兜底位退化为目录顺序
	}

	sort.SliceStable(catalog, func(i, j int) bool {
		if clicks[catalog[i].ID] != clicks[catalog[j].ID] {
			return clicks[catalog[i].ID] > clicks[catalog[j].ID]
		}
		return catalog[i].ID < catalog[j].ID
	})

	limit := r.Limit
	if limit <= 0 {
		limit = 5
	}
	if len(catalog) > 2*limit {
		catalog = catalog[:2*limit]
	}

	// 轻度打散
	shuffle := r.shuffleFn()
	shuffle(len(catalog), func(i, j int) {
		catalog[i], catalog[j] = catalog[j], catalog[i]
	})
	if len(catalog) > limit {
		catalog = catalog[:limit]
	}

	out := make([]*core.Item, 0, len(catalog))
	for _, c := range catalog {
		it := core.NewItem(c)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *Popular) shuffleFn() func(n int, swap func(i, j int)) {
	if r.Rand != nil {
		return r.Rand.Shuffle
	}
	return rand.Shuffle
}
