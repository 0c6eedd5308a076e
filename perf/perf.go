// Package perf 聚合广告投放效果：曝光、点击、点击率与近期走势。
package perf

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openlanka/adkit/core"
)

// 点击率纳入排行所需的最低曝光数，样本太小的 CTR 没有参考意义。
const minViewsForRanking = 10

// 排行聚合的并发上限。
const maxConcurrentItems = 8

// Report 是单个商品的效果汇总。
type Report struct {
	ItemID string `json:"item_id"`
	Title  string `json:"title,omitempty"`

	Views  int64 `json:"views"`
	Clicks int64 `json:"clicks"`

	// CTR 是点击率百分比，保留两位小数。
	CTR float64 `json:"ctr"`

	UniqueClickers int64 `json:"unique_clickers"`

	// RecentClicks 是最近 7 天的点击数。
	RecentClicks int64 `json:"recent_clicks"`
}

// Aggregator 是效果聚合器，只读广告事件日志与目录。
type Aggregator struct {
	Catalog  core.CatalogStore
	AdEvents core.AdEventStore

	// Now 可注入时钟，零值时用 time.Now。
	Now func() time.Time
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Performance 返回单个商品的效果汇总，商品不存在时返回 NOT_FOUND。
func (a *Aggregator) Performance(ctx context.Context, itemID string) (*Report, error) {
	item, err := a.Catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, item)
}

func (a *Aggregator) report(ctx context.Context, item *core.CatalogItem) (*Report, error) {
	views, err := a.AdEvents.CountEvents(ctx, item.ID, core.AdEventView)
	if err != nil {
		return nil, err
	}
	clicks, err := a.AdEvents.CountEvents(ctx, item.ID, core.AdEventClick)
	if err != nil {
		return nil, err
	}
	clickers, err := a.AdEvents.UniqueClickers(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	recent, err := a.AdEvents.CountEventsSince(ctx, item.ID, core.AdEventClick, a.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return &Report{
		ItemID:         item.ID,
		Title:          item.Title,
		Views:          views,
		Clicks:         clicks,
		CTR:            ctr(views, clicks),
		UniqueClickers: clickers,
		RecentClicks:   recent,
	}, nil
}

// TopPerforming 返回 CTR 最高的前 limit 个商品。
// 只统计曝光数达到门槛的商品；同 CTR 按商品 ID 字典序。
func (a *Aggregator) TopPerforming(ctx context.Context, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 10
	}

	items, err := a.Catalog.ActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	reports := make([]*Report, 0, len(items))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentItems)
	for _, item := range items {
		item := item
		eg.Go(func() error {
			r, err := a.report(egCtx, item)
			if err != nil {
				return err
			}
			if r.Views < minViewsForRanking {
				return nil
			}
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CTR != reports[j].CTR {
			return reports[i].CTR > reports[j].CTR
		}
		return reports[i].ItemID < reports[j].ItemID
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// ctr 计算点击率百分比，保留两位小数；零曝光时为 0。
func ctr(views, clicks int64) float64 {
	if views <= 0 {
		return 0
	}
	return math.Round(float64(clicks)/float64(views)*100*100) / 100
}
