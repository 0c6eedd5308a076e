// Package track 负责搜索行为的采集与趋势聚合：
// 每次搜索落一条事件日志，并同步触发该用户的画像重算。
package track

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/profile"
)

// DefaultHistoryLimit 是搜索历史的默认返回条数。
const DefaultHistoryLimit = 50

// Tracker 是搜索采集服务。
type Tracker struct {
	Events     core.SearchEventStore
	Aggregator *profile.Aggregator

	// Now 可注入时钟，零值时用 time.Now。
	Now func() time.Time

	Log *zap.Logger
}

func NewTracker(events core.SearchEventStore, agg *profile.Aggregator, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{Events: events, Aggregator: agg, Log: log}
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// TrackSearch 记录一次搜索并重算该用户的画像，返回事件 ID。
// 查询串入库前统一小写；空白查询安静跳过，返回空 ID。
// 画像重算失败只记日志：采集路径绝不能反过来弄坏搜索本身。
func (t *Tracker) TrackSearch(ctx context.Context, userID, query, category string, resultsCount int, sessionID string) (string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return "", nil
	}

	ev := &core.SearchEvent{
		UserID:       userID,
		Query:        query,
		Category:     category,
		ResultsCount: resultsCount,
		SessionID:    sessionID,
		Timestamp:    t.now(),
	}
	id, err := t.Events.AppendSearch(ctx, ev)
	if err != nil {
		return "", core.NewDomainError(core.ModuleTracker, core.ErrorCodeUnavailable, "append search event: "+err.Error())
	}

	if t.Aggregator != nil && userID != "" {
		if _, err := t.Aggregator.Recompute(ctx, userID); err != nil {
			t.Log.Warn("profile recompute failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	t.Log.Debug("search tracked",
		zap.String("event_id", id),
		zap.String("user_id", userID),
		zap.String("query", query))
	return id, nil
}

// TrackClick 为既有搜索事件回填点击结果，事件不存在时返回 NOT_FOUND。
func (t *Tracker) TrackClick(ctx context.Context, eventID, clickedResult string) error {
	if eventID == "" || clickedResult == "" {
		return core.NewDomainError(core.ModuleTracker, core.ErrorCodeInvalidInput, "event id and clicked result are required")
	}
	if err := t.Events.AssociateClick(ctx, eventID, clickedResult); err != nil {
		if core.IsNotFound(err) {
			return core.NewDomainError(core.ModuleTracker, core.ErrorCodeNotFound, "search event not found: "+eventID)
		}
		return core.NewDomainError(core.ModuleTracker, core.ErrorCodeUnavailable, "associate click: "+err.Error())
	}
	return nil
}

// SearchHistory 返回用户最近的搜索记录，最新在前。limit<=0 时取默认值。
func (t *Tracker) SearchHistory(ctx context.Context, userID string, limit int) ([]*core.SearchEvent, error) {
	if userID == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return t.Events.RecentSearches(ctx, userID, limit)
}

// QueryCount 是查询串及其出现次数。
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// CategoryShare 是类目及其搜索占比。
type CategoryShare struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TrendingSearches 返回最近 days 天内全站最热的查询串，按频次倒序，
// 同频按字典序。days<=0 取 7 天。
func (t *Tracker) TrendingSearches(ctx context.Context, days, limit int) ([]QueryCount, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 10
	}

	events, err := t.Events.AllSearchesSince(ctx, t.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleTracker, core.ErrorCodeUnavailable, "load searches: "+err.Error())
	}

	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Query]++
	}

	out := make([]QueryCount, 0, len(counts))
	for q, n := range counts {
		out = append(out, QueryCount{Query: q, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PopularCategories 返回最近 days 天内按搜索量排序的类目分布。
func (t *Tracker) PopularCategories(ctx context.Context, days int) ([]CategoryShare, error) {
	if days <= 0 {
		days = 7
	}

	events, err := t.Events.AllSearchesSince(ctx, t.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleTracker, core.ErrorCodeUnavailable, "load searches: "+err.Error())
	}

	counts := make(map[string]int)
	for _, ev := range events {
		if ev.Category != "" {
			counts[ev.Category]++
		}
	}

	out := make([]CategoryShare, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryShare{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
