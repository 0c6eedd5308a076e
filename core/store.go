package core

import (
	"context"
	"time"
)

// 存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 事件日志是 append-only 的：接口上不提供改写/删除事件的操作，
//     唯一的回填入口是 SearchEventStore.AssociateClick

// SearchEventStore 是搜索事件日志存储。
type SearchEventStore interface {
	// AppendSearch 追加一条搜索事件，返回事件 ID。
	AppendSearch(ctx context.Context, ev *SearchEvent) (string, error)

	// AssociateClick 为既有事件回填 clicked_result，至多生效一次。
	// 事件不存在时返回 NOT_FOUND。
	AssociateClick(ctx context.Context, eventID, clickedResult string) error

	// SearchesSince 返回用户在 since 之后的搜索事件，按时间倒序（最新在前）。
	SearchesSince(ctx context.Context, userID string, since time.Time) ([]*SearchEvent, error)

	// RecentSearches 返回用户最近的 limit 条搜索事件，按时间倒序。
	RecentSearches(ctx context.Context, userID string, limit int) ([]*SearchEvent, error)

	// AllSearchesSince 返回全体用户在 since 之后的搜索事件（趋势聚合用）。
	AllSearchesSince(ctx context.Context, since time.Time) ([]*SearchEvent, error)
}

// UserStore 是用户记录存储。衍生分类字段只通过 SaveCategorization 写入。
type UserStore interface {
	// GetUser 读取用户，不存在时返回 NOT_FOUND。
	GetUser(ctx context.Context, userID string) (*User, error)

	// SaveCategorization 整体覆盖写入用户的分类状态。
	SaveCategorization(ctx context.Context, userID string, c *Categorization) error
}

// ProfileStore 是兴趣画像快照存储，按用户 upsert、整体覆盖。
type ProfileStore interface {
	// GetProfile 读取画像，不存在时返回 NOT_FOUND。
	GetProfile(ctx context.Context, userID string) (*InterestProfile, error)

	// PutProfile 整体覆盖写入画像（upsert，按 UserID 唯一）。
	PutProfile(ctx context.Context, p *InterestProfile) error
}

// CatalogStore 是广告目录存储。排序阶段只读，计数器递增除外。
type CatalogStore interface {
	// GetItem 读取单个商品，不存在时返回 NOT_FOUND。
	GetItem(ctx context.Context, itemID string) (*CatalogItem, error)

	// ActiveItems 返回全部 approved 状态的商品，遍历顺序要求可复现。
	ActiveItems(ctx context.Context) ([]*CatalogItem, error)

	// PutItem 写入/覆盖商品（目录管理侧使用）。
	PutItem(ctx context.Context, item *CatalogItem) error

	// IncrViews / IncrClicks 递增商品计数器，容忍并发下的最终一致。
	IncrViews(ctx context.Context, itemID string, delta int64) error
	IncrClicks(ctx context.Context, itemID string, delta int64) error
}

// AdEventStore 是广告曝光/点击日志存储，只写与聚合计数。
type AdEventStore interface {
	// AppendEvent 追加一条曝光或点击事件。
	AppendEvent(ctx context.Context, ev *AdEvent) error

	// CountEvents 统计某商品的某类事件总数。
	CountEvents(ctx context.Context, itemID string, kind AdEventKind) (int64, error)

	// CountEventsSince 统计某商品在 since 之后的某类事件数。
	CountEventsSince(ctx context.Context, itemID string, kind AdEventKind, since time.Time) (int64, error)

	// CountUserViewsSince 统计某用户对某商品在 since 之后的曝光次数
	// （多样性惩罚的数据来源）。
	CountUserViewsSince(ctx context.Context, userID, itemID string, since time.Time) (int64, error)

	// UniqueClickers 统计点击过某商品的去重用户数。
	UniqueClickers(ctx context.Context, itemID string) (int64, error)

	// ClicksByItem 返回全量商品的点击总数（兜底位按点击排序用）。
	ClicksByItem(ctx context.Context) (map[string]int64, error)
}
