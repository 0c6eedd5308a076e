// Package ads 是广告投放服务：组装请求上下文、驱动 Pipeline、
// 落曝光/点击事件。展示链路上的错误一律降级，绝不抛给调用方。
package ads

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/feature"
	"github.com/openlanka/adkit/pipeline"
	"github.com/openlanka/adkit/recall"
)

// DefaultLimit 是默认槽位数。
const DefaultLimit = 3

// 槽位来源标记，测试与观测用。
const (
	ServedPersonalized = "personalized"
	ServedPopular      = "popular"
	ServedEmpty        = "empty"
)

// Slate 是一次投放请求的结果。
type Slate struct {
	Ads []core.Ad `json:"ads"`

	// ServedFrom 标记槽位来源：personalized / popular / empty。
	ServedFrom string `json:"served_from"`
}

// Service 是投放服务门面。
type Service struct {
	Users    core.UserStore
	Profiles core.ProfileStore
	Catalog  core.CatalogStore
	AdEvents core.AdEventStore

	// Pipeline 是个性化链路：召回 -> 过滤 -> 打分 -> 重排。
	Pipeline *pipeline.Pipeline

	// Fallback 是兜底召回源，零值时按需构造热门位。
	Fallback recall.Source

	// Features 可选：排序前用外部特征源补齐缺失的年龄/地区，
	// 定向分项才有数据可算。为空时跳过补全。
	Features feature.UserFeatureSource

	// Now 可注入时钟，零值时用 time.Now。
	Now func() time.Time

	Log *zap.Logger
}

func NewService(
	users core.UserStore,
	profiles core.ProfileStore,
	catalog core.CatalogStore,
	adEvents core.AdEventStore,
	p *pipeline.Pipeline,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Users:    users,
		Profiles: profiles,
		Catalog:  catalog,
		AdEvents: adEvents,
		Pipeline: p,
		Log:      log,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetPersonalizedAds 返回某用户的个性化广告槽位。
// 任何一步失败都降级到热门兜底位；链路跑成功但筛空时直接返回空槽位。
// 兜底也失败时同样返回空槽位，
// 方法本身永远返回 nil error：展示绝不能因为投放挂掉。
// 返回的每个槽位都会落一条曝光事件并递增商品曝光计数。
func (s *Service) GetPersonalizedAds(ctx context.Context, userID string, limit int, position string) *Slate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	items, servedFrom := s.rank(ctx, userID, limit, position)
	if len(items) > limit {
		items = items[:limit]
	}
	if len(items) == 0 {
		return &Slate{Ads: []core.Ad{}, ServedFrom: ServedEmpty}
	}

	s.recordViews(ctx, userID, position, items)

	ads := make([]core.Ad, 0, len(items))
	for _, it := range items {
		ads = append(ads, formatAd(it))
	}
	return &Slate{Ads: ads, ServedFrom: servedFrom}
}

// rank 跑个性化链路，失败时换热门兜底。
func (s *Service) rank(ctx context.Context, userID string, limit int, position string) ([]*core.Item, string) {
	if userID != "" && s.Pipeline != nil {
		rctx, err := s.buildContext(ctx, userID, limit, position)
		if err == nil {
			// 链路跑成功就算数：过滤后为空时返回空槽位而非兜底，
			// 不然被库存/规则挡掉的商品会从兜底位漏回来。
			items, err := s.Pipeline.Run(ctx, rctx, nil)
			if err == nil {
				return items, ServedPersonalized
			}
			s.Log.Warn("personalized pipeline failed, falling back",
				zap.String("user_id", userID),
				zap.Error(err))
		} else if !core.IsNotFound(err) {
			s.Log.Warn("rank context build failed, falling back",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}

	items, err := s.fallback(ctx, limit)
	if err != nil {
		s.Log.Error("popular fallback failed", zap.Error(err))
		return nil, ServedEmpty
	}
	return items, ServedPopular
}

// buildContext 组装请求上下文。用户不存在返回 NOT_FOUND（走兜底）；
// 画像缺失不算错，打分项对 nil 画像自行跳过。
func (s *Service) buildContext(ctx context.Context, userID string, limit int, position string) (*core.RankContext, error) {
	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user = feature.Hydrate(ctx, s.Features, user)

	var prof *core.InterestProfile
	if s.Profiles != nil {
		p, err := s.Profiles.GetProfile(ctx, userID)
		if err == nil {
			prof = p
		} else if !core.IsNotFound(err) {
			return nil, err
		}
	}

	return &core.RankContext{
		UserID:  userID,
		User:    user,
		Profile: prof,
		Params: map[string]any{
			"limit":    limit,
			"position": position,
		},
	}, nil
}

func (s *Service) fallback(ctx context.Context, limit int) ([]*core.Item, error) {
	src := s.Fallback
	if src == nil {
		src = &recall.Popular{Store: s.Catalog, AdEvents: s.AdEvents, Limit: limit}
	}
	return src.Recall(ctx, nil)
}

// recordViews 为每个返回槽位落曝光事件并递增计数。
// 曝光写入失败只记日志，不影响返回结果。
func (s *Service) recordViews(ctx context.Context, userID, position string, items []*core.Item) {
	now := s.now()
	for _, it := range items {
		ev := &core.AdEvent{
			UserID:    userID,
			ItemID:    it.ID,
			Kind:      core.AdEventView,
			Source:    position,
			Timestamp: now,
		}
		if err := s.AdEvents.AppendEvent(ctx, ev); err != nil {
			s.Log.Warn("record ad view failed",
				zap.String("item_id", it.ID),
				zap.Error(err))
			continue
		}
		if err := s.Catalog.IncrViews(ctx, it.ID, 1); err != nil {
			s.Log.Warn("increment views failed",
				zap.String("item_id", it.ID),
				zap.Error(err))
		}
	}
}

// TrackAdClick 记录一次广告点击并递增商品点击计数。
// 商品不存在时返回 NOT_FOUND。
func (s *Service) TrackAdClick(ctx context.Context, userID, itemID, source string) error {
	if itemID == "" {
		return core.NewDomainError(core.ModuleAds, core.ErrorCodeInvalidInput, "item id is required")
	}
	if _, err := s.Catalog.GetItem(ctx, itemID); err != nil {
		if core.IsNotFound(err) {
			return core.NewDomainError(core.ModuleAds, core.ErrorCodeNotFound, "catalog item not found: "+itemID)
		}
		return core.NewDomainError(core.ModuleAds, core.ErrorCodeUnavailable, "load item: "+err.Error())
	}

	ev := &core.AdEvent{
		UserID:    userID,
		ItemID:    itemID,
		Kind:      core.AdEventClick,
		Source:    source,
		Timestamp: s.now(),
	}
	if err := s.AdEvents.AppendEvent(ctx, ev); err != nil {
		return core.NewDomainError(core.ModuleAds, core.ErrorCodeUnavailable, "append click event: "+err.Error())
	}
	if err := s.Catalog.IncrClicks(ctx, itemID, 1); err != nil {
		s.Log.Warn("increment clicks failed",
			zap.String("item_id", itemID),
			zap.Error(err))
	}
	return nil
}

func formatAd(it *core.Item) core.Ad {
	ad := core.Ad{
		ItemID:         it.ID,
		RelevanceScore: it.Score,
		Link:           "/marketplace/item/" + it.ID,
	}
	if c := it.Catalog; c != nil {
		ad.Title = c.Title
		ad.Description = c.Description
		ad.Price = c.Price
		ad.Category = c.Category
		ad.ImageURL = c.ImageURL
	}
	return ad
}
