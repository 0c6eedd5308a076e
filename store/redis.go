package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/openlanka/adkit/core"
)

// RedisStore 是 Redis 实现的全量存储，生产环境使用。
//
// 数据布局：
//   - 文档（用户/画像/商品/事件体）存 JSON 字符串
//   - 追加日志存有序集合：score 为事件时间戳，窗口查询走 ZCount / ZRevRangeByScore
//   - 计数器存 Hash，HIncrBy 容忍并发下的最终一致
type RedisStore struct {
	client *redis.Client
}

// Redis key 布局。事件日志只追加，不提供删除入口。
const (
	keySearchEvent   = "adkit:search:event:"   // + eventID → JSON
	keySearchByUser  = "adkit:search:user:"    // + userID → zset(ts, eventID)
	keySearchAll     = "adkit:search:all"      //          → zset(ts, eventID)
	keyUser          = "adkit:user:"           // + userID → JSON
	keyProfile       = "adkit:profile:"        // + userID → JSON
	keyCatalogItem   = "adkit:catalog:item:"   // + itemID → JSON
	keyCatalogActive = "adkit:catalog:active"  //          → zset(0, itemID)
	keyCatalogViews  = "adkit:catalog:views"   //          → hash(itemID, count)
	keyCatalogClicks = "adkit:catalog:clicks"  //          → hash(itemID, count)
	keyAdEvents      = "adkit:ads:events:"     // + kind:itemID → zset(ts, eventID)
	keyAdUserViews   = "adkit:ads:user_views:" // + userID:itemID → zset(ts, eventID)
	keyAdClickers    = "adkit:ads:clickers:"   // + itemID → set(userID)
	keyClicksByItem  = "adkit:ads:click_totals" //         → hash(itemID, count)
)

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient 复用既有连接（测试或连接池共享时）。
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Close() error { return r.client.Close() }

func tsScore(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// --- SearchEventStore ---

func (r *RedisStore) AppendSearch(ctx context.Context, ev *core.SearchEvent) (string, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}

	score := tsScore(ev.Timestamp)
	pipe := r.client.Pipeline()
	pipe.Set(ctx, keySearchEvent+ev.ID, data, 0)
	if ev.UserID != "" {
		pipe.ZAdd(ctx, keySearchByUser+ev.UserID, redis.Z{Score: score, Member: ev.ID})
	}
	pipe.ZAdd(ctx, keySearchAll, redis.Z{Score: score, Member: ev.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return ev.ID, nil
}

func (r *RedisStore) AssociateClick(ctx context.Context, eventID, clickedResult string) error {
	data, err := r.client.Get(ctx, keySearchEvent+eventID).Bytes()
	if err == redis.Nil {
		return core.ErrStoreNotFound
	}
	if err != nil {
		return err
	}

	var ev core.SearchEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	// 只回填一次；并发下 last-write-wins，与计数器同级别的容忍
	if ev.ClickedResult != "" {
		return nil
	}
	ev.ClickedResult = clickedResult

	updated, err := json.Marshal(&ev)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keySearchEvent+eventID, updated, 0).Err()
}

func (r *RedisStore) SearchesSince(ctx context.Context, userID string, since time.Time) ([]*core.SearchEvent, error) {
	return r.searchesByScore(ctx, keySearchByUser+userID, since, 0)
}

func (r *RedisStore) RecentSearches(ctx context.Context, userID string, limit int) ([]*core.SearchEvent, error) {
	return r.searchesByScore(ctx, keySearchByUser+userID, time.Time{}, limit)
}

func (r *RedisStore) AllSearchesSince(ctx context.Context, since time.Time) ([]*core.SearchEvent, error) {
	return r.searchesByScore(ctx, keySearchAll, since, 0)
}

func (r *RedisStore) searchesByScore(ctx context.Context, key string, since time.Time, limit int) ([]*core.SearchEvent, error) {
	rangeBy := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if !since.IsZero() {
		rangeBy.Min = strconv.FormatFloat(tsScore(since), 'f', -1, 64)
	}
	if limit > 0 {
		rangeBy.Count = int64(limit)
	}

	// zset 按时间升序，RevRange 得到最新在前
	ids, err := r.client.ZRevRangeByScore(ctx, key, rangeBy).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keySearchEvent + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*core.SearchEvent, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var ev core.SearchEvent
		if json.Unmarshal([]byte(s), &ev) == nil {
			out = append(out, &ev)
		}
	}
	return out, nil
}

// --- UserStore ---

// PutUser 写入用户记录（注册与种子数据用）。
func (r *RedisStore) PutUser(ctx context.Context, u *core.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyUser+u.ID, data, 0).Err()
}

func (r *RedisStore) GetUser(ctx context.Context, userID string) (*core.User, error) {
	data, err := r.client.Get(ctx, keyUser+userID).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	var u core.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *RedisStore) SaveCategorization(ctx context.Context, userID string, c *core.Categorization) error {
	u, err := r.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	u.Categorization = c
	return r.PutUser(ctx, u)
}

// --- ProfileStore ---

func (r *RedisStore) GetProfile(ctx context.Context, userID string) (*core.InterestProfile, error) {
	data, err := r.client.Get(ctx, keyProfile+userID).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	var p core.InterestProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisStore) PutProfile(ctx context.Context, p *core.InterestProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyProfile+p.UserID, data, 0).Err()
}

// --- CatalogStore ---

func (r *RedisStore) GetItem(ctx context.Context, itemID string) (*core.CatalogItem, error) {
	data, err := r.client.Get(ctx, keyCatalogItem+itemID).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	var c core.CatalogItem
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	r.fillCounters(ctx, &c)
	return &c, nil
}

func (r *RedisStore) ActiveItems(ctx context.Context) ([]*core.CatalogItem, error) {
	// score 统一为 0，ZRange 按 member 字典序返回，遍历顺序可复现
	ids, err := r.client.ZRange(ctx, keyCatalogActive, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyCatalogItem + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	views, _ := r.client.HGetAll(ctx, keyCatalogViews).Result()
	clicks, _ := r.client.HGetAll(ctx, keyCatalogClicks).Result()

	out := make([]*core.CatalogItem, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var c core.CatalogItem
		if json.Unmarshal([]byte(s), &c) != nil {
			continue
		}
		if c.Status != core.ItemStatusApproved {
			continue
		}
		c.Views, _ = strconv.ParseInt(views[c.ID], 10, 64)
		c.Clicks, _ = strconv.ParseInt(clicks[c.ID], 10, 64)
		out = append(out, &c)
	}
	return out, nil
}

func (r *RedisStore) PutItem(ctx context.Context, item *core.CatalogItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, keyCatalogItem+item.ID, data, 0)
	pipe.ZAdd(ctx, keyCatalogActive, redis.Z{Score: 0, Member: item.ID})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) IncrViews(ctx context.Context, itemID string, delta int64) error {
	return r.client.HIncrBy(ctx, keyCatalogViews, itemID, delta).Err()
}

func (r *RedisStore) IncrClicks(ctx context.Context, itemID string, delta int64) error {
	return r.client.HIncrBy(ctx, keyCatalogClicks, itemID, delta).Err()
}

func (r *RedisStore) fillCounters(ctx context.Context, c *core.CatalogItem) {
	if v, err := r.client.HGet(ctx, keyCatalogViews, c.ID).Result(); err == nil {
		c.Views, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := r.client.HGet(ctx, keyCatalogClicks, c.ID).Result(); err == nil {
		c.Clicks, _ = strconv.ParseInt(v, 10, 64)
	}
}

// --- AdEventStore ---

func adEventsKey(kind core.AdEventKind, itemID string) string {
	return keyAdEvents + string(kind) + ":" + itemID
}

func (r *RedisStore) AppendEvent(ctx context.Context, ev *core.AdEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	score := tsScore(ev.Timestamp)

	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, adEventsKey(ev.Kind, ev.ItemID), redis.Z{Score: score, Member: ev.ID})
	if ev.Kind == core.AdEventView && ev.UserID != "" {
		pipe.ZAdd(ctx, keyAdUserViews+ev.UserID+":"+ev.ItemID, redis.Z{Score: score, Member: ev.ID})
	}
	if ev.Kind == core.AdEventClick {
		pipe.HIncrBy(ctx, keyClicksByItem, ev.ItemID, 1)
		if ev.UserID != "" {
			pipe.SAdd(ctx, keyAdClickers+ev.ItemID, ev.UserID)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) CountEvents(ctx context.Context, itemID string, kind core.AdEventKind) (int64, error) {
	return r.client.ZCard(ctx, adEventsKey(kind, itemID)).Result()
}

func (r *RedisStore) CountEventsSince(ctx context.Context, itemID string, kind core.AdEventKind, since time.Time) (int64, error) {
	min := strconv.FormatFloat(tsScore(since), 'f', -1, 64)
	return r.client.ZCount(ctx, adEventsKey(kind, itemID), min, "+inf").Result()
}

func (r *RedisStore) CountUserViewsSince(ctx context.Context, userID, itemID string, since time.Time) (int64, error) {
	min := strconv.FormatFloat(tsScore(since), 'f', -1, 64)
	return r.client.ZCount(ctx, keyAdUserViews+userID+":"+itemID, min, "+inf").Result()
}

func (r *RedisStore) UniqueClickers(ctx context.Context, itemID string) (int64, error) {
	return r.client.SCard(ctx, keyAdClickers+itemID).Result()
}

func (r *RedisStore) ClicksByItem(ctx context.Context) (map[string]int64, error) {
	vals, err := r.client.HGetAll(ctx, keyClicksByItem).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(vals))
	for id, raw := range vals {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse click total for %s: %w", id, err)
		}
		out[id] = n
	}
	return out, nil
}

// 确保 RedisStore 实现了全部领域存储接口
var (
	_ core.SearchEventStore = (*RedisStore)(nil)
	_ core.UserStore        = (*RedisStore)(nil)
	_ core.ProfileStore     = (*RedisStore)(nil)
	_ core.CatalogStore     = (*RedisStore)(nil)
	_ core.AdEventStore     = (*RedisStore)(nil)
)
