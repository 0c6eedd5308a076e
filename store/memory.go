package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openlanka/adkit/core"
)

// MemoryStore 是内存实现的全量存储，用于测试/开发/原型。
// 一把读写锁罩住所有表；进程重启后数据丢失。
type MemoryStore struct {
	mu sync.RWMutex

	searchEvents map[string]*core.SearchEvent
	searchOrder  []string // 事件 ID 按追加顺序

	users    map[string]*core.User
	profiles map[string]*core.InterestProfile

	items     map[string]*core.CatalogItem
	itemOrder []string

	adEvents []*core.AdEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		searchEvents: make(map[string]*core.SearchEvent),
		users:        make(map[string]*core.User),
		profiles:     make(map[string]*core.InterestProfile),
		items:        make(map[string]*core.CatalogItem),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

// --- SearchEventStore ---

func (m *MemoryStore) AppendSearch(_ context.Context, ev *core.SearchEvent) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	m.searchEvents[ev.ID] = ev
	m.searchOrder = append(m.searchOrder, ev.ID)
	return ev.ID, nil
}

func (m *MemoryStore) AssociateClick(_ context.Context, eventID, clickedResult string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.searchEvents[eventID]
	if !ok {
		return core.ErrStoreNotFound
	}
	// 只回填一次，后续调用为幂等 no-op
	if ev.ClickedResult == "" {
		ev.ClickedResult = clickedResult
	}
	return nil
}

func (m *MemoryStore) SearchesSince(_ context.Context, userID string, since time.Time) ([]*core.SearchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.SearchEvent, 0, 16)
	for _, id := range m.searchOrder {
		ev := m.searchEvents[id]
		if ev.UserID == userID && !ev.Timestamp.Before(since) {
			out = append(out, ev)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) RecentSearches(_ context.Context, userID string, limit int) ([]*core.SearchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.SearchEvent, 0, 16)
	for _, id := range m.searchOrder {
		ev := m.searchEvents[id]
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) AllSearchesSince(_ context.Context, since time.Time) ([]*core.SearchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.SearchEvent, 0, len(m.searchOrder))
	for _, id := range m.searchOrder {
		ev := m.searchEvents[id]
		if !ev.Timestamp.Before(since) {
			out = append(out, ev)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// --- UserStore ---

// PutUser 写入用户记录（测试与种子数据用）。
func (m *MemoryStore) PutUser(_ context.Context, u *core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, userID string) (*core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return u, nil
}

func (m *MemoryStore) SaveCategorization(_ context.Context, userID string, c *core.Categorization) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return core.ErrStoreNotFound
	}
	u.Categorization = c
	return nil
}

// --- ProfileStore ---

func (m *MemoryStore) GetProfile(_ context.Context, userID string) (*core.InterestProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return p, nil
}

func (m *MemoryStore) PutProfile(_ context.Context, p *core.InterestProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

// --- CatalogStore ---

func (m *MemoryStore) GetItem(_ context.Context, itemID string) (*core.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.items[itemID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return c, nil
}

func (m *MemoryStore) ActiveItems(_ context.Context) ([]*core.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// 按写入顺序遍历，保证排序阶段拿到可复现的候选顺序
	out := make([]*core.CatalogItem, 0, len(m.itemOrder))
	for _, id := range m.itemOrder {
		if c := m.items[id]; c.Status == core.ItemStatusApproved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemoryStore) PutItem(_ context.Context, item *core.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, seen := m.items[item.ID]; !seen {
		m.itemOrder = append(m.itemOrder, item.ID)
	}
	m.items[item.ID] = item
	return nil
}

func (m *MemoryStore) IncrViews(_ context.Context, itemID string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[itemID]
	if !ok {
		return core.ErrStoreNotFound
	}
	c.Views += delta
	return nil
}

func (m *MemoryStore) IncrClicks(_ context.Context, itemID string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[itemID]
	if !ok {
		return core.ErrStoreNotFound
	}
	c.Clicks += delta
	return nil
}

// --- AdEventStore ---

func (m *MemoryStore) AppendEvent(_ context.Context, ev *core.AdEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	m.adEvents = append(m.adEvents, ev)
	return nil
}

func (m *MemoryStore) CountEvents(_ context.Context, itemID string, kind core.AdEventKind) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, ev := range m.adEvents {
		if ev.ItemID == itemID && ev.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountEventsSince(_ context.Context, itemID string, kind core.AdEventKind, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, ev := range m.adEvents {
		if ev.ItemID == itemID && ev.Kind == kind && !ev.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountUserViewsSince(_ context.Context, userID, itemID string, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, ev := range m.adEvents {
		if ev.Kind == core.AdEventView && ev.UserID == userID && ev.ItemID == itemID && !ev.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) UniqueClickers(_ context.Context, itemID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool, 16)
	for _, ev := range m.adEvents {
		if ev.Kind == core.AdEventClick && ev.ItemID == itemID && ev.UserID != "" {
			seen[ev.UserID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *MemoryStore) ClicksByItem(_ context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int64, len(m.items))
	for _, ev := range m.adEvents {
		if ev.Kind == core.AdEventClick {
			out[ev.ItemID]++
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

func sortNewestFirst(events []*core.SearchEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}

// 确保 MemoryStore 实现了全部领域存储接口
var (
	_ core.SearchEventStore = (*MemoryStore)(nil)
	_ core.UserStore        = (*MemoryStore)(nil)
	_ core.ProfileStore     = (*MemoryStore)(nil)
	_ core.CatalogStore     = (*MemoryStore)(nil)
	_ core.AdEventStore     = (*MemoryStore)(nil)
)
