package store

import (
	"context"
	"testing"
	"time"

	"github.com/openlanka/adkit/core"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestSearchEventLifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	id, err := st.AppendSearch(ctx, &core.SearchEvent{
		UserID: "u1", Query: "laptop prices", Timestamp: fixedNow(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty event id")
	}

	if err := st.AssociateClick(ctx, id, "item-1"); err != nil {
		t.Fatal(err)
	}
	// 第二次回填为幂等 no-op
	if err := st.AssociateClick(ctx, id, "item-2"); err != nil {
		t.Fatal(err)
	}

	events, err := st.RecentSearches(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].ClickedResult != "item-1" {
		t.Errorf("events = %+v", events)
	}

	if err := st.AssociateClick(ctx, "missing", "x"); !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestSearchesNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	for i, q := range []string{"oldest", "middle", "newest"} {
		st.AppendSearch(ctx, &core.SearchEvent{
			UserID: "u1", Query: q,
			Timestamp: fixedNow().Add(time.Duration(i) * time.Hour),
		})
	}

	events, _ := st.SearchesSince(ctx, "u1", fixedNow().Add(30*time.Minute))
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Query != "newest" || events[1].Query != "middle" {
		t.Errorf("order = %q, %q", events[0].Query, events[1].Query)
	}
}

func TestUserAndProfileStores(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.GetUser(ctx, "u1"); !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}

	st.PutUser(ctx, &core.User{ID: "u1", Age: 30})
	if err := st.SaveCategorization(ctx, "u1", &core.Categorization{Categories: []string{"student"}}); err != nil {
		t.Fatal(err)
	}
	u, err := st.GetUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !u.Categorization.Has("student") {
		t.Errorf("categorization not saved: %+v", u.Categorization)
	}

	if err := st.SaveCategorization(ctx, "ghost", &core.Categorization{}); !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}

	if _, err := st.GetProfile(ctx, "u1"); !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	st.PutProfile(ctx, &core.InterestProfile{UserID: "u1", SearchCount: 3})
	st.PutProfile(ctx, &core.InterestProfile{UserID: "u1", SearchCount: 5})
	p, err := st.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if p.SearchCount != 5 {
		t.Errorf("profile upsert did not replace: %+v", p)
	}
}

func TestCatalogStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	st.PutItem(ctx, &core.CatalogItem{ID: "b", Status: core.ItemStatusApproved})
	st.PutItem(ctx, &core.CatalogItem{ID: "a", Status: core.ItemStatusApproved})
	st.PutItem(ctx, &core.CatalogItem{ID: "p", Status: "pending"})

	items, err := st.ActiveItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("active = %d, want 2", len(items))
	}
	// 遍历顺序可复现：按写入顺序
	if items[0].ID != "b" || items[1].ID != "a" {
		t.Errorf("order = %s, %s", items[0].ID, items[1].ID)
	}

	st.IncrViews(ctx, "a", 2)
	st.IncrClicks(ctx, "a", 1)
	item, err := st.GetItem(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if item.Views != 2 || item.Clicks != 1 {
		t.Errorf("counters = %d/%d, want 2/1", item.Views, item.Clicks)
	}

	if _, err := st.GetItem(ctx, "missing"); !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestAdEventCounts(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	old := fixedNow().Add(-48 * time.Hour)
	recent := fixedNow().Add(-time.Hour)

	st.AppendEvent(ctx, &core.AdEvent{UserID: "u1", ItemID: "a", Kind: core.AdEventView, Timestamp: old})
	st.AppendEvent(ctx, &core.AdEvent{UserID: "u1", ItemID: "a", Kind: core.AdEventView, Timestamp: recent})
	st.AppendEvent(ctx, &core.AdEvent{UserID: "u1", ItemID: "a", Kind: core.AdEventClick, Timestamp: recent})
	st.AppendEvent(ctx, &core.AdEvent{UserID: "u2", ItemID: "a", Kind: core.AdEventClick, Timestamp: recent})
	st.AppendEvent(ctx, &core.AdEvent{UserID: "u1", ItemID: "b", Kind: core.AdEventClick, Timestamp: recent})

	if n, _ := st.CountEvents(ctx, "a", core.AdEventView); n != 2 {
		t.Errorf("views = %d, want 2", n)
	}
	if n, _ := st.CountEventsSince(ctx, "a", core.AdEventView, fixedNow().Add(-2*time.Hour)); n != 1 {
		t.Errorf("recent views = %d, want 1", n)
	}
	if n, _ := st.CountUserViewsSince(ctx, "u1", "a", fixedNow().Add(-24*time.Hour)); n != 1 {
		t.Errorf("user views = %d, want 1", n)
	}
	if n, _ := st.UniqueClickers(ctx, "a"); n != 2 {
		t.Errorf("clickers = %d, want 2", n)
	}

	clicks, _ := st.ClicksByItem(ctx)
	if clicks["a"] != 2 || clicks["b"] != 1 {
		t.Errorf("clicks by item = %v", clicks)
	}
}
