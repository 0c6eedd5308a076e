package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/openlanka/adkit/core"
)

func intp(v int) *int { return &v }

func TestAvailability(t *testing.T) {
	f := &Availability{}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{"approved with stock", core.NewItem(&core.CatalogItem{ID: "a", Status: core.ItemStatusApproved, Stock: intp(3)}), false},
		{"approved without stock tracking", core.NewItem(&core.CatalogItem{ID: "a", Status: core.ItemStatusApproved}), false},
		{"zero stock", core.NewItem(&core.CatalogItem{ID: "a", Status: core.ItemStatusApproved, Stock: intp(0)}), true},
		{"pending status", core.NewItem(&core.CatalogItem{ID: "a", Status: "pending"}), true},
		{"nil catalog", &core.Item{ID: "a"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), nil, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleFilter(t *testing.T) {
	rctx := &core.RankContext{
		UserID: "u1",
		User: &core.User{
			ID:  "u1",
			Age: 16,
			Categorization: &core.Categorization{
				Categories: []string{"student"},
			},
		},
	}

	t.Run("price cap", func(t *testing.T) {
		f, err := NewRuleFilter(`item.price <= 100000.0`)
		if err != nil {
			t.Fatal(err)
		}
		cheap := core.NewItem(&core.CatalogItem{ID: "a", Price: 5000})
		dear := core.NewItem(&core.CatalogItem{ID: "b", Price: 500000})

		if got, _ := f.ShouldFilter(context.Background(), rctx, cheap); got {
			t.Error("cheap item filtered")
		}
		if got, _ := f.ShouldFilter(context.Background(), rctx, dear); !got {
			t.Error("expensive item kept")
		}
	})

	t.Run("audience rule", func(t *testing.T) {
		f, err := NewRuleFilter(`!("student" in user.categories) || item.category != "vehicles"`)
		if err != nil {
			t.Fatal(err)
		}
		car := core.NewItem(&core.CatalogItem{ID: "a", Category: "vehicles"})
		book := core.NewItem(&core.CatalogItem{ID: "b", Category: "books"})

		if got, _ := f.ShouldFilter(context.Background(), rctx, car); !got {
			t.Error("vehicle should be filtered for students")
		}
		if got, _ := f.ShouldFilter(context.Background(), rctx, book); got {
			t.Error("book filtered")
		}
	})

	t.Run("bad expression fails compile", func(t *testing.T) {
		if _, err := NewRuleFilter(`item.price <=`); err == nil {
			t.Error("expected compile error")
		}
	})
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }

func (failingFilter) ShouldFilter(context.Context, *core.RankContext, *core.Item) (bool, error) {
	return true, errors.New("down")
}

func TestNodeCombinesFilters(t *testing.T) {
	node := &Node{Filters: []Filter{&Availability{}, failingFilter{}}}

	items := []*core.Item{
		core.NewItem(&core.CatalogItem{ID: "a", Status: core.ItemStatusApproved}),
		core.NewItem(&core.CatalogItem{ID: "b", Status: "pending"}),
		nil,
	}

	got, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatal(err)
	}
	// 出错的过滤器按"不过滤"处理，pending 与 nil 照常剔除
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("items = %+v, want only a", got)
	}
}
