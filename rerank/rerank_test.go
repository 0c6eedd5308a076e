package rerank

import (
	"context"
	"testing"

	"github.com/openlanka/adkit/core"
)

func mk(id, category string) *core.Item {
	return core.NewItem(&core.CatalogItem{ID: id, Category: category})
}

func TestSlateNode(t *testing.T) {
	items := []*core.Item{mk("a", ""), mk("b", ""), mk("c", "")}

	t.Run("truncates to n", func(t *testing.T) {
		n := &SlateNode{N: 2}
		got, err := n.Process(context.Background(), nil, items)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
			t.Errorf("items = %+v", got)
		}
	})

	t.Run("zero n keeps everything", func(t *testing.T) {
		n := &SlateNode{}
		got, err := n.Process(context.Background(), nil, items)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Errorf("items = %d, want 3", len(got))
		}
	})

	t.Run("n larger than slate", func(t *testing.T) {
		n := &SlateNode{N: 10}
		got, err := n.Process(context.Background(), nil, items)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Errorf("items = %d, want 3", len(got))
		}
	})
}

func TestCategorySpread(t *testing.T) {
	t.Run("one per category by default", func(t *testing.T) {
		n := &CategorySpread{}
		got, err := n.Process(context.Background(), nil, []*core.Item{
			mk("a", "books"), mk("b", "books"), mk("c", "phones"), mk("d", "books"),
		})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"a", "c"}
		if len(got) != len(want) {
			t.Fatalf("items = %d, want %d", len(got), len(want))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("items[%d] = %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("configurable cap", func(t *testing.T) {
		n := &CategorySpread{MaxPerCategory: 2}
		got, _ := n.Process(context.Background(), nil, []*core.Item{
			mk("a", "books"), mk("b", "books"), mk("c", "books"),
		})
		if len(got) != 2 {
			t.Errorf("items = %d, want 2", len(got))
		}
	})

	t.Run("empty category passes through", func(t *testing.T) {
		n := &CategorySpread{}
		got, _ := n.Process(context.Background(), nil, []*core.Item{
			mk("a", ""), mk("b", ""), mk("c", ""),
		})
		if len(got) != 3 {
			t.Errorf("items = %d, want 3", len(got))
		}
	})
}
