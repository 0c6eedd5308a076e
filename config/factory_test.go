package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/pipeline"
	"github.com/openlanka/adkit/store"
)

const pipelineYAML = `
pipeline:
  name: sidebar_ads
  nodes:
    - type: recall.catalog
    - type: filter
      config:
        availability: true
        rules:
          - 'item.price <= 100000.0'
    - type: rank.relevance
    - type: rerank.category_spread
      config:
        max_per_category: 1
    - type: rerank.slate
      config:
        n: 3
`

func TestBuildPipelineFromYAML(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.PutItem(ctx, &core.CatalogItem{ID: "book-1", Category: "books", Price: 1500, Status: core.ItemStatusApproved})
	st.PutItem(ctx, &core.CatalogItem{ID: "book-2", Category: "books", Price: 2500, Status: core.ItemStatusApproved})
	st.PutItem(ctx, &core.CatalogItem{ID: "car-1", Category: "vehicles", Price: 4500000, Status: core.ItemStatusApproved})

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Name != "sidebar_ads" || len(cfg.Pipeline.Nodes) != 5 {
		t.Fatalf("config = %+v", cfg.Pipeline)
	}

	p, err := cfg.BuildPipeline(DefaultFactory(Deps{Catalog: st, AdEvents: st}))
	if err != nil {
		t.Fatal(err)
	}

	items, err := p.Run(ctx, &core.RankContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// 限价规则滤掉 car-1，类目打散后 books 只剩 1 个
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Catalog.Category != "books" {
		t.Errorf("survivor = %+v", items[0])
	}
}

func TestFactoryUnknownNodeType(t *testing.T) {
	factory := DefaultFactory(Deps{})
	if _, err := factory.Build("recall.nonexistent", nil); err == nil {
		t.Error("expected error for unknown node type")
	}
}

func TestFactoryFanout(t *testing.T) {
	st := store.NewMemoryStore()
	factory := DefaultFactory(Deps{Catalog: st, AdEvents: st})

	node, err := factory.Build("recall.fanout", map[string]any{
		"dedup":          true,
		"timeout":        2,
		"max_concurrent": 4,
		"sources": []any{
			map[string]any{"type": "catalog"},
			map[string]any{"type": "popular", "limit": 5},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if node.Kind() != pipeline.KindRecall {
		t.Errorf("kind = %v, want recall", node.Kind())
	}
}

func TestFactoryFanoutUnknownSource(t *testing.T) {
	factory := DefaultFactory(Deps{})
	_, err := factory.Build("recall.fanout", map[string]any{
		"sources": []any{map[string]any{"type": "ann"}},
	})
	if err == nil {
		t.Error("expected error for unknown source type")
	}
}
