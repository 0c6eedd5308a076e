// Package config 组装 Pipeline：把配置文件里的 Node 声明翻译为
// 可执行的投放链路。工厂放在独立包里，避免 pipeline 与各 Node 包循环依赖。
package config

import (
	"fmt"
	"time"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/filter"
	"github.com/openlanka/adkit/pipeline"
	"github.com/openlanka/adkit/pkg/conv"
	"github.com/openlanka/adkit/rank"
	"github.com/openlanka/adkit/recall"
	"github.com/openlanka/adkit/rerank"
)

// Deps 是 Node 构建所需的存储依赖，由调用方注入。
type Deps struct {
	Catalog  core.CatalogStore
	AdEvents core.AdEventStore
}

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// 注册 Recall Nodes
	factory.Register("recall.catalog", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.Catalog{Store: deps.Catalog}, nil
	})
	factory.Register("recall.popular", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.Popular{
			Store:    deps.Catalog,
			AdEvents: deps.AdEvents,
			Limit:    int(conv.ConfigGetInt64(cfg, "limit", 0)),
		}, nil
	})
	factory.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFanoutNode(deps, cfg)
	})

	// 注册 Filter Node
	factory.Register("filter", buildFilterNode)

	// 注册 Rank Node
	factory.Register("rank.relevance", func(cfg map[string]any) (pipeline.Node, error) {
		return &rank.RelevanceNode{AdEvents: deps.AdEvents}, nil
	})

	// 注册 ReRank Nodes
	factory.Register("rerank.slate", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.SlateNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
	})
	factory.Register("rerank.category_spread", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.CategorySpread{
			MaxPerCategory: int(conv.ConfigGetInt64(cfg, "max_per_category", 0)),
		}, nil
	})

	return factory
}

func buildFanoutNode(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet[string](sourceMap, "type", ""); sourceType {
		case "catalog":
			sources = append(sources, &recall.Catalog{Store: deps.Catalog})
		case "popular":
			sources = append(sources, &recall.Popular{
				Store:    deps.Catalog,
				AdEvents: deps.AdEvents,
				Limit:    int(conv.ConfigGetInt64(sourceMap, "limit", 0)),
			})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet[bool](cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func buildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	node := &filter.Node{}

	if conv.ConfigGet[bool](cfg, "availability", true) {
		node.Filters = append(node.Filters, &filter.Availability{})
	}

	if rules, ok := cfg["rules"].([]any); ok {
		for _, raw := range rules {
			expr, ok := raw.(string)
			if !ok || expr == "" {
				continue
			}
			rf, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("compile rule %q: %w", expr, err)
			}
			node.Filters = append(node.Filters, rf)
		}
	}
	return node, nil
}
