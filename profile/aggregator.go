// Package profile 维护用户的兴趣画像：滚动窗口内的搜索事件
// 折算为关键词/类目频次表与主题兴趣分。
package profile

import (
	"context"
	"sort"
	"time"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/signal"
)

// DefaultWindow 是画像回看窗口。
const DefaultWindow = 30 * 24 * time.Hour

const (
	maxTopKeywords   = 20
	maxTopCategories = 10
)

// Recategorizer 是重算完成后的同步回调，由分类器实现。
// 画像重算最多每次搜索触发一次，不在读路径上执行。
type Recategorizer interface {
	RecategorizeFromProfile(ctx context.Context, userID string, p *core.InterestProfile) error
}

// Aggregator 是兴趣画像聚合器。
// 画像是事件日志在窗口内的纯函数：同一份日志重算两次结果相同。
type Aggregator struct {
	Events   core.SearchEventStore
	Profiles core.ProfileStore
	Lexicon  signal.Lexicon

	// Window 是回看窗口，零值时取 DefaultWindow。
	Window time.Duration

	// OnRecompute 为空时跳过重分类。
	OnRecompute Recategorizer

	// Now 可注入时钟，零值时用 time.Now。
	Now func() time.Time
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Aggregator) window() time.Duration {
	if a.Window > 0 {
		return a.Window
	}
	return DefaultWindow
}

// Recompute 重算某用户的画像并整体覆盖写入。
// 窗口内没有事件时不落任何写（画像保持原样），对未知用户同样安静跳过：
// 搜索追踪绝不能反过来弄坏搜索展示。
func (a *Aggregator) Recompute(ctx context.Context, userID string) (*core.InterestProfile, error) {
	if userID == "" {
		return nil, nil
	}

	now := a.now()
	events, err := a.Events.SearchesSince(ctx, userID, now.Add(-a.window()))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	keywords := newOrderedCounter()
	categories := newOrderedCounter()
	for _, ev := range events {
		for _, kw := range signal.Tokenize(ev.Query) {
			keywords.Add(kw)
		}
		if ev.Category != "" {
			categories.Add(ev.Category)
		}
	}

	topKeywords := keywords.Top(maxTopKeywords)
	lex := a.Lexicon
	if lex == nil {
		lex = signal.DefaultLexicon()
	}

	kwList := make([]string, 0, len(topKeywords))
	for _, e := range topKeywords {
		kwList = append(kwList, e.key)
	}

	p := &core.InterestProfile{
		UserID:          userID,
		SearchCount:     len(events),
		TopKeywords:     toKeywordCounts(topKeywords),
		TopCategories:   toCategoryCounts(categories.Top(maxTopCategories)),
		InterestScores:  lex.Scores(kwList),
		SearchFrequency: core.ClassifyFrequency(len(events), a.window().Hours()/24),
		UpdatedAt:       now,
	}

	if err := a.Profiles.PutProfile(ctx, p); err != nil {
		return nil, err
	}

	if a.OnRecompute != nil {
		if err := a.OnRecompute.RecategorizeFromProfile(ctx, userID, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// orderedCounter 是保序计数器：同频条目按首次出现顺序稳定排列，
// 没有次级排序键时以累积顺序定胜负。
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) Add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

type counted struct {
	key   string
	count int
}

// Top 返回频次前 n 的条目，频次相同按首次出现顺序。
func (c *orderedCounter) Top(n int) []counted {
	out := make([]counted, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, counted{key: key, count: c.counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func toKeywordCounts(entries []counted) []core.KeywordCount {
	out := make([]core.KeywordCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, core.KeywordCount{Keyword: e.key, Count: e.count})
	}
	return out
}

func toCategoryCounts(entries []counted) []core.CategoryCount {
	out := make([]core.CategoryCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, core.CategoryCount{Category: e.key, Count: e.count})
	}
	return out
}
