// Package rank 实现广告相关性打分：各分项相加、零分封底、降序稳定排序。
package rank

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/pipeline"
	"github.com/openlanka/adkit/pkg/utils"
)

// 打分权重。全部为手调启发值，不承诺统计意义。
const (
	pointsPerCategoryMatch = 10 // 每个定向标签重合
	interestWeight         = 2  // 主题兴趣分倍率
	pointsAgeFit           = 5  // 年龄落在定向区间
	pointsLocationFit      = 3  // 位置命中定向名单（或 "all" 哨兵）
	pointsFreshWeek        = 5  // 上架不足 7 天
	pointsFreshMonth       = 2  // 上架不足 30 天
	ctrViewGate            = 10 // 曝光数超过该值才计 CTR 分
	ctrWeight              = 10 // CTR 分倍率（floor(10×clicks/views)）
	repeatPenalty          = 5  // 24 小时内每次已曝光的扣分
	repeatWindow           = 24 * time.Hour
)

// RelevanceNode 是相关性排序 Node。
// 对每个候选叠加七个分项后在零处封底：负分候选以 0 分保留，
// 不从槽位资格中剔除，只会排到最后。
// 排序为降序稳定排序，同分以商品 ID 升序作为确定性次级键。
type RelevanceNode struct {
	// AdEvents 提供 CTR 与重复惩罚所需的聚合计数。
	// 为空时对应分项按 0 处理（排序不因观测数据缺失而失败）。
	AdEvents core.AdEventStore

	// CategoryTopics 是商品类目到主题的映射，零值时用默认表。
	CategoryTopics map[string]core.Topic

	// Now 可注入时钟，零值时用 time.Now。
	Now func() time.Time
}

func (n *RelevanceNode) Name() string        { return "rank.relevance" }
func (n *RelevanceNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RelevanceNode) Process(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	topics := n.CategoryTopics
	if topics == nil {
		topics = DefaultCategoryTopics()
	}

	userCategories := rctx.Categories()

	for _, it := range items {
		if it == nil || it.Catalog == nil {
			continue
		}
		it.Score = n.score(ctx, rctx, it, userCategories, topics, now)
		it.PutLabel("rank_type", utils.Label{Value: "relevance", Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (n *RelevanceNode) score(
	ctx context.Context,
	rctx *core.RankContext,
	it *core.Item,
	userCategories map[string]bool,
	topics map[string]core.Topic,
	now time.Time,
) float64 {
	cat := it.Catalog
	score := 0

	// 1. 定向标签重合
	matches := 0
	for _, target := range cat.TargetCategories {
		if userCategories[target] {
			matches++
		}
	}
	if matches > 0 {
		score += matches * pointsPerCategoryMatch
		putScoreLabel(it, "category_overlap", matches*pointsPerCategoryMatch)
	}

	// 2. 类目映射主题的兴趣分
	if topic, ok := topics[strings.ToLower(cat.Category)]; ok {
		if hits := rctx.InterestScore(topic); hits > 0 {
			score += hits * interestWeight
			putScoreLabel(it, "interest_"+string(topic), hits*interestWeight)
		}
	}

	// 3. 年龄定向，任一侧缺失则跳过
	if rctx.User != nil && rctx.User.Age > 0 && cat.AgeRange.Contains(rctx.User.Age) {
		score += pointsAgeFit
		putScoreLabel(it, "age_fit", pointsAgeFit)
	}

	// 4. 位置定向，支持 "all" 哨兵
	if rctx.User != nil && rctx.User.Location != "" && locationMatch(rctx.User.Location, cat.TargetLocations) {
		score += pointsLocationFit
		putScoreLabel(it, "location_fit", pointsLocationFit)
	}

	// 5. 时新度
	if !cat.CreatedAt.IsZero() {
		age := now.Sub(cat.CreatedAt)
		switch {
		case age < 7*24*time.Hour:
			score += pointsFreshWeek
			putScoreLabel(it, "freshness", pointsFreshWeek)
		case age < 30*24*time.Hour:
			score += pointsFreshMonth
			putScoreLabel(it, "freshness", pointsFreshMonth)
		}
	}

	// 6. CTR 加分，小样本不计：曝光数未过门槛时点击率再高也是 0 分
	if n.AdEvents != nil {
		views := n.count(ctx, func() (int64, error) {
			return n.AdEvents.CountEvents(ctx, cat.ID, core.AdEventView)
		})
		if views > ctrViewGate {
			clicks := n.count(ctx, func() (int64, error) {
				return n.AdEvents.CountEvents(ctx, cat.ID, core.AdEventClick)
			})
			ctrPoints := int(math.Floor(ctrWeight * float64(clicks) / float64(views)))
			if ctrPoints > 0 {
				score += ctrPoints
				putScoreLabel(it, "ctr", ctrPoints)
			}
		}

		// 7. 重复惩罚：24 小时内给同一用户的每次曝光扣 5 分，可把总分打到负数
		if rctx.UserID != "" {
			repeats := n.count(ctx, func() (int64, error) {
				return n.AdEvents.CountUserViewsSince(ctx, rctx.UserID, cat.ID, now.Add(-repeatWindow))
			})
			if repeats > 0 {
				score -= int(repeats) * repeatPenalty
				putScoreLabel(it, "repeat_penalty", -int(repeats)*repeatPenalty)
			}
		}
	}

	// 零分封底
	if score < 0 {
		score = 0
	}
	return float64(score)
}

// count 包一层观测计数：读失败按 0 处理，排序不因此失败。
func (n *RelevanceNode) count(_ context.Context, read func() (int64, error)) int64 {
	v, err := read()
	if err != nil {
		return 0
	}
	return v
}

func locationMatch(location string, targets []string) bool {
	for _, target := range targets {
		if target == "all" || target == location {
			return true
		}
	}
	return false
}

func putScoreLabel(it *core.Item, component string, points int) {
	it.PutLabel("score_"+component, utils.Label{Value: strconv.Itoa(points), Source: "rank"})
}
