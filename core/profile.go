package core

import "time"

// 搜索活跃度档位，由窗口内日均搜索次数划分。
const (
	FrequencyVeryActive = "very_active" // >= 5 次/天
	FrequencyActive     = "active"      // >= 2 次/天
	FrequencyModerate   = "moderate"    // >= 0.5 次/天
	FrequencyOccasional = "occasional"
)

// ClassifyFrequency 按窗口天数折算日均搜索次数，映射到活跃度档位。
func ClassifyFrequency(searchCount int, days float64) string {
	if days <= 0 {
		return FrequencyOccasional
	}
	perDay := float64(searchCount) / days
	switch {
	case perDay >= 5:
		return FrequencyVeryActive
	case perDay >= 2:
		return FrequencyActive
	case perDay >= 0.5:
		return FrequencyModerate
	default:
		return FrequencyOccasional
	}
}

// KeywordCount 是带频次的关键词。用切片而非 map 承载 TopN，
// 保证同频词按首次出现顺序稳定排列。
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// CategoryCount 是带频次的搜索类目。
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// InterestProfile 是按用户维度的衍生画像快照。
// 它不独立持有事实：永远可以由窗口内的搜索事件日志重算出来，
// 同一份日志重算两次得到完全相同的画像。每次重算整体覆盖写入。
type InterestProfile struct {
	UserID      string `json:"user_id"`
	SearchCount int    `json:"search_count"`

	// TopKeywords 最多 20 个，TopCategories 最多 10 个。
	TopKeywords   []KeywordCount  `json:"top_keywords"`
	TopCategories []CategoryCount `json:"top_categories"`

	// InterestScores 是八个固定主题的关键词命中数。
	// 命中按 TopKeywords 的去重词表计算，同一个词只计一次。
	InterestScores map[Topic]int `json:"interest_scores"`

	SearchFrequency string    `json:"search_frequency"`
	UpdatedAt       time.Time `json:"last_updated"`
}

// Keywords 返回 TopKeywords 的词表（保持顺序）。
func (p *InterestProfile) Keywords() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.TopKeywords))
	for _, kw := range p.TopKeywords {
		out = append(out, kw.Keyword)
	}
	return out
}

// InterestScore 读取某主题的兴趣分，画像缺失时为 0。
func (p *InterestProfile) InterestScore(topic Topic) int {
	if p == nil || p.InterestScores == nil {
		return 0
	}
	return p.InterestScores[topic]
}
