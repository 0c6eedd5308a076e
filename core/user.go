package core

import "time"

// User 是门户用户：注册人口属性 + 衍生的分类状态。
// 衍生字段只由 Categorizer / Aggregator 的重算操作写入。
type User struct {
	ID        string   `json:"id"`
	Age       int      `json:"age"` // 0 表示未填写
	Job       string   `json:"job"`
	Location  string   `json:"location"`
	Interests []string `json:"interests"`

	Categorization *Categorization `json:"categorization,omitempty"`
}

// Categorization 是用户分类的统一表示：标签集合 + 分值表。
// 历史实现里该字段时而是 list 时而是 dict，这里收敛为单一结构。
type Categorization struct {
	// Categories 是去重后的标签集合。重分类只增不减：
	// 一旦获得的标签不会被后续重算移除（单调并集语义）。
	Categories []string `json:"categories"`

	// Scores 是各行为标签的累计分值，重分类时做加法合并，从不重置。
	Scores map[string]int `json:"category_scores"`

	CategorizedAt   time.Time `json:"categorized_at"`
	RecategorizedAt time.Time `json:"last_recategorized,omitempty"`

	// Type 标记最近一次分类的来源：registration / search_behavior。
	Type string `json:"categorization_type"`
}

// Has 判断是否已持有某个标签。
func (c *Categorization) Has(category string) bool {
	if c == nil {
		return false
	}
	for _, got := range c.Categories {
		if got == category {
			return true
		}
	}
	return false
}

// Add 以并集语义追加标签，保持既有顺序，重复追加为幂等。
func (c *Categorization) Add(category string) {
	if c.Has(category) {
		return
	}
	c.Categories = append(c.Categories, category)
}

// CategorySet 返回标签集合的 set 视图，排序阶段用于交集计算。
func (c *Categorization) CategorySet() map[string]bool {
	set := make(map[string]bool, 8)
	if c == nil {
		return set
	}
	for _, got := range c.Categories {
		set[got] = true
	}
	return set
}
