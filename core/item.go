package core

import (
	"time"

	"github.com/openlanka/adkit/pkg/utils"
)

// ItemStatusApproved 是可投放商品的状态值，目录里其余状态一律不进入候选集。
const ItemStatusApproved = "approved"

// AgeRange 是商品的目标年龄段（闭区间）。nil 表示不做年龄定向。
type AgeRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains 判断年龄是否落在区间内（两端含）。
func (r *AgeRange) Contains(age int) bool {
	if r == nil {
		return false
	}
	return age >= r.Min && age <= r.Max
}

// CatalogItem 是广告目录里的商品/广告位。
// 排序阶段只读；Views / Clicks 两个计数器由事件侧递增，允许并发下最终一致。
type CatalogItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`

	// Category 是商品自身类目（books / electronics / vehicles ...），
	// 通过类目到主题映射参与兴趣分加权。
	Category string `json:"category"`

	// TargetCategories 是商品定向的用户分类标签集合。
	TargetCategories []string `json:"target_categories"`

	// AgeRange / TargetLocations 是可选的人口属性定向。
	// TargetLocations 支持哨兵值 "all"。
	AgeRange        *AgeRange `json:"age_range,omitempty"`
	TargetLocations []string  `json:"target_locations,omitempty"`

	// Stock 为 nil 表示不启用库存；非 nil 且为 0 时不投放。
	Stock *int `json:"stock,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	Views  int64 `json:"views"`
	Clicks int64 `json:"clicks"`
}

// Available 判断商品是否可进入候选集：状态为 approved 且库存未耗尽。
func (c *CatalogItem) Available() bool {
	if c == nil || c.Status != ItemStatusApproved {
		return false
	}
	if c.Stock != nil && *c.Stock <= 0 {
		return false
	}
	return true
}

// Item 是投放链路中的统一承载结构：候选商品、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID      string
	Score   float64
	Catalog *CatalogItem
	Labels  map[string]utils.Label
}

// NewItem 以目录商品为底创建一个候选。
func NewItem(c *CatalogItem) *Item {
	it := &Item{
		Labels:  make(map[string]utils.Label),
		Catalog: c,
	}
	if c != nil {
		it.ID = c.ID
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Ad 是返回给展示层的广告位结构。
type Ad struct {
	ItemID         string  `json:"item_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	ImageURL       string  `json:"image_url"`
	RelevanceScore float64 `json:"relevance_score"`
	Link           string  `json:"link"`
}
