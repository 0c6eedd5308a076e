package core

import "time"

// SearchEvent 是搜索日志记录，追加后不可变。
// 唯一的例外是 ClickedResult：点击回填一次，之后不再改写。
type SearchEvent struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"` // 空串表示匿名搜索

	// Query 入库前已统一小写。
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`

	ResultsCount  int    `json:"results_count"`
	ClickedResult string `json:"clicked_result,omitempty"`
	SessionID     string `json:"session_id,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// AdEventKind 区分广告曝光与点击。
type AdEventKind string

const (
	AdEventView  AdEventKind = "view"
	AdEventClick AdEventKind = "click"
)

// AdEvent 是广告曝光/点击日志，追加后不可变，只做聚合计数，
// 不会被逐条回读。
type AdEvent struct {
	ID     string      `json:"id"`
	UserID string      `json:"user_id"`
	ItemID string      `json:"item_id"`
	Kind   AdEventKind `json:"kind"`

	// Source 是展示位上下文（sidebar / banner ...）。
	Source string `json:"source,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
