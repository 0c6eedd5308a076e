package recall

import (
	"context"

	"github.com/openlanka/adkit/core"
)

// Source 表示一个可复用的候选来源（目录/热门/...）。
// 可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RankContext) ([]*core.Item, error)
}
