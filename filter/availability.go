package filter

import (
	"context"

	"github.com/openlanka/adkit/core"
)

// Availability 剔除不可投放的候选：状态不是 approved，或库存已耗尽。
// 库存字段缺失视为不启用库存管理，照常投放。
type Availability struct{}

func (f *Availability) Name() string { return "filter.availability" }

func (f *Availability) ShouldFilter(
	_ context.Context,
	_ *core.RankContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Catalog == nil {
		return true, nil
	}
	return !item.Catalog.Available(), nil
}
