// Package feature 提供用户人口属性的补全：注册资料缺失年龄/地区时，
// 从外部特征源拉取补齐，投放链路的定向项才有数据可用。
package feature

import (
	"context"

	"github.com/openlanka/adkit/core"
)

// Demographics 是特征源返回的人口属性。零值字段表示该源没有此特征。
type Demographics struct {
	Age      int
	Location string
}

// UserFeatureSource 是人口属性特征源。
// 特征缺失时返回 NOT_FOUND，调用方按无补全处理。
type UserFeatureSource interface {
	Name() string
	UserDemographics(ctx context.Context, userID string) (*Demographics, error)
}

// StaticSource 是内存特征源，测试与离线回放用。
type StaticSource struct {
	Data map[string]Demographics
}

func (s *StaticSource) Name() string { return "feature.static" }

func (s *StaticSource) UserDemographics(_ context.Context, userID string) (*Demographics, error) {
	d, ok := s.Data[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return &d, nil
}

// Hydrate 用特征源补齐用户缺失的人口属性，已有字段不覆盖。
// 特征源查不到或出错时原样返回用户：补全失败不能影响投放。
func Hydrate(ctx context.Context, src UserFeatureSource, u *core.User) *core.User {
	if src == nil || u == nil {
		return u
	}
	if u.Age > 0 && u.Location != "" {
		return u
	}

	d, err := src.UserDemographics(ctx, u.ID)
	if err != nil || d == nil {
		return u
	}
	if u.Age <= 0 && d.Age > 0 {
		u.Age = d.Age
	}
	if u.Location == "" && d.Location != "" {
		u.Location = d.Location
	}
	return u
}

var _ UserFeatureSource = (*StaticSource)(nil)
