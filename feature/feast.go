package feature

import (
	"context"
	"fmt"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/openlanka/adkit/core"
)

// Feast 特征仓库中的人口属性特征名。
const (
	featureAge      = "portal_user:age"
	featureLocation = "portal_user:location"
)

// FeastSource 是基于官方 Feast Go SDK 的在线特征源。
// 门户的注册系统和特征仓库是两套数据，年龄/地区在注册资料里
// 经常缺失，这里从在线特征补齐。
type FeastSource struct {
	client  *feastsdk.GrpcClient
	project string
}

// NewFeastSource 连接 Feast Feature Server。port 为 0 时取默认 6565。
func NewFeastSource(host string, port int, project string) (*FeastSource, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("connect feast %s:%d: %w", host, port, err)
	}
	return &FeastSource{client: client, project: project}, nil
}

func (s *FeastSource) Name() string { return "feature.feast" }

func (s *FeastSource) UserDemographics(ctx context.Context, userID string) (*Demographics, error) {
	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{featureAge, featureLocation},
		Entities: []feastsdk.Row{
			{"user_id": feastsdk.StrVal(userID)},
		},
		Project: s.project,
	}

	resp, err := s.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleSignal, core.ErrorCodeUnavailable,
			"feast get online features: "+err.Error())
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, core.ErrStoreNotFound
	}
	row := rows[0]

	d := &Demographics{}
	if v, ok := row[featureAge]; ok && v != nil {
		d.Age = int(v.GetInt64Val())
	}
	if v, ok := row[featureLocation]; ok && v != nil {
		d.Location = strings.ToLower(v.GetStringVal())
	}
	if d.Age == 0 && d.Location == "" {
		return nil, core.ErrStoreNotFound
	}
	return d, nil
}

var _ UserFeatureSource = (*FeastSource)(nil)
