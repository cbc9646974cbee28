package feast

import (
	"context"
	"strconv"
	"strings"

	"github.com/foodshare/feedrec/profile"
)

// 默认的兴趣特征名与实体名
const (
	DefaultEntityName      = "viewer_id"
	DefaultCategoryFeature = "viewer_affinity:category_ids"
	DefaultTagFeature      = "viewer_affinity:tag_ids"
)

// InterestSource 把 Feast 在线特征适配成画像构建的兴趣来源
// （实现 profile.InterestProvider）。
//
// 特征值约定为逗号分隔的 ID 字符串（例如 "3,7,12"），由离线任务
// 从更长周期的行为数据聚合后物化到 Feast 在线存储。
// Feast 不可用或特征缺失时返回错误，画像构建方退化为纯派生画像。
type InterestSource struct {
	Client Client

	// 以下字段为空时使用默认值
	EntityName      string
	CategoryFeature string
	TagFeature      string
}

func (s *InterestSource) Interests(ctx context.Context, viewerID int64) (categoryIDs, tagIDs []int64, err error) {
	entity := s.EntityName
	if entity == "" {
		entity = DefaultEntityName
	}
	categoryFeature := s.CategoryFeature
	if categoryFeature == "" {
		categoryFeature = DefaultCategoryFeature
	}
	tagFeature := s.TagFeature
	if tagFeature == "" {
		tagFeature = DefaultTagFeature
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{categoryFeature, tagFeature},
		EntityRows: []map[string]interface{}{{entity: viewerID}},
	})
	if err != nil {
		return nil, nil, err
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, nil, nil
	}

	values := resp.FeatureVectors[0].Values
	return parseIDList(values[categoryFeature]), parseIDList(values[tagFeature]), nil
}

// parseIDList 解析逗号分隔的 ID 字符串；非字符串或脏数据条目跳过。
func parseIDList(v interface{}) []int64 {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

var _ profile.InterestProvider = (*InterestSource)(nil)
