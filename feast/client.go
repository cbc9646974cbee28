// Package feast 封装 Feast Feature Store 的在线读路径，
// 为画像构建提供预计算的兴趣特征（冷启动补充）。
package feast

import "context"

// Client 是 Feast 在线特征的客户端接口。
//
// 本模块只消费在线读路径（GetOnlineFeatures）；离线训练、物化等
// Feast 能力不属于推荐引擎的职责，不在此暴露。
type Client interface {
	// GetOnlineFeatures 获取在线特征。
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["viewer_affinity:category_ids"]
	//   - EntityRows: 实体行，例如 [{"viewer_id": 1001}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表
	Features []string

	// EntityRows 实体行，每行是 entity 名到值的映射
	EntityRows []map[string]interface{}

	// Project 项目名称（为空时使用客户端默认项目）
	Project string
}

// FeatureVector 是单个实体行的特征向量
type FeatureVector struct {
	// Values 特征名 → 特征值
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	FeatureVectors []FeatureVector
}
