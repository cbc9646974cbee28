package core

import "github.com/foodshare/feedrec/pkg/conv"

// RecommendContext 承载一次推荐请求的观看者/场景信息，贯穿整个 Pipeline 透传。
// 引擎在请求间不保留任何状态，每次请求构建一个新的 RecommendContext。
type RecommendContext struct {
	// ViewerID 是观看者标识，0 表示匿名（未登录）。
	ViewerID int64

	// Scene 是策略名（personalized / location-based / popular / hot / latest）。
	Scene string

	// Limit 是本次请求的结果上限，由 Facade 预先钳制为正数。
	Limit int

	// Profile 是按需派生的兴趣画像，仅 personalized 链路填充，请求结束即丢弃。
	Profile *AffinityProfile

	// Params 请求级参数：latitude / longitude 等。
	Params map[string]any
}

// Anonymous 判断本次请求是否来自匿名观看者。
func (rctx *RecommendContext) Anonymous() bool {
	return rctx == nil || rctx.ViewerID == 0
}

// FloatParam 从 Params 取 float64 参数，兼容 YAML/JSON 解析出的数值类型。
func (rctx *RecommendContext) FloatParam(key string) (float64, bool) {
	if rctx == nil || rctx.Params == nil {
		return 0, false
	}
	return conv.ToFloat64(rctx.Params[key])
}
