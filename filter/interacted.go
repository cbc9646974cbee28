package filter

import (
	"context"

	"github.com/foodshare/feedrec/core"
)

// InteractedFilter 是已互动过滤器：剔除观看者点赞、收藏、评论过的内容。
//
// 各召回源在生成候选时已经应用排除集；本过滤器作为 personalized 链路
// 末端的统一闸门，保证"已互动内容绝不出现在个性化结果中"这一不变式
// 对任何召回源组合都成立（包括运营通过配置挂入的自定义召回源）。
type InteractedFilter struct{}

func (f *InteractedFilter) Name() string { return "filter.interacted" }

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.Profile == nil {
		return false, nil
	}
	return rctx.Profile.HasInteracted(item.ID), nil
}
