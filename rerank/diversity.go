package rerank

import (
	"context"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
)

// Diversity 是按分类限量的多样性重排节点：每个分类最多保留 MaxPerCategory 条，
// 超出的候选被跳过。未分类内容（CategoryID 为 0）不受限制。
//
// 默认策略链不启用它；运营可以通过 Pipeline 配置挂到任意策略后面，
// 避免单一分类刷屏。
type Diversity struct {
	// MaxPerCategory 每个分类保留的条数上限；<=0 时默认 1。
	MaxPerCategory int
}

func (n *Diversity) Name() string        { return "rerank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	max := n.MaxPerCategory
	if max <= 0 {
		max = 1
	}

	counts := make(map[int64]int, 32)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		categoryID := int64(0)
		if it.Content != nil {
			categoryID = it.Content.CategoryID
		}
		if categoryID == 0 {
			out = append(out, it)
			continue
		}
		if counts[categoryID] >= max {
			continue
		}
		counts[categoryID]++
		out = append(out, it)
	}
	return out, nil
}
