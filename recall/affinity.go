package recall

import (
	"context"
	"sort"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// Affinity 是兴趣召回源：推荐与观看者兴趣分类/标签匹配的内容。
//
// 匹配条件：内容分类命中兴趣分类集，或标签与兴趣标签集有交集。
// 候选按浏览量降序排序（以浏览量作为热度近似），排除已互动内容。
type Affinity struct {
	Store core.ContentStore

	// TopK 返回的候选上限；<=0 时取 rctx.Limit。
	TopK int
}

func (r *Affinity) Name() string        { return "recall.affinity" }
func (r *Affinity) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Affinity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Affinity) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil || rctx.Profile == nil {
		return nil, nil
	}

	p := rctx.Profile
	if len(p.Categories) == 0 && len(p.Tags) == 0 {
		return nil, nil
	}

	// TODO: 分类索引就绪后（core.ContentStore 增加 FindItemsByCategories），
	// 这里可以替换全量扫描。
	contents, err := r.Store.FindAllItems(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*core.ContentItem, 0, len(contents))
	for _, c := range contents {
		if c == nil || p.HasInteracted(c.ID) {
			continue
		}
		if p.LikesCategory(c.CategoryID) || p.LikesAnyTag(c.TagIDs) {
			candidates = append(candidates, c)
		}
	}

	// 浏览量降序；同浏览量保持存储自然顺序
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ViewCount > candidates[j].ViewCount
	})

	topK := r.TopK
	if topK <= 0 {
		topK = rctx.Limit
	}
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		it := core.NewItem(c)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
