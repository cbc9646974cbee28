package recall

import (
	"context"
	"sort"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// Popular 是热门召回源：按浏览量降序、创建时间降序排序。
//
// 它是整条降级链的兜底：匿名观看者、缺失坐标、其他召回源供给不足时
// 都最终落到这里，保证语料非空时结果不为空。
//
// 如果存储实现了 core.ViewRankedStore（如 Redis zset 索引），优先走索引路径，
// 否则退回全量扫描 + 排序。
type Popular struct {
	Store core.ContentStore

	// TopK 返回的候选上限；<=0 时取 rctx.Limit。
	TopK int
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Popular) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = rctx.Limit
	}
	if topK <= 0 {
		return nil, nil
	}

	// 带排除集时多取一倍，抵消过滤损耗
	fetch := topK
	excluding := rctx.Profile != nil && len(rctx.Profile.Interacted) > 0
	if excluding {
		fetch = topK * 2
	}

	contents, err := r.topByViews(ctx, fetch)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, topK)
	for _, c := range contents {
		if c == nil {
			continue
		}
		if excluding && rctx.Profile.HasInteracted(c.ID) {
			continue
		}
		it := core.NewItem(c)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
		if len(out) >= topK {
			break
		}
	}
	return out, nil
}

func (r *Popular) topByViews(ctx context.Context, limit int) ([]*core.ContentItem, error) {
	if ranked, ok := r.Store.(core.ViewRankedStore); ok {
		return ranked.TopByViews(ctx, limit)
	}

	contents, err := r.Store.FindAllItems(ctx)
	if err != nil {
		return nil, err
	}
	sorted := make([]*core.ContentItem, len(contents))
	copy(sorted, contents)
	SortByViews(sorted)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// SortByViews 按浏览量降序、创建时间降序稳定排序（热门排序的统一比较规则）。
func SortByViews(contents []*core.ContentItem) {
	sort.SliceStable(contents, func(i, j int) bool {
		if contents[i].ViewCount != contents[j].ViewCount {
			return contents[i].ViewCount > contents[j].ViewCount
		}
		return contents[i].CreatedAt.After(contents[j].CreatedAt)
	})
}
