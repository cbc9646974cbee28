package recall

import (
	"context"
	"sort"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// Latest 是最新召回源：按创建时间降序。
// 如果存储实现了 core.TimeRankedStore，优先走索引路径。
type Latest struct {
	Store core.ContentStore

	// TopK 返回的候选上限；<=0 时取 rctx.Limit。
	TopK int
}

func (r *Latest) Name() string        { return "recall.latest" }
func (r *Latest) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Latest) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Latest) Recall(
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

	var contents []*core.ContentItem
	var err error
	if ranked, ok := r.Store.(core.TimeRankedStore); ok {
		contents, err = ranked.TopByCreatedAt(ctx, topK)
	} else {
		contents, err = r.Store.FindAllItems(ctx)
		if err == nil {
			sorted := make([]*core.ContentItem, len(contents))
			copy(sorted, contents)
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
			})
			contents = sorted
		}
	}
	if err != nil {
		return nil, err
	}

	if len(contents) > topK {
		contents = contents[:topK]
	}

	out := make([]*core.Item, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		it := core.NewItem(c)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
