package recall

import (
	"context"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// Social 是社交召回源：推荐观看者关注的作者发布的内容。
//
// 在 personalized 链路中它的预算是 ceil(limit/2)：社交信号优先级最高，
// 但只占一半额度，给兴趣召回和热门兜底留出空间。
// 为了保证排除已互动内容后仍有足够候选，向存储多取一倍（limit*2）再过滤。
type Social struct {
	Store core.ContentStore

	// TopK 返回的候选上限；<=0 时取 ceil(rctx.Limit/2)。
	TopK int
}

func (r *Social) Name() string        { return "recall.social" }
func (r *Social) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Social) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Social) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil || rctx.Profile == nil {
		return nil, nil
	}

	followees := rctx.Profile.FolloweeIDs()
	if len(followees) == 0 {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = (rctx.Limit + 1) / 2
	}
	if topK <= 0 {
		topK = 1
	}

	// 存储按创建时间降序返回；多取一倍抵消排除集带来的损耗
	fetch := rctx.Limit * 2
	if fetch < topK {
		fetch = topK
	}
	contents, err := r.Store.FindItemsByAuthors(ctx, followees, fetch)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, topK)
	for _, c := range contents {
		if c == nil || rctx.Profile.HasInteracted(c.ID) {
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
