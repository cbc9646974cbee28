package recall

import (
	"context"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// Corpus 是全量召回源：把整个语料装入链路，交给后续 Rank 节点打分。
// hot 策略用它作为输入（综合热度分需要逐条聚合互动计数，没有预筛选依据）。
type Corpus struct {
	Store core.ContentStore
}

func (r *Corpus) Name() string        { return "recall.corpus" }
func (r *Corpus) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Corpus) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Corpus) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, nil
	}

	contents, err := r.Store.FindAllItems(ctx)
	if err != nil {
		return nil, err
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
