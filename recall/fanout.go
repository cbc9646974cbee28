package recall

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并按优先级合并结果。
//
// 优先级即 Sources 的下标顺序（personalized 链路为 social → affinity → popular）。
// 合并遵循 Merge 的规则：按优先级拼接、首次出现去重、不打乱源内顺序、截断到 Limit。
// 任一召回源的存储读失败会原样上抛（推荐是尽力而为的读路径，不做重试）。
type Fanout struct {
	Sources []Source

	// Limit 合并后的结果上限；<=0 时取 rctx.Limit。
	Limit int

	// Timeout 是每个召回源的超时时间；0 表示不额外限时。
	Timeout time.Duration

	// MaxConcurrent 最大并发数（0 表示不限制）。
	MaxConcurrent int
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 每个召回源的结果写入自己的槽位，保证合并顺序与 Sources 顺序一致，
	// 与并发调度无关。
	results := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		slot, s, priority := i, src, i
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				return err
			}

			for _, it := range items {
				it.PutLabel("recall_priority", utils.Label{
					Value:  strconv.Itoa(priority),
					Source: "recall",
				})
			}
			results[slot] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	limit := n.Limit
	if limit <= 0 && rctx != nil {
		limit = rctx.Limit
	}
	return Merge(results, limit), nil
}

// Merge 是候选合并/去重器：
//   - 按 lists 的顺序（即优先级）拼接，绝不打乱单个列表内部的顺序
//   - 同一 ID 首次出现获胜，后续出现只合并 Labels
//   - 截断到 limit（limit <= 0 表示不截断）
func Merge(lists [][]*core.Item, limit int) []*core.Item {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[int64]*core.Item, total)
	out := make([]*core.Item, 0, total)
	for _, list := range lists {
		for _, it := range list {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
