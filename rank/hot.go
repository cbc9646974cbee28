// Package rank 实现排序节点：对召回候选打分并排序。
package rank

import (
	"context"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// 综合热度分的固定权重。主动互动信号（赞/评/藏）比被动浏览更能预示质量，
// 收藏意图强于评论，因此权重高于评论。
const (
	DefaultViewWeight     = 1.0
	DefaultLikeWeight     = 10.0
	DefaultCommentWeight  = 5.0
	DefaultFavoriteWeight = 8.0
)

// HotNode 是综合热度排序节点。
//
// score = views*1.0 + likes*10.0 + comments*5.0 + favorites*8.0
//
// 互动计数从 InteractionStore 逐条聚合（有限并发）；无互动记录的内容
// 仅凭浏览量得分。排序为稳定降序：同分内容保持输入顺序，
// 语料与计数不变时两次调用得到相同序。
type HotNode struct {
	Interactions core.InteractionStore

	// 权重可覆盖；零值时采用默认权重。
	ViewWeight     float64
	LikeWeight     float64
	CommentWeight  float64
	FavoriteWeight float64

	// MaxConcurrent 计数聚合的最大并发数；<=0 时默认 8。
	MaxConcurrent int
}

func (n *HotNode) Name() string        { return "rank.hot" }
func (n *HotNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HotNode) weights() (view, like, comment, favorite float64) {
	view, like, comment, favorite = n.ViewWeight, n.LikeWeight, n.CommentWeight, n.FavoriteWeight
	if view == 0 {
		view = DefaultViewWeight
	}
	if like == 0 {
		like = DefaultLikeWeight
	}
	if comment == 0 {
		comment = DefaultCommentWeight
	}
	if favorite == 0 {
		favorite = DefaultFavoriteWeight
	}
	return view, like, comment, favorite
}

func (n *HotNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	viewW, likeW, commentW, favoriteW := n.weights()

	maxConcurrent := n.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrent)
	for _, item := range items {
		it := item
		eg.Go(func() error {
			if it == nil || it.Content == nil {
				return nil
			}

			var likes, comments, favorites int64
			if n.Interactions != nil {
				var err error
				if likes, err = n.Interactions.CountLikes(egCtx, it.ID); err != nil {
					return err
				}
				if comments, err = n.Interactions.CountComments(egCtx, it.ID); err != nil {
					return err
				}
				if favorites, err = n.Interactions.CountFavorites(egCtx, it.ID); err != nil {
					return err
				}
			}

			it.Score = float64(it.Content.ViewCount)*viewW +
				float64(likes)*likeW +
				float64(comments)*commentW +
				float64(favorites)*favoriteW
			it.PutLabel("hot_score", utils.Label{
				Value:  strconv.FormatFloat(it.Score, 'f', 1, 64),
				Source: "rank",
			})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sorted := make([]*core.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted, nil
}
