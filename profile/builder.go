// Package profile 实现兴趣画像派生：从行为历史计算排除集、关注集与兴趣集。
package profile

import (
	"context"
	"sort"

	"github.com/foodshare/feedrec/core"
)

// InterestProvider 是可选的预计算兴趣来源（如 Feast 在线特征）。
// 返回的分类/标签 ID 会并入派生画像，用于冷启动补充。
type InterestProvider interface {
	Interests(ctx context.Context, viewerID int64) (categoryIDs, tagIDs []int64, err error)
}

// Builder 是兴趣画像构建器。
//
// 画像是当前交互状态的纯函数：每次调用从存储重新派生，不做任何缓存。
// 构建步骤：
//  1. 点赞/收藏/评论过的内容 ID 并集 → 排除集
//  2. 关注边 → 关注集
//  3. 逐个读取排除集中的内容，累积其分类与标签 → 兴趣集
//
// 互动发生后被删除的内容按软缺失处理：仍计入排除集，但不贡献兴趣集。
type Builder struct {
	Content      core.ContentStore
	Interactions core.InteractionStore

	// Provider 可选；Provider 出错时画像退化为纯派生结果（尽力而为路径）。
	Provider InterestProvider
}

// Build 为指定观看者派生画像。viewerID 在此层恒为有效值：
// 匿名观看者在 Facade 层已直接降级到 popular，不会走到这里。
func (b *Builder) Build(ctx context.Context, viewerID int64) (*core.AffinityProfile, error) {
	p := core.NewAffinityProfile(viewerID)

	kinds := []core.InteractionKind{
		core.InteractionLike,
		core.InteractionFavorite,
		core.InteractionComment,
	}
	for _, kind := range kinds {
		ids, err := b.Interactions.FindInteractedItemIDs(ctx, viewerID, kind)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			p.Interacted[id] = struct{}{}
		}
	}

	followees, err := b.Interactions.FindFolloweeIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range followees {
		p.Followees[id] = struct{}{}
	}

	// 按排序后的 ID 读取，保证读取顺序确定
	interacted := make([]int64, 0, len(p.Interacted))
	for id := range p.Interacted {
		interacted = append(interacted, id)
	}
	sort.Slice(interacted, func(i, j int) bool { return interacted[i] < interacted[j] })

	for _, id := range interacted {
		item, err := b.Content.FindItemByID(ctx, id)
		if err != nil {
			if core.IsItemNotFound(err) {
				// 互动后被删除的内容：保留在排除集，跳过兴趣累积
				continue
			}
			return nil, err
		}
		if item.CategoryID != 0 {
			p.Categories[item.CategoryID] = struct{}{}
		}
		for _, tagID := range item.TagIDs {
			p.Tags[tagID] = struct{}{}
		}
	}

	if b.Provider != nil {
		cats, tags, err := b.Provider.Interests(ctx, viewerID)
		if err == nil {
			for _, id := range cats {
				if id != 0 {
					p.Categories[id] = struct{}{}
				}
			}
			for _, id := range tags {
				if id != 0 {
					p.Tags[id] = struct{}{}
				}
			}
		}
	}

	return p, nil
}
