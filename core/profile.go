package core

import "sort"

// AffinityProfile 是按请求派生的兴趣画像。
//
// 它是当前交互状态的纯函数：每次 personalized 请求重新计算，用完即弃，
// 不落任何存储（重算永远正确，也就不存在过期问题）。
//
//	维度          作用
//	Interacted    排除集：已互动内容绝不再次推荐
//	Followees     社交召回的作者集合
//	Categories    兴趣分类：分类召回的匹配条件
//	Tags          兴趣标签：分类召回的次要匹配条件
type AffinityProfile struct {
	ViewerID int64

	// Interacted 是观看者点赞、收藏、评论过的内容 ID 并集（排除集）。
	Interacted map[int64]struct{}

	// Followees 是观看者关注的用户 ID 集合。
	Followees map[int64]struct{}

	// Categories / Tags 由已互动内容的属性累积而来。
	Categories map[int64]struct{}
	Tags       map[int64]struct{}
}

func NewAffinityProfile(viewerID int64) *AffinityProfile {
	return &AffinityProfile{
		ViewerID:   viewerID,
		Interacted: make(map[int64]struct{}),
		Followees:  make(map[int64]struct{}),
		Categories: make(map[int64]struct{}),
		Tags:       make(map[int64]struct{}),
	}
}

// HasInteracted 判断内容是否在排除集中。
func (p *AffinityProfile) HasInteracted(itemID int64) bool {
	if p == nil || p.Interacted == nil {
		return false
	}
	_, ok := p.Interacted[itemID]
	return ok
}

// LikesCategory 判断分类是否命中兴趣分类集（0 视为未分类，恒不命中）。
func (p *AffinityProfile) LikesCategory(categoryID int64) bool {
	if p == nil || categoryID == 0 {
		return false
	}
	_, ok := p.Categories[categoryID]
	return ok
}

// LikesAnyTag 判断标签集合是否与兴趣标签集有交集。
func (p *AffinityProfile) LikesAnyTag(tagIDs []int64) bool {
	if p == nil || len(p.Tags) == 0 {
		return false
	}
	for _, id := range tagIDs {
		if _, ok := p.Tags[id]; ok {
			return true
		}
	}
	return false
}

// FolloweeIDs 返回排序后的关注列表，保证下游查询顺序确定。
func (p *AffinityProfile) FolloweeIDs() []int64 {
	if p == nil || len(p.Followees) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(p.Followees))
	for id := range p.Followees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
