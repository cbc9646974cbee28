package core

import (
	"time"

	"github.com/foodshare/feedrec/pkg/utils"
)

// ContentItem 是内容实体的只读快照。
// 由内容侧协作方创建与维护，推荐引擎只读不写：
//   - ViewCount 由外部在详情页浏览时递增，单调不减
//   - CategoryID 为 0 表示未分类
//   - Lat/Lng 可缺省（未填写地理位置的内容不参与附近推荐）
type ContentItem struct {
	ID         int64
	AuthorID   int64
	CategoryID int64
	TagIDs     []int64
	Lat        *float64
	Lng        *float64
	ViewCount  int64
	CreatedAt  time.Time
}

// HasLocation 判断内容是否带有完整的经纬度。
func (c *ContentItem) HasLocation() bool {
	return c != nil && c.Lat != nil && c.Lng != nil
}

// Item 是推荐链路中的统一承载结构：内容 + 分数 + 标签。
// Labels 用于解释与观测（召回来源、热度分等）；Score 用于排序决策。
type Item struct {
	ID      int64
	Content *ContentItem
	Score   float64
	Labels  map[string]utils.Label
}

func NewItem(content *ContentItem) *Item {
	it := &Item{
		Content: content,
		Labels:  make(map[string]utils.Label),
	}
	if content != nil {
		it.ID = content.ID
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Contents 把 Item 序列还原为内容序列，保持顺序。
func Contents(items []*Item) []*ContentItem {
	out := make([]*ContentItem, 0, len(items))
	for _, it := range items {
		if it == nil || it.Content == nil {
			continue
		}
		out = append(out, it.Content)
	}
	return out
}

// WrapItems 把内容序列包装为 Item 序列，保持顺序。
func WrapItems(contents []*ContentItem) []*Item {
	out := make([]*Item, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		out = append(out, NewItem(c))
	}
	return out
}
