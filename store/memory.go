// Package store 提供 core 领域接口的基础设施实现：内存（测试/开发）与 Redis（生产）。
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/foodshare/feedrec/core"
)

// MemoryStore 是内存实现的内容/互动存储，用于测试/开发/原型。
// 同时实现 core.ContentStore 与 core.InteractionStore。
// FindAllItems 的自然顺序即写入顺序。
type MemoryStore struct {
	mu    sync.RWMutex
	items []*core.ContentItem
	byID  map[int64]*core.ContentItem

	interactions map[core.InteractionKind]*interactionSet
	follows      map[int64]map[int64]struct{} // follower -> followees
}

type interactionSet struct {
	byViewer map[int64]map[int64]struct{} // viewer -> item ids
	byItem   map[int64]map[int64]struct{} // item -> viewer ids
}

func newInteractionSet() *interactionSet {
	return &interactionSet{
		byViewer: make(map[int64]map[int64]struct{}),
		byItem:   make(map[int64]map[int64]struct{}),
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[int64]*core.ContentItem),
		interactions: map[core.InteractionKind]*interactionSet{
			core.InteractionLike:     newInteractionSet(),
			core.InteractionFavorite: newInteractionSet(),
			core.InteractionComment:  newInteractionSet(),
		},
		follows: make(map[int64]map[int64]struct{}),
	}
}

// AddItem 写入内容（同 ID 覆盖，保持首次写入的位置）。
func (m *MemoryStore) AddItem(item *core.ContentItem) {
	if item == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[item.ID]; ok {
		for i, old := range m.items {
			if old.ID == item.ID {
				m.items[i] = item
				break
			}
		}
	} else {
		m.items = append(m.items, item)
	}
	m.byID[item.ID] = item
}

// RemoveItem 删除内容，互动记录保留（模拟"互动后内容被删除"的软缺失场景）。
func (m *MemoryStore) RemoveItem(itemID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[itemID]; !ok {
		return
	}
	delete(m.byID, itemID)
	for i, it := range m.items {
		if it.ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
}

// AddInteraction 记录一条互动（like / favorite / comment）。
func (m *MemoryStore) AddInteraction(kind core.InteractionKind, viewerID, itemID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.interactions[kind]
	if !ok {
		return
	}
	if set.byViewer[viewerID] == nil {
		set.byViewer[viewerID] = make(map[int64]struct{})
	}
	set.byViewer[viewerID][itemID] = struct{}{}
	if set.byItem[itemID] == nil {
		set.byItem[itemID] = make(map[int64]struct{})
	}
	set.byItem[itemID][viewerID] = struct{}{}
}

// AddFollow 记录一条关注边 follower → followee。
func (m *MemoryStore) AddFollow(followerID, followeeID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.follows[followerID] == nil {
		m.follows[followerID] = make(map[int64]struct{})
	}
	m.follows[followerID][followeeID] = struct{}{}
}

// core.ContentStore

func (m *MemoryStore) FindItemByID(_ context.Context, id int64) (*core.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.byID[id]
	if !ok {
		return nil, core.ErrItemNotFound
	}
	return item, nil
}

func (m *MemoryStore) FindAllItems(_ context.Context) ([]*core.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.ContentItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryStore) FindItemsByAuthors(_ context.Context, authorIDs []int64, limit int) ([]*core.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	authors := make(map[int64]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}

	out := make([]*core.ContentItem, 0, limit)
	for _, item := range m.items {
		if _, ok := authors[item.AuthorID]; ok {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// core.InteractionStore

func (m *MemoryStore) CountLikes(_ context.Context, itemID int64) (int64, error) {
	return m.countByItem(core.InteractionLike, itemID), nil
}

func (m *MemoryStore) CountComments(_ context.Context, itemID int64) (int64, error) {
	return m.countByItem(core.InteractionComment, itemID), nil
}

func (m *MemoryStore) CountFavorites(_ context.Context, itemID int64) (int64, error) {
	return m.countByItem(core.InteractionFavorite, itemID), nil
}

func (m *MemoryStore) countByItem(kind core.InteractionKind, itemID int64) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.interactions[kind]
	if !ok {
		return 0
	}
	return int64(len(set.byItem[itemID]))
}

func (m *MemoryStore) FindInteractedItemIDs(_ context.Context, viewerID int64, kind core.InteractionKind) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.interactions[kind]
	if !ok {
		return nil, nil
	}
	return sortedIDs(set.byViewer[viewerID]), nil
}

func (m *MemoryStore) FindFolloweeIDs(_ context.Context, viewerID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedIDs(m.follows[viewerID]), nil
}

func sortedIDs(set map[int64]struct{}) []int64 {
	if len(set) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var (
	_ core.ContentStore     = (*MemoryStore)(nil)
	_ core.InteractionStore = (*MemoryStore)(nil)
)
