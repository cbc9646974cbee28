package rank

import (
	"context"
	"testing"
	"time"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/store"
)

func wrap(contents ...*core.ContentItem) []*core.Item {
	return core.WrapItems(contents)
}

func TestHotNode_CompositeScore(t *testing.T) {
	ms := store.NewMemoryStore()
	// X: 10 次浏览、2 赞、1 评 → 10*1 + 2*10 + 1*5 = 35
	// Y: 0 次浏览、3 赞        → 3*10 = 30
	for i := int64(1); i <= 2; i++ {
		ms.AddInteraction(core.InteractionLike, 100+i, 1)
	}
	ms.AddInteraction(core.InteractionComment, 101, 1)
	for i := int64(1); i <= 3; i++ {
		ms.AddInteraction(core.InteractionLike, 200+i, 2)
	}

	x := &core.ContentItem{ID: 1, ViewCount: 10, CreatedAt: time.Unix(0, 0)}
	y := &core.ContentItem{ID: 2, ViewCount: 0, CreatedAt: time.Unix(0, 0)}

	node := &HotNode{Interactions: ms}
	items, err := node.Process(context.Background(), nil, wrap(y, x))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("order = [%d %d], want [1 2]", items[0].ID, items[1].ID)
	}
	if items[0].Score != 35 {
		t.Errorf("score(X) = %v, want 35", items[0].Score)
	}
	if items[1].Score != 30 {
		t.Errorf("score(Y) = %v, want 30", items[1].Score)
	}
	if got := items[0].Labels["hot_score"].Value; got != "35.0" {
		t.Errorf("hot_score label = %q, want %q", got, "35.0")
	}
}

func TestHotNode_NoInteractionsScoresViewsOnly(t *testing.T) {
	ms := store.NewMemoryStore()
	node := &HotNode{Interactions: ms}

	items, err := node.Process(context.Background(), nil, wrap(
		&core.ContentItem{ID: 1, ViewCount: 7},
	))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if items[0].Score != 7 {
		t.Errorf("score = %v, want 7", items[0].Score)
	}
}

func TestHotNode_FavoriteWeight(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddInteraction(core.InteractionFavorite, 100, 1)

	node := &HotNode{Interactions: ms}
	items, err := node.Process(context.Background(), nil, wrap(
		&core.ContentItem{ID: 1, ViewCount: 2},
	))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if items[0].Score != 10 { // 2*1 + 1*8
		t.Errorf("score = %v, want 10", items[0].Score)
	}
}

func TestHotNode_Deterministic(t *testing.T) {
	ms := store.NewMemoryStore()
	// 三条同分内容 + 一条高分内容：稳定排序保持输入顺序
	in := wrap(
		&core.ContentItem{ID: 1, ViewCount: 10},
		&core.ContentItem{ID: 2, ViewCount: 10},
		&core.ContentItem{ID: 3, ViewCount: 10},
		&core.ContentItem{ID: 4, ViewCount: 50},
	)

	node := &HotNode{Interactions: ms}
	want := []int64{4, 1, 2, 3}
	for round := 0; round < 5; round++ {
		items, err := node.Process(context.Background(), nil, in)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		for i, it := range items {
			if it.ID != want[i] {
				t.Fatalf("round %d order mismatch at %d: got %d, want %d", round, i, it.ID, want[i])
			}
		}
	}
}

func TestHotNode_WeightOverrides(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddInteraction(core.InteractionLike, 100, 1)

	node := &HotNode{Interactions: ms, LikeWeight: 2}
	items, err := node.Process(context.Background(), nil, wrap(
		&core.ContentItem{ID: 1, ViewCount: 3},
	))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if items[0].Score != 5 { // 3*1 + 1*2
		t.Errorf("score = %v, want 5", items[0].Score)
	}
}
