package recall

import (
	"context"
	"testing"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/store"
)

func TestPopular_Recall(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddItem(&core.ContentItem{ID: 1, ViewCount: 5, CreatedAt: ts(1)})
	ms.AddItem(&core.ContentItem{ID: 2, ViewCount: 20, CreatedAt: ts(2)})
	ms.AddItem(&core.ContentItem{ID: 3, ViewCount: 1, CreatedAt: ts(3)})

	tests := []struct {
		name    string
		limit   int
		profile *core.AffinityProfile
		want    []int64
	}{
		{
			name:  "views desc",
			limit: 10,
			want:  []int64{2, 1, 3},
		},
		{
			name:  "limit truncates after sorting",
			limit: 2,
			want:  []int64{2, 1},
		},
		{
			name:    "exclusion set applies",
			limit:   10,
			profile: newProfile(7, []int64{2}, nil, nil, nil),
			want:    []int64{1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &Popular{Store: ms}
			rctx := &core.RecommendContext{Limit: tt.limit, Profile: tt.profile}
			items, err := src.Recall(context.Background(), rctx)
			if err != nil {
				t.Fatalf("Recall() error = %v", err)
			}
			if got := itemIDs(items); !equalIDs(got, tt.want) {
				t.Errorf("Recall() ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByViews_TieBreaksOnRecency(t *testing.T) {
	contents := []*core.ContentItem{
		{ID: 1, ViewCount: 10, CreatedAt: ts(1)},
		{ID: 2, ViewCount: 10, CreatedAt: ts(3)},
		{ID: 3, ViewCount: 10, CreatedAt: ts(2)},
		{ID: 4, ViewCount: 99, CreatedAt: ts(1)},
	}
	SortByViews(contents)

	want := []int64{4, 2, 3, 1}
	for i, c := range contents {
		if c.ID != want[i] {
			t.Fatalf("SortByViews order = %v at %d, want %v", c.ID, i, want)
		}
	}
}

// viewIndexed 包装 MemoryStore 并提供浏览量索引，验证类型断言的快路径。
type viewIndexed struct {
	*store.MemoryStore
	called bool
}

func (s *viewIndexed) TopByViews(ctx context.Context, limit int) ([]*core.ContentItem, error) {
	s.called = true
	contents, err := s.FindAllItems(ctx)
	if err != nil {
		return nil, err
	}
	SortByViews(contents)
	if limit > 0 && len(contents) > limit {
		contents = contents[:limit]
	}
	return contents, nil
}

func TestPopular_UsesViewIndexWhenAvailable(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddItem(&core.ContentItem{ID: 1, ViewCount: 5, CreatedAt: ts(1)})
	ms.AddItem(&core.ContentItem{ID: 2, ViewCount: 20, CreatedAt: ts(2)})

	indexed := &viewIndexed{MemoryStore: ms}
	src := &Popular{Store: indexed}
	items, err := src.Recall(context.Background(), &core.RecommendContext{Limit: 10})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if !indexed.called {
		t.Errorf("indexed path not taken")
	}
	if got := itemIDs(items); !equalIDs(got, []int64{2, 1}) {
		t.Errorf("Recall() ids = %v, want [2 1]", got)
	}
}
