package recall

import (
	"context"
	"testing"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/store"
)

func TestAffinity_Recall(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddItem(&core.ContentItem{ID: 1, CategoryID: 1, ViewCount: 10, CreatedAt: ts(1)})
	ms.AddItem(&core.ContentItem{ID: 2, CategoryID: 1, ViewCount: 50, CreatedAt: ts(2)})
	ms.AddItem(&core.ContentItem{ID: 3, CategoryID: 2, TagIDs: []int64{9}, ViewCount: 30, CreatedAt: ts(3)})
	ms.AddItem(&core.ContentItem{ID: 4, CategoryID: 3, ViewCount: 99, CreatedAt: ts(4)}) // 无兴趣命中

	tests := []struct {
		name    string
		profile *core.AffinityProfile
		topK    int
		want    []int64
	}{
		{
			name:    "category match sorted by views desc",
			profile: newProfile(7, nil, nil, []int64{1}, nil),
			want:    []int64{2, 1},
		},
		{
			name:    "tag match joins category match",
			profile: newProfile(7, nil, nil, []int64{1}, []int64{9}),
			want:    []int64{2, 3, 1},
		},
		{
			name:    "interacted excluded",
			profile: newProfile(7, []int64{2}, nil, []int64{1}, nil),
			want:    []int64{1},
		},
		{
			name:    "topk truncates",
			profile: newProfile(7, nil, nil, []int64{1}, []int64{9}),
			topK:    2,
			want:    []int64{2, 3},
		},
		{
			name:    "empty interests yield nothing",
			profile: newProfile(7, nil, nil, nil, nil),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &Affinity{Store: ms, TopK: tt.topK}
			rctx := &core.RecommendContext{ViewerID: 7, Limit: 10, Profile: tt.profile}
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

func TestAffinity_TieKeepsNaturalOrder(t *testing.T) {
	ms := store.NewMemoryStore()
	// 同浏览量：写入顺序即返回顺序
	ms.AddItem(&core.ContentItem{ID: 1, CategoryID: 1, ViewCount: 10, CreatedAt: ts(1)})
	ms.AddItem(&core.ContentItem{ID: 2, CategoryID: 1, ViewCount: 10, CreatedAt: ts(2)})
	ms.AddItem(&core.ContentItem{ID: 3, CategoryID: 1, ViewCount: 10, CreatedAt: ts(3)})

	src := &Affinity{Store: ms}
	rctx := &core.RecommendContext{ViewerID: 7, Limit: 10, Profile: newProfile(7, nil, nil, []int64{1}, nil)}
	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if got := itemIDs(items); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("Recall() ids = %v, want [1 2 3]", got)
	}
}
