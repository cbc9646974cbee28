package rerank

import (
	"context"
	"testing"

	"github.com/foodshare/feedrec/core"
)

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(&core.ContentItem{ID: id}))
	}
	return out
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		in   []*core.Item
		want int
	}{
		{name: "truncates", n: 2, in: items(1, 2, 3), want: 2},
		{name: "shorter input untouched", n: 5, in: items(1, 2), want: 2},
		{name: "zero n passes through", n: 0, in: items(1, 2, 3), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
			// 截断不打乱顺序
			for i, it := range out {
				if it.ID != tt.in[i].ID {
					t.Errorf("order changed at %d: got %d, want %d", i, it.ID, tt.in[i].ID)
				}
			}
		})
	}
}

func TestDiversity(t *testing.T) {
	in := []*core.Item{
		core.NewItem(&core.ContentItem{ID: 1, CategoryID: 1}),
		core.NewItem(&core.ContentItem{ID: 2, CategoryID: 1}),
		core.NewItem(&core.ContentItem{ID: 3, CategoryID: 2}),
		core.NewItem(&core.ContentItem{ID: 4}), // 未分类不受限
		core.NewItem(&core.ContentItem{ID: 5}),
		core.NewItem(&core.ContentItem{ID: 6, CategoryID: 1}),
	}

	tests := []struct {
		name string
		max  int
		want []int64
	}{
		{name: "default cap is one per category", max: 0, want: []int64{1, 3, 4, 5}},
		{name: "cap of two", max: 2, want: []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &Diversity{MaxPerCategory: tt.max}
			out, err := node.Process(context.Background(), nil, in)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			got := ids(out)
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
