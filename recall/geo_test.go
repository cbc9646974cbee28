package recall

import (
	"context"
	"testing"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/store"
)

func TestNearby_Recall(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddItem(&core.ContentItem{ID: 1, Lat: ptr(3), Lng: ptr(4), CreatedAt: ts(1)}) // 距离 5
	ms.AddItem(&core.ContentItem{ID: 2, Lat: ptr(0), Lng: ptr(1), CreatedAt: ts(2)}) // 距离 1
	ms.AddItem(&core.ContentItem{ID: 3, CreatedAt: ts(3)})                           // 无定位

	src := &Nearby{Store: ms}
	rctx := &core.RecommendContext{
		Limit: 10,
		Params: map[string]any{
			ParamLatitude:  0.0,
			ParamLongitude: 0.0,
		},
	}
	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if got := itemIDs(items); !equalIDs(got, []int64{2, 1}) {
		t.Errorf("Recall() ids = %v, want [2 1]", got)
	}
	if got := items[0].Labels["distance"].Value; got != "1.0000" {
		t.Errorf("distance label = %q, want %q", got, "1.0000")
	}
	if got := items[1].Labels["distance"].Value; got != "5.0000" {
		t.Errorf("distance label = %q, want %q", got, "5.0000")
	}
}

func TestNearby_MissingCoordinates(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddItem(&core.ContentItem{ID: 1, Lat: ptr(0), Lng: ptr(0), CreatedAt: ts(1)})

	tests := []struct {
		name   string
		params map[string]any
	}{
		{name: "no params"},
		{name: "latitude only", params: map[string]any{ParamLatitude: 1.0}},
		{name: "longitude only", params: map[string]any{ParamLongitude: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &Nearby{Store: ms}
			items, err := src.Recall(context.Background(), &core.RecommendContext{Limit: 10, Params: tt.params})
			if err != nil {
				t.Fatalf("Recall() error = %v", err)
			}
			if len(items) != 0 {
				t.Errorf("Recall() returned %d items, want 0", len(items))
			}
		})
	}
}

func TestNearby_TopKTruncates(t *testing.T) {
	ms := store.NewMemoryStore()
	ms.AddItem(&core.ContentItem{ID: 1, Lat: ptr(0), Lng: ptr(3), CreatedAt: ts(1)})
	ms.AddItem(&core.ContentItem{ID: 2, Lat: ptr(0), Lng: ptr(1), CreatedAt: ts(2)})
	ms.AddItem(&core.ContentItem{ID: 3, Lat: ptr(0), Lng: ptr(2), CreatedAt: ts(3)})

	src := &Nearby{Store: ms, TopK: 2}
	rctx := &core.RecommendContext{
		Limit:  10,
		Params: map[string]any{ParamLatitude: 0.0, ParamLongitude: 0.0},
	}
	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if got := itemIDs(items); !equalIDs(got, []int64{2, 3}) {
		t.Errorf("Recall() ids = %v, want [2 3]", got)
	}
}
