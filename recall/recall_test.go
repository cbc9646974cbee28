package recall

import (
	"time"

	"github.com/foodshare/feedrec/core"
)

// 测试夹具：统一的时间线与画像构造

func ts(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour)
}

func ptr(v float64) *float64 { return &v }

func newProfile(viewerID int64, interacted []int64, followees []int64, categories []int64, tags []int64) *core.AffinityProfile {
	p := core.NewAffinityProfile(viewerID)
	for _, id := range interacted {
		p.Interacted[id] = struct{}{}
	}
	for _, id := range followees {
		p.Followees[id] = struct{}{}
	}
	for _, id := range categories {
		p.Categories[id] = struct{}{}
	}
	for _, id := range tags {
		p.Tags[id] = struct{}{}
	}
	return p
}

func itemIDs(items []*core.Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func equalIDs(got []int64, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
