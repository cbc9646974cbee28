package recall

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/utils"
)

// 请求参数 key（与 Facade 约定一致）
const (
	ParamLatitude  = "latitude"
	ParamLongitude = "longitude"
)

// Nearby 是地理位置召回源：按与查询坐标的距离升序返回带定位的内容。
//
// 距离采用平面欧氏距离 sqrt((lat1-lat2)^2 + (lng1-lng2)^2)，
// 不做大圆修正。内容假定在城市尺度聚集，平面近似误差可接受；
// 平台扩展到大地理范围前需换成 haversine。
//
// 坐标缺失时本召回源被 Facade 整体绕开，降级到 popular。
type Nearby struct {
	Store core.ContentStore

	// TopK 返回的候选上限；<=0 时取 rctx.Limit。
	TopK int
}

func (r *Nearby) Name() string        { return "recall.nearby" }
func (r *Nearby) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Nearby) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Nearby) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil {
		return nil, nil
	}

	lat, latOK := rctx.FloatParam(ParamLatitude)
	lng, lngOK := rctx.FloatParam(ParamLongitude)
	if !latOK || !lngOK {
		return nil, nil
	}

	contents, err := r.Store.FindAllItems(ctx)
	if err != nil {
		return nil, err
	}

	type located struct {
		content  *core.ContentItem
		distance float64
	}
	candidates := make([]located, 0, len(contents))
	for _, c := range contents {
		if !c.HasLocation() {
			continue
		}
		d := planarDistance(*c.Lat, *c.Lng, lat, lng)
		candidates = append(candidates, located{content: c, distance: d})
	}

	// 距离升序；同距离保持存储自然顺序
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	topK := r.TopK
	if topK <= 0 {
		topK = rctx.Limit
	}
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, cand := range candidates {
		it := core.NewItem(cand.content)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		it.PutLabel("distance", utils.Label{
			Value:  strconv.FormatFloat(cand.distance, 'f', 4, 64),
			Source: "recall",
		})
		out = append(out, it)
	}
	return out, nil
}

func planarDistance(lat1, lng1, lat2, lng2 float64) float64 {
	return math.Sqrt(math.Pow(lat1-lat2, 2) + math.Pow(lng1-lng2, 2))
}
