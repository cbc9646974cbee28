// Package engine 实现推荐门面（Facade）：对外暴露五个命名策略，
// 内部把每个策略组装成 Node 链执行。
package engine

import (
	"context"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/filter"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/profile"
	"github.com/foodshare/feedrec/rank"
	"github.com/foodshare/feedrec/recall"
	"github.com/foodshare/feedrec/rerank"
)

// 策略名
const (
	StrategyPersonalized  = "personalized"
	StrategyLocationBased = "location-based"
	StrategyPopular       = "popular"
	StrategyHot           = "hot"
	StrategyLatest        = "latest"
)

// DefaultLimit 是 limit 非法（<=0）时的默认结果条数。
// 边界对调用方宽容：钳制而不是报错，与系统其他分页边界的约定一致。
const DefaultLimit = 10

// Request 是一次推荐请求。
type Request struct {
	// Strategy 策略名（personalized / location-based / popular / hot / latest）。
	Strategy string

	// ViewerID 观看者标识，0 表示匿名。
	ViewerID int64

	// Limit 结果条数上限；<=0 时钳制为 DefaultLimit。
	Limit int

	// Lat/Lng 查询坐标，仅 location-based 使用；任一缺省即降级到 popular。
	Lat *float64
	Lng *float64
}

// Result 是推荐结果：有序内容序列 + 条数。
type Result struct {
	Items []*core.ContentItem
	Count int
}

// Recommender 是门面的抽象接口，装饰器（日志/限流）围绕它包装。
type Recommender interface {
	Recommend(ctx context.Context, req *Request) (*Result, error)
}

// ErrUnknownStrategy 表示策略名不在五个命名策略之内。
var ErrUnknownStrategy = core.NewDomainError(
	core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: unknown strategy")

// Engine 是推荐引擎门面。请求之间无共享可变状态：
// 每次调用按需派生画像、执行 Node 链、返回即弃，天然支持并发请求。
type Engine struct {
	Content      core.ContentStore
	Interactions core.InteractionStore
	Profiles     *profile.Builder

	// Rules 可选：运营侧规则过滤器（如 filter.ExprFilter），挂在每条策略链的
	// 排序之后、截断之前。
	Rules []filter.Filter
}

// New 构建引擎。interests 可为 nil（不接预计算兴趣源）。
func New(content core.ContentStore, interactions core.InteractionStore, interests profile.InterestProvider) *Engine {
	return &Engine{
		Content:      content,
		Interactions: interactions,
		Profiles: &profile.Builder{
			Content:      content,
			Interactions: interactions,
			Provider:     interests,
		},
	}
}

var _ Recommender = (*Engine)(nil)

// Recommend 按策略名分发。未知策略返回 ErrUnknownStrategy。
func (e *Engine) Recommend(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, ErrUnknownStrategy
	}
	switch req.Strategy {
	case StrategyPersonalized:
		return e.Personalized(ctx, req.ViewerID, req.Limit)
	case StrategyLocationBased:
		return e.LocationBased(ctx, req.Lat, req.Lng, req.Limit)
	case StrategyPopular:
		return e.Popular(ctx, req.Limit)
	case StrategyHot:
		return e.Hot(ctx, req.Limit)
	case StrategyLatest:
		return e.Latest(ctx, req.Limit)
	default:
		return nil, ErrUnknownStrategy
	}
}

// Personalized 个性化推荐：社交 → 兴趣 → 热门兜底，合并去重后截断。
// 匿名观看者直接降级到 popular。
func (e *Engine) Personalized(ctx context.Context, viewerID int64, limit int) (*Result, error) {
	limit = clampLimit(limit)
	if viewerID == 0 {
		return e.Popular(ctx, limit)
	}

	prof, err := e.Profiles.Build(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{
		ViewerID: viewerID,
		Scene:    StrategyPersonalized,
		Limit:    limit,
		Profile:  prof,
	}

	p := &pipeline.Pipeline{Nodes: e.withTail(limit,
		&recall.Fanout{
			Sources: []recall.Source{
				&recall.Social{Store: e.Content},
				&recall.Affinity{Store: e.Content},
				&recall.Popular{Store: e.Content, TopK: limit * 2},
			},
		},
		&filter.FilterNode{Filters: []filter.Filter{&filter.InteractedFilter{}}},
	)}
	return e.run(ctx, rctx, p)
}

// LocationBased 附近推荐：按与查询坐标的平面距离升序。
// 任一坐标缺省即降级到 popular。
func (e *Engine) LocationBased(ctx context.Context, lat, lng *float64, limit int) (*Result, error) {
	limit = clampLimit(limit)
	if lat == nil || lng == nil {
		return e.Popular(ctx, limit)
	}

	rctx := &core.RecommendContext{
		Scene: StrategyLocationBased,
		Limit: limit,
		Params: map[string]any{
			recall.ParamLatitude:  *lat,
			recall.ParamLongitude: *lng,
		},
	}

	p := &pipeline.Pipeline{Nodes: e.withTail(limit,
		&recall.Nearby{Store: e.Content},
	)}
	return e.run(ctx, rctx, p)
}

// Popular 热门推荐：浏览量降序，创建时间降序兜底排序。
func (e *Engine) Popular(ctx context.Context, limit int) (*Result, error) {
	limit = clampLimit(limit)
	rctx := &core.RecommendContext{Scene: StrategyPopular, Limit: limit}

	p := &pipeline.Pipeline{Nodes: e.withTail(limit,
		&recall.Popular{Store: e.Content},
	)}
	return e.run(ctx, rctx, p)
}

// Hot 综合热度推荐：全量语料按综合热度分降序。
func (e *Engine) Hot(ctx context.Context, limit int) (*Result, error) {
	limit = clampLimit(limit)
	rctx := &core.RecommendContext{Scene: StrategyHot, Limit: limit}

	p := &pipeline.Pipeline{Nodes: e.withTail(limit,
		&recall.Corpus{Store: e.Content},
		&rank.HotNode{Interactions: e.Interactions},
	)}
	return e.run(ctx, rctx, p)
}

// Latest 最新推荐：创建时间降序。
func (e *Engine) Latest(ctx context.Context, limit int) (*Result, error) {
	limit = clampLimit(limit)
	rctx := &core.RecommendContext{Scene: StrategyLatest, Limit: limit}

	p := &pipeline.Pipeline{Nodes: e.withTail(limit,
		&recall.Latest{Store: e.Content},
	)}
	return e.run(ctx, rctx, p)
}

// withTail 在策略自身的节点后面追加规则过滤与 Top-N 截断。
func (e *Engine) withTail(limit int, nodes ...pipeline.Node) []pipeline.Node {
	if len(e.Rules) > 0 {
		nodes = append(nodes, &filter.FilterNode{Filters: e.Rules})
	}
	return append(nodes, &rerank.TopNNode{N: limit})
}

func (e *Engine) run(ctx context.Context, rctx *core.RecommendContext, p *pipeline.Pipeline) (*Result, error) {
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	contents := core.Contents(items)
	return &Result{Items: contents, Count: len(contents)}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
