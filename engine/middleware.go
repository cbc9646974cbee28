package engine

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/foodshare/feedrec/core"
)

// Middleware 是围绕 Recommender 的显式装饰器。
// 横切关注点（日志、限流）不做隐式拦截，只以包装函数的形式挂在门面外侧。
type Middleware func(Recommender) Recommender

// Chain 按声明顺序包装：Chain(r, A, B) 的调用顺序是 A → B → r。
func Chain(r Recommender, mws ...Middleware) Recommender {
	for i := len(mws) - 1; i >= 0; i-- {
		r = mws[i](r)
	}
	return r
}

// recommenderFunc 让普通函数满足 Recommender。
type recommenderFunc func(ctx context.Context, req *Request) (*Result, error)

func (f recommenderFunc) Recommend(ctx context.Context, req *Request) (*Result, error) {
	return f(ctx, req)
}

// WithLogging 返回请求日志装饰器：记录策略、观看者、条数与耗时。
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next Recommender) Recommender {
		return recommenderFunc(func(ctx context.Context, req *Request) (*Result, error) {
			start := time.Now()
			res, err := next.Recommend(ctx, req)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			if req != nil {
				evt = evt.
					Str("strategy", req.Strategy).
					Int64("viewer_id", req.ViewerID).
					Int("limit", req.Limit)
			}
			if res != nil {
				evt = evt.Int("count", res.Count)
			}
			evt.Dur("elapsed", time.Since(start)).Msg("recommend")

			return res, err
		})
	}
}

// ErrRateLimited 表示调用方触发限流。
var ErrRateLimited = core.NewDomainError(
	core.ModuleEngine, core.ErrorCodeUnavailable, "engine: rate limit exceeded")

// WithRateLimit 返回按调用方分桶的令牌桶限流装饰器。
//
// 每个调用方一个 rate.Limiter，保存在并发安全的 sync.Map 里；
// keyFunc 为 nil 时按 ViewerID 分桶（匿名请求共用 "anon" 桶）。
// 触发限流返回 ErrRateLimited，不排队等待。
func WithRateLimit(limit rate.Limit, burst int, keyFunc func(*Request) string) Middleware {
	if keyFunc == nil {
		keyFunc = func(req *Request) string {
			if req == nil || req.ViewerID == 0 {
				return "anon"
			}
			return strconv.FormatInt(req.ViewerID, 10)
		}
	}

	var limiters sync.Map // key -> *rate.Limiter
	limiterFor := func(key string) *rate.Limiter {
		if l, ok := limiters.Load(key); ok {
			return l.(*rate.Limiter)
		}
		l, _ := limiters.LoadOrStore(key, rate.NewLimiter(limit, burst))
		return l.(*rate.Limiter)
	}

	return func(next Recommender) Recommender {
		return recommenderFunc(func(ctx context.Context, req *Request) (*Result, error) {
			if !limiterFor(keyFunc(req)).Allow() {
				return nil, ErrRateLimited
			}
			return next.Recommend(ctx, req)
		})
	}
}
