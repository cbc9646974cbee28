// Package feedrec 是内容分享平台的推荐引擎。
//
// 设计要点：
//   - Pipeline-first: 每个策略都是 Node 链（Recall → Filter → Rank → ReRank）
//   - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
//   - 无状态: 请求之间不共享可变状态，画像按请求派生、用完即弃
//   - 降级链: 匿名观看者 / 缺失坐标 / 候选不足时逐级退到热门兜底
//
// 对外入口是 engine.Engine 的五个命名策略：
// personalized / location-based / popular / hot / latest。
package feedrec

import "github.com/foodshare/feedrec/pipeline"

// 轻量 facade：便于用户直接 import "feedrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
