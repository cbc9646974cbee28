// Package config 组装 Pipeline 的 Node 工厂：把 YAML/JSON 配置映射到内置 Node。
// 运营可以据此为某个场景定制策略链（如在 popular 后挂多样性重排或审核规则）。
package config

import (
	"fmt"
	"time"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/filter"
	"github.com/foodshare/feedrec/pipeline"
	"github.com/foodshare/feedrec/pkg/conv"
	"github.com/foodshare/feedrec/rank"
	"github.com/foodshare/feedrec/recall"
	"github.com/foodshare/feedrec/rerank"
)

// Deps 是 Node 构建所需的外部依赖（领域存储）。
type Deps struct {
	Content      core.ContentStore
	Interactions core.InteractionStore
}

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// Recall Nodes
	factory.Register("recall.fanout", buildFanoutNode(deps))
	factory.Register("recall.social", buildSocialNode(deps))
	factory.Register("recall.affinity", buildAffinityNode(deps))
	factory.Register("recall.popular", buildPopularNode(deps))
	factory.Register("recall.latest", buildLatestNode(deps))
	factory.Register("recall.nearby", buildNearbyNode(deps))
	factory.Register("recall.corpus", buildCorpusNode(deps))

	// Rank Nodes
	factory.Register("rank.hot", buildHotNode(deps))

	// ReRank Nodes
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", buildDiversityNode)

	// Filter Nodes
	factory.Register("filter", buildFilterNode)

	return factory
}

type builder = func(map[string]interface{}) (pipeline.Node, error)

func buildFanoutNode(deps Deps) builder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		sourcesConfig, ok := cfg["sources"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("sources not found or invalid")
		}

		sources := make([]recall.Source, 0, len(sourcesConfig))
		for _, sc := range sourcesConfig {
			sourceMap, ok := sc.(map[string]interface{})
			if !ok {
				continue
			}
			src, err := buildSource(deps, sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}

		fanout := &recall.Fanout{
			Sources: sources,
			Limit:   conv.ConfigGetInt(cfg, "limit", 0),
		}
		if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
			fanout.Timeout = time.Duration(sec) * time.Second
		}
		if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
			fanout.MaxConcurrent = n
		}
		return fanout, nil
	}
}

func buildSource(deps Deps, cfg map[string]interface{}) (recall.Source, error) {
	sourceType := conv.ConfigGet[string](cfg, "type", "")
	topK := conv.ConfigGetInt(cfg, "topk", 0)
	switch sourceType {
	case "social":
		return &recall.Social{Store: deps.Content, TopK: topK}, nil
	case "affinity":
		return &recall.Affinity{Store: deps.Content, TopK: topK}, nil
	case "popular":
		return &recall.Popular{Store: deps.Content, TopK: topK}, nil
	case "latest":
		return &recall.Latest{Store: deps.Content, TopK: topK}, nil
	case "nearby":
		return &recall.Nearby{Store: deps.Content, TopK: topK}, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func buildSocialNode(deps Deps) builder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Social{Store: deps.Content, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	}
}

func buildAffinityNode(deps Deps) builder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Affinity{Store: deps.Content, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	}
}

func buildPopularNode(deps Deps) builder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Popular{Store: deps.Content, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	}
}

func buildLatestNode(deps Deps) builder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Latest{Store: deps.Content, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	}
}

func buildNearbyNode(deps Deps) builder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.Nearby{Store: deps.Content, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	}
}

func buildCorpusNode(deps Deps) builder {
	return func(_ map[string]interface{}) (pipeline.Node, error) {
		return &recall.Corpus{Store: deps.Content}, nil
	}
}

func buildHotNode(deps Deps) builder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		node := &rank.HotNode{Interactions: deps.Interactions}
		if v, ok := conv.ToFloat64(cfg["view_weight"]); ok {
			node.ViewWeight = v
		}
		if v, ok := conv.ToFloat64(cfg["like_weight"]); ok {
			node.LikeWeight = v
		}
		if v, ok := conv.ToFloat64(cfg["comment_weight"]); ok {
			node.CommentWeight = v
		}
		if v, ok := conv.ToFloat64(cfg["favorite_weight"]); ok {
			node.FavoriteWeight = v
		}
		if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
			node.MaxConcurrent = n
		}
		return node, nil
	}
}

func buildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func buildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		MaxPerCategory: conv.ConfigGetInt(cfg, "max_per_category", 0),
	}, nil
}

func buildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet[string](filterMap, "type", "")
		switch filterType {
		case "interacted":
			filters = append(filters, &filter.InteractedFilter{})
		case "expr":
			expr := conv.ConfigGet[string](filterMap, "expr", "")
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("build expr filter: %w", err)
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}
