// Package dsl 提供基于 CEL (Common Expression Language) 的规则表达式求值，
// 用于把运营/审核侧配置的布尔规则应用到推荐链路（如 filter.ExprFilter）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/foodshare/feedrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// getCELEnv 获取或创建 CEL 环境，定义可用变量
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("viewer", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的规则表达式，可跨 Item 复用（一次编译，多次求值）。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.views > 100 / item.category_id == 3
//   - 集合：item.category_id in [2, 5] / 7 in item.tag_ids
//   - 逻辑：item.views > 10 && viewer.id != item.author_id
//   - 标签：label.recall_source.contains("social")
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译 DSL 表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// EvalBool 对单个 Item 求值，返回布尔结果。
func (p *Program) EvalBool(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误；
		// 规则应使用 label.key != null 检查存在性，而不是直接访问。
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]interface{} {
	itemMap := map[string]interface{}{
		"id":    item.ID,
		"score": item.Score,
	}
	if c := item.Content; c != nil {
		itemMap["author_id"] = c.AuthorID
		itemMap["category_id"] = c.CategoryID
		itemMap["tag_ids"] = c.TagIDs
		itemMap["views"] = c.ViewCount
	}

	// label 提供顶层访问：label.recall_source 直接取 value。
	// 注意：CEL 访问不存在的 key 会报错，规则侧用 label.key != null 检查存在性。
	labelAccessor := make(map[string]interface{}, len(item.Labels))
	for k, v := range item.Labels {
		labelAccessor[k] = v.Value
	}

	viewer := map[string]interface{}{"id": int64(0), "anonymous": true}
	if rctx != nil {
		viewer["id"] = rctx.ViewerID
		viewer["anonymous"] = rctx.Anonymous()
	}

	return map[string]interface{}{
		"item":   itemMap,
		"label":  labelAccessor,
		"viewer": viewer,
	}
}
