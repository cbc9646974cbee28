package filter

import (
	"context"

	"github.com/foodshare/feedrec/core"
	"github.com/foodshare/feedrec/pkg/dsl"
)

// ExprFilter 是规则表达式过滤器：表达式命中（求值为 true）的内容被剔除。
//
// 规则由运营/审核侧配置（CEL 语法），典型用法是下架整类内容或压制低质内容：
//
//	item.category_id in [7, 9]
//	item.views < 5 && label.recall_source.contains("affinity")
//
// 表达式在构造时编译一次，逐条求值复用；求值出错的条目保留不剔除
// （规则是锦上添花，不能因为规则坏了把整条链路拖垮）。
type ExprFilter struct {
	expr string
	prg  *dsl.Program
}

// NewExprFilter 编译规则表达式并构造过滤器。表达式必须返回布尔值。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{expr: expr, prg: prg}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	matched, err := f.prg.EvalBool(item, rctx)
	if err != nil {
		return false, err
	}
	return matched, nil
}
