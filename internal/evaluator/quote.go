package evaluator

import (
	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/value"
)

// quoteToValue recursively lowers an unevaluated ast.Node into runtime
// data: `quote`/`'` never re-enters Eval, so a quoted symbol becomes a
// value.Symbol and a quoted list becomes a value.Sequence of
// recursively-converted elements — never a value carrying raw AST,
// which would blur code and data (e.g. (list 'stop n) must produce
// value.Sequence{value.Symbol("stop"), n}, matching the loop
// controller's (stop value) decision shape).
func quoteToValue(n ast.Node) any {
	switch n.Tag {
	case ast.TagNumber:
		if n.IsFloat {
			return n.Float
		}
		return n.Int
	case ast.TagBool:
		return n.Bool
	case ast.TagString:
		return n.Str
	case ast.TagNil:
		return nil
	case ast.TagSymbol:
		return value.Symbol(n.Sym)
	case ast.TagQuoted:
		return value.Sequence{value.Symbol("quote"), quoteToValue(*n.Quoted)}
	case ast.TagList:
		seq := make(value.Sequence, len(n.Items))
		for i, item := range n.Items {
			seq[i] = quoteToValue(item)
		}
		return seq
	default:
		panic("evaluator: unknown ast tag in quoteToValue")
	}
}
