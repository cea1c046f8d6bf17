package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintForms(t *testing.T) {
	cases := []struct {
		node Node
		want string
	}{
		{Number(42), "42"},
		{FloatNumber(3.5), "3.5"},
		{BoolNode(true), "true"},
		{BoolNode(false), "false"},
		{NilNode(), "nil"},
		{SymbolNode("lambda"), "lambda"},
		{StringNode("a\nb"), `"a\nb"`},
		{StringNode(`quo"te`), `"quo\"te"`},
		{QuotedNode(SymbolNode("stop")), "'stop"},
		{ListNode(SymbolNode("+"), Number(1), Number(2)), "(+ 1 2)"},
		{ListNode(), "()"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Print(c.node))
	}
}

func TestHeadSymbol(t *testing.T) {
	n := ListNode(SymbolNode("if"), BoolNode(true))
	head, ok := n.HeadSymbol()
	require.True(t, ok)
	require.Equal(t, "if", head)

	_, ok = ListNode(Number(1)).HeadSymbol()
	require.False(t, ok)

	_, ok = ListNode().HeadSymbol()
	require.False(t, ok)

	_, ok = SymbolNode("bare").HeadSymbol()
	require.False(t, ok)
}
