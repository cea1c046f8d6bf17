package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sexpruntime/core/internal/ast"
)

func TestParseLiterals(t *testing.T) {
	nodes, err := Parse(`42 3.5 true false nil "hi\n" sym`)
	require.Nil(t, err)
	require.Len(t, nodes, 7)
	require.Equal(t, ast.TagNumber, nodes[0].Tag)
	require.Equal(t, int64(42), nodes[0].Int)
	require.Equal(t, ast.TagNumber, nodes[1].Tag)
	require.True(t, nodes[1].IsFloat)
	require.Equal(t, ast.TagBool, nodes[2].Tag)
	require.True(t, nodes[2].Bool)
	require.Equal(t, ast.TagBool, nodes[3].Tag)
	require.False(t, nodes[3].Bool)
	require.Equal(t, ast.TagNil, nodes[4].Tag)
	require.Equal(t, "hi\n", nodes[5].Str)
	require.Equal(t, ast.TagSymbol, nodes[6].Tag)
}

func TestParseListAndQuote(t *testing.T) {
	n, err := ParseOne(`(if (> 2 1) 'yes 'no)`)
	require.Nil(t, err)
	require.Equal(t, ast.TagList, n.Tag)
	head, ok := n.HeadSymbol()
	require.True(t, ok)
	require.Equal(t, "if", head)
	require.Equal(t, ast.TagQuoted, n.Items[2].Tag)
}

func TestParseIgnoresComments(t *testing.T) {
	n, err := ParseOne("(+ 1 2) ; trailing comment\n")
	require.Nil(t, err)
	require.Equal(t, ast.TagList, n.Tag)
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := Parse(`"unterminated`)
	require.NotNil(t, err)
	require.Equal(t, "syntax_error", err.Reason)
}

func TestParseUnmatchedParen(t *testing.T) {
	_, err := Parse(`(+ 1 2`)
	require.NotNil(t, err)
}

func TestParseUnexpectedCloseParen(t *testing.T) {
	_, err := Parse(`)`)
	require.NotNil(t, err)
}

func TestRoundTrip(t *testing.T) {
	src := `(let ((x 10) (y 20)) (if true (list x y "s") nil))`
	n1, err := ParseOne(src)
	require.Nil(t, err)
	printed := ast.Print(n1)
	n2, err := ParseOne(printed)
	require.Nil(t, err)
	require.Equal(t, ast.Print(n2), printed)
}
