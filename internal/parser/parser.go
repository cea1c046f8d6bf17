// Package parser converts Sexp DSL source text into an ast.Node tree.
// The parser is pure: identical input always yields an identical AST,
// and partial parses are errors — the full input must resolve to a
// sequence of well-formed expressions.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/errtax"
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

type tokenKind int

const (
	tokLParen tokenKind = iota
	tokRParen
	tokQuote
	tokAtom
	tokString
	tokEOF
)

// Parse parses the entire input into a sequence of top-level
// expressions. An unterminated string, unmatched parenthesis, or
// unexpected token produces a ParseError with 1-based line/column.
func Parse(src string) ([]ast.Node, *errtax.Error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var nodes []ast.Node
	for !p.atEOF() {
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// ParseOne parses exactly one top-level expression, erroring if the
// input contains anything before or after it besides whitespace/comments.
func ParseOne(src string) (ast.Node, *errtax.Error) {
	nodes, err := Parse(src)
	if err != nil {
		return ast.Node{}, err
	}
	if len(nodes) != 1 {
		return ast.Node{}, errtax.ParseError("expected exactly one expression", 1, 1)
	}
	return nodes[0], nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) atEOF() bool { return p.toks[p.pos].kind == tokEOF }
func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (ast.Node, *errtax.Error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		return p.parseList()
	case tokQuote:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return ast.Node{}, err
		}
		return ast.QuotedNode(inner), nil
	case tokString:
		p.advance()
		n := ast.StringNode(t.text)
		n.Line, n.Col = t.line, t.col
		return n, nil
	case tokAtom:
		p.advance()
		return parseAtom(t)
	case tokRParen:
		return ast.Node{}, errtax.ParseError("unexpected )", t.line, t.col)
	default:
		return ast.Node{}, errtax.ParseError("unexpected end of input", t.line, t.col)
	}
}

func (p *parser) parseList() (ast.Node, *errtax.Error) {
	open := p.advance() // consume (
	var items []ast.Node
	for {
		if p.atEOF() {
			return ast.Node{}, errtax.ParseError("unmatched (", open.line, open.col)
		}
		if p.peek().kind == tokRParen {
			p.advance()
			break
		}
		item, err := p.parseExpr()
		if err != nil {
			return ast.Node{}, err
		}
		items = append(items, item)
	}
	n := ast.ListNode(items...)
	n.Line, n.Col = open.line, open.col
	return n, nil
}

func parseAtom(t token) (ast.Node, *errtax.Error) {
	text := t.text
	switch text {
	case "true":
		n := ast.BoolNode(true)
		n.Line, n.Col = t.line, t.col
		return n, nil
	case "false":
		n := ast.BoolNode(false)
		n.Line, n.Col = t.line, t.col
		return n, nil
	case "nil":
		n := ast.NilNode()
		n.Line, n.Col = t.line, t.col
		return n, nil
	}
	if looksNumeric(text) {
		if strings.ContainsAny(text, ".eE") {
			f, convErr := strconv.ParseFloat(text, 64)
			if convErr == nil {
				n := ast.FloatNumber(f)
				n.Line, n.Col = t.line, t.col
				return n, nil
			}
		} else {
			i, convErr := strconv.ParseInt(text, 10, 64)
			if convErr == nil {
				n := ast.Number(i)
				n.Line, n.Col = t.line, t.col
				return n, nil
			}
		}
		return ast.Node{}, errtax.ParseError("malformed numeric literal: "+text, t.line, t.col)
	}
	n := ast.SymbolNode(text)
	n.Line, n.Col = t.line, t.col
	return n, nil
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	return unicode.IsDigit(rune(s[i]))
}

func lex(src string) ([]token, *errtax.Error) {
	var toks []token
	line, col := 1, 1
	runes := []rune(src)
	n := len(runes)
	i := 0

	advance := func() rune {
		r := runes[i]
		i++
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		return r
	}

	for i < n {
		r := runes[i]
		switch {
		case r == ';':
			for i < n && runes[i] != '\n' {
				advance()
			}
		case unicode.IsSpace(r):
			advance()
		case r == '(':
			startLine, startCol := line, col
			advance()
			toks = append(toks, token{kind: tokLParen, line: startLine, col: startCol})
		case r == ')':
			startLine, startCol := line, col
			advance()
			toks = append(toks, token{kind: tokRParen, line: startLine, col: startCol})
		case r == '\'':
			startLine, startCol := line, col
			advance()
			toks = append(toks, token{kind: tokQuote, line: startLine, col: startCol})
		case r == '"':
			startLine, startCol := line, col
			advance()
			var b strings.Builder
			closed := false
			for i < n {
				c := runes[i]
				if c == '"' {
					advance()
					closed = true
					break
				}
				if c == '\\' {
					advance()
					if i >= n {
						break
					}
					esc := advance()
					switch esc {
					case '\\':
						b.WriteByte('\\')
					case '"':
						b.WriteByte('"')
					case 'n':
						b.WriteByte('\n')
					case 't':
						b.WriteByte('\t')
					case 'r':
						b.WriteByte('\r')
					default:
						return nil, errtax.ParseError("invalid escape sequence", line, col)
					}
					continue
				}
				b.WriteRune(c)
				advance()
			}
			if !closed {
				return nil, errtax.ParseError("unterminated string literal", startLine, startCol)
			}
			toks = append(toks, token{kind: tokString, text: b.String(), line: startLine, col: startCol})
		default:
			startLine, startCol := line, col
			var b strings.Builder
			for i < n && !unicode.IsSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' && runes[i] != ';' && runes[i] != '\'' {
				b.WriteRune(advance())
			}
			toks = append(toks, token{kind: tokAtom, text: b.String(), line: startLine, col: startCol})
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line, col: col})
	return toks, nil
}
