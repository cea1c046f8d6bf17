// Package ast defines the tagged-variant AST produced by the parser.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag identifies which variant a Node holds. Dispatch on Tag must be
// exhaustive everywhere the evaluator switches on a Node — an unknown
// tag is a programming error, not a runtime condition to recover from.
type Tag int

const (
	TagNumber Tag = iota
	TagBool
	TagString
	TagSymbol
	TagNil
	TagList
	TagQuoted
)

// Node is an immutable AST node. Exactly one of the typed fields is
// meaningful, selected by Tag.
type Node struct {
	Tag     Tag
	Int     int64
	Float   float64
	IsFloat bool
	Bool    bool
	Str     string
	Sym     string
	Items   []Node // TagList
	Quoted  *Node  // TagQuoted

	Line, Col int // 1-based source position, 0 if synthesized
}

// Number constructs an integer-valued Number node.
func Number(v int64) Node { return Node{Tag: TagNumber, Int: v} }

// FloatNumber constructs a float-valued Number node.
func FloatNumber(v float64) Node { return Node{Tag: TagNumber, Float: v, IsFloat: true} }

// BoolNode constructs a Bool node.
func BoolNode(v bool) Node { return Node{Tag: TagBool, Bool: v} }

// StringNode constructs a String node.
func StringNode(v string) Node { return Node{Tag: TagString, Str: v} }

// SymbolNode constructs a Symbol node.
func SymbolNode(v string) Node { return Node{Tag: TagSymbol, Sym: v} }

// NilNode constructs the Nil node.
func NilNode() Node { return Node{Tag: TagNil} }

// ListNode constructs a List node from its children.
func ListNode(items ...Node) Node { return Node{Tag: TagList, Items: items} }

// QuotedNode constructs a Quoted wrapper around child.
func QuotedNode(child Node) Node { return Node{Tag: TagQuoted, Quoted: &child} }

// IsNil reports whether this node is the Nil literal.
func (n Node) IsNil() bool { return n.Tag == TagNil }

// HeadSymbol returns the symbol name of a list's first element and
// true, or ("", false) if n is not a non-empty list headed by a symbol.
func (n Node) HeadSymbol() (string, bool) {
	if n.Tag != TagList || len(n.Items) == 0 {
		return "", false
	}
	head := n.Items[0]
	if head.Tag != TagSymbol {
		return "", false
	}
	return head.Sym, true
}

// Print renders n back to canonical source text. parse(Print(parse(x)))
// must reproduce parse(x) up to whitespace — Print is the other half of
// that round-trip property.
func Print(n Node) string {
	var b strings.Builder
	print(&b, n)
	return b.String()
}

func print(b *strings.Builder, n Node) {
	switch n.Tag {
	case TagNumber:
		if n.IsFloat {
			b.WriteString(strconv.FormatFloat(n.Float, 'g', -1, 64))
		} else {
			b.WriteString(strconv.FormatInt(n.Int, 10))
		}
	case TagBool:
		if n.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case TagString:
		b.WriteString(quoteString(n.Str))
	case TagSymbol:
		b.WriteString(n.Sym)
	case TagNil:
		b.WriteString("nil")
	case TagQuoted:
		b.WriteByte('\'')
		print(b, *n.Quoted)
	case TagList:
		b.WriteByte('(')
		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			print(b, item)
		}
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("ast: unknown tag %d", n.Tag))
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
