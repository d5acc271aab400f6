package js

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Span is a half-open byte range in the source
type Span struct {
	Start uint
	End   uint
}

// Template is a template_string split into static chunks and expression
// slots. len(Chunks) == len(Exprs)+1 always holds.
type Template struct {
	// Node is the template_string node
	Node *sitter.Node
	// Chunks are the raw static text ranges between the backticks and ${...}
	Chunks []Span
	// Exprs are the template_substitution nodes, in source order
	Exprs []*sitter.Node
}

// SplitTemplate splits a template_string node at its substitutions
func SplitTemplate(n *sitter.Node) *Template {
	if n == nil || n.Kind() != "template_string" {
		return nil
	}
	tmpl := &Template{Node: n}
	start := n.StartByte() + 1
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || child.Kind() != "template_substitution" {
			continue
		}
		tmpl.Chunks = append(tmpl.Chunks, Span{Start: start, End: child.StartByte()})
		tmpl.Exprs = append(tmpl.Exprs, child)
		start = child.EndByte()
	}
	end := n.EndByte() - 1
	if end < start {
		end = start
	}
	tmpl.Chunks = append(tmpl.Chunks, Span{Start: start, End: end})
	return tmpl
}

// Raw returns the raw text of each static chunk
func (t *Template) Raw(source []byte) []string {
	raw := make([]string, len(t.Chunks))
	for i, span := range t.Chunks {
		raw[i] = string(source[span.Start:span.End])
	}
	return raw
}
