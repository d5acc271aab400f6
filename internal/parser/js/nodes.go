package js

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Walk visits n and its descendants in source order. Returning false from
// visit skips the node's children.
func Walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		Walk(n.Child(i), visit)
	}
}

// Unparen strips any parenthesized_expression wrappers
func Unparen(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == "parenthesized_expression" {
		n = n.NamedChild(0)
	}
	return n
}

// NamedChildren returns the named children of n, skipping comments
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

// FirstChildOfKind returns the first direct child with the given kind
func FirstChildOfKind(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// StringValue returns the value of a string literal node. Only the escapes
// that can appear in module specifiers are decoded.
func (f *File) StringValue(n *sitter.Node) (string, bool) {
	if n == nil || n.Kind() != "string" {
		return "", false
	}
	text := f.Text(n)
	if len(text) < 2 {
		return "", false
	}
	inner := text[1 : len(text)-1]
	if !strings.Contains(inner, `\`) {
		return inner, true
	}
	return strings.NewReplacer(`\\`, `\`, `\'`, `'`, `\"`, `"`).Replace(inner), true
}

// Name returns the identifier text of n, or "" when n is not an identifier
func (f *File) Name(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "identifier", "property_identifier", "shorthand_property_identifier_pattern",
		"shorthand_property_identifier", "type_identifier":
		return f.Text(n)
	}
	return ""
}

// ExportName returns the name of a module export as written in an
// import_specifier or object pattern key, which may be a string.
func (f *File) ExportName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "string" {
		v, _ := f.StringValue(n)
		return v
	}
	return f.Text(n)
}

// RebindsThis reports whether a node of this kind introduces its own `this`
func RebindsThis(kind string) bool {
	switch kind {
	case "function_declaration", "function_expression", "function",
		"generator_function", "generator_function_declaration":
		return true
	}
	return false
}

// IsClass reports whether the node is a class declaration or class expression
func IsClass(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case "class_declaration", "class":
		return true
	}
	return false
}

// Superclass returns the expression after `extends`, or nil
func Superclass(class *sitter.Node) *sitter.Node {
	heritage := FirstChildOfKind(class, "class_heritage")
	if heritage == nil {
		return nil
	}
	return Unparen(heritage.NamedChild(0))
}

// EnclosingClass returns the class whose body lexically provides `this` at n,
// or nil when n is outside any class or inside a non-arrow function.
func EnclosingClass(n *sitter.Node) *sitter.Node {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		kind := cur.Kind()
		if RebindsThis(kind) {
			return nil
		}
		if kind == "class_body" {
			if class := cur.Parent(); IsClass(class) {
				return class
			}
			return nil
		}
	}
	return nil
}
