package binding

import (
	"bennypowers.dev/tplmin/internal/parser/js"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// resolve returns the binding an identifier refers to, or nil when the name
// is untracked or an enclosing parameter or block declaration shadows it
func (t *Table) resolve(id *sitter.Node) *Binding {
	name := t.file.Text(id)
	b := t.bindings[name]
	if b == nil {
		return nil
	}
	for cur := id.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case "function_declaration", "function_expression", "function",
			"generator_function", "generator_function_declaration",
			"arrow_function", "method_definition":
			if t.declares(cur.ChildByFieldName("parameters"), name) ||
				t.declares(cur.ChildByFieldName("parameter"), name) {
				return nil
			}
		case "catch_clause":
			if t.declares(cur.ChildByFieldName("parameter"), name) {
				return nil
			}
		case "statement_block":
			if t.blockDeclares(cur, name, b) {
				return nil
			}
		}
	}
	return b
}

// blockDeclares reports whether a block's own declarations introduce name,
// other than the declarator that created b
func (t *Table) blockDeclares(block *sitter.Node, name string, b *Binding) bool {
	for _, stmt := range js.NamedChildren(block) {
		switch stmt.Kind() {
		case "lexical_declaration", "variable_declaration":
			for _, decl := range js.NamedChildren(stmt) {
				if decl.Kind() != "variable_declarator" || decl.Id() == b.declaration {
					continue
				}
				if t.declares(decl.ChildByFieldName("name"), name) {
					return true
				}
			}
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if t.file.Text(stmt.ChildByFieldName("name")) == name {
				return true
			}
		}
	}
	return false
}

// declares reports whether a parameter list or binding pattern binds name
func (t *Table) declares(pattern *sitter.Node, name string) bool {
	if pattern == nil {
		return false
	}
	switch pattern.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		return t.file.Text(pattern) == name
	case "assignment_pattern", "object_assignment_pattern":
		return t.declares(pattern.ChildByFieldName("left"), name)
	case "pair_pattern":
		return t.declares(pattern.ChildByFieldName("value"), name)
	case "formal_parameters", "object_pattern", "array_pattern", "rest_pattern":
		for _, child := range js.NamedChildren(pattern) {
			if t.declares(child, name) {
				return true
			}
		}
	}
	return false
}
