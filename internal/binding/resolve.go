package binding

import (
	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/parser/js"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// TagFor resolves a tag expression to the rule that makes it a template tag.
// It returns nil when the expression is not a tracked tag.
func (t *Table) TagFor(tag *sitter.Node) *config.TagRule {
	return t.tagFor(js.Unparen(tag), 0)
}

func (t *Table) tagFor(n *sitter.Node, depth int) *config.TagRule {
	if n == nil || depth > maxDepth {
		return nil
	}

	switch n.Kind() {
	case "identifier":
		b := t.resolve(n)
		if b == nil || b.Rule == nil {
			return nil
		}
		if b.Rule.Type == config.RuleTag || b.Rule.Type == config.RuleFactory {
			return b.Rule
		}

	case "member_expression":
		object := js.Unparen(n.ChildByFieldName("object"))
		property := t.file.Text(n.ChildByFieldName("property"))
		if object == nil || property == "" {
			return nil
		}

		if object.Kind() == "this" {
			if class := t.Class(js.EnclosingClass(n)); class != nil {
				return class.Members[property]
			}
			return nil
		}

		if module, ok := t.moduleOf(object); ok {
			rule := t.rules.Lookup(module, property)
			if rule != nil && (rule.Type == config.RuleTag || rule.Type == config.RuleFactory) {
				return rule
			}
		}

		// Static access to a member rule: Base.html
		if members := t.membersOf(object, depth+1); members != nil {
			return members[property]
		}

	case "call_expression":
		// factory(...)`...`
		if rule := t.factoryFor(n.ChildByFieldName("function"), depth+1); rule != nil {
			return rule
		}
	}

	return nil
}

// factoryFor resolves a callee to a factory rule, following chained calls
func (t *Table) factoryFor(n *sitter.Node, depth int) *config.TagRule {
	n = js.Unparen(n)
	if n == nil || depth > maxDepth {
		return nil
	}

	switch n.Kind() {
	case "identifier":
		if b := t.resolve(n); b != nil && b.Rule != nil && b.Rule.Type == config.RuleFactory {
			return b.Rule
		}
	case "member_expression":
		object := js.Unparen(n.ChildByFieldName("object"))
		if module, ok := t.moduleOf(object); ok {
			rule := t.rules.Lookup(module, t.file.Text(n.ChildByFieldName("property")))
			if rule != nil && rule.Type == config.RuleFactory {
				return rule
			}
		}
	case "call_expression":
		return t.factoryFor(n.ChildByFieldName("function"), depth+1)
	}

	return nil
}

// MembersOf resolves a superclass expression to the tag members it provides
func (t *Table) MembersOf(expr *sitter.Node) map[string]*config.TagRule {
	return t.membersOf(js.Unparen(expr), 0)
}

func (t *Table) membersOf(n *sitter.Node, depth int) map[string]*config.TagRule {
	n = js.Unparen(n)
	if n == nil || depth > maxDepth {
		return nil
	}

	switch n.Kind() {
	case "identifier":
		name := t.file.Text(n)
		if class := t.classNames[name]; class != nil {
			return class.Members
		}
		if b := t.resolve(n); b != nil {
			return memberRule(b.Rule)
		}

	case "member_expression":
		object := js.Unparen(n.ChildByFieldName("object"))
		if module, ok := t.moduleOf(object); ok {
			return memberRule(t.rules.Lookup(module, t.file.Text(n.ChildByFieldName("property"))))
		}

	case "call_expression":
		// Mixin: the first argument chain that reaches a tracked class wins
		for _, arg := range js.NamedChildren(n.ChildByFieldName("arguments")) {
			if members := t.membersOf(arg, depth+1); members != nil {
				return members
			}
		}

	case "class", "class_declaration":
		if class := t.classes[n.Id()]; class != nil {
			return class.Members
		}
		return t.membersOf(js.Superclass(n), depth+1)
	}

	return nil
}

// moduleOf returns the module whose exports are the members of n: a
// namespace binding or an inline require('m') call
func (t *Table) moduleOf(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind() {
	case "identifier":
		if b := t.resolve(n); b != nil && b.Origin.IsNamespace() {
			return b.Module, true
		}
	case "call_expression":
		return t.requireSpec(n)
	}
	return "", false
}

func memberRule(rule *config.TagRule) map[string]*config.TagRule {
	if rule == nil || rule.Type != config.RuleMember {
		return nil
	}
	return map[string]*config.TagRule{rule.Member: rule}
}
