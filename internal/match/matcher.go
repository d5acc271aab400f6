// Package match finds the tagged templates of a file that resolve to a
// configured tag.
package match

import (
	"bennypowers.dev/tplmin/internal/binding"
	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/log"
	"bennypowers.dev/tplmin/internal/parser/js"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Site is a matched tagged template. Template refers to the nodes of the
// file's syntax tree and is only valid while the file is open.
type Site struct {
	Call     *sitter.Node
	Template *js.Template
	Rule     *config.TagRule
}

// Kind is the semantic kind of the site's template
func (s *Site) Kind() config.Kind {
	return s.Rule.Kind
}

// Encapsulation is the CSS wrapper element, empty for markup or bare CSS
func (s *Site) Encapsulation() string {
	return s.Rule.Encapsulation
}

// Find returns every matched site in source order; enclosing templates come
// before the templates nested in their expressions
func Find(file *js.File, table *binding.Table) []*Site {
	if table.Empty() {
		return nil
	}

	var sites []*Site
	js.Walk(file.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "call_expression" {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Kind() != "template_string" {
			return true
		}
		tag := n.ChildByFieldName("function")
		rule := table.TagFor(tag)
		if rule == nil {
			return true
		}
		tmpl := js.SplitTemplate(args)
		if tmpl == nil {
			return true
		}
		log.Debug("matched %s at %d:%d as %s", file.Text(tag), n.StartPosition().Row+1, n.StartPosition().Column+1, rule.Kind)
		sites = append(sites, &Site{Call: n, Template: tmpl, Rule: rule})
		return true
	})
	return sites
}
