package binding

import (
	"bennypowers.dev/tplmin/internal/log"
	"bennypowers.dev/tplmin/internal/parser/js"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// propagate tracks every class whose superclass resolves to tag members.
// Classes may extend classes declared later, so passes repeat until stable.
func (t *Table) propagate() {
	var classes []*sitter.Node
	js.Walk(t.file.Root(), func(n *sitter.Node) bool {
		if js.IsClass(n) {
			classes = append(classes, n)
		}
		return true
	})

	for pass := 0; pass <= len(classes); pass++ {
		grew := false
		for _, class := range classes {
			if t.classes[class.Id()] != nil {
				continue
			}
			superclass := js.Superclass(class)
			if superclass == nil {
				continue
			}
			members := t.membersOf(superclass, 0)
			if len(members) == 0 {
				continue
			}
			tracked := &TrackedClass{Name: t.className(class), Members: members}
			t.classes[class.Id()] = tracked
			if tracked.Name != "" && t.classNames[tracked.Name] == nil {
				t.classNames[tracked.Name] = tracked
			}
			log.Debug("class %q inherits tag members from %s", tracked.Name, t.file.Text(superclass))
			grew = true
		}
		if !grew {
			break
		}
	}
}

// className returns the name a class is reachable by: its own name, or the
// variable a class expression is assigned to
func (t *Table) className(class *sitter.Node) string {
	if name := class.ChildByFieldName("name"); name != nil {
		return t.file.Text(name)
	}
	parent := class.Parent()
	for parent != nil && parent.Kind() == "parenthesized_expression" {
		parent = parent.Parent()
	}
	if parent != nil && parent.Kind() == "variable_declarator" {
		if name := parent.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
			return t.file.Text(name)
		}
	}
	return ""
}
