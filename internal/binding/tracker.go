package binding

import (
	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/log"
	"bennypowers.dev/tplmin/internal/parser/js"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// track registers import and require bindings (top level only) and factory
// results (anywhere, in source order, until no new binding appears)
func (t *Table) track() {
	root := t.file.Root()
	for _, stmt := range js.NamedChildren(root) {
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				stmt = decl
			}
		}
		switch stmt.Kind() {
		case "import_statement":
			t.trackImport(stmt)
		case "lexical_declaration", "variable_declaration":
			for _, decl := range js.NamedChildren(stmt) {
				if decl.Kind() == "variable_declarator" {
					t.trackRequire(decl)
				}
			}
		}
	}

	var declarators []*sitter.Node
	js.Walk(root, func(n *sitter.Node) bool {
		if n.Kind() == "variable_declarator" {
			declarators = append(declarators, n)
		}
		return true
	})

	// Factory results can feed further factories; iterate to a fixpoint.
	for pass := 0; pass <= len(declarators); pass++ {
		grew := false
		for _, decl := range declarators {
			if t.trackFactoryResult(decl) {
				grew = true
			}
		}
		if !grew {
			break
		}
	}
}

func (t *Table) trackImport(stmt *sitter.Node) {
	source, ok := t.file.StringValue(stmt.ChildByFieldName("source"))
	if !ok || !t.rules.Has(source) {
		return
	}

	clause := js.FirstChildOfKind(stmt, "import_clause")
	for _, part := range js.NamedChildren(clause) {
		switch part.Kind() {
		case "identifier":
			t.addExport(t.file.Text(part), source, config.DefaultExport, OriginImportDefault)
		case "namespace_import":
			if id := js.FirstChildOfKind(part, "identifier"); id != nil {
				t.addNamespace(t.file.Text(id), source, OriginImportNamespace)
			}
		case "named_imports":
			for _, specifier := range js.NamedChildren(part) {
				if specifier.Kind() != "import_specifier" {
					continue
				}
				name := specifier.ChildByFieldName("name")
				local := specifier.ChildByFieldName("alias")
				if local == nil {
					local = name
				}
				t.addExport(t.file.Text(local), source, t.file.ExportName(name), OriginImportNamed)
			}
		}
	}
}

func (t *Table) trackRequire(decl *sitter.Node) {
	name := decl.ChildByFieldName("name")
	value := js.Unparen(decl.ChildByFieldName("value"))
	if name == nil || value == nil {
		return
	}

	// const x = require('m').member
	if value.Kind() == "member_expression" {
		source, ok := t.requireSpec(js.Unparen(value.ChildByFieldName("object")))
		if !ok || name.Kind() != "identifier" {
			return
		}
		export := t.file.Text(value.ChildByFieldName("property"))
		t.addExport(t.file.Text(name), source, export, OriginRequireNamed)
		return
	}

	source, ok := t.requireSpec(value)
	if !ok {
		return
	}

	switch name.Kind() {
	case "identifier":
		t.addNamespace(t.file.Text(name), source, OriginRequire)
	case "object_pattern":
		for _, prop := range js.NamedChildren(name) {
			switch prop.Kind() {
			case "shorthand_property_identifier_pattern":
				local := t.file.Text(prop)
				t.addExport(local, source, local, OriginRequireNamed)
			case "pair_pattern":
				value := prop.ChildByFieldName("value")
				if value == nil || value.Kind() != "identifier" {
					continue
				}
				export := t.file.ExportName(prop.ChildByFieldName("key"))
				t.addExport(t.file.Text(value), source, export, OriginRequireNamed)
			case "object_assignment_pattern":
				left := prop.ChildByFieldName("left")
				if left != nil && left.Kind() == "shorthand_property_identifier_pattern" {
					local := t.file.Text(left)
					t.addExport(local, source, local, OriginRequireNamed)
				}
			}
		}
	default:
		// array destructuring and other patterns are not module exports
	}
}

// requireSpec returns the module of a `require('m')` call whose specifier is
// configured. Member calls such as obj.require('m') are not requires.
func (t *Table) requireSpec(n *sitter.Node) (string, bool) {
	if n == nil || n.Kind() != "call_expression" {
		return "", false
	}
	callee := n.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" || t.file.Text(callee) != "require" {
		return "", false
	}
	args := n.ChildByFieldName("arguments")
	if args == nil || args.Kind() != "arguments" {
		return "", false
	}
	list := js.NamedChildren(args)
	if len(list) != 1 {
		return "", false
	}
	source, ok := t.file.StringValue(list[0])
	if !ok || !t.rules.Has(source) {
		return "", false
	}
	return source, true
}

func (t *Table) trackFactoryResult(decl *sitter.Node) bool {
	name := decl.ChildByFieldName("name")
	value := js.Unparen(decl.ChildByFieldName("value"))
	if name == nil || name.Kind() != "identifier" || value == nil || value.Kind() != "call_expression" {
		return false
	}
	local := t.file.Text(name)
	if t.bindings[local] != nil {
		return false
	}
	rule := t.factoryFor(value.ChildByFieldName("function"), 0)
	if rule == nil {
		return false
	}
	log.Debug("factory result %s tracked from %s", local, rule)
	return t.add(&Binding{
		Local:       local,
		Module:      rule.Module,
		Origin:      OriginFactoryResult,
		Export:      rule.Export,
		Rule:        rule,
		declaration: decl.Id(),
	})
}

// addExport registers a binding of one export, if a rule covers that export
func (t *Table) addExport(local, module, export string, origin Origin) {
	rule := t.rules.Lookup(module, export)
	if rule == nil {
		return
	}
	if t.add(&Binding{Local: local, Module: module, Origin: origin, Export: export, Rule: rule}) {
		log.Debug("tracked %s as %s (%s)", local, rule, origin)
	}
}

// addNamespace registers a binding whose members are the module's exports.
// A required module object is also its own default export.
func (t *Table) addNamespace(local, module string, origin Origin) {
	b := &Binding{Local: local, Module: module, Origin: origin}
	if origin == OriginRequire {
		b.Export = config.DefaultExport
		b.Rule = t.rules.Lookup(module, config.DefaultExport)
	}
	if t.add(b) {
		log.Debug("tracked namespace %s of %s (%s)", local, module, origin)
	}
}
