// Package binding builds the per-file table of local names that reach
// configured template tags, and extends it across class inheritance.
package binding

import (
	"sort"

	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/parser/js"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxDepth bounds recursion through nested mixin calls and member chains
const maxDepth = 64

// Table is the lookup built for one file. It is discarded with the file.
type Table struct {
	file     *js.File
	rules    *config.Rules
	bindings map[string]*Binding

	classes    map[uintptr]*TrackedClass
	classNames map[string]*TrackedClass
}

// Build runs both phases for one file: binding tracking, then class
// propagation. Matching must only start once Build has returned.
func Build(file *js.File, rules *config.Rules) *Table {
	t := &Table{
		file:       file,
		rules:      rules,
		bindings:   make(map[string]*Binding),
		classes:    make(map[uintptr]*TrackedClass),
		classNames: make(map[string]*TrackedClass),
	}
	if rules.Empty() {
		return t
	}
	t.track()
	if len(t.bindings) > 0 {
		t.propagate()
	}
	return t
}

// Empty reports whether the file has no tracked bindings at all
func (t *Table) Empty() bool {
	return len(t.bindings) == 0
}

// Lookup returns the binding for a local name
func (t *Table) Lookup(local string) *Binding {
	return t.bindings[local]
}

// Bindings returns all bindings sorted by local name
func (t *Table) Bindings() []*Binding {
	out := make([]*Binding, 0, len(t.bindings))
	for _, b := range t.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Local < out[j].Local })
	return out
}

// Class returns the tracked class for a class node, or nil
func (t *Table) Class(class *sitter.Node) *TrackedClass {
	if class == nil {
		return nil
	}
	return t.classes[class.Id()]
}

// ClassNamed returns a tracked class by its declared or assigned name
func (t *Table) ClassNamed(name string) *TrackedClass {
	return t.classNames[name]
}

func (t *Table) add(b *Binding) bool {
	if _, exists := t.bindings[b.Local]; exists {
		return false
	}
	t.bindings[b.Local] = b
	return true
}
