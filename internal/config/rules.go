package config

import (
	"fmt"
	"sort"
)

// DefaultExport is the export name of a module's default binding
const DefaultExport = "default"

// Kind is the semantic kind of a template
type Kind int

const (
	// KindMarkup is an HTML template
	KindMarkup Kind = iota
	// KindCSS is a stylesheet template
	KindCSS
)

func (k Kind) String() string {
	if k == KindCSS {
		return "css"
	}
	return "markup"
}

// RuleType discriminates the shape of a TagRule
type RuleType int

const (
	// RuleTag means the binding itself is the tag function
	RuleTag RuleType = iota
	// RuleMember means the binding exposes the tag function as a member
	RuleMember
	// RuleFactory means calling the binding returns a tag function
	RuleFactory
)

func (t RuleType) String() string {
	switch t {
	case RuleMember:
		return "member"
	case RuleFactory:
		return "factory"
	default:
		return "tag"
	}
}

// TagRule is a normalized rule entry
type TagRule struct {
	Module string
	// Export is the export name, DefaultExport for the default binding
	Export        string
	Type          RuleType
	Member        string
	Kind          Kind
	Encapsulation string
}

// IsDefault reports whether the rule targets the module's default export
func (r *TagRule) IsDefault() bool {
	return r.Export == DefaultExport
}

func (r *TagRule) String() string {
	s := fmt.Sprintf("%s#%s", r.Module, r.Export)
	if r.Type == RuleMember {
		s += "." + r.Member
	}
	if r.Type == RuleFactory {
		s += "()"
	}
	return s
}

// Rules is the compiled module/rule table. It is read-only after Compile and
// may be shared by concurrent transforms.
type Rules struct {
	modules map[string][]*TagRule
}

// Compile normalizes the raw module configuration, failing on the first
// malformed or duplicate entry. Modules are checked in sorted order so the
// reported error is stable.
func Compile(modules map[string][]RuleEntry) (*Rules, error) {
	rules := &Rules{modules: make(map[string][]*TagRule, len(modules))}

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" {
			return nil, NewInvalidRuleError(name, -1, "empty module specifier")
		}
		seen := make(map[string]int)
		for i, entry := range modules[name] {
			rule, err := normalize(name, i, entry)
			if err != nil {
				return nil, err
			}
			if first, dup := seen[rule.Export]; dup {
				return nil, NewDuplicateRuleError(name, describeExport(rule.Export), first, i)
			}
			seen[rule.Export] = i
			rules.modules[name] = append(rules.modules[name], rule)
		}
	}

	return rules, nil
}

func describeExport(export string) string {
	if export == DefaultExport {
		return "the default export"
	}
	return fmt.Sprintf("export %q", export)
}

func normalize(module string, index int, entry RuleEntry) (*TagRule, error) {
	rule := &TagRule{
		Module:        module,
		Export:        DefaultExport,
		Member:        entry.Member,
		Encapsulation: entry.Encapsulation,
	}
	if entry.Name != nil {
		if *entry.Name == "" {
			return nil, NewInvalidRuleError(module, index, "name must not be empty; use null for the default export")
		}
		rule.Export = *entry.Name
	}

	switch entry.Type {
	case "", "basic":
	case "css":
		rule.Kind = KindCSS
	case "factory":
		rule.Type = RuleFactory
	default:
		return nil, NewInvalidRuleError(module, index, fmt.Sprintf("unknown type %q", entry.Type))
	}

	if entry.Member != "" {
		if rule.Type == RuleFactory {
			return nil, NewInvalidRuleError(module, index, "a factory rule cannot also name a member")
		}
		rule.Type = RuleMember
	}

	if entry.Encapsulation != "" {
		rule.Kind = KindCSS
	}

	return rule, nil
}

// Has reports whether the module specifier is configured
func (r *Rules) Has(module string) bool {
	if r == nil {
		return false
	}
	_, ok := r.modules[module]
	return ok
}

// Module returns the rules of one module in configuration order
func (r *Rules) Module(module string) []*TagRule {
	if r == nil {
		return nil
	}
	return r.modules[module]
}

// Lookup finds the rule for one export of a module
func (r *Rules) Lookup(module, export string) *TagRule {
	for _, rule := range r.Module(module) {
		if rule.Export == export {
			return rule
		}
	}
	return nil
}

// Empty reports whether no module is configured
func (r *Rules) Empty() bool {
	return r == nil || len(r.modules) == 0
}

// Modules returns the configured module names in sorted order
func (r *Rules) Modules() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
