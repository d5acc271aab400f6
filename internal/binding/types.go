package binding

import (
	"bennypowers.dev/tplmin/internal/config"
)

// Origin records the syntax that introduced a binding
type Origin int

const (
	// OriginImportDefault is `import x from 'm'`
	OriginImportDefault Origin = iota
	// OriginImportNamed is `import {x} from 'm'` or `import {x as y} from 'm'`
	OriginImportNamed
	// OriginImportNamespace is `import * as ns from 'm'`
	OriginImportNamespace
	// OriginRequire is `const m = require('m')`, both a namespace and the default export
	OriginRequire
	// OriginRequireNamed is `const {x} = require('m')` or `const x = require('m').x`
	OriginRequireNamed
	// OriginFactoryResult is `const tag = factory(...)`
	OriginFactoryResult
)

func (o Origin) String() string {
	switch o {
	case OriginImportDefault:
		return "import default"
	case OriginImportNamed:
		return "import named"
	case OriginImportNamespace:
		return "import namespace"
	case OriginRequire:
		return "require"
	case OriginRequireNamed:
		return "require named"
	case OriginFactoryResult:
		return "factory result"
	}
	return "unknown"
}

// IsNamespace reports whether members of the binding are module exports
func (o Origin) IsNamespace() bool {
	return o == OriginImportNamespace || o == OriginRequire
}

// Binding is a local identifier that reaches a configured module
type Binding struct {
	Local  string
	Module string
	Origin Origin
	// Export is the export read by the binding; empty for namespaces
	Export string
	// Rule is the rule the binding satisfies directly. Namespace bindings
	// may have none.
	Rule *config.TagRule

	// declaration is the declarator node of a factory result
	declaration uintptr
}

// TrackedClass is a class whose superclass chain reaches a member rule
type TrackedClass struct {
	// Name is the declared or assigned class name, empty for anonymous classes
	Name string
	// Members maps a `this.<member>` name to the rule that makes it a tag
	Members map[string]*config.TagRule
}
