package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Options is the single options object consumed per invocation
type Options struct {
	// Modules maps a module specifier to its ordered rule entries.
	// Entries may be null (default export), a string (named export),
	// or an object {name, member, type, encapsulation}.
	Modules map[string][]RuleEntry `json:"modules"`

	// HTMLMinifier is passed through to the HTML minifier
	HTMLMinifier HTMLOptions `json:"htmlMinifier"`

	// StrictCSS turns CSS parser warnings into validation errors
	StrictCSS bool `json:"strictCSS"`

	// FailOnError aborts the file when CSS validation fails
	FailOnError bool `json:"failOnError"`

	// LogOnError writes CSS validation failures to the diagnostic sink
	LogOnError bool `json:"logOnError"`
}

// RuleEntry is one raw entry of a module's rule list, before normalization
type RuleEntry struct {
	// Name is the export name. Nil means the default export.
	Name *string `json:"name"`

	// Member is the instance or static member holding the tag function
	Member string `json:"member,omitempty"`

	// Type is "", "basic", "factory" or "css"
	Type string `json:"type,omitempty"`

	// Encapsulation is the element CSS is wrapped in before HTML minification
	Encapsulation string `json:"encapsulation,omitempty"`
}

// DefaultEntry returns the entry for a module's default export
func DefaultEntry() RuleEntry {
	return RuleEntry{}
}

// NamedEntry returns the entry for a named export used directly as a tag
func NamedEntry(name string) RuleEntry {
	return RuleEntry{Name: &name}
}

// UnmarshalJSON accepts null, a bare string, or an object
func (e *RuleEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*e = RuleEntry{}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*e = NamedEntry(name)
		return nil
	case len(trimmed) > 0 && trimmed[0] == '{':
		type plain RuleEntry
		var p plain
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return err
		}
		*e = RuleEntry(p)
		return nil
	}
	return fmt.Errorf("%w: expected null, string or object, got %s", ErrInvalidRule, trimmed)
}

// HTMLOptions are the HTML minifier switches. The zero value changes as little
// as possible.
type HTMLOptions struct {
	CollapseWhitespace        bool            `json:"collapseWhitespace"`
	RemoveComments            bool            `json:"removeComments"`
	RemoveAttributeQuotes     bool            `json:"removeAttributeQuotes"`
	CollapseBooleanAttributes bool            `json:"collapseBooleanAttributes"`
	RemoveOptionalTags        bool            `json:"removeOptionalTags"`
	RemoveRedundantAttributes bool            `json:"removeRedundantAttributes"`
	MinifyCSS                 CSSMinifyOption `json:"minifyCSS"`
	MinifyJS                  bool            `json:"minifyJS"`
}

// CSSMinifyOption is the minifyCSS switch, either a bool or {level, precision}
type CSSMinifyOption struct {
	Enabled bool

	// Level 0 keeps CSS as written (validation still runs); 1 and above optimize
	Level int

	// Precision is the number of significant digits kept in numbers, 0 for all
	Precision int
}

// UnmarshalJSON accepts a bool or an object
func (o *CSSMinifyOption) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*o = CSSMinifyOption{}
		return nil
	}

	var enabled bool
	if err := json.Unmarshal(trimmed, &enabled); err == nil {
		*o = CSSMinifyOption{Enabled: enabled, Level: 1}
		return nil
	}

	var obj struct {
		Level     *int `json:"level"`
		Precision int  `json:"precision"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("minifyCSS must be a bool or an object: %w", err)
	}
	*o = CSSMinifyOption{Enabled: true, Level: 1, Precision: obj.Precision}
	if obj.Level != nil {
		o.Level = *obj.Level
	}
	return nil
}

// MarshalJSON writes the bool form when no sub-options are set
func (o CSSMinifyOption) MarshalJSON() ([]byte, error) {
	if !o.Enabled || (o.Level == 1 && o.Precision == 0) {
		return json.Marshal(o.Enabled)
	}
	return json.Marshal(map[string]int{"level": o.Level, "precision": o.Precision})
}
