package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for error type checking
var (
	// ErrDuplicateRule indicates two entries of one module resolve to the same export
	ErrDuplicateRule = errors.New("duplicate tag rule")

	// ErrInvalidRule indicates an entry whose shape cannot be normalized
	ErrInvalidRule = errors.New("invalid tag rule")

	// ErrUnsupportedFormat indicates a configuration file with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// DuplicateRuleError represents two rules in one module with the same identity
type DuplicateRuleError struct {
	Module string
	Export string
	First  int
	Second int
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("module %q lists %s twice (entries %d and %d)\nSuggestion: Merge the entries into one rule",
		e.Module, e.Export, e.First, e.Second)
}

func (e *DuplicateRuleError) Unwrap() error {
	return ErrDuplicateRule
}

// NewDuplicateRuleError creates a new duplicate rule error
func NewDuplicateRuleError(module, export string, first, second int) error {
	return &DuplicateRuleError{
		Module: module,
		Export: export,
		First:  first,
		Second: second,
	}
}

// InvalidRuleError represents a malformed rule entry
type InvalidRuleError struct {
	Module string
	Index  int
	Reason string
}

func (e *InvalidRuleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid rules for module %q: %s", e.Module, e.Reason)
	}
	return fmt.Sprintf("invalid rule %d for module %q: %s", e.Index, e.Module, e.Reason)
}

func (e *InvalidRuleError) Unwrap() error {
	return ErrInvalidRule
}

// NewInvalidRuleError creates a new invalid rule error. Use index -1 for
// problems with the module itself rather than one entry.
func NewInvalidRuleError(module string, index int, reason string) error {
	return &InvalidRuleError{
		Module: module,
		Index:  index,
		Reason: reason,
	}
}
