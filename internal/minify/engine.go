// Package minify adapts markup and stylesheet minifiers to template text.
package minify

import "bennypowers.dev/tplmin/internal/config"

// HTMLMinifier minifies markup. A returned error is a syntax problem the
// engine could not recover from.
type HTMLMinifier interface {
	MinifyHTML(text string, opts config.HTMLOptions) (string, error)
}

// HTMLFunc adapts a function to HTMLMinifier
type HTMLFunc func(text string, opts config.HTMLOptions) (string, error)

// MinifyHTML calls f
func (f HTMLFunc) MinifyHTML(text string, opts config.HTMLOptions) (string, error) {
	return f(text, opts)
}

// CSSOptions are the per-call stylesheet processing options
type CSSOptions struct {
	// Level 0 validates without optimizing
	Level int
	// Precision is the number of significant digits kept in numbers, 0 keeps all
	Precision int
	// BaseDir resolves local @import targets
	BaseDir string
}

// CSSResult is the processor's output. Warnings are parser findings and
// Errors are processor-level failures; Text is best effort in both cases.
type CSSResult struct {
	Text     string
	Warnings []string
	Errors   []string
}

// CSSProcessor validates and minifies stylesheets. A returned error means
// the processor itself failed, not the stylesheet.
type CSSProcessor interface {
	ProcessCSS(text string, opts CSSOptions) (*CSSResult, error)
}

// CSSFunc adapts a function to CSSProcessor
type CSSFunc func(text string, opts CSSOptions) (*CSSResult, error)

// ProcessCSS calls f
func (f CSSFunc) ProcessCSS(text string, opts CSSOptions) (*CSSResult, error) {
	return f(text, opts)
}
