package minify

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/tplmin/internal/config"
)

// ErrEncapsulationLost is returned when the element wrapped around a
// stylesheet does not come back from the markup minifier verbatim
var ErrEncapsulationLost = errors.New("encapsulation element was not preserved")

// EncapsulationError names the wrapper that was rewritten
type EncapsulationError struct {
	Element string
}

func (e *EncapsulationError) Error() string {
	return fmt.Sprintf("%s: <%s>", ErrEncapsulationLost, e.Element)
}

func (e *EncapsulationError) Unwrap() error {
	return ErrEncapsulationLost
}

// Result is the outcome of minifying one template. Warnings and Errors are
// only reported for stylesheets, and are passed on without judging them.
type Result struct {
	Text     string
	Warnings []string
	Errors   []string
}

// Adapter runs the configured engines over encoded template text
type Adapter struct {
	html    HTMLMinifier
	css     CSSProcessor
	options config.HTMLOptions
}

// NewAdapter creates an adapter. Nil engines select the defaults.
func NewAdapter(html HTMLMinifier, css CSSProcessor, options config.HTMLOptions) *Adapter {
	if html == nil {
		html = DefaultHTML
	}
	if css == nil {
		css = DefaultCSS
	}
	return &Adapter{html: html, css: css, options: options}
}

// Markup minifies an HTML template
func (a *Adapter) Markup(text string) (*Result, error) {
	out, err := a.html.MinifyHTML(text, a.options)
	if err != nil {
		return nil, err
	}
	return &Result{Text: out}, nil
}

// Stylesheet processes a CSS template. With an encapsulation element the
// processed stylesheet is also passed through the markup minifier inside
// <element>...</element>. baseDir resolves local @import targets.
func (a *Adapter) Stylesheet(text, encapsulation, baseDir string) (*Result, error) {
	opts := CSSOptions{BaseDir: baseDir}
	if a.options.MinifyCSS.Enabled {
		opts.Level = a.options.MinifyCSS.Level
		opts.Precision = a.options.MinifyCSS.Precision
	}

	processed, err := a.css.ProcessCSS(text, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Text:     processed.Text,
		Warnings: processed.Warnings,
		Errors:   processed.Errors,
	}
	if encapsulation == "" {
		return result, nil
	}

	open, end := "<"+encapsulation+">", "</"+encapsulation+">"
	out, err := a.html.MinifyHTML(open+processed.Text+end, a.options)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(out, open) || !strings.HasSuffix(out, end) || len(out) < len(open)+len(end) {
		return nil, &EncapsulationError{Element: encapsulation}
	}
	result.Text = out[len(open) : len(out)-len(end)]
	return result, nil
}

// Minify dispatches on the template kind
func (a *Adapter) Minify(text string, kind config.Kind, encapsulation, baseDir string) (*Result, error) {
	if kind == config.KindCSS {
		return a.Stylesheet(text, encapsulation, baseDir)
	}
	return a.Markup(text)
}
