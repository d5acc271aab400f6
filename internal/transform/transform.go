// Package transform minifies the HTML and CSS tagged templates of one
// JavaScript source file.
package transform

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/tplmin/internal/binding"
	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/diag"
	"bennypowers.dev/tplmin/internal/integrity"
	"bennypowers.dev/tplmin/internal/log"
	"bennypowers.dev/tplmin/internal/match"
	"bennypowers.dev/tplmin/internal/minify"
	"bennypowers.dev/tplmin/internal/parser/js"
	"bennypowers.dev/tplmin/internal/placeholder"
	"bennypowers.dev/tplmin/internal/rewrite"
)

// Stats counts what happened to the templates of one file
type Stats struct {
	// Matched is the number of templates resolved to a configured tag
	Matched int
	// Rewritten is the number of templates whose text was replaced
	Rewritten int
	// Skipped is the number of templates left as written after a CSS finding
	Skipped int
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Matched += other.Matched
	s.Rewritten += other.Rewritten
	s.Skipped += other.Skipped
}

// Result is the output of one file
type Result struct {
	Code  []byte
	Stats Stats
}

// Transformer applies one configuration to any number of files. It holds no
// per-file state and is safe for concurrent use.
type Transformer struct {
	rules    *config.Rules
	adapter  *minify.Adapter
	policy   integrity.Policy
	sink     diag.Sink
	encoding placeholder.Options

	html minify.HTMLMinifier
	css  minify.CSSProcessor
}

// Option configures a Transformer
type Option func(*Transformer)

// WithHTMLMinifier replaces the markup engine
func WithHTMLMinifier(engine minify.HTMLMinifier) Option {
	return func(t *Transformer) {
		t.html = engine
	}
}

// WithCSSProcessor replaces the stylesheet processor
func WithCSSProcessor(processor minify.CSSProcessor) Option {
	return func(t *Transformer) {
		t.css = processor
	}
}

// WithSink sets where logOnError findings go. The default writes to stderr.
func WithSink(sink diag.Sink) Option {
	return func(t *Transformer) {
		t.sink = sink
	}
}

// New validates the module configuration and creates a Transformer.
// Configuration errors are reported here, before any file is read.
func New(opts *config.Options, options ...Option) (*Transformer, error) {
	if opts == nil {
		opts = &config.Options{}
	}
	rules, err := config.Compile(opts.Modules)
	if err != nil {
		return nil, err
	}

	t := &Transformer{
		rules:    rules,
		policy:   integrity.PolicyFor(opts),
		encoding: placeholder.Options{DelimitAttrValues: !opts.HTMLMinifier.CollapseBooleanAttributes},
	}
	for _, option := range options {
		option(t)
	}
	if t.sink == nil {
		t.sink = diag.NewWriterSink(nil)
	}
	t.adapter = minify.NewAdapter(t.html, t.css, opts.HTMLMinifier)
	return t, nil
}

// Rules returns the compiled module configuration
func (t *Transformer) Rules() *config.Rules {
	return t.rules
}

// Transform rewrites the matched templates of one file. A file without
// configured bindings is returned unchanged, sharing source. filename is
// used for error messages and to resolve local stylesheet imports.
func (t *Transformer) Transform(filename string, source []byte) (*Result, error) {
	path := filename
	if abs, err := filepath.Abs(filename); err == nil {
		path = abs
	}
	result := &Result{Code: source}

	if !t.mentionsModule(source) {
		return result, nil
	}

	parser := js.AcquireParser()
	file, err := parser.Parse(source)
	js.ReleaseParser(parser)
	if err != nil {
		return nil, NewError(path, err.Error(), "", err)
	}
	defer file.Close()

	table := binding.Build(file, t.rules)
	if table.Empty() {
		return result, nil
	}

	fc := &fileContext{
		Transformer: t,
		file:        file,
		path:        path,
		baseDir:     filepath.Dir(path),
	}
	var edits []rewrite.Edit
	for _, site := range match.Find(file, table) {
		result.Stats.Matched++
		siteEdits, err := fc.process(site)
		if err != nil {
			return nil, err
		}
		if siteEdits == nil {
			result.Stats.Skipped++
			continue
		}
		result.Stats.Rewritten++
		edits = append(edits, siteEdits...)
	}

	code, err := rewrite.Apply(source, edits)
	if err != nil {
		return nil, NewError(path, err.Error(), "", err)
	}
	result.Code = code
	log.Debug("%s: %d matched, %d rewritten, %d skipped", path, result.Stats.Matched, result.Stats.Rewritten, result.Stats.Skipped)
	return result, nil
}

// mentionsModule is a cheap pre-check: a file that never spells a
// configured specifier cannot import it
func (t *Transformer) mentionsModule(source []byte) bool {
	for _, module := range t.rules.Modules() {
		if bytes.Contains(source, []byte(module)) {
			return true
		}
	}
	return false
}

// fileContext is the private state of one Transform call
type fileContext struct {
	*Transformer
	file    *js.File
	path    string
	baseDir string
}

// process runs one site through encode, minify, validate and decode. A nil
// edit list with a nil error means the site keeps its text as written.
func (fc *fileContext) process(site *match.Site) ([]rewrite.Edit, error) {
	raw := site.Template.Raw(fc.file.Source)
	enc, err := placeholder.EncodeWith(raw, site.Kind(), fc.encoding)
	if err != nil {
		return nil, NewError(fc.path, err.Error(), fc.where(site), err)
	}

	minified, err := fc.adapter.Minify(enc.Text, site.Kind(), site.Encapsulation(), fc.baseDir)
	if err != nil {
		if errors.Is(err, minify.ErrEncapsulationLost) {
			return nil, fc.majorDeletion(site, err.Error(), err)
		}
		return nil, NewError(fc.path, err.Error(), fc.where(site), fmt.Errorf("%w: %w", ErrMinify, err))
	}

	if err := integrity.CheckMarkers(enc, minified.Text); err != nil {
		var deletion *integrity.DeletionError
		detail := err.Error()
		if errors.As(err, &deletion) {
			detail = deletion.Detail()
		}
		return nil, fc.majorDeletion(site, detail, err)
	}

	if site.Kind() == config.KindCSS {
		verdict, err := fc.policy.Evaluate(minified, fc.sink)
		if err != nil {
			var cssErr *integrity.CSSError
			if errors.As(err, &cssErr) && len(cssErr.Findings) > 1 {
				return nil, NewError(fc.path, cssErr.Findings[0], strings.Join(cssErr.Findings[1:], "\n"), fmt.Errorf("%w: %w", ErrCSS, err))
			}
			return nil, NewError(fc.path, err.Error(), "", fmt.Errorf("%w: %w", ErrCSS, err))
		}
		if verdict == integrity.Fallback {
			log.Debug("%s: keeping %s as written", fc.path, fc.where(site))
			return nil, nil
		}
	}

	chunks, err := enc.Decode(minified.Text)
	if err != nil {
		return nil, fc.majorDeletion(site, err.Error(), err)
	}
	edits, err := rewrite.ChunkEdits(site.Template, fc.file.Source, chunks)
	if err != nil {
		return nil, NewError(fc.path, err.Error(), fc.where(site), err)
	}
	if edits == nil {
		edits = []rewrite.Edit{}
	}
	return edits, nil
}

func (fc *fileContext) majorDeletion(site *match.Site, detail string, cause error) *Error {
	return NewError(fc.path, MajorDeleteError, fc.where(site)+"\n"+detail, fmt.Errorf("%w: %w", ErrMajorDeletion, cause))
}

// where locates a site for detail lines
func (fc *fileContext) where(site *match.Site) string {
	pos := site.Call.StartPosition()
	return fmt.Sprintf("%s template at %d:%d", site.Kind(), pos.Row+1, pos.Column+1)
}
