package minify

import (
	"regexp"

	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/placeholder"
	tdminify "github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
)

const htmlMediaType = "text/html"

var jsMediaType = regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$")

// DefaultHTML is the tdewolff markup engine. The engine drops the values of
// boolean attributes unless they hold template syntax, so without
// CollapseBooleanAttributes it is told the placeholder delimiters.
var DefaultHTML HTMLMinifier = HTMLFunc(minifyHTML)

func minifyHTML(text string, opts config.HTMLOptions) (string, error) {
	return newHTMLEngine(opts).String(htmlMediaType, text)
}

// newHTMLEngine maps minifier options onto tdewolff's keep-flags. Embedded
// stylesheets and scripts are only touched when asked for.
func newHTMLEngine(opts config.HTMLOptions) *tdminify.M {
	m := tdminify.New()
	markup := &minhtml.Minifier{
		KeepComments:        !opts.RemoveComments,
		KeepDefaultAttrVals: !opts.RemoveRedundantAttributes,
		KeepDocumentTags:    true,
		KeepEndTags:         !opts.RemoveOptionalTags,
		KeepQuotes:          !opts.RemoveAttributeQuotes,
		KeepWhitespace:      !opts.CollapseWhitespace,
	}
	if !opts.CollapseBooleanAttributes {
		markup.TemplateDelims = [2]string{placeholder.TemplateOpen, placeholder.TemplateClose}
	}
	m.Add(htmlMediaType, markup)
	if opts.MinifyCSS.Enabled && opts.MinifyCSS.Level > 0 {
		m.Add(cssMediaType, &mincss.Minifier{Precision: opts.MinifyCSS.Precision})
	}
	if opts.MinifyJS {
		m.AddFuncRegexp(jsMediaType, minjs.Minify)
	}
	return m
}
