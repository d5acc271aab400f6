// Package placeholder replaces template expressions with marker tokens that
// survive minification, and splits minified text back into static chunks.
package placeholder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/parser/html"
)

// ErrMarkerCount is returned by Decode when the text does not carry exactly
// one marker per expression
var ErrMarkerCount = errors.New("marker count mismatch")

// Marker describes the placeholder written for one expression
type Marker struct {
	Index int
	Token string
	Shape Shape
	// Terminated records that a ';' was written after a declaration or
	// statement marker
	Terminated bool
	// Context is the position the marker occupies in the template text
	Context html.Context
	// Delimited records that the token was wrapped in TemplateOpen and
	// TemplateClose
	Delimited bool
}

// Text renders the marker as written into the template text
func (m Marker) Text() string {
	var s string
	switch m.Shape {
	case ShapeDeclaration:
		s = "--" + m.Token + ":0"
	case ShapeStatement:
		s = "@" + m.Token
	default:
		s = m.Token
	}
	if m.Delimited {
		s = TemplateOpen + s + TemplateClose
	}
	if m.Terminated {
		s += ";"
	}
	return s
}

// Describe names the marker for diagnostics
func (m Marker) Describe() string {
	return fmt.Sprintf("expression %d (%s)", m.Index, m.Context)
}

// Encoded is one template's text with markers in place of its expressions
type Encoded struct {
	Text    string
	Markers []Marker
	pattern *regexp.Regexp
}

// Options tune how markers are written
type Options struct {
	// DelimitAttrValues wraps markers in markup attribute values with
	// TemplateOpen and TemplateClose, so a minifier that knows the delimiters
	// keeps the values of boolean attributes
	DelimitAttrValues bool
}

// Encode joins the static chunks of a template with default Options
func Encode(chunks []string, kind config.Kind) (*Encoded, error) {
	return EncodeWith(chunks, kind, Options{})
}

// EncodeWith joins the static chunks of a template, writing a marker for
// each expression between them. Markup templates are classified with the
// HTML parser so markers inside <style> or style="" get a CSS-safe shape.
func EncodeWith(chunks []string, kind config.Kind, opts Options) (*Encoded, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("template has no static chunks")
	}

	joined := strings.Join(chunks, "")
	nonce, err := nonceFor(joined)
	if err != nil {
		return nil, err
	}
	count := len(chunks) - 1
	width := indexWidth(count)
	stem := Prefix + "-" + nonce + "-"

	enc := &Encoded{
		Markers: make([]Marker, count),
		pattern: regexp.MustCompile(regexp.QuoteMeta(stem) + fmt.Sprintf("[a-z]{%d}", width)),
	}

	// Probe text: bare tokens, used only to find each marker's context.
	var probe strings.Builder
	ranges := make([][2]uint, count)
	for i, chunk := range chunks {
		probe.WriteString(chunk)
		if i == count {
			break
		}
		token := stem + encodeIndex(i, width)
		start := uint(probe.Len())
		probe.WriteString(token)
		ranges[i] = [2]uint{start, uint(probe.Len())}
		enc.Markers[i] = Marker{Index: i, Token: token}
	}
	text := probe.String()

	if count > 0 {
		if err := classify(text, ranges, kind, enc.Markers); err != nil {
			return nil, err
		}
	}
	if opts.DelimitAttrValues && kind == config.KindMarkup {
		for i := range enc.Markers {
			enc.Markers[i].Delimited = enc.Markers[i].Context == html.ContextAttrValue
		}
	}

	var out strings.Builder
	for i, chunk := range chunks {
		out.WriteString(chunk)
		if i < count {
			out.WriteString(enc.Markers[i].Text())
		}
	}
	enc.Text = out.String()
	return enc, nil
}

func classify(text string, ranges [][2]uint, kind config.Kind, markers []Marker) error {
	if kind == config.KindCSS {
		for i, r := range ranges {
			markers[i].Context = html.ContextStyle
			markers[i].Shape, markers[i].Terminated = cssShape(text[:r[0]], text[r[1]:], false)
		}
		return nil
	}

	parser := html.AcquireParser()
	defer html.ReleaseParser(parser)
	locations, err := parser.Classify(text, ranges)
	if err != nil {
		return err
	}
	for i, loc := range locations {
		markers[i].Context = loc.Context
		if !loc.Context.IsCSS() {
			continue
		}
		r := ranges[i]
		before := text[loc.RegionStart:r[0]]
		after := text[r[1]:loc.RegionEnd]
		markers[i].Shape, markers[i].Terminated = cssShape(before, after, loc.Context == html.ContextStyleAttr)
	}
	return nil
}

// Count returns the number of markers present in text
func (e *Encoded) Count(text string) int {
	return len(e.pattern.FindAllStringIndex(text, -1))
}

// Decode splits text at its markers, in the order they occur, and strips
// the syntax each marker was wrapped in. It returns one more chunk than
// there are expressions, or ErrMarkerCount.
func (e *Encoded) Decode(text string) ([]string, error) {
	locs := e.pattern.FindAllStringIndex(text, -1)
	if len(locs) != len(e.Markers) {
		return nil, fmt.Errorf("%w: found %d of %d markers", ErrMarkerCount, len(locs), len(e.Markers))
	}

	chunks := make([]string, 0, len(locs)+1)
	pos := 0
	for k, loc := range locs {
		m := e.Markers[k]
		start, end := loc[0], loc[1]
		switch m.Shape {
		case ShapeDeclaration:
			if strings.HasSuffix(text[pos:start], "--") {
				start -= 2
			}
			end += declarationValue(text[end:])
		case ShapeStatement:
			if strings.HasSuffix(text[pos:start], "@") {
				start--
			}
		}
		if m.Delimited {
			if strings.HasSuffix(text[pos:start], TemplateOpen) {
				start -= len(TemplateOpen)
			}
			if strings.HasPrefix(text[end:], TemplateClose) {
				end += len(TemplateClose)
			}
		}
		if m.Terminated && end < len(text) && text[end] == ';' {
			end++
		}
		chunks = append(chunks, text[pos:start])
		pos = end
	}
	return append(chunks, text[pos:]), nil
}

var declValue = regexp.MustCompile(`^\s*:\s*0`)

// declarationValue is the length of the `:0` following a declaration marker
func declarationValue(s string) int {
	if loc := declValue.FindStringIndex(s); loc != nil {
		return loc[1]
	}
	return 0
}
