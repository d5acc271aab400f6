// Package rewrite replaces the static chunks of templates in source text.
// Expression text is never touched, so every expression keeps its position
// and order.
package rewrite

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"bennypowers.dev/tplmin/internal/parser/js"
)

// Edit replaces one span of the source
type Edit struct {
	Span js.Span
	Text string
}

// ChunkEdits pairs the static chunk ranges of tmpl with replacement chunks.
// Chunks are escaped for a template literal; unchanged chunks produce no
// edit.
func ChunkEdits(tmpl *js.Template, source []byte, chunks []string) ([]Edit, error) {
	if len(chunks) != len(tmpl.Chunks) {
		return nil, fmt.Errorf("template has %d static chunks, got %d", len(tmpl.Chunks), len(chunks))
	}
	var edits []Edit
	for i, span := range tmpl.Chunks {
		text := Escape(chunks[i])
		if text == string(source[span.Start:span.End]) {
			continue
		}
		edits = append(edits, Edit{Span: span, Text: text})
	}
	return edits, nil
}

// Apply returns source with every edit applied. Edits may come in any order
// but must not overlap.
func Apply(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	var out bytes.Buffer
	out.Grow(len(source))
	pos := uint(0)
	for _, e := range sorted {
		if e.Span.Start < pos || e.Span.End < e.Span.Start || e.Span.End > uint(len(source)) {
			return nil, fmt.Errorf("edit %d-%d overlaps or is out of range", e.Span.Start, e.Span.End)
		}
		out.Write(source[pos:e.Span.Start])
		out.WriteString(e.Text)
		pos = e.Span.End
	}
	out.Write(source[pos:])
	return out.Bytes(), nil
}

// Escape makes minified text safe as raw template literal text: unescaped
// backticks and "${" sequences get a backslash. Existing escapes are kept.
func Escape(chunk string) string {
	if !strings.ContainsAny(chunk, "`$") {
		return chunk
	}
	var b strings.Builder
	b.Grow(len(chunk) + 4)
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]
		switch {
		case c == '\\' && i+1 < len(chunk):
			b.WriteByte(c)
			b.WriteByte(chunk[i+1])
			i++
			continue
		case c == '`':
			b.WriteByte('\\')
		case c == '$' && i+1 < len(chunk) && chunk[i+1] == '{':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
