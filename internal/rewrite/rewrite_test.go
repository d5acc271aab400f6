package rewrite_test

import (
	"testing"

	"bennypowers.dev/tplmin/internal/parser/js"
	"bennypowers.dev/tplmin/internal/rewrite"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// templates parses source and returns its template strings in preorder
func templates(t *testing.T, source string) (*js.File, []*js.Template) {
	t.Helper()
	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)
	file, err := parser.Parse([]byte(source))
	require.NoError(t, err)
	t.Cleanup(file.Close)

	var found []*js.Template
	js.Walk(file.Root(), func(n *sitter.Node) bool {
		if n.Kind() == "template_string" {
			found = append(found, js.SplitTemplate(n))
		}
		return true
	})
	return file, found
}

func TestRewriteKeepsExpressions(t *testing.T) {
	source := "html`<ul>\n  ${items.map(i => html`<li> ${i} </li>`)}\n</ul> ${tail}`;"
	file, tmpls := templates(t, source)
	require.Len(t, tmpls, 2)

	outer, err := rewrite.ChunkEdits(tmpls[0], file.Source, []string{"<ul>", "</ul>", ""})
	require.NoError(t, err)
	inner, err := rewrite.ChunkEdits(tmpls[1], file.Source, []string{"<li>", "</li>"})
	require.NoError(t, err)

	out, err := rewrite.Apply(file.Source, append(outer, inner...))
	require.NoError(t, err)

	want := "html`<ul>${items.map(i => html`<li>${i}</li>`)}</ul>${tail}`;"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("rewritten source mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkEditsSkipsUnchanged(t *testing.T) {
	file, tmpls := templates(t, "css`a${b}c`")
	require.Len(t, tmpls, 1)

	edits, err := rewrite.ChunkEdits(tmpls[0], file.Source, []string{"a", "c"})
	require.NoError(t, err)
	assert.Empty(t, edits)

	out, err := rewrite.Apply(file.Source, edits)
	require.NoError(t, err)
	assert.Equal(t, file.Source, out)
}

func TestChunkEditsCount(t *testing.T) {
	file, tmpls := templates(t, "css`a${b}c`")
	_, err := rewrite.ChunkEdits(tmpls[0], file.Source, []string{"ac"})
	assert.Error(t, err)
}

func TestApplyOverlap(t *testing.T) {
	_, err := rewrite.Apply([]byte("abcdef"), []rewrite.Edit{
		{Span: js.Span{Start: 1, End: 4}, Text: "x"},
		{Span: js.Span{Start: 3, End: 5}, Text: "y"},
	})
	assert.Error(t, err)
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "<p>plain</p>", want: "<p>plain</p>"},
		{in: "a`b", want: "a\\`b"},
		{in: "a\\`b", want: "a\\`b"},
		{in: "${x}", want: "\\${x}"},
		{in: "\\${x}", want: "\\${x}"},
		{in: "$ {x} $", want: "$ {x} $"},
		{in: "\\\\`", want: "\\\\\\`"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, rewrite.Escape(tt.in))
		})
	}
}
