package match_test

import (
	"testing"

	"bennypowers.dev/tplmin/internal/binding"
	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/match"
	"bennypowers.dev/tplmin/internal/parser/js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func find(t *testing.T, source string, modules map[string][]config.RuleEntry) (*js.File, []*match.Site) {
	t.Helper()
	rules, err := config.Compile(modules)
	require.NoError(t, err)

	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)
	file, err := parser.Parse([]byte(source))
	require.NoError(t, err)
	t.Cleanup(file.Close)

	return file, match.Find(file, binding.Build(file, rules))
}

func TestFindSites(t *testing.T) {
	css := "css"
	modules := map[string][]config.RuleEntry{
		"lit-element": {config.NamedEntry("html"), {Name: &css, Encapsulation: "style"}},
	}
	source := "import {html, css} from 'lit-element';\n" +
		"const styles = css`:host{display:block}`;\n" +
		"const t = html`<ul>${items.map(i => html`<li>${i}</li>`)}</ul>`;\n" +
		"const s = svg`<svg></svg>`;\n"

	file, sites := find(t, source, modules)
	require.Len(t, sites, 3)

	assert.Equal(t, config.KindCSS, sites[0].Kind())
	assert.Equal(t, "style", sites[0].Encapsulation())
	assert.Equal(t, []string{":host{display:block}"}, sites[0].Template.Raw(file.Source))

	assert.Equal(t, config.KindMarkup, sites[1].Kind())
	assert.Equal(t, []string{"<ul>", "</ul>"}, sites[1].Template.Raw(file.Source))
	assert.Equal(t, []string{"<li>", "</li>"}, sites[2].Template.Raw(file.Source), "nested templates follow their parent")
}

func TestFindNothing(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "no imports", source: "html`<p></p>`;"},
		{name: "copied tag", source: "import {html} from 'lit-html';\nconst copy = html;\ncopy`<p></p>`;"},
		{name: "tagged non-function", source: "import {html} from 'lit-html';\nhtml.name`<p></p>`;\n'x'`<p></p>`;"},
		{name: "basic call", source: "import {html} from 'lit-html';\nhtml(`<p></p>`);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sites := find(t, tt.source, map[string][]config.RuleEntry{"lit-html": {config.NamedEntry("html")}})
			assert.Empty(t, sites)
		})
	}
}
