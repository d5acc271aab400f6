package minify_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/minify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityHTML(text string, _ config.HTMLOptions) (string, error) {
	return text, nil
}

func TestStylesheetEncapsulation(t *testing.T) {
	var seen []string
	html := minify.HTMLFunc(func(text string, _ config.HTMLOptions) (string, error) {
		seen = append(seen, text)
		return text, nil
	})
	css := minify.CSSFunc(func(text string, _ minify.CSSOptions) (*minify.CSSResult, error) {
		return &minify.CSSResult{Text: strings.ReplaceAll(text, " ", ""), Warnings: []string{"w"}}, nil
	})

	adapter := minify.NewAdapter(html, css, config.HTMLOptions{})
	result, err := adapter.Stylesheet(".a { color: red }", "style", "")
	require.NoError(t, err)
	assert.Equal(t, ".a{color:red}", result.Text)
	assert.Equal(t, []string{"w"}, result.Warnings)
	assert.Equal(t, []string{"<style>.a{color:red}</style>"}, seen)
}

func TestStylesheetWithoutEncapsulation(t *testing.T) {
	html := minify.HTMLFunc(func(string, config.HTMLOptions) (string, error) {
		return "", errors.New("markup engine must not run")
	})
	adapter := minify.NewAdapter(html, minify.CSSFunc(func(text string, _ minify.CSSOptions) (*minify.CSSResult, error) {
		return &minify.CSSResult{Text: text, Errors: []string{"e"}}, nil
	}), config.HTMLOptions{})

	result, err := adapter.Minify(".a{}", config.KindCSS, "", "")
	require.NoError(t, err)
	assert.Equal(t, ".a{}", result.Text)
	assert.Equal(t, []string{"e"}, result.Errors)
}

func TestEncapsulationLost(t *testing.T) {
	html := minify.HTMLFunc(func(text string, _ config.HTMLOptions) (string, error) {
		return strings.Replace(text, "<style >", "<style>", 1), nil
	})
	adapter := minify.NewAdapter(html, nil, config.HTMLOptions{})

	_, err := adapter.Stylesheet(".sel{background:red;}", "style ", "")
	require.ErrorIs(t, err, minify.ErrEncapsulationLost)

	var encErr *minify.EncapsulationError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "style ", encErr.Element)
}

func TestStylesheetOptions(t *testing.T) {
	var got minify.CSSOptions
	css := minify.CSSFunc(func(text string, opts minify.CSSOptions) (*minify.CSSResult, error) {
		got = opts
		return &minify.CSSResult{Text: text}, nil
	})

	tests := []struct {
		name    string
		options config.HTMLOptions
		level   int
	}{
		{name: "minifyCSS off", options: config.HTMLOptions{}, level: 0},
		{name: "minifyCSS on", options: config.HTMLOptions{MinifyCSS: config.CSSMinifyOption{Enabled: true, Level: 1}}, level: 1},
		{name: "level 0", options: config.HTMLOptions{MinifyCSS: config.CSSMinifyOption{Enabled: true, Level: 0}}, level: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := minify.NewAdapter(minify.HTMLFunc(identityHTML), css, tt.options)
			_, err := adapter.Stylesheet(".a{}", "", "/src")
			require.NoError(t, err)
			assert.Equal(t, minify.CSSOptions{Level: tt.level, BaseDir: "/src"}, got)
		})
	}
}

func TestMarkupError(t *testing.T) {
	adapter := minify.NewAdapter(minify.HTMLFunc(func(string, config.HTMLOptions) (string, error) {
		return "", errors.New("unexpected end of input")
	}), nil, config.HTMLOptions{})

	_, err := adapter.Minify("<p", config.KindMarkup, "", "")
	assert.EqualError(t, err, "unexpected end of input")
}

func TestDefaultHTML(t *testing.T) {
	opts := config.HTMLOptions{CollapseWhitespace: true, RemoveComments: true}

	out, err := minify.DefaultHTML.MinifyHTML("<p>  hello  </p><!-- note -->", opts)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", out)

	out, err = minify.DefaultHTML.MinifyHTML("<p>hello</p><!-- note -->", config.HTMLOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "<!-- note -->")
}

func TestDefaultHTMLDropsBooleanValues(t *testing.T) {
	out, err := minify.DefaultHTML.MinifyHTML(`<input disabled="tplmin-marker">`, config.HTMLOptions{CollapseBooleanAttributes: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "tplmin-marker")
}

func TestDefaultHTMLKeepsDelimitedBooleanValues(t *testing.T) {
	opts := config.HTMLOptions{CollapseWhitespace: true}
	out, err := minify.DefaultHTML.MinifyHTML(`<input disabled="{{tplmin-marker}}">`, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "{{tplmin-marker}}")
}

func TestDefaultCSS(t *testing.T) {
	result, err := minify.DefaultCSS.ProcessCSS(".a { color : red ; }", minify.CSSOptions{Level: 1})
	require.NoError(t, err)
	assert.Equal(t, ".a{color:red}", result.Text)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)

	result, err = minify.DefaultCSS.ProcessCSS(".a { color : red ; }", minify.CSSOptions{Level: 0})
	require.NoError(t, err)
	assert.Equal(t, ".a { color : red ; }", result.Text)
}

func TestDefaultCSSImports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present.css"), []byte(".a{}"), 0o644))

	tests := []struct {
		name   string
		source string
		errors []string
	}{
		{name: "missing", source: `@import "missing.css";`, errors: []string{`Ignoring local @import of "missing.css" as resource is missing.`}},
		{name: "present", source: `@import "present.css";`},
		{name: "remote", source: `@import url("https://example.com/a.css");`},
		{name: "protocol relative", source: `@import "//example.com/a.css";`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := minify.DefaultCSS.ProcessCSS(tt.source, minify.CSSOptions{BaseDir: dir})
			require.NoError(t, err)
			assert.Equal(t, tt.errors, result.Errors)
		})
	}
}
