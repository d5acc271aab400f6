package html_test

import (
	"strings"
	"testing"

	"bennypowers.dev/tplmin/internal/parser/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "tplmin-probe-a"

func classifyMarker(t *testing.T, source string) html.Location {
	t.Helper()
	start := strings.Index(source, marker)
	require.GreaterOrEqual(t, start, 0, "fixture must contain the marker")

	parser := html.AcquireParser()
	defer html.ReleaseParser(parser)

	locs, err := parser.Classify(source, [][2]uint{{uint(start), uint(start + len(marker))}})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	return locs[0]
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   html.Context
	}{
		{name: "text", source: `<p>hello tplmin-probe-a</p>`, want: html.ContextText},
		{name: "bare text fragment", source: `tplmin-probe-a`, want: html.ContextText},
		{name: "whole attribute", source: `<div tplmin-probe-a></div>`, want: html.ContextAttrName},
		{name: "quoted value", source: `<div class="a tplmin-probe-a"></div>`, want: html.ContextAttrValue},
		{name: "unquoted value", source: `<input .value=tplmin-probe-a>`, want: html.ContextAttrValue},
		{name: "boolean attribute value", source: `<div disabled="tplmin-probe-a"></div>`, want: html.ContextAttrValue},
		{name: "comment", source: `<div><!-- tplmin-probe-a --></div>`, want: html.ContextComment},
		{name: "style element", source: `<style>.a{color:tplmin-probe-a}</style>`, want: html.ContextStyle},
		{name: "style attribute", source: `<p style="color:tplmin-probe-a"></p>`, want: html.ContextStyleAttr},
		{name: "script element", source: `<script>go(tplmin-probe-a)</script>`, want: html.ContextScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := classifyMarker(t, tt.source)
			assert.Equal(t, tt.want, loc.Context, "got %s", loc.Context)
		})
	}
}

func TestClassifyRegions(t *testing.T) {
	t.Run("style element region is the raw text", func(t *testing.T) {
		source := `<style>.a{color:tplmin-probe-a}</style>`
		loc := classifyMarker(t, source)
		assert.Equal(t, ".a{color:tplmin-probe-a}", source[loc.RegionStart:loc.RegionEnd])
	})

	t.Run("style attribute region excludes quotes", func(t *testing.T) {
		source := `<p style="color:tplmin-probe-a"></p>`
		loc := classifyMarker(t, source)
		assert.Equal(t, "color:tplmin-probe-a", source[loc.RegionStart:loc.RegionEnd])
	})
}

func TestContextString(t *testing.T) {
	assert.Equal(t, "comment", html.ContextComment.String())
	assert.True(t, html.ContextStyleAttr.IsCSS())
	assert.False(t, html.ContextAttrValue.IsCSS())
}
