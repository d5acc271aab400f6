package minify

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"bennypowers.dev/tplmin/internal/log"
	"bennypowers.dev/tplmin/internal/parser/css"
	tdminify "github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
)

const cssMediaType = "text/css"

// remoteImport matches import targets that are not local files
var remoteImport = regexp.MustCompile(`^(//|[a-zA-Z][a-zA-Z0-9+.-]*:)`)

// DefaultCSS is the stylesheet processor: tree-sitter validation, local
// @import checks and tdewolff minification
var DefaultCSS CSSProcessor = CSSFunc(processCSS)

func processCSS(text string, opts CSSOptions) (*CSSResult, error) {
	parser := css.AcquireParser()
	defer css.ReleaseParser(parser)

	report, err := parser.Check(text)
	if err != nil {
		return nil, fmt.Errorf("checking stylesheet: %w", err)
	}

	result := &CSSResult{Text: text}
	for _, problem := range report.Problems {
		result.Warnings = append(result.Warnings, problem.Message())
	}
	for _, imp := range report.Imports {
		if missingImport(imp.Path, opts.BaseDir) {
			result.Errors = append(result.Errors, fmt.Sprintf("Ignoring local @import of %q as resource is missing.", imp.Path))
		}
	}

	if opts.Level == 0 {
		return result, nil
	}

	var out bytes.Buffer
	minifier := &mincss.Minifier{Precision: opts.Precision}
	if err := minifier.Minify(tdminify.New(), &out, strings.NewReader(text), nil); err != nil {
		log.Debug("css minifier failed: %v", err)
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}
	result.Text = out.String()
	return result, nil
}

// missingImport reports whether a local import target does not exist
func missingImport(target, baseDir string) bool {
	if target == "" || remoteImport.MatchString(target) {
		return false
	}
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, filepath.FromSlash(target))
	}
	_, err := os.Stat(path)
	return err != nil
}
