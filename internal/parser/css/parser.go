package css

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/tplmin/internal/position"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// maxProblemText bounds the offending text quoted in a problem message
const maxProblemText = 40

// Parser checks CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Check parses a stylesheet and reports syntax problems and @import
// statements
func (p *Parser) Check(source string) (*Report, error) {
	sourceBytes := []byte(source)

	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	report := &Report{}
	w := walker{source: sourceBytes, report: report}
	w.walk(tree.RootNode())
	return report, nil
}

type walker struct {
	source []byte
	report *Report
}

func (w *walker) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch {
	case node.IsMissing():
		w.report.Problems = append(w.report.Problems, Problem{
			Position: w.position(node),
			Missing:  node.Kind(),
		})
		return
	case node.IsError():
		w.report.Problems = append(w.report.Problems, Problem{
			Position: w.position(node),
			Text:     w.excerpt(node),
		})
		return
	case node.Kind() == "import_statement":
		if path, ok := w.importPath(node); ok {
			w.report.Imports = append(w.report.Imports, Import{Path: path, Position: w.position(node)})
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i))
	}
}

// position converts a node start to 1-based line and character coordinates
// in the caller's source
func (w *walker) position(node *sitter.Node) Position {
	point := node.StartPosition()
	column := position.RuneColumn(w.source, point.Row, point.Column)
	return Position{Line: point.Row + 1, Column: column + 1}
}

func (w *walker) excerpt(node *sitter.Node) string {
	text := strings.TrimSpace(string(w.source[node.StartByte():node.EndByte()]))
	if len(text) > maxProblemText {
		text = text[:maxProblemText] + "..."
	}
	return text
}

// importPath extracts the target of @import "x", @import 'x' or @import url(x)
func (w *walker) importPath(node *sitter.Node) (string, bool) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string_value":
			return unquote(string(w.source[child.StartByte():child.EndByte()])), true
		case "call_expression":
			text := string(w.source[child.StartByte():child.EndByte()])
			open := strings.IndexByte(text, '(')
			if open < 0 || !strings.EqualFold(strings.TrimSpace(text[:open]), "url") {
				return "", false
			}
			arg := strings.TrimSuffix(strings.TrimSpace(text[open+1:]), ")")
			return unquote(strings.TrimSpace(arg)), true
		}
	}
	return "", false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
