package js

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser wraps a tree-sitter JavaScript parser
type Parser struct {
	parser *sitter.Parser
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
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

// Parse parses one source file. The returned File owns the syntax tree and
// must be closed by the caller.
func (p *Parser) Parse(source []byte) (*File, error) {
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse JavaScript")
	}
	return &File{
		Source: source,
		tree:   tree,
		root:   tree.RootNode(),
	}, nil
}

// File is a parsed source file
type File struct {
	Source []byte
	tree   *sitter.Tree
	root   *sitter.Node
}

// Root returns the program node
func (f *File) Root() *sitter.Node {
	return f.root
}

// Text returns the source text of a node
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.Source[n.StartByte():n.EndByte()])
}

// Close releases the syntax tree
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}
