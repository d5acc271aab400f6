package html

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser classifies positions in HTML fragments
type Parser struct {
	parser *sitter.Parser
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
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

// Classify parses source once and reports the context of each [start, end)
// range. Ranges are expected to hold a single token each.
func (p *Parser) Classify(source string, ranges [][2]uint) ([]Location, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse HTML")
	}
	defer tree.Close()

	root := tree.RootNode()
	locations := make([]Location, len(ranges))
	for i, r := range ranges {
		node := root.DescendantForByteRange(r[0], r[1])
		locations[i] = classify(node, sourceBytes)
	}
	return locations, nil
}

// classify climbs from the innermost node covering a range to the first
// ancestor that decides its context
func classify(node *sitter.Node, source []byte) Location {
	for cur := node; cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case "comment":
			return Location{Context: ContextComment}
		case "attribute_name":
			return Location{Context: ContextAttrName}
		case "attribute_value", "quoted_attribute_value":
			if isStyleAttribute(cur, source) {
				start, end := valueBounds(cur)
				return Location{Context: ContextStyleAttr, RegionStart: start, RegionEnd: end}
			}
			return Location{Context: ContextAttrValue}
		case "attribute", "start_tag", "self_closing_tag":
			return Location{Context: ContextAttrName}
		case "raw_text":
			loc := Location{RegionStart: cur.StartByte(), RegionEnd: cur.EndByte()}
			switch parentKind(cur) {
			case "style_element":
				loc.Context = ContextStyle
			case "script_element":
				loc.Context = ContextScript
			default:
				loc.Context = ContextText
			}
			return loc
		case "text", "element", "document", "fragment":
			return Location{Context: ContextText}
		}
	}
	return Location{Context: ContextText}
}

func parentKind(n *sitter.Node) string {
	if parent := n.Parent(); parent != nil {
		return parent.Kind()
	}
	return ""
}

// isStyleAttribute reports whether an attribute value belongs to style="..."
func isStyleAttribute(value *sitter.Node, source []byte) bool {
	for cur := value.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind() != "attribute" {
			continue
		}
		for i := uint(0); i < cur.ChildCount(); i++ {
			child := cur.Child(i)
			if child != nil && child.Kind() == "attribute_name" {
				name := string(source[child.StartByte():child.EndByte()])
				return strings.EqualFold(name, "style")
			}
		}
		return false
	}
	return false
}

// valueBounds returns the byte range of the attribute value without quotes
func valueBounds(n *sitter.Node) (uint, uint) {
	if n.Kind() == "quoted_attribute_value" {
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil && child.Kind() == "attribute_value" {
				return child.StartByte(), child.EndByte()
			}
		}
		if n.EndByte()-n.StartByte() >= 2 {
			return n.StartByte() + 1, n.EndByte() - 1
		}
	}
	return n.StartByte(), n.EndByte()
}
