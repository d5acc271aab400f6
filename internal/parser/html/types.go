package html

// Context is the markup position a byte range occupies
type Context int

const (
	// ContextText is character data between tags
	ContextText Context = iota
	// ContextAttrName is where an attribute (name) is expected inside a start tag
	ContextAttrName
	// ContextAttrValue is inside a quoted or unquoted attribute value
	ContextAttrValue
	// ContextComment is inside <!-- ... -->
	ContextComment
	// ContextStyle is inside a <style> element's raw text
	ContextStyle
	// ContextStyleAttr is inside a style="..." attribute value
	ContextStyleAttr
	// ContextScript is inside a <script> element's raw text
	ContextScript
)

func (c Context) String() string {
	switch c {
	case ContextAttrName:
		return "attribute"
	case ContextAttrValue:
		return "attribute value"
	case ContextComment:
		return "comment"
	case ContextStyle:
		return "style element"
	case ContextStyleAttr:
		return "style attribute"
	case ContextScript:
		return "script element"
	default:
		return "text"
	}
}

// IsCSS reports whether the context holds CSS
func (c Context) IsCSS() bool {
	return c == ContextStyle || c == ContextStyleAttr
}

// Location is the classified position of one byte range
type Location struct {
	Context Context
	// RegionStart and RegionEnd bound the enclosing raw text or attribute
	// value for CSS and script contexts, so callers can scan the embedded
	// language from its beginning.
	RegionStart uint
	RegionEnd   uint
}
