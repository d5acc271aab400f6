package placeholder

// cssState is what a forward scan of CSS source knows at its end
type cssState struct {
	depth   int
	parens  int
	inValue bool
}

// scanCSS tracks block depth, parenthesis depth and whether the scan ends
// inside a declaration value. Comments and strings are skipped.
func scanCSS(src string, inline bool) cssState {
	var st cssState
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '/':
			if i+1 < len(src) && src[i+1] == '*' {
				i = skipComment(src, i)
			}
		case '"', '\'':
			i = skipString(src, i)
		case '\\':
			i++
		case '(':
			st.parens++
		case ')':
			if st.parens > 0 {
				st.parens--
			}
		case '{':
			st.depth++
			st.inValue = false
		case '}':
			if st.depth > 0 {
				st.depth--
			}
			st.inValue = false
			st.parens = 0
		case ';':
			if st.parens == 0 {
				st.inValue = false
			}
		case ':':
			if st.parens == 0 && (st.depth > 0 || inline) {
				st.inValue = true
			}
		}
	}
	return st
}

// skipComment returns the index of the closing '/' of a comment opened at i
func skipComment(src string, i int) int {
	for j := i + 2; j+1 < len(src); j++ {
		if src[j] == '*' && src[j+1] == '/' {
			return j + 1
		}
	}
	return len(src)
}

// skipString returns the index of the closing quote of a string opened at i
func skipString(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote, '\n':
			return j
		}
	}
	return len(src)
}

// nextSignificant returns the first byte of src that is neither whitespace
// nor inside a comment, or 0 at the end
func nextSignificant(src string) byte {
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case isSpace(c):
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i = skipComment(src, i)
		default:
			return c
		}
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// opensStatement reports whether a token may start right after before
func opensStatement(before string) bool {
	if before == "" {
		return true
	}
	c := before[len(before)-1]
	return isSpace(c) || c == ';' || c == '{' || c == '}' || c == '/'
}

// closesStatement reports whether a token may end right before after
func closesStatement(after string) bool {
	if after == "" {
		return true
	}
	c := after[0]
	return isSpace(c) || c == ';' || c == '}' || c == '/'
}

// cssShape decides how a marker standing between before and after must be
// spelled so that the surrounding CSS stays valid. A marker glued to other
// tokens, inside a value or function, or followed by ':', '{' or ',' is part
// of a larger construct and stays bare. Otherwise it stands for whole
// declarations inside a block (or an inline style) and for whole statements
// at the top level.
func cssShape(before, after string, inline bool) (Shape, bool) {
	if !opensStatement(before) || !closesStatement(after) {
		return ShapeBare, false
	}
	st := scanCSS(before, inline)
	if st.parens > 0 || st.inValue {
		return ShapeBare, false
	}
	next := nextSignificant(after)
	switch next {
	case ':', '{', ',':
		return ShapeBare, false
	}
	if st.depth > 0 || inline {
		return ShapeDeclaration, next != ';' && next != '}' && next != 0
	}
	return ShapeStatement, next != ';'
}
