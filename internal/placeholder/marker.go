package placeholder

import (
	"errors"
	"hash/fnv"
	"strings"
)

// Marker layout, version 1:
//
//	tplmin-<nonce>-<index>
//
// nonce is eight lowercase letters derived from the template text and
// re-derived until it does not occur in that text. index is the expression
// position in base 26 (a=0), zero-padded with 'a' to a fixed width so no
// marker is a prefix of another. Letters only: the token is a valid HTML
// attribute name and value, comment text, CSS identifier and at-keyword.
const (
	Prefix  = "tplmin"
	Version = 1

	// TemplateOpen and TemplateClose delimit markers that a minifier must
	// treat as template syntax
	TemplateOpen  = "{{"
	TemplateClose = "}}"

	nonceLength = 8
)

// maxAttempts bounds the salts tried for a nonce
var maxAttempts = 1 << 10

// ErrNoNonce is returned when every candidate nonce occurs in the template
var ErrNoNonce = errors.New("no free marker nonce")

// Shape is the syntax wrapped around a marker token
type Shape int

const (
	// ShapeBare is the token alone: text, attributes, comments, CSS values,
	// selectors and property names
	ShapeBare Shape = iota
	// ShapeDeclaration is `--token:0`, a whole CSS declaration
	ShapeDeclaration
	// ShapeStatement is `@token`, a whole top-level CSS statement
	ShapeStatement
)

func (s Shape) String() string {
	switch s {
	case ShapeDeclaration:
		return "declaration"
	case ShapeStatement:
		return "statement"
	default:
		return "bare"
	}
}

// nonceFor returns a nonce whose marker prefix does not occur in text
func nonceFor(text string) (string, error) {
	for salt := 0; salt < maxAttempts; salt++ {
		h := fnv.New64a()
		h.Write([]byte(text))
		h.Write([]byte{byte(salt), byte(salt >> 8)})
		sum := h.Sum64()

		var b strings.Builder
		for i := 0; i < nonceLength; i++ {
			b.WriteByte(byte('a' + sum%26))
			sum /= 26
		}
		nonce := b.String()
		if !strings.Contains(text, Prefix+"-"+nonce) {
			return nonce, nil
		}
	}
	return "", ErrNoNonce
}

// indexWidth is the number of base-26 digits needed for n markers
func indexWidth(n int) int {
	width := 1
	for limit := 26; n > limit; limit *= 26 {
		width++
	}
	return width
}

// encodeIndex writes i in base 26 with letters, padded to width
func encodeIndex(i, width int) string {
	digits := make([]byte, width)
	for pos := width - 1; pos >= 0; pos-- {
		digits[pos] = byte('a' + i%26)
		i /= 26
	}
	return string(digits)
}
