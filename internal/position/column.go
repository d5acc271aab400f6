// Package position converts parser coordinates, which count bytes, into the
// character columns people see in their editors.
package position

import (
	"bytes"
	"unicode/utf8"
)

// LineStart returns the byte offset at which the given 0-based row begins,
// or len(source) when source has fewer rows
func LineStart(source []byte, row uint) int {
	offset := 0
	for ; row > 0; row-- {
		i := bytes.IndexByte(source[offset:], '\n')
		if i < 0 {
			return len(source)
		}
		offset += i + 1
	}
	return offset
}

// RuneColumn converts a 0-based byte column on row into a 0-based count of
// characters. Invalid UTF-8 bytes count as one character each.
func RuneColumn(source []byte, row, byteCol uint) uint {
	start := LineStart(source, row)
	end := start + int(byteCol)
	if end > len(source) {
		end = len(source)
	}
	return uint(utf8.RuneCount(source[start:end]))
}
