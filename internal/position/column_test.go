package position_test

import (
	"testing"

	"bennypowers.dev/tplmin/internal/position"
	"github.com/stretchr/testify/assert"
)

func TestLineStart(t *testing.T) {
	source := []byte("a{\n  b: c;\n}")
	tests := []struct {
		name string
		row  uint
		want int
	}{
		{"first row", 0, 0},
		{"second row", 1, 3},
		{"last row", 2, 11},
		{"past the end", 7, len(source)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, position.LineStart(source, tt.row))
		})
	}
}

func TestRuneColumn(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		row     uint
		byteCol uint
		want    uint
	}{
		{"ascii", "a{color:red}", 0, 8, 8},
		{"multibyte before column", "p::before{content:'→';x}", 0, 23, 21},
		{"second row", "a{\n  é: 1;}", 1, 5, 4},
		{"beyond the line", "ab", 0, 10, 2},
		{"invalid utf-8", "\xff\xfeab", 0, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, position.RuneColumn([]byte(tt.source), tt.row, tt.byteCol))
		})
	}
}
