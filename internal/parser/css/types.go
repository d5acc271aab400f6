package css

import "fmt"

// Position is a 1-based line and column in CSS source
type Position struct {
	Line   uint
	Column uint
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Problem is a syntax problem found by the parser
type Problem struct {
	Position Position
	// Text is the offending source text, empty for a missing token
	Text string
	// Missing names the token the parser had to insert, if any
	Missing string
}

// Message renders the problem the way CSS tooling reports parse warnings
func (p Problem) Message() string {
	if p.Missing != "" {
		return fmt.Sprintf("Missing '%s' at %s. Ignoring.", p.Missing, p.Position)
	}
	return fmt.Sprintf("Invalid character(s) '%s' at %s. Ignoring.", p.Text, p.Position)
}

// Import is one @import statement
type Import struct {
	Path     string
	Position Position
}

// Report is the result of checking one stylesheet
type Report struct {
	Problems []Problem
	Imports  []Import
}
