// Package integrity decides whether a minified template may replace the
// template as written.
package integrity

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/tplmin/internal/config"
	"bennypowers.dev/tplmin/internal/diag"
	"bennypowers.dev/tplmin/internal/minify"
	"bennypowers.dev/tplmin/internal/placeholder"
)

var (
	// ErrMarkerLost means the minifier removed structure holding a marker
	ErrMarkerLost = errors.New("marker lost in minification")
	// ErrCSSRejected means a stylesheet finding is fatal under failOnError
	ErrCSSRejected = errors.New("stylesheet rejected")
)

// DeletionError reports markers that did not survive minification
type DeletionError struct {
	Expected int
	Found    int
	// Lost lists markers absent from the output, in expression order
	Lost []placeholder.Marker
}

// NewDeletionError creates a new deletion error
func NewDeletionError(expected, found int, lost []placeholder.Marker) *DeletionError {
	return &DeletionError{Expected: expected, Found: found, Lost: lost}
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: found %d of %d markers", ErrMarkerLost, e.Found, e.Expected)
}

func (e *DeletionError) Unwrap() error {
	return ErrMarkerLost
}

// Detail names each lost expression and where it sat
func (e *DeletionError) Detail() string {
	if len(e.Lost) == 0 {
		return fmt.Sprintf("expected %d markers, found %d", e.Expected, e.Found)
	}
	lines := make([]string, len(e.Lost))
	for i, m := range e.Lost {
		lines[i] = m.Describe() + " was removed"
	}
	return strings.Join(lines, "\n")
}

// CheckMarkers verifies that text holds exactly one marker per expression
func CheckMarkers(enc *placeholder.Encoded, text string) error {
	found := enc.Count(text)
	if found == len(enc.Markers) {
		return nil
	}
	var lost []placeholder.Marker
	for _, m := range enc.Markers {
		if !strings.Contains(text, m.Token) {
			lost = append(lost, m)
		}
	}
	return NewDeletionError(len(enc.Markers), found, lost)
}

// CSSError is a stylesheet finding escalated by failOnError
type CSSError struct {
	Findings []string
}

func (e *CSSError) Error() string {
	return strings.Join(e.Findings, "\n")
}

func (e *CSSError) Unwrap() error {
	return ErrCSSRejected
}

// Verdict is what to do with a site's minified text
type Verdict int

const (
	// Accept uses the minified text
	Accept Verdict = iota
	// Fallback keeps the template text as written
	Fallback
)

func (v Verdict) String() string {
	if v == Fallback {
		return "fallback"
	}
	return "accept"
}

// Policy applies strictCSS, failOnError and logOnError to stylesheet
// findings
type Policy struct {
	StrictCSS   bool
	FailOnError bool
	LogOnError  bool
}

// PolicyFor extracts the policy switches from options
func PolicyFor(opts *config.Options) Policy {
	return Policy{StrictCSS: opts.StrictCSS, FailOnError: opts.FailOnError, LogOnError: opts.LogOnError}
}

// Findings returns the findings that count under the policy: processor
// errors always, parser warnings only in strict mode
func (p Policy) Findings(result *minify.Result) []string {
	findings := append([]string(nil), result.Errors...)
	if p.StrictCSS {
		findings = append(findings, result.Warnings...)
	}
	return findings
}

// Evaluate decides the verdict for a stylesheet result. failOnError returns
// a *CSSError; logOnError reports every finding to sink and keeps the best
// effort output; otherwise the site falls back silently.
func (p Policy) Evaluate(result *minify.Result, sink diag.Sink) (Verdict, error) {
	findings := p.Findings(result)
	if len(findings) == 0 {
		return Accept, nil
	}
	switch {
	case p.FailOnError:
		return Fallback, &CSSError{Findings: findings}
	case p.LogOnError:
		for _, finding := range findings {
			sink.Warn(diag.CSSMessage(finding))
		}
		return Accept, nil
	default:
		return Fallback, nil
	}
}
