// Package registry provides tracing interfaces for parser debugging.
package registry

import (
	"time"

	"ftl_checker/internal/duty"
	"ftl_checker/internal/patterns"
)

// TraceResult contains trace information from a parser's attempt to parse
// roster text.
type TraceResult struct {
	ParserName string                 // Name of the parser.
	Signatures []SignatureCheck       // Per-signature classification results.
	Formats    []patterns.FormatTrace // Line/format match attempts.
	Claimed    bool                   // Whether the signature count met the threshold.
	Envelope   *duty.ParseResult      // The parse outcome (nil if not attempted).
}

// SignatureCheck records one layout signature test during classification.
type SignatureCheck struct {
	Name    string // Signature name (e.g., "weekday_header").
	Matched bool   // Whether the signature occurred in the text.
}

// Traceable is implemented by parsers that support debug tracing. The trace
// explains which signatures and line formats were tried and what they
// produced, for the debug endpoint and CLI.
type Traceable interface {
	ParseWithTrace(text string, now time.Time) *TraceResult
}
