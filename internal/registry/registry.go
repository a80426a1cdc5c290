// Package registry provides a roster parser registry that classifies raw
// roster text and dispatches it to the matching parser.
package registry

import (
	"sort"
	"sync"
	"time"

	"ftl_checker/internal/duty"
)

// Parser is implemented by each roster format parser.
type Parser interface {
	// Name returns the parser's unique identifier.
	Name() string

	// SignatureCount counts how many distinct layout signatures of this
	// format appear in the text. This is the classification step and must
	// be cheap relative to a full parse.
	SignatureCount(text string) int

	// Threshold is the minimum number of distinct signatures needed for
	// this parser to claim the text.
	Threshold() int

	// Priority determines classification order when multiple parsers could
	// claim the same text. Lower number = checked first.
	Priority() int

	// Parse converts roster text into a parse envelope. It never fails
	// outright: malformed input degrades to partial results with itemised
	// errors. The reference time anchors date resolution for rosters that
	// omit a year/month header.
	Parse(text string, now time.Time) *duty.ParseResult

	// ExampleInput returns a literal example of the expected input shape,
	// for display to callers. It is not consumed programmatically.
	ExampleInput() string
}

// Registry holds registered roster parsers organised for classification.
type Registry struct {
	mu sync.RWMutex

	// parsers claim text by signature count, checked in priority order.
	parsers []Parser

	// fallback handles text no signature-based parser claimed.
	fallback Parser

	sorted bool
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a parser to the default registry.
// Called during init() in each parser package.
func Register(p Parser) {
	defaultRegistry.Register(p)
}

// RegisterFallback sets the default registry's fallback parser.
func RegisterFallback(p Parser) {
	defaultRegistry.RegisterFallback(p)
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, p)
	r.sorted = false
}

// RegisterFallback sets the parser used when no signature check claims the
// text. A wrong classification is not an error: the fallback simply produces
// fewer or zero duty periods, which callers observe via the envelope.
func (r *Registry) RegisterFallback(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// Sort orders parsers by priority. Call before classifying.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sorted {
		return
	}
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Priority() < r.parsers[j].Priority()
	})
	r.sorted = true
}

// Detect classifies roster text and returns the parser that claims it, or
// the fallback when none does. Returns nil only when no fallback is set.
func (r *Registry) Detect(text string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.parsers {
		if p.SignatureCount(text) >= p.Threshold() {
			return p
		}
	}
	return r.fallback
}

// Parse classifies and parses roster text in one step. A nil envelope means
// no parser was available at all, which only happens with an empty registry.
func (r *Registry) Parse(text string, now time.Time) *duty.ParseResult {
	p := r.Detect(text)
	if p == nil {
		return nil
	}
	return p.Parse(text, now)
}

// AllParsers returns all registered parsers including the fallback.
func (r *Registry) AllParsers() []Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Parser, 0, len(r.parsers)+1)
	out = append(out, r.parsers...)
	if r.fallback != nil {
		out = append(out, r.fallback)
	}
	return out
}

// ParserCount returns the number of registered parsers including the
// fallback.
func (r *Registry) ParserCount() int {
	return len(r.AllParsers())
}
