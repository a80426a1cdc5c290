// Package patterns provides shared regex patterns and helper functions for
// roster text parsing. This file contains the format pattern compiler.

package patterns

import (
	"regexp"
	"strings"
)

// Format represents a line format with named capture groups.
type Format struct {
	Name     string         // Format name for identification
	Pattern  string         // Pattern with {PLACEHOLDER} syntax
	Compiled *regexp.Regexp // Compiled regex (populated by Compile)
}

// Compiler manages pattern compilation and matching for a set of formats.
type Compiler struct {
	basePatterns map[string]string
	formats      []Format
}

// NewCompiler creates a compiler for the given formats. Local patterns are
// overlaid on the global BasePatterns and may override them.
func NewCompiler(formats []Format, localPatterns map[string]string) *Compiler {
	c := &Compiler{
		basePatterns: make(map[string]string),
		formats:      make([]Format, len(formats)),
	}
	for k, v := range BasePatterns {
		c.basePatterns[k] = v
	}
	for k, v := range localPatterns {
		c.basePatterns[k] = v
	}
	copy(c.formats, formats)
	return c
}

// Compile expands all {PLACEHOLDER} references and compiles the regexes.
func (c *Compiler) Compile() error {
	for i := range c.formats {
		re, err := regexp.Compile(c.expand(c.formats[i].Pattern))
		if err != nil {
			return err
		}
		c.formats[i].Compiled = re
	}
	return nil
}

// expand replaces {PLACEHOLDER} references with their base patterns.
func (c *Compiler) expand(pattern string) string {
	result := pattern
	for name, regex := range c.basePatterns {
		result = strings.ReplaceAll(result, "{"+name+"}", regex)
	}
	return result
}

// Match represents a successful format match with extracted fields.
type Match struct {
	FormatName string            // Name of the matched format
	Captures   map[string]string // Named capture group values
}

// GetCapture safely reads a capture value with a default.
func (m *Match) GetCapture(name, defaultVal string) string {
	if m == nil {
		return defaultVal
	}
	if val, ok := m.Captures[name]; ok && val != "" {
		return val
	}
	return defaultVal
}

// Parse attempts to match text against all compiled formats in order and
// returns the first match, or nil when no format applies.
func (c *Compiler) Parse(text string) *Match {
	for _, format := range c.formats {
		if format.Compiled == nil {
			continue
		}
		match := format.Compiled.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		result := &Match{
			FormatName: format.Name,
			Captures:   make(map[string]string),
		}
		for i, name := range format.Compiled.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			result.Captures[name] = match[i]
		}
		return result
	}
	return nil
}

// FindAllMatches finds every occurrence of one named format in text. Useful
// for formats that repeat, like flight rows inside a harvested duty block.
func (c *Compiler) FindAllMatches(text, formatName string) []map[string]string {
	var results []map[string]string
	for _, format := range c.formats {
		if format.Name != formatName || format.Compiled == nil {
			continue
		}
		for _, match := range format.Compiled.FindAllStringSubmatch(text, -1) {
			captures := make(map[string]string)
			for i, name := range format.Compiled.SubexpNames() {
				if i == 0 || name == "" {
					continue
				}
				captures[name] = match[i]
			}
			results = append(results, captures)
		}
		break
	}
	return results
}

// FormatTrace contains debug information about a format match attempt.
type FormatTrace struct {
	Name     string            // Format name
	Matched  bool              // Whether the pattern matched
	Pattern  string            // The expanded regex pattern
	Captures map[string]string // Captured groups (if matched)
}

// TraceAll matches text against every format and reports each attempt.
// Used by the trace endpoint to explain why a roster line did or did not
// parse.
func (c *Compiler) TraceAll(text string) []FormatTrace {
	traces := make([]FormatTrace, 0, len(c.formats))
	for _, format := range c.formats {
		ft := FormatTrace{
			Name:    format.Name,
			Pattern: c.expand(format.Pattern),
		}
		if format.Compiled == nil {
			traces = append(traces, ft)
			continue
		}
		if match := format.Compiled.FindStringSubmatch(text); match != nil {
			ft.Matched = true
			ft.Captures = make(map[string]string)
			for i, name := range format.Compiled.SubexpNames() {
				if i == 0 || name == "" {
					continue
				}
				ft.Captures[name] = match[i]
			}
		}
		traces = append(traces, ft)
	}
	return traces
}
