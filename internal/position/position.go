// Package position provides source positions for problem files, so that
// diagnostics can point at the declaration or hypothesis they are about.
package position

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Position represents a single point in a problem file.
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number, in runes
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other in the same file
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}

	if p.Line != other.Line {
		return p.Line < other.Line
	}

	return p.Column < other.Column
}

// Advance returns the position n runes further on the same line.
func (p Position) Advance(n int) Position {
	p.Column += n

	return p
}

// Span represents a range of source text between two positions
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// SpanAt returns the span of n runes starting at p.
func SpanAt(p Position, n int) Span {
	return Span{Start: p, End: p.Advance(n)}
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		!s.End.Before(s.Start)
}

// String returns a string representation of the span
func (s Span) String() string {
	prefix := ""
	if s.Start.Filename != "" {
		prefix = filepath.Base(s.Start.Filename) + ":"
	}

	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s%d:%d-%d", prefix, s.Start.Line, s.Start.Column, s.End.Column)
	}

	return fmt.Sprintf("%s%d:%d-%d:%d", prefix, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// SourceFile holds the lines of a problem file.
type SourceFile struct {
	Filename string
	Lines    []string
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Lines:    strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n"),
	}
}

// GetLine returns the specified line (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}

	return sf.Lines[lineNum-1]
}

// SourceMap manages the problem files seen in one run.
type SourceMap struct {
	files map[string]*SourceFile
}

// NewSourceMap creates a new source map
func NewSourceMap() *SourceMap {
	return &SourceMap{files: make(map[string]*SourceFile)}
}

// AddFile adds a source file to the map
func (sm *SourceMap) AddFile(filename, content string) *SourceFile {
	file := NewSourceFile(filename, content)
	sm.files[filename] = file

	return file
}

// GetFile returns the source file for the given filename
func (sm *SourceMap) GetFile(filename string) *SourceFile {
	if sm == nil {
		return nil
	}

	return sm.files[filename]
}
