package position

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Highlight renders the first line of span with a caret underline, or "" when the
// file is unknown.
func (sm *SourceMap) Highlight(span Span) string {
	if !span.IsValid() {
		return ""
	}

	file := sm.GetFile(span.Start.Filename)
	if file == nil {
		return ""
	}

	line := file.GetLine(span.Start.Line)
	if line == "" {
		return ""
	}

	endCol := span.End.Column
	if span.End.Line != span.Start.Line {
		endCol = utf8.RuneCountInString(line) + 1
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("%4d | %s\n", span.Start.Line, line))
	result.WriteString("     | ")
	addSingleLineHighlight(&result, line, span.Start.Column, endCol)
	result.WriteString("\n")

	return result.String()
}

// addSingleLineHighlight adds highlighting for a single line between given columns.
func addSingleLineHighlight(result *strings.Builder, line string, startCol, endCol int) {
	runes := []rune(line)

	for i := 1; i < startCol; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}

	highlightLen := min(endCol-startCol, len(runes)-startCol+1)
	if highlightLen < 1 {
		highlightLen = 1
	}

	result.WriteString(strings.Repeat("^", highlightLen))
}
