package position

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionString(t *testing.T) {
	assert.Equal(t, "p.yaml:3:7", Position{Filename: "dir/p.yaml", Line: 3, Column: 7}.String())
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
	assert.False(t, Position{}.IsValid())
}

func TestPositionOrdering(t *testing.T) {
	a := Position{Filename: "p.yaml", Line: 2, Column: 9}
	b := Position{Filename: "p.yaml", Line: 3, Column: 1}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, a.Before(a.Advance(1)))
}

func TestSpan(t *testing.T) {
	start := Position{Filename: "p.yaml", Line: 4, Column: 10}
	span := SpanAt(start, 5)

	assert.True(t, span.IsValid())
	assert.Equal(t, "p.yaml:4:10-15", span.String())

	backwards := Span{Start: span.End, End: span.Start}
	assert.False(t, backwards.IsValid())

	multi := Span{Start: start, End: Position{Filename: "p.yaml", Line: 6, Column: 2}}
	assert.Equal(t, "p.yaml:4:10-6:2", multi.String())
}

func TestHighlight(t *testing.T) {
	sm := NewSourceMap()
	sm.AddFile("p.yaml", "hypotheses:\n  - {name: h, type: n = m}\n")

	got := sm.Highlight(SpanAt(Position{Filename: "p.yaml", Line: 2, Column: 21}, 5))
	assert.Equal(t, "   2 |   - {name: h, type: n = m}\n     | "+strings.Repeat(" ", 20)+"^^^^^\n", got)

	assert.Empty(t, sm.Highlight(SpanAt(Position{Filename: "other.yaml", Line: 1, Column: 1}, 1)))
	assert.Empty(t, (*SourceMap)(nil).Highlight(SpanAt(Position{Filename: "p.yaml", Line: 1, Column: 1}, 1)))
}
