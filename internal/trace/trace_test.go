package trace

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassParent(t *testing.T) {
	assert.Equal(t, Class("Meta.Tactic"), UnifyEq.Parent())
	assert.Equal(t, Class("Meta"), MetaDebug.Parent())
	assert.Equal(t, Class(""), Class("Meta").Parent())
}

func TestOptionsInheritParents(t *testing.T) {
	tests := []struct {
		name    string
		enabled []string
		query   Class
		want    bool
	}{
		{name: "nothing enabled", query: MetaDebug, want: false},
		{name: "exact class", enabled: []string{"Meta.debug"}, query: MetaDebug, want: true},
		{name: "root enables children", enabled: []string{"Meta"}, query: Injection, want: true},
		{name: "sibling does not leak", enabled: []string{"Meta.Tactic.injection"}, query: UnifyEq, want: false},
		{name: "child does not enable parent", enabled: []string{"Meta.debug"}, query: Class("Meta"), want: false},
		{name: "blank entries ignored", enabled: []string{" ", ""}, query: MetaDebug, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewOptions(tt.enabled...).IsEnabled(tt.query))
		})
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	SafeEmit(r, MetaDebug, "a ==> b")
	SafeEmit(nil, MetaDebug, "dropped")

	snap := r.Snapshot()
	assert.Equal(t, []Message{{Class: MetaDebug, Text: "a ==> b"}}, snap)

	snap[0].Text = "changed"
	assert.Equal(t, "a ==> b", r.Snapshot()[0].Text, "snapshots are copies")
}

type panicSink struct{}

func (panicSink) Emit(Class, string) { panic("broken sink") }

func TestSafeEmitSwallowsPanics(t *testing.T) {
	assert.NotPanics(t, func() { SafeEmit(panicSink{}, MetaDebug, "x") })
}

func TestSlogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	SlogSink{Logger: logger}.Emit(Injection, "x = y")
	assert.Contains(t, buf.String(), "trace=Meta.Tactic.injection")
	assert.Contains(t, buf.String(), `msg="x = y"`)

	assert.NotPanics(t, func() { SlogSink{}.Emit(Injection, "x") })
}

func TestFanout(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := NewRecorder()
	Fanout{panicSink{}, r, SlogSink{Logger: logger}}.Emit(MetaDebug, "a: x ==> y")

	assert.Equal(t, []Message{{Class: MetaDebug, Text: "a: x ==> y"}}, r.Snapshot())
	assert.Contains(t, buf.String(), "trace=Meta.debug")
}
