// Package trace holds the trace-option table queried by the resolver and the sinks
// trace messages are written to.
package trace

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Class names a trace category. Classes form a dotted hierarchy: enabling a class
// enables every class below it.
type Class string

// Trace classes emitted by the resolver.
const (
	MetaDebug     Class = "Meta.debug"
	UnifyEq       Class = "Meta.Tactic.unifyEq"
	Injection     Class = "Meta.Tactic.injection"
	classSep            = "."
	attrTraceName       = "trace"
)

// Parent returns the enclosing class, or "" for a root class.
func (c Class) Parent() Class {
	i := strings.LastIndex(string(c), classSep)
	if i < 0 {
		return ""
	}

	return c[:i]
}

// Options is a read-only table of enabled trace classes.
type Options struct {
	enabled map[Class]bool
}

// NewOptions enables the given classes.
func NewOptions(classes ...string) Options {
	o := Options{enabled: make(map[Class]bool, len(classes))}
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c != "" {
			o.enabled[Class(c)] = true
		}
	}

	return o
}

// IsEnabled reports whether c or one of its ancestors is enabled.
func (o Options) IsEnabled(c Class) bool {
	for cur := c; cur != ""; cur = cur.Parent() {
		if o.enabled[cur] {
			return true
		}
	}

	return false
}

// Sink receives trace messages. Emit must not fail.
type Sink interface {
	Emit(class Class, msg string)
}

// NopSink discards all messages.
type NopSink struct{}

// Emit does nothing.
func (NopSink) Emit(Class, string) {}

// Fanout emits every message on each of its sinks in order. A sink that panics
// does not keep the others from receiving the message.
type Fanout []Sink

// Emit forwards msg to every sink.
func (f Fanout) Emit(class Class, msg string) {
	for _, s := range f {
		SafeEmit(s, class, msg)
	}
}

// SlogSink writes messages to a structured logger at debug level.
type SlogSink struct {
	Logger *slog.Logger
}

// Emit logs msg tagged with its class.
func (s SlogSink) Emit(class Class, msg string) {
	if s.Logger == nil {
		return
	}

	s.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, slog.String(attrTraceName, string(class)))
}

// Message is one recorded trace message.
type Message struct {
	Class Class
	Text  string
}

// Recorder is a concurrency-safe in-memory sink.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Emit appends msg to the recorded messages.
func (r *Recorder) Emit(class Class, msg string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.messages = append(r.messages, Message{Class: class, Text: msg})
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded messages.
func (r *Recorder) Snapshot() []Message {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.messages))
	copy(out, r.messages)

	return out
}

// SafeEmit emits msg on s, tolerating a nil sink and swallowing panics.
func SafeEmit(s Sink, class Class, msg string) {
	if s == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	s.Emit(class, msg)
}
