// Package problem loads equation problems: a YAML document declaring an
// environment, a goal and the hypothesis to resolve, with terms written in a small
// surface syntax.
package problem

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/position"
)

// SupportedVersions is the constraint on the document version field.
const SupportedVersions = ">= 1.0, < 2.0"

// Scalar is a YAML scalar together with where it appears in the file.
type Scalar struct {
	Value string
	Pos   position.Position
	// quoted is set for single and double quoted scalars, whose text starts one
	// column after the node.
	quoted bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{
			fmt.Sprintf("line %d: scalar expected", node.Line),
		}}
	}

	s.Value = node.Value
	s.Pos = position.Position{Line: node.Line, Column: node.Column}
	s.quoted = node.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0

	return nil
}

// Origin returns the position of the first character of the scalar's text.
func (s Scalar) Origin() position.Position {
	if s.quoted {
		return s.Pos.Advance(1)
	}

	return s.Pos
}

// Span covers the scalar's text.
func (s Scalar) Span() position.Span {
	return position.SpanAt(s.Origin(), max(1, utf8.RuneCountInString(s.Value)))
}

// IsSet reports whether the scalar was present in the document.
func (s Scalar) IsSet() bool {
	return s.Pos.IsValid()
}

// Declaration is a named constant. Value is only meaningful for definitions and
// metavariables.
type Declaration struct {
	Name  Scalar  `yaml:"name"`
	Type  Scalar  `yaml:"type"`
	Value *Scalar `yaml:"value,omitempty"`
}

// InductiveDecl declares an inductive type and its constructors.
type InductiveDecl struct {
	Name         Scalar        `yaml:"name"`
	Type         Scalar        `yaml:"type"`
	Constructors []Declaration `yaml:"constructors"`
	Params       int           `yaml:"params"`
}

// Document is the decoded problem file.
type Document struct {
	Version       Scalar          `yaml:"version"`
	Target        Scalar          `yaml:"target"`
	Resolve       Scalar          `yaml:"resolve"`
	Case          Scalar          `yaml:"case"`
	Inductives    []InductiveDecl `yaml:"inductives"`
	Definitions   []Declaration   `yaml:"definitions"`
	Axioms        []Declaration   `yaml:"axioms"`
	Metavariables []Declaration   `yaml:"metavariables"`
	Hypotheses    []Declaration   `yaml:"hypotheses"`
}

// Decode reads a document and checks its version. Positions in the result and in
// returned diagnostics carry filename.
func Decode(filename string, data []byte) (*Document, error) {
	var doc Document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, diagnostic.Common.InvalidDocument(
			position.SpanAt(position.Position{Filename: filename, Line: 1, Column: 1}, 1), err.Error())
	}

	doc.setFilename(filename)

	if err := doc.checkVersion(); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (d *Document) checkVersion() error {
	span := d.Version.Span()
	if !d.Version.IsSet() {
		return diagnostic.Common.InvalidDocument(span, "missing version")
	}

	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}

	v, err := semver.NewVersion(d.Version.Value)
	if err != nil {
		return diagnostic.Common.UnsupportedVersion(span, d.Version.Value, SupportedVersions)
	}

	if !constraint.Check(v) {
		return diagnostic.Common.UnsupportedVersion(span, d.Version.Value, SupportedVersions)
	}

	return nil
}

func (d *Document) setFilename(filename string) {
	set := func(s *Scalar) {
		if s != nil && s.IsSet() {
			s.Pos.Filename = filename
		}
	}

	setDecl := func(decls []Declaration) {
		for i := range decls {
			set(&decls[i].Name)
			set(&decls[i].Type)
			set(decls[i].Value)
		}
	}

	set(&d.Version)
	set(&d.Target)
	set(&d.Resolve)
	set(&d.Case)

	for i := range d.Inductives {
		set(&d.Inductives[i].Name)
		set(&d.Inductives[i].Type)
		setDecl(d.Inductives[i].Constructors)
	}

	setDecl(d.Definitions)
	setDecl(d.Axioms)
	setDecl(d.Metavariables)
	setDecl(d.Hypotheses)
}
