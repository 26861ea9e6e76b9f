// Diagnostic system for equation resolution and problem files.
// Provides structured error reports with codes, spans and source snippets.

package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/unifyeq/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DiagnosticCategory represents the category of diagnostic.
type DiagnosticCategory int

const (
	DiagnosticSyntax DiagnosticCategory = iota
	DiagnosticType
	DiagnosticEquation
	DiagnosticDocument
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case DiagnosticSyntax:
		return "syntax"
	case DiagnosticType:
		return "type"
	case DiagnosticEquation:
		return "equation"
	case DiagnosticDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Diagnostic codes.
const (
	CodeNotAnEquation            = "UNIFY001"
	CodeUnsolvableEquation       = "UNIFY002"
	CodeMalformedInjectionTarget = "UNIFY003"
	CodeUnexpectedToken          = "PROB001"
	CodeUnknownIdentifier        = "PROB002"
	CodeIllTyped                 = "PROB003"
	CodeUnsupportedVersion       = "PROB004"
	CodeInvalidDocument          = "PROB005"
	CodeResolveNotEquation       = "PROB006"
	CodeNoEquation               = "PROB007"
	codeTooManyErrors            = "E0001"
)

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code     string
	Title    string
	Message  string
	Notes    []string
	Span     position.Span
	Level    DiagnosticLevel
	Category DiagnosticCategory
}

// Error renders the diagnostic without position information, so that a
// *Diagnostic can travel as an error value.
func (d *Diagnostic) Error() string {
	var sb strings.Builder

	sb.WriteString(d.Title)

	if d.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(strings.ReplaceAll(d.Message, "\n", "\n  "))
	}

	for _, note := range d.Notes {
		sb.WriteString("\n")
		sb.WriteString(note)
	}

	return sb.String()
}

// DiagnosticBuilder helps construct diagnostic messages with fluent API.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic creates a new diagnostic builder.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{diagnostic: &Diagnostic{}}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

func (db *DiagnosticBuilder) Syntax() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticSyntax

	return db
}

func (db *DiagnosticBuilder) Type() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticType

	return db
}

func (db *DiagnosticBuilder) Equation() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticEquation

	return db
}

func (db *DiagnosticBuilder) Document() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticDocument

	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

func (db *DiagnosticBuilder) Title(title string) *DiagnosticBuilder {
	db.diagnostic.Title = title

	return db
}

func (db *DiagnosticBuilder) Message(message string) *DiagnosticBuilder {
	db.diagnostic.Message = message

	return db
}

// Note appends a trailing line to the diagnostic. Empty notes are ignored.
func (db *DiagnosticBuilder) Note(note string) *DiagnosticBuilder {
	if note != "" {
		db.diagnostic.Notes = append(db.diagnostic.Notes, note)
	}

	return db
}

func (db *DiagnosticBuilder) Span(span position.Span) *DiagnosticBuilder {
	db.diagnostic.Span = span

	return db
}

func (db *DiagnosticBuilder) Build() *Diagnostic {
	return db.diagnostic
}

// DiagnosticEngine manages the collection and processing of diagnostics.
type DiagnosticEngine struct {
	sources     *position.SourceMap
	diagnostics []Diagnostic
	config      DiagnosticConfig
	truncated   bool
}

// DiagnosticConfig controls diagnostic behavior.
type DiagnosticConfig struct {
	MaxErrors  int
	ShowSource bool
}

// DefaultConfig returns the configuration used by the command line.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{MaxErrors: 100, ShowSource: true}
}

// NewDiagnosticEngine creates a new diagnostic engine. sources may be nil.
func NewDiagnosticEngine(config DiagnosticConfig, sources *position.SourceMap) *DiagnosticEngine {
	return &DiagnosticEngine{
		diagnostics: make([]Diagnostic, 0),
		config:      config,
		sources:     sources,
	}
}

// AddDiagnostic adds a diagnostic to the engine.
func (de *DiagnosticEngine) AddDiagnostic(diagnostic *Diagnostic) {
	if de.truncated {
		return
	}

	de.diagnostics = append(de.diagnostics, *diagnostic)

	if de.config.MaxErrors > 0 && len(de.GetErrors()) >= de.config.MaxErrors {
		truncationDiag := NewDiagnostic().
			Error().
			Code(codeTooManyErrors).
			Title("Too many errors").
			Message(fmt.Sprintf("Stopping after %d errors", de.config.MaxErrors)).
			Build()
		de.diagnostics = append(de.diagnostics, *truncationDiag)
		de.truncated = true
	}
}

// GetDiagnostics returns all diagnostics.
func (de *DiagnosticEngine) GetDiagnostics() []Diagnostic {
	return de.diagnostics
}

// GetErrors returns only error-level diagnostics.
func (de *DiagnosticEngine) GetErrors() []Diagnostic {
	return de.filter(DiagnosticError)
}

// GetWarnings returns only warning-level diagnostics.
func (de *DiagnosticEngine) GetWarnings() []Diagnostic {
	return de.filter(DiagnosticWarning)
}

func (de *DiagnosticEngine) filter(level DiagnosticLevel) []Diagnostic {
	out := make([]Diagnostic, 0)

	for _, diag := range de.diagnostics {
		if diag.Level == level {
			out = append(out, diag)
		}
	}

	return out
}

// HasErrors returns true if there are any errors.
func (de *DiagnosticEngine) HasErrors() bool {
	return len(de.GetErrors()) > 0
}

// SortDiagnostics sorts diagnostics by position and severity.
func (de *DiagnosticEngine) SortDiagnostics() {
	sort.SliceStable(de.diagnostics, func(i, j int) bool {
		a, b := de.diagnostics[i], de.diagnostics[j]

		if a.Span.Start != b.Span.Start {
			return a.Span.Start.Before(b.Span.Start)
		}

		return a.Level < b.Level
	})
}

// FormatDiagnostics returns a formatted string representation of all diagnostics.
func (de *DiagnosticEngine) FormatDiagnostics() string {
	if len(de.diagnostics) == 0 {
		return ""
	}

	de.SortDiagnostics()

	var result strings.Builder

	for i := range de.diagnostics {
		if i > 0 {
			result.WriteString("\n")
		}

		result.WriteString(de.FormatDiagnostic(&de.diagnostics[i]))
	}

	result.WriteString(de.formatSummary())

	return result.String()
}

// FormatDiagnostic formats a single diagnostic.
func (de *DiagnosticEngine) FormatDiagnostic(diag *Diagnostic) string {
	var result strings.Builder

	if diag.Span.Start.IsValid() {
		result.WriteString(diag.Span.Start.String())
		result.WriteString(": ")
	}

	result.WriteString(fmt.Sprintf("%s[%s]: %s\n", diag.Level, diag.Code, diag.Title))

	if diag.Message != "" {
		for _, line := range strings.Split(diag.Message, "\n") {
			result.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	for _, note := range diag.Notes {
		result.WriteString(fmt.Sprintf("  %s\n", note))
	}

	if de.config.ShowSource {
		result.WriteString(de.sources.Highlight(diag.Span))
	}

	return result.String()
}

// formatSummary formats a summary of all diagnostics.
func (de *DiagnosticEngine) formatSummary() string {
	errorCount := len(de.GetErrors())
	warningCount := len(de.GetWarnings())

	if errorCount == 0 && warningCount == 0 {
		return "\nNo issues found.\n"
	}

	var parts []string
	if errorCount > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errorCount))
	}

	if warningCount > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warningCount))
	}

	return fmt.Sprintf("\nFound %s.\n", strings.Join(parts, ", "))
}

// CommonDiagnostics provides factory functions for common diagnostic patterns.
type CommonDiagnostics struct{}

// NotAnEquation reports a hypothesis whose type is not an equality.
func (cd *CommonDiagnostics) NotAnEquation(hyp, ty string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Equation().
		Code(CodeNotAnEquation).
		Title("equality expected").
		Message(fmt.Sprintf("%s : %s", hyp, ty)).
		Build()
}

// UnsolvableEquation reports an equation that can neither be substituted nor
// dismissed. caseName may be empty.
func (cd *CommonDiagnostics) UnsolvableEquation(eqType, caseName string) *Diagnostic {
	note := ""
	if caseName != "" {
		note = fmt.Sprintf("at case %s", caseName)
	}

	return NewDiagnostic().
		Error().
		Equation().
		Code(CodeUnsolvableEquation).
		Title("dependent elimination failed, failed to solve equation").
		Message(eqType).
		Note(note).
		Build()
}

// MalformedInjectionTarget reports an equation side that does not reduce to a
// constructor application.
func (cd *CommonDiagnostics) MalformedInjectionTarget(eqType, side string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Equation().
		Code(CodeMalformedInjectionTarget).
		Title("equality of constructor applications expected").
		Message(eqType).
		Note(fmt.Sprintf("%s is not a constructor application", side)).
		Build()
}

// UnexpectedToken creates a diagnostic for unexpected token errors.
func (cd *CommonDiagnostics) UnexpectedToken(span position.Span, expected, actual string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Syntax().
		Code(CodeUnexpectedToken).
		Title("Unexpected token").
		Message(fmt.Sprintf("Expected %s, found '%s'", expected, actual)).
		Span(span).
		Build()
}

// UnknownIdentifier creates a diagnostic for names that resolve to nothing.
func (cd *CommonDiagnostics) UnknownIdentifier(span position.Span, name string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Syntax().
		Code(CodeUnknownIdentifier).
		Title("Unknown identifier").
		Message(fmt.Sprintf("'%s' is neither a hypothesis, a binder nor a declaration", name)).
		Span(span).
		Build()
}

// IllTyped creates a diagnostic for terms the elaborator cannot type.
func (cd *CommonDiagnostics) IllTyped(span position.Span, details string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Type().
		Code(CodeIllTyped).
		Title("Ill-typed term").
		Message(details).
		Span(span).
		Build()
}

// UnsupportedVersion creates a diagnostic for problem documents of another format version.
func (cd *CommonDiagnostics) UnsupportedVersion(span position.Span, version, constraint string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Document().
		Code(CodeUnsupportedVersion).
		Title("Unsupported document version").
		Message(fmt.Sprintf("version %q does not satisfy %s", version, constraint)).
		Span(span).
		Build()
}

// InvalidDocument creates a diagnostic for structurally invalid problem documents.
func (cd *CommonDiagnostics) InvalidDocument(span position.Span, details string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Document().
		Code(CodeInvalidDocument).
		Title("Invalid problem document").
		Message(details).
		Span(span).
		Build()
}

// Global instance for convenience.
var Common = &CommonDiagnostics{}

// ResolveNotEquation warns that the hypothesis a document asks to resolve does not
// have an equality type.
func (cd *CommonDiagnostics) ResolveNotEquation(span position.Span, hyp, ty string) *Diagnostic {
	return NewDiagnostic().
		Warning().
		Document().
		Code(CodeResolveNotEquation).
		Title("Resolve target is not an equation").
		Message(fmt.Sprintf("%s : %s", hyp, ty)).
		Span(span).
		Build()
}

// NoEquation warns that a problem has no equation hypothesis to resolve.
func (cd *CommonDiagnostics) NoEquation(filename string) *Diagnostic {
	return NewDiagnostic().
		Warning().
		Document().
		Code(CodeNoEquation).
		Title("No equation hypothesis").
		Message(fmt.Sprintf("%s declares no hypothesis of type a = b or HEq a b", filename)).
		Build()
}
