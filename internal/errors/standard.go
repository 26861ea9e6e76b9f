// Package errors provides standardized error values for the context store and the
// definitional-equality oracle.
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryContext     ErrorCategory = "CONTEXT"
	CategoryScope       ErrorCategory = "SCOPE"
	CategoryTerm        ErrorCategory = "TERM"
	CategoryDeclaration ErrorCategory = "DECLARATION"
)

// Error codes. Each sentinel below carries one of them.
const (
	CodeStaleGoal            = "STALE_GOAL"
	CodeUnknownHypothesis    = "UNKNOWN_HYPOTHESIS"
	CodeHypothesisInUse      = "HYPOTHESIS_IN_USE"
	CodeOccursCheck          = "OCCURS_CHECK"
	CodeScopeEscape          = "SCOPE_ESCAPE"
	CodeIllTyped             = "ILL_TYPED"
	CodeUnknownConstant      = "UNKNOWN_CONSTANT"
	CodeDuplicateDeclaration = "DUPLICATE_DECLARATION"
	CodeIllFormedDeclaration = "ILL_FORMED_DECLARATION"
	CodeNoTransaction        = "NO_TRANSACTION"
	CodeTransactionOpen      = "TRANSACTION_OPEN"
	CodeStepLimit            = "STEP_LIMIT"
)

// Sentinels for errors.Is. They match any StandardError with the same code.
var (
	ErrStaleGoal            = &StandardError{Category: CategoryContext, Code: CodeStaleGoal}
	ErrUnknownHypothesis    = &StandardError{Category: CategoryContext, Code: CodeUnknownHypothesis}
	ErrHypothesisInUse      = &StandardError{Category: CategoryContext, Code: CodeHypothesisInUse}
	ErrOccursCheck          = &StandardError{Category: CategoryScope, Code: CodeOccursCheck}
	ErrScopeEscape          = &StandardError{Category: CategoryScope, Code: CodeScopeEscape}
	ErrIllTyped             = &StandardError{Category: CategoryTerm, Code: CodeIllTyped}
	ErrUnknownConstant      = &StandardError{Category: CategoryTerm, Code: CodeUnknownConstant}
	ErrDuplicateDeclaration = &StandardError{Category: CategoryDeclaration, Code: CodeDuplicateDeclaration}
	ErrIllFormedDeclaration = &StandardError{Category: CategoryDeclaration, Code: CodeIllFormedDeclaration}
	ErrNoTransaction        = &StandardError{Category: CategoryContext, Code: CodeNoTransaction}
	ErrTransactionOpen      = &StandardError{Category: CategoryContext, Code: CodeTransactionOpen}
	ErrStepLimit            = &StandardError{Category: CategoryTerm, Code: CodeStepLimit}
)

// StandardError provides a consistent error format
type StandardError struct {
	Context  map[string]interface{}
	Category ErrorCategory
	Code     string
	Message  string
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%s:%s]", e.Category, e.Code)
	}

	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Is reports whether target is a StandardError with the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)

	return ok && t.Code == e.Code
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Common error constructors
func StaleGoal(goal string) *StandardError {
	return NewStandardError(CategoryContext, CodeStaleGoal,
		fmt.Sprintf("goal %s is no longer valid", goal),
		map[string]interface{}{"goal": goal})
}

func UnknownHypothesis(hyp string) *StandardError {
	return NewStandardError(CategoryContext, CodeUnknownHypothesis,
		fmt.Sprintf("unknown hypothesis %s", hyp),
		map[string]interface{}{"hypothesis": hyp})
}

func HypothesisInUse(hyp, user string) *StandardError {
	return NewStandardError(CategoryContext, CodeHypothesisInUse,
		fmt.Sprintf("cannot clear %s, %s depends on it", hyp, user),
		map[string]interface{}{"hypothesis": hyp, "user": user})
}

func OccursCheck(variable, replacement string) *StandardError {
	return NewStandardError(CategoryScope, CodeOccursCheck,
		fmt.Sprintf("%s occurs in %s", variable, replacement),
		map[string]interface{}{"variable": variable, "replacement": replacement})
}

func ScopeEscape(hyp, variable string) *StandardError {
	return NewStandardError(CategoryScope, CodeScopeEscape,
		fmt.Sprintf("%s would refer to %s before its declaration", hyp, variable),
		map[string]interface{}{"hypothesis": hyp, "variable": variable})
}

func IllTyped(details string) *StandardError {
	return NewStandardError(CategoryTerm, CodeIllTyped, details,
		map[string]interface{}{"details": details})
}

func UnknownConstant(name string) *StandardError {
	return NewStandardError(CategoryTerm, CodeUnknownConstant,
		fmt.Sprintf("unknown constant %s", name),
		map[string]interface{}{"name": name})
}

func DuplicateDeclaration(name string) *StandardError {
	return NewStandardError(CategoryDeclaration, CodeDuplicateDeclaration,
		fmt.Sprintf("%s is already declared", name),
		map[string]interface{}{"name": name})
}

func IllFormedDeclaration(name, details string) *StandardError {
	return NewStandardError(CategoryDeclaration, CodeIllFormedDeclaration,
		fmt.Sprintf("declaration %s: %s", name, details),
		map[string]interface{}{"name": name, "details": details})
}

func NoTransaction(goal string) *StandardError {
	return NewStandardError(CategoryContext, CodeNoTransaction,
		fmt.Sprintf("no open transaction on goal %s", goal),
		map[string]interface{}{"goal": goal})
}

func TransactionOpen(goal string) *StandardError {
	return NewStandardError(CategoryContext, CodeTransactionOpen,
		fmt.Sprintf("a transaction is already open on goal %s", goal),
		map[string]interface{}{"goal": goal})
}

func StepLimit(operation string, limit int) *StandardError {
	return NewStandardError(CategoryTerm, CodeStepLimit,
		fmt.Sprintf("%s exceeded the limit of %d steps", operation, limit),
		map[string]interface{}{"operation": operation, "limit": limit})
}
