// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"
)

type (
	// ActionableError is an error with context for user-facing messages:
	// the operation that failed, the resource involved, and hints for a fix.
	//
	// Use the ErrorContext builder:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load recipe").
	//		WithResource("./recipe.cue").
	//		WithSuggestion("Run 'recipekit info' to inspect the built-in recipe").
	//		WithIssue(issue.RecipeNotFoundId).
	//		Wrap(originalErr).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load recipe" or "lock stage".
		Operation string

		// Resource identifies the file, spec or directory involved (optional).
		Resource string

		// Suggestions are shown as a bullet list under the message (optional).
		Suggestions []string

		// IssueID links the error to a Markdown issue page (optional).
		IssueID Id

		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext is a builder for ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for the terminal:
//
//	failed to <operation>: <resource>: <cause>
//
//	  • <suggestion>
//
// In verbose mode the error tree follows, one cause per line; joined errors
// are listed one level deeper than the error that joined them. Otherwise an
// error with an issue page points at --verbose.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • " + s)
		}
	}

	switch {
	case verbose && e.Cause != nil:
		msg.WriteString("\n\nError chain:")
		n := 0
		writeChain(&msg, e.Cause, 1, &n)
	case !verbose && e.IssueID != 0:
		msg.WriteString("\n\n  Re-run with --verbose for troubleshooting steps.")
	}

	return msg.String()
}

func writeChain(w *strings.Builder, err error, depth int, n *int) {
	for err != nil {
		*n++
		fmt.Fprintf(w, "\n%s%d. %s", strings.Repeat("  ", depth), *n, err)
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				writeChain(w, inner, depth+1, n)
			}
			return
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return
		}
	}
}

// HasSuggestions reports whether the error carries any suggestion.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the operation, a verb phrase like "load recipe".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion adds a suggestion. Can be called multiple times.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, sug)
	return c
}

// WithIssue links a Markdown issue page.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.IssueID = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation is set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &ae
}

// BuildError is Build returned as an error interface, nil when Build is nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
