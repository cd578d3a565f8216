// Package errors provides structured errors with stable codes for the
// tiller runtime and tooling. Each code maps to a registered template with
// a category, message, and fix suggestion, so failures surface the same way
// in panics, CLI output, and logs.
package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Error is a structured error with a stable code.
type Error struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, config, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail overrides the error's detail text.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion overrides the fix suggestion.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// New creates an error from a registered code.
// Unknown codes produce a generic runtime error carrying the code.
func New(code string) *Error {
	if tpl, ok := registry[code]; ok {
		return &Error{
			Code:       code,
			Category:   tpl.Category,
			Message:    tpl.Message,
			Detail:     tpl.Detail,
			Suggestion: tpl.Suggestion,
		}
	}
	return &Error{
		Code:     code,
		Category: CategoryRuntime,
		Message:  "unknown error",
	}
}

// Wrap creates an error from a registered code around an underlying error.
func Wrap(code string, err error) *Error {
	e := New(code)
	e.Wrapped = err
	return e
}

// template defines a registered error type.
type template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]template{
	// Runtime errors (E001-E099)

	"E001": {
		Category:   CategoryRuntime,
		Message:    "route element missing path attribute",
		Detail:     "Every route element must carry a string path attribute naming its route pattern.",
		Suggestion: `Pass dom.Attrs{"path": "/users/$id"} to Route.`,
	},
	"E002": {
		Category:   CategoryRuntime,
		Message:    "link element missing to attribute",
		Detail:     "Every link element must carry a string to attribute naming its target route.",
		Suggestion: `Pass dom.Attrs{"to": "/users"} to Link.`,
	},
	"E003": {
		Category:   CategoryRuntime,
		Message:    "unknown router event",
		Detail:     "ListenFor accepts only BeforeRouteChange, AfterRouteChange, and RouteChangeComplete.",
		Suggestion: "Use one of the router.Event constants.",
	},

	// Config errors (E101-E199)

	"E101": {
		Category:   CategoryConfig,
		Message:    "invalid configuration file",
		Detail:     "tiller.json could not be parsed.",
		Suggestion: "Check the file for JSON syntax errors.",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "missing application entry point",
		Detail:     "The configured entry package does not exist.",
		Suggestion: "Set \"entry\" in tiller.json to the package containing your wasm main.",
	},

	// CLI errors (E201-E299)

	"E201": {
		Category:   CategoryCLI,
		Message:    "build failed",
		Detail:     "The wasm build of the application did not complete.",
		Suggestion: "Run with --verbose to see the compiler output.",
	},
	"E202": {
		Category:   CategoryCLI,
		Message:    "deploy failed",
		Detail:     "Uploading the build output to the configured bucket failed.",
		Suggestion: "Check the deploy settings in tiller.json and your AWS credentials.",
	},
}
