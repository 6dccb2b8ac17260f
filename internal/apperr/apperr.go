// Package apperr defines the error taxonomy shared by the recipe finder.
//
// Every failure that ends an interaction is an *Error with a Kind. Callers
// test for a kind with errors.Is against the exported sentinels:
//
//	if errors.Is(err, apperr.ErrRecipeNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an interaction-ending failure.
type Kind string

const (
	KindEmptyQuery          Kind = "EmptyQuery"
	KindRecipeNotFound      Kind = "RecipeNotFound"
	KindMissingIngredients  Kind = "MissingIngredients"
	KindMissingInstructions Kind = "MissingInstructions"
	KindUpstreamTransport   Kind = "UpstreamTransportError"
	KindUpstreamResponse    Kind = "UpstreamResponseError"
	KindPromptFieldMismatch Kind = "PromptFieldMismatch"
	KindCompletionService   Kind = "CompletionServiceError"
	KindConfiguration       Kind = "ConfigurationError"
	KindUnknown             Kind = "Unknown"
)

// Sentinels for errors.Is. They carry only a Kind.
var (
	ErrEmptyQuery          = &Error{Kind: KindEmptyQuery}
	ErrRecipeNotFound      = &Error{Kind: KindRecipeNotFound}
	ErrMissingIngredients  = &Error{Kind: KindMissingIngredients}
	ErrMissingInstructions = &Error{Kind: KindMissingInstructions}
	ErrUpstreamTransport   = &Error{Kind: KindUpstreamTransport}
	ErrUpstreamResponse    = &Error{Kind: KindUpstreamResponse}
	ErrPromptFieldMismatch = &Error{Kind: KindPromptFieldMismatch}
	ErrCompletionService   = &Error{Kind: KindCompletionService}
	ErrConfiguration       = &Error{Kind: KindConfiguration}
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "spoonacular.search".
	Op string
	// Status is the upstream HTTP status, when there was one.
	Status int
	// Fields lists offending field names for field-related kinds.
	Fields []string
	// Message overrides the default description.
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(defaultMessages[e.Kind])
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an *Error of the given kind wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf returns an *Error of the given kind with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

var defaultMessages = map[Kind]string{
	KindEmptyQuery:          "empty query",
	KindRecipeNotFound:      "no recipe found",
	KindMissingIngredients:  "recipe has no ingredients",
	KindMissingInstructions: "recipe has no instructions",
	KindUpstreamTransport:   "upstream request failed",
	KindUpstreamResponse:    "upstream returned an invalid response",
	KindPromptFieldMismatch: "prompt fields do not match record",
	KindCompletionService:   "completion service failed",
	KindConfiguration:       "configuration error",
}

var userMessages = map[Kind]string{
	KindEmptyQuery:          "Please enter a recipe query.",
	KindRecipeNotFound:      "No recipe found.",
	KindMissingIngredients:  "No ingredients found.",
	KindMissingInstructions: "No instructions found.",
	KindUpstreamTransport:   "Could not reach the recipe service. Please try again later.",
	KindUpstreamResponse:    "The recipe service returned an unexpected response.",
	KindPromptFieldMismatch: "The recipe could not be prepared for formatting.",
	KindCompletionService:   "The recipe could not be formatted right now.",
	KindConfiguration:       "The service is not configured correctly.",
}

// UserMessage returns the short message shown to the user for err.
func UserMessage(err error) string {
	if msg, ok := userMessages[KindOf(err)]; ok {
		return msg
	}
	return "Something went wrong."
}

// HTTPStatus maps err to the status code returned by the JSON API.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindEmptyQuery:
		return http.StatusBadRequest
	case KindRecipeNotFound:
		return http.StatusNotFound
	case KindMissingIngredients, KindMissingInstructions:
		return http.StatusUnprocessableEntity
	case KindUpstreamTransport, KindUpstreamResponse, KindCompletionService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
