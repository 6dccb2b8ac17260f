// Package prompt builds the text templates sent to the completion service.
package prompt

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pageza/recipe-finder/internal/apperr"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Template is prompt text with {name} placeholders and the exact set of
// parameters it declares.
type Template struct {
	text   string
	params []string
}

// New returns a Template after checking that the placeholders in text are
// exactly params.
func New(text string, params []string) (*Template, error) {
	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p] = true
	}
	used := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		used[m[1]] = true
	}

	missing, unexpected := diff(declared, used)
	if len(missing) > 0 || len(unexpected) > 0 {
		return nil, mismatch("prompt.new", "placeholders", missing, unexpected)
	}

	return &Template{text: text, params: slices.Clone(params)}, nil
}

// Text returns the unrendered template text.
func (t *Template) Text() string { return t.text }

// Params returns the declared parameter names.
func (t *Template) Params() []string { return slices.Clone(t.params) }

// Render substitutes values into the template. The key set of values must
// equal the declared parameters; otherwise a PromptFieldMismatch error lists
// the missing and unexpected names. Substituted text is not rescanned.
func (t *Template) Render(values map[string]string) (string, error) {
	declared := make(map[string]bool, len(t.params))
	for _, p := range t.params {
		declared[p] = true
	}
	given := make(map[string]bool, len(values))
	for k := range values {
		given[k] = true
	}

	missing, unexpected := diff(declared, given)
	if len(missing) > 0 || len(unexpected) > 0 {
		return "", mismatch("prompt.render", "values", missing, unexpected)
	}

	return placeholder.ReplaceAllStringFunc(t.text, func(m string) string {
		return values[m[1:len(m)-1]]
	}), nil
}

// diff returns the names in want but not in got, and in got but not in want.
func diff(want, got map[string]bool) (missing, unexpected []string) {
	for k := range want {
		if !got[k] {
			missing = append(missing, k)
		}
	}
	for k := range got {
		if !want[k] {
			unexpected = append(unexpected, k)
		}
	}
	slices.Sort(missing)
	slices.Sort(unexpected)
	return missing, unexpected
}

func mismatch(op, what string, missing, unexpected []string) error {
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(unexpected, ", "))
	}
	return &apperr.Error{
		Kind:    apperr.KindPromptFieldMismatch,
		Op:      op,
		Fields:  append(slices.Clone(missing), unexpected...),
		Message: fmt.Sprintf("%s do not match declared parameters: %s", what, strings.Join(parts, "; ")),
	}
}
