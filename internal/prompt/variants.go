package prompt

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pageza/recipe-finder/internal/recipe"
)

// Variant selects how the prompt is laid out.
type Variant string

const (
	// VariantSorted lists every record field, one line each, in sorted order.
	VariantSorted Variant = "sorted"
	// VariantFixed uses four named slots.
	VariantFixed Variant = "fixed"
)

const sortedHeader = `Start by showing the name of the recipe and a short description of the dish,
Then show the ingredients in bullet format and the procedure in a sorted number format
Make sure that the prompt is complete and do not stop mid-sentence or mid-word
`

const fixedText = `Recipe Name: {title}<br>
Summary: {summary}<br>
Ingredients:<br>
{ingredients}<br>
Instructions:<br>
{instructions}<br>
`

// FixedFields are the slots of the fixed variant.
var FixedFields = []string{"title", "summary", recipe.IngredientsField, recipe.InstructionsField}

// Sorted builds a template with one "<Label>: {key}<br>" line per record
// field in sorted order, after the instruction header. Fields whose names
// cannot be written as a placeholder (empty, or containing a brace) are
// left out.
func Sorted(rec recipe.Record) (*Template, error) {
	keys := make([]string, 0, len(rec))
	for _, k := range recipe.SortedFields(rec) {
		if placeable(k) {
			keys = append(keys, k)
		}
	}

	var b strings.Builder
	b.WriteString(sortedHeader)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: {%s}<br>", Label(k), k)
	}
	return New(b.String(), keys)
}

func placeable(key string) bool {
	return key != "" && !strings.ContainsAny(key, "{}")
}

// Fixed builds the four-slot template.
func Fixed() (*Template, error) {
	return New(fixedText, FixedFields)
}

// Build returns the template for v together with the values to render it
// with. Values are rec projected onto the template's parameters, so a fixed
// template over a record lacking one of its slots fails at Render.
func Build(v Variant, rec recipe.Record) (*Template, recipe.Record, error) {
	switch v {
	case VariantSorted, "":
		t, err := Sorted(rec)
		if err != nil {
			return nil, nil, err
		}
		return t, rec.Project(t.Params()), nil
	case VariantFixed:
		t, err := Fixed()
		return t, rec.Project(FixedFields), err
	default:
		return nil, nil, fmt.Errorf("unknown prompt variant %q", v)
	}
}

// Label turns a field name into display text: underscores become spaces,
// the first letter is upper-cased and the rest lower-cased.
func Label(key string) string {
	s := strings.ToLower(strings.ReplaceAll(key, "_", " "))
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
