package recipe

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Field names written by Enrich.
const (
	IngredientsField  = "ingredients"
	InstructionsField = "instructions"
)

// ExtractIngredients returns the "original" text of every entry in
// extendedIngredients, in source order. Entries without that text are
// skipped; a missing collection yields an empty slice.
func ExtractIngredients(d Detail) []string {
	out := []string{}
	items := d.Field("extendedIngredients")
	if !items.IsArray() {
		return out
	}
	items.ForEach(func(_, item gjson.Result) bool {
		if original := item.Get("original"); original.Type == gjson.String {
			out = append(out, original.String())
		}
		return true
	})
	return out
}

// ExtractInstructions returns the step texts of the first instruction group
// in analyzedInstructions. Later groups are ignored.
func ExtractInstructions(d Detail) []string {
	out := []string{}
	groups := d.Field("analyzedInstructions")
	if !groups.IsArray() {
		return out
	}
	steps := groups.Get("0.steps")
	if !steps.IsArray() {
		return out
	}
	steps.ForEach(func(_, step gjson.Result) bool {
		if text := step.Get("step"); text.Type == gjson.String {
			out = append(out, text.String())
		}
		return true
	})
	return out
}

// Enriched is a Detail with the extracted lists folded back in as
// newline-joined text fields.
type Enriched struct {
	Detail       Detail
	Ingredients  []string
	Instructions []string
}

// Enrich extracts ingredients and instructions from d and returns a new
// Detail carrying them under IngredientsField and InstructionsField.
// d itself is not modified.
func Enrich(d Detail) (Enriched, error) {
	ingredients := ExtractIngredients(d)
	instructions := ExtractInstructions(d)

	raw, err := sjson.SetBytes(d.Raw(), IngredientsField, strings.Join(ingredients, "\n"))
	if err != nil {
		return Enriched{}, fmt.Errorf("failed to set %s: %w", IngredientsField, err)
	}
	raw, err = sjson.SetBytes(raw, InstructionsField, strings.Join(instructions, "\n"))
	if err != nil {
		return Enriched{}, fmt.Errorf("failed to set %s: %w", InstructionsField, err)
	}

	return Enriched{
		Detail:       Detail{raw: raw},
		Ingredients:  ingredients,
		Instructions: instructions,
	}, nil
}
