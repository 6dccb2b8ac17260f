package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipe-finder/internal/apperr"
	"github.com/pageza/recipe-finder/internal/recipe"
)

// Result is everything one lookup produced. Fields are filled as far as the
// lookup got, so a failed lookup still carries its debug data. RawKeys are
// the fetched payload's field names in source order; Keys are the sorted
// field names of the enriched record that feeds the prompt.
type Result struct {
	Query        string          `json:"query"`
	RecipeID     string          `json:"recipe_id,omitempty"`
	Title        string          `json:"title,omitempty"`
	Image        string          `json:"image,omitempty"`
	RawKeys      []string        `json:"raw_keys,omitempty"`
	Keys         []string        `json:"keys,omitempty"`
	Ingredients  []string        `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	Formatted    string          `json:"formatted,omitempty"`
	Raw          json.RawMessage `json:"raw,omitempty"`

	record recipe.Record
}

// Record returns the enriched record used for formatting.
func (r *Result) Record() recipe.Record {
	return r.record
}

// HasRaw reports whether a detail payload was fetched.
func (r *Result) HasRaw() bool {
	return len(r.Raw) > 0
}

// RecipeFinder runs resolve, fetch, extract and format for a query.
type RecipeFinder struct {
	source    IRecipeSource
	formatter IRecipeFormatter
	logger    *zap.Logger
}

// NewRecipeFinder creates a new RecipeFinder instance
func NewRecipeFinder(source IRecipeSource, formatter IRecipeFormatter, logger *zap.Logger) *RecipeFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeFinder{source: source, formatter: formatter, logger: logger.Named("finder")}
}

// Lookup resolves query, fetches the recipe and extracts its lists. A recipe
// without ingredients or instructions fails, but the partial Result is still
// returned alongside the error.
func (f *RecipeFinder) Lookup(ctx context.Context, query string) (*Result, error) {
	const op = "finder.lookup"

	q := strings.TrimSpace(query)
	if q == "" {
		return nil, apperr.New(apperr.KindEmptyQuery, op, nil)
	}
	res := &Result{Query: q}

	id, err := f.source.ResolveIdentifier(ctx, q)
	if err != nil {
		return res, err
	}
	res.RecipeID = string(id)

	detail, err := f.source.FetchDetail(ctx, id)
	if err != nil {
		return res, err
	}
	res.Title = detail.Title()
	res.Image = detail.Image()
	res.Raw = detail.Raw()
	res.RawKeys = detail.Keys()

	enriched, err := recipe.Enrich(detail)
	if err != nil {
		return res, fmt.Errorf("failed to enrich recipe %s: %w", id, err)
	}
	res.Ingredients = enriched.Ingredients
	res.Instructions = enriched.Instructions
	res.record = enriched.Detail.Record()
	res.Keys = recipe.SortedFields(res.record)

	f.logger.Info("recipe resolved",
		zap.String("query", q),
		zap.String("recipe_id", res.RecipeID),
		zap.Int("ingredients", len(res.Ingredients)),
		zap.Int("instructions", len(res.Instructions)),
	)

	if len(res.Ingredients) == 0 {
		return res, apperr.New(apperr.KindMissingIngredients, op, nil)
	}
	if len(res.Instructions) == 0 {
		return res, apperr.New(apperr.KindMissingInstructions, op, nil)
	}
	return res, nil
}

// Render formats a successful lookup into res.Formatted.
func (f *RecipeFinder) Render(ctx context.Context, res *Result) error {
	formatted, err := f.formatter.Format(ctx, res.record)
	if err != nil {
		return err
	}
	res.Formatted = formatted
	return nil
}

// Find runs Lookup and Render.
func (f *RecipeFinder) Find(ctx context.Context, query string) (*Result, error) {
	res, err := f.Lookup(ctx, query)
	if err != nil {
		return res, err
	}
	if err := f.Render(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}
