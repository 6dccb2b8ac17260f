package service

import (
	"context"

	"github.com/pageza/recipe-finder/internal/recipe"
	"github.com/pageza/recipe-finder/internal/spoonacular"
)

// IRecipeSource resolves queries to recipes and fetches their detail
type IRecipeSource interface {
	ResolveIdentifier(ctx context.Context, query string) (spoonacular.RecipeID, error)
	FetchDetail(ctx context.Context, id spoonacular.RecipeID) (recipe.Detail, error)
}

// IRecipeFormatter turns a recipe record into display text
type IRecipeFormatter interface {
	Format(ctx context.Context, rec recipe.Record) (string, error)
}

// IRecipeFinder runs the lookup and formatting steps for one query
type IRecipeFinder interface {
	Lookup(ctx context.Context, query string) (*Result, error)
	Render(ctx context.Context, res *Result) error
	Find(ctx context.Context, query string) (*Result, error)
}
