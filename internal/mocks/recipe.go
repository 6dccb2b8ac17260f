package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-finder/internal/recipe"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
)

// MockRecipeSource is a mock implementation of the recipe source
type MockRecipeSource struct {
	mock.Mock
}

// ResolveIdentifier mocks the ResolveIdentifier method
func (m *MockRecipeSource) ResolveIdentifier(ctx context.Context, query string) (spoonacular.RecipeID, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(spoonacular.RecipeID), args.Error(1)
}

// FetchDetail mocks the FetchDetail method
func (m *MockRecipeSource) FetchDetail(ctx context.Context, id spoonacular.RecipeID) (recipe.Detail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(recipe.Detail), args.Error(1)
}

// MockRecipeFormatter is a mock implementation of the recipe formatter
type MockRecipeFormatter struct {
	mock.Mock
}

// Format mocks the Format method
func (m *MockRecipeFormatter) Format(ctx context.Context, rec recipe.Record) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

// MockRecipeFinder is a mock implementation of the recipe finder
type MockRecipeFinder struct {
	mock.Mock
}

// Lookup mocks the Lookup method
func (m *MockRecipeFinder) Lookup(ctx context.Context, query string) (*service.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Result), args.Error(1)
}

// Render mocks the Render method
func (m *MockRecipeFinder) Render(ctx context.Context, res *service.Result) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

// Find mocks the Find method
func (m *MockRecipeFinder) Find(ctx context.Context, query string) (*service.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Result), args.Error(1)
}
