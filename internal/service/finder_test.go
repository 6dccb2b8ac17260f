package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipe-finder/internal/apperr"
	"github.com/pageza/recipe-finder/internal/mocks"
	"github.com/pageza/recipe-finder/internal/recipe"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
)

const margheritaDetail = `{
  "id": 716429,
  "title": "Margherita Pizza",
  "image": "https://img.example/716429.jpg",
  "extendedIngredients": [{"original": "1 pizza dough"}, {"original": "100g mozzarella"}],
  "analyzedInstructions": [{"steps": [{"step": "Stretch dough."}, {"step": "Bake."}]}]
}`

func detail(t *testing.T, raw string) recipe.Detail {
	t.Helper()
	d, err := recipe.NewDetail([]byte(raw))
	require.NoError(t, err)
	return d
}

func TestFinderEmptyQuery(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	formatter := new(mocks.MockRecipeFormatter)
	finder := service.NewRecipeFinder(source, formatter, zaptest.NewLogger(t))

	for _, q := range []string{"", "   ", "\t\n"} {
		res, err := finder.Find(context.Background(), q)
		assert.ErrorIs(t, err, apperr.ErrEmptyQuery)
		assert.Nil(t, res)
	}
	source.AssertNotCalled(t, "ResolveIdentifier", mock.Anything, mock.Anything)
}

func TestFinderRecipeNotFoundSkipsDetail(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	formatter := new(mocks.MockRecipeFormatter)
	source.On("ResolveIdentifier", mock.Anything, "qwertyuiop").
		Return(spoonacular.RecipeID(""), apperr.New(apperr.KindRecipeNotFound, "spoonacular.search", nil))

	finder := service.NewRecipeFinder(source, formatter, zaptest.NewLogger(t))
	_, err := finder.Find(context.Background(), "  qwertyuiop ")

	assert.ErrorIs(t, err, apperr.ErrRecipeNotFound)
	source.AssertNotCalled(t, "FetchDetail", mock.Anything, mock.Anything)
	formatter.AssertNotCalled(t, "Format", mock.Anything, mock.Anything)
}

func TestFinderMissingLists(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{
			name: "no ingredients",
			raw:  `{"id":1,"title":"Air","analyzedInstructions":[{"steps":[{"step":"Breathe."}]}]}`,
			want: apperr.ErrMissingIngredients,
		},
		{
			name: "no instructions",
			raw:  `{"id":1,"title":"Salt","extendedIngredients":[{"original":"salt"}],"analyzedInstructions":[]}`,
			want: apperr.ErrMissingInstructions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(mocks.MockRecipeSource)
			formatter := new(mocks.MockRecipeFormatter)
			source.On("ResolveIdentifier", mock.Anything, "x").Return(spoonacular.RecipeID("1"), nil)
			source.On("FetchDetail", mock.Anything, spoonacular.RecipeID("1")).Return(detail(t, tt.raw), nil)

			finder := service.NewRecipeFinder(source, formatter, zaptest.NewLogger(t))
			res, err := finder.Find(context.Background(), "x")

			assert.ErrorIs(t, err, tt.want)
			require.NotNil(t, res)
			assert.True(t, res.HasRaw())
			formatter.AssertNotCalled(t, "Format", mock.Anything, mock.Anything)
		})
	}
}

func TestFinderFind(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	formatter := new(mocks.MockRecipeFormatter)
	source.On("ResolveIdentifier", mock.Anything, "margherita pizza").Return(spoonacular.RecipeID("716429"), nil)
	source.On("FetchDetail", mock.Anything, spoonacular.RecipeID("716429")).Return(detail(t, margheritaDetail), nil)
	formatter.On("Format", mock.Anything, mock.MatchedBy(func(rec recipe.Record) bool {
		return rec["ingredients"] == "1 pizza dough\n100g mozzarella" &&
			rec["instructions"] == "Stretch dough.\nBake." &&
			rec["title"] == "Margherita Pizza"
	})).Return("# Margherita Pizza", nil).Once()

	finder := service.NewRecipeFinder(source, formatter, zaptest.NewLogger(t))
	res, err := finder.Find(context.Background(), "margherita pizza")
	require.NoError(t, err)

	assert.Equal(t, "716429", res.RecipeID)
	assert.Equal(t, "Margherita Pizza", res.Title)
	assert.Equal(t, "https://img.example/716429.jpg", res.Image)
	assert.Equal(t, []string{"1 pizza dough", "100g mozzarella"}, res.Ingredients)
	assert.Equal(t, []string{"Stretch dough.", "Bake."}, res.Instructions)
	assert.Equal(t, "# Margherita Pizza", res.Formatted)
	assert.Contains(t, res.Keys, "ingredients")
	assert.Equal(t, []string{"id", "title", "image", "extendedIngredients", "analyzedInstructions"}, res.RawKeys)
	assert.NotContains(t, string(res.Raw), `"ingredients"`)
	formatter.AssertNumberOfCalls(t, "Format", 1)
}

func TestFinderFormatterError(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	formatter := new(mocks.MockRecipeFormatter)
	source.On("ResolveIdentifier", mock.Anything, "pizza").Return(spoonacular.RecipeID("716429"), nil)
	source.On("FetchDetail", mock.Anything, spoonacular.RecipeID("716429")).Return(detail(t, margheritaDetail), nil)
	formatter.On("Format", mock.Anything, mock.Anything).
		Return("", apperr.New(apperr.KindCompletionService, "formatter.format", errors.New("boom")))

	finder := service.NewRecipeFinder(source, formatter, zaptest.NewLogger(t))
	res, err := finder.Find(context.Background(), "pizza")

	assert.ErrorIs(t, err, apperr.ErrCompletionService)
	require.NotNil(t, res)
	assert.Empty(t, res.Formatted)
}
