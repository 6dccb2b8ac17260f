package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/pageza/recipe-finder/internal/apperr"
	"github.com/pageza/recipe-finder/internal/middleware"
	"github.com/pageza/recipe-finder/internal/render"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/shell"
	"github.com/pageza/recipe-finder/internal/types"
)

type RecipeHandler struct {
	finder   service.IRecipeFinder
	renderer *render.Renderer
	logger   *zap.Logger
}

func NewRecipeHandler(finder service.IRecipeFinder, renderer *render.Renderer, logger *zap.Logger) *RecipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeHandler{
		finder:   finder,
		renderer: renderer,
		logger:   logger.Named("api"),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Index)
	router.GET("/search", h.SearchPage)

	v1 := router.Group("/api/v1")
	recipes := v1.Group("/recipes")
	{
		recipes.POST("/search", h.Search)
	}
}

// pageView is the data behind templates/index.html
type pageView struct {
	Query         string
	Title         string
	Message       string
	Kind          string
	State         shell.State
	Recipe        *service.Result
	RawPretty     string
	FormattedHTML template.HTML
}

// Index renders the empty search form
func (h *RecipeHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageView{State: shell.Idle})
}

// SearchPage runs one lookup for ?q= and renders the result page
func (h *RecipeHandler) SearchPage(c *gin.Context) {
	cycle := shell.Run(c.Request.Context(), h.finder, c.Query("q"))

	view := pageView{
		Query:  cycle.Query,
		State:  cycle.State,
		Recipe: cycle.Result,
	}
	if res := cycle.Result; res != nil {
		view.Title = res.Title
		if res.HasRaw() {
			view.RawPretty = string(pretty.Pretty(res.Raw))
		}
	}

	status := http.StatusOK
	if cycle.Failed() {
		status = apperr.HTTPStatus(cycle.Err)
		view.Message = cycle.Message
		view.Kind = string(apperr.KindOf(cycle.Err))
		h.logFailure(c, cycle.Err)
	} else {
		view.FormattedHTML = h.formattedHTML(cycle.Result.Formatted)
	}

	c.HTML(status, "index.html", view)
}

// Search looks up and formats a recipe for the JSON body {"query": "..."}
func (h *RecipeHandler) Search(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Invalid request body", Kind: "InvalidRequest"})
		return
	}

	res, err := h.finder.Find(c.Request.Context(), req.Query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.SearchResponse{
		Recipe:        res,
		FormattedHTML: string(h.formattedHTML(res.Formatted)),
	})
}

func (h *RecipeHandler) formattedHTML(text string) template.HTML {
	out, err := h.renderer.HTML(text)
	if err != nil {
		h.logger.Warn("failed to render formatted recipe", zap.Error(err))
		return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
	}
	return out
}

func (h *RecipeHandler) logFailure(c *gin.Context, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("kind", string(apperr.KindOf(err))),
		zap.String("request_id", middleware.GetRequestID(c)),
	}
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("search failed", fields...)
		return
	}
	h.logger.Info("search failed", fields...)
}
