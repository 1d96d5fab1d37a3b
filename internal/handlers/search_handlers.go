package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel_platform_backend/internal/middleware"
	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/services"
	"hotel_platform_backend/pkg/utils"
)

// SearchHandler serves the public and back-office search endpoints.
type SearchHandler struct {
	searchService services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(ss services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: ss}
}

// rejectSearch answers with a failed result set so clients always receive the same body shape.
func rejectSearch(c *gin.Context, status int, query, msg string) {
	res := models.NewSearchResultSet(query)
	res.Success = false
	res.Error = msg
	c.JSON(status, res)
}

// parseSearchOptions reads the query-string filters shared by both search endpoints.
func parseSearchOptions(c *gin.Context) (models.SearchOptions, error) {
	opts := models.SearchOptions{
		Category:     models.SearchCategory(c.Query("category")),
		SortBy:       c.Query("sortBy"),
		BranchFilter: c.Query("branch"),
	}
	var err error
	if opts.MinPrice, err = utils.ParseOptionalFloat(c.Query("minPrice")); err != nil {
		return opts, errors.New("minPrice must be a number")
	}
	if opts.MaxPrice, err = utils.ParseOptionalFloat(c.Query("maxPrice")); err != nil {
		return opts, errors.New("maxPrice must be a number")
	}
	if raw := c.Query("limit"); raw != "" {
		if opts.Limit, err = strconv.Atoi(raw); err != nil {
			return opts, errors.New("limit must be an integer")
		}
	}
	return opts, nil
}

func (h *SearchHandler) run(c *gin.Context, opts models.SearchOptions) {
	query := c.Query("q")
	if err := services.ValidateOptions(&opts); err != nil {
		rejectSearch(c, http.StatusBadRequest, query, err.Error())
		return
	}

	res := h.searchService.Search(c.Request.Context(), query, opts)
	if !res.Success {
		c.JSON(http.StatusServiceUnavailable, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Search is the public search box: rooms, menu, events, services and branches.
func (h *SearchHandler) Search(c *gin.Context) {
	opts, err := parseSearchOptions(c)
	if err != nil {
		rejectSearch(c, http.StatusBadRequest, c.Query("q"), err.Error())
		return
	}
	opts.Scope = models.ScopePublic
	h.run(c, opts)
}

// AdminSearch adds guests, bookings, staff and orders. Branch-bound users only see their branch.
func (h *SearchHandler) AdminSearch(c *gin.Context) {
	opts, err := parseSearchOptions(c)
	if err != nil {
		rejectSearch(c, http.StatusBadRequest, c.Query("q"), err.Error())
		return
	}
	requested := opts.BranchFilter
	if requested == "all" {
		requested = ""
	}
	branchID, err := middleware.ScopedBranch(c, requested)
	if err != nil {
		rejectSearch(c, http.StatusForbidden, c.Query("q"), err.Error())
		return
	}
	opts.BranchFilter = branchID
	opts.Scope = models.ScopeStaff
	h.run(c, opts)
}
