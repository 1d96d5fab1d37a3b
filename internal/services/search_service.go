package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
	"hotel_platform_backend/pkg/utils"
)

const (
	DefaultSearchLimit = 15
	MaxSearchLimit     = 100

	featuredPerKind       = 3
	maxPopularSuggestions = 4
	defaultSearchTimeout  = 5 * time.Second
)

// ErrSearchUnavailable is reported when every enabled category lookup failed.
var ErrSearchUnavailable = errors.New("search is temporarily unavailable")

// PopularSearches are offered under an empty search box and matched against typed queries.
var PopularSearches = []string{
	"Deluxe Room",
	"Presidential Suite",
	"Spa",
	"Brochettes",
	"Wedding",
	"Conference Hall",
	"Massage",
	"Breakfast",
}

// SearchService answers the faceted search box of the public site and the admin console.
type SearchService interface {
	// Search never fails: lookup failures are reported inside the returned set.
	Search(ctx context.Context, query string, opts models.SearchOptions) *models.SearchResultSet
}

type searchService struct {
	catalog repositories.CatalogRepository
	timeout time.Duration
	now     func() time.Time
}

// SearchServiceOption customises a SearchService.
type SearchServiceOption func(*searchService)

// WithClock sets the clock used to pick upcoming featured events.
func WithClock(now func() time.Time) SearchServiceOption {
	return func(s *searchService) { s.now = now }
}

// WithSearchTimeout bounds how long Search waits for category lookups.
func WithSearchTimeout(d time.Duration) SearchServiceOption {
	return func(s *searchService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSearchService creates a SearchService reading from catalog.
func NewSearchService(catalog repositories.CatalogRepository, opts ...SearchServiceOption) SearchService {
	s := &searchService{catalog: catalog, timeout: defaultSearchTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateOptions checks opts and fills in defaults for category, sort, limit and scope.
func ValidateOptions(opts *models.SearchOptions) error {
	if opts.Scope == "" {
		opts.Scope = models.ScopePublic
	}
	if opts.Scope != models.ScopePublic && opts.Scope != models.ScopeStaff {
		return fmt.Errorf("%w: unknown scope %q", ErrValidation, opts.Scope)
	}

	if opts.Category == "" {
		opts.Category = models.CategoryAll
	}
	if !models.IsValidSearchCategory(string(opts.Category)) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, opts.Category)
	}
	if opts.Category != models.CategoryAll && opts.Scope == models.ScopePublic && !opts.Category.IsPublic() {
		return fmt.Errorf("%w: category %q is not searchable publicly", ErrValidation, opts.Category)
	}

	switch opts.SortBy {
	case "":
		opts.SortBy = models.SortRelevance
	case models.SortRelevance, models.SortPriceAsc, models.SortPriceDesc:
	default:
		return fmt.Errorf("%w: unknown sort %q", ErrValidation, opts.SortBy)
	}

	if opts.MinPrice != nil && *opts.MinPrice < 0 {
		return fmt.Errorf("%w: minPrice must not be negative", ErrValidation)
	}
	if opts.MaxPrice != nil && *opts.MaxPrice < 0 {
		return fmt.Errorf("%w: maxPrice must not be negative", ErrValidation)
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && *opts.MinPrice > *opts.MaxPrice {
		return fmt.Errorf("%w: minPrice must not exceed maxPrice", ErrValidation)
	}

	switch {
	case opts.Limit < 0:
		return fmt.Errorf("%w: limit must not be negative", ErrValidation)
	case opts.Limit == 0:
		opts.Limit = DefaultSearchLimit
	case opts.Limit > MaxSearchLimit:
		opts.Limit = MaxSearchLimit
	}

	opts.BranchFilter = strings.TrimSpace(opts.BranchFilter)
	if strings.EqualFold(opts.BranchFilter, "all") {
		opts.BranchFilter = ""
	}
	return nil
}

// enabledCategories lists the categories a request fans out to.
func enabledCategories(opts models.SearchOptions) []models.SearchCategory {
	if opts.Category != models.CategoryAll {
		return []models.SearchCategory{opts.Category}
	}
	enabled := make([]models.SearchCategory, 0, len(models.SearchCategories))
	for _, c := range models.SearchCategories {
		if opts.Scope == models.ScopeStaff || c.IsPublic() {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

func failedSet(query, msg string) *models.SearchResultSet {
	res := models.NewSearchResultSet(query)
	res.Success = false
	res.Error = msg
	return res
}

func (s *searchService) Search(ctx context.Context, query string, opts models.SearchOptions) *models.SearchResultSet {
	query = strings.TrimSpace(query)
	if err := ValidateOptions(&opts); err != nil {
		return failedSet(query, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if query == "" {
		return s.emptyQuery(ctx, opts)
	}

	categories := enabledCategories(opts)
	outcomes := s.fanOut(ctx, categories)

	res := models.NewSearchResultSet(query)
	needle := strings.ToLower(query)
	for i, c := range categories {
		i, c := i, c
		out := outcomes[i]
		if out.err != nil {
			utils.LogWarn(out.err, "Search: category lookup failed", map[string]interface{}{
				"category": string(c), "query": query,
			})
			res.FailedCategories = append(res.FailedCategories, c)
			res.SetHits(c, []models.SearchHit{})
			res.ResultsPerCategory[c] = 0
			continue
		}
		hits, total := filterCategory(out.items, needle, opts)
		res.SetHits(c, hits)
		res.ResultsPerCategory[c] = total
		res.TotalResults += total
	}

	if len(res.FailedCategories) == len(categories) {
		return failedSet(query, ErrSearchUnavailable.Error())
	}

	for _, c := range categories {
		if res.ResultsPerCategory[c] > 0 {
			res.Suggestions = append(res.Suggestions, models.Suggestion{
				Label: c.DisplayName(), Kind: models.SuggestionCategory, Category: c,
			})
		}
	}
	res.Suggestions = append(res.Suggestions, popularMatches(needle)...)
	return res
}

type categoryOutcome struct {
	items []models.Searchable
	err   error
	done  bool
}

// fanOut loads every category concurrently. Lookups still running when ctx ends are
// reported with the context error and their late results are discarded.
func (s *searchService) fanOut(ctx context.Context, categories []models.SearchCategory) []categoryOutcome {
	var mu sync.Mutex
	outcomes := make([]categoryOutcome, len(categories))

	var g errgroup.Group
	for i, c := range categories {
		i, c := i, c
		g.Go(func() error {
			items, err := s.load(ctx, c)
			mu.Lock()
			defer mu.Unlock()
			if !outcomes[i].done {
				outcomes[i] = categoryOutcome{items: items, err: err, done: true}
			}
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	result := make([]categoryOutcome, len(outcomes))
	for i := range outcomes {
		if !outcomes[i].done {
			outcomes[i] = categoryOutcome{err: ctx.Err(), done: true}
		}
		result[i] = outcomes[i]
	}
	return result
}

func asSearchable[T models.Searchable](items []T, err error) ([]models.Searchable, error) {
	if err != nil {
		return nil, err
	}
	out := make([]models.Searchable, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out, nil
}

func (s *searchService) load(ctx context.Context, c models.SearchCategory) ([]models.Searchable, error) {
	switch c {
	case models.CategoryRooms:
		return asSearchable(s.catalog.ListRooms(ctx))
	case models.CategoryMenu:
		return asSearchable(s.catalog.ListMenuItems(ctx))
	case models.CategoryEvents:
		return asSearchable(s.catalog.ListEvents(ctx))
	case models.CategoryServices:
		return asSearchable(s.catalog.ListServices(ctx))
	case models.CategoryBranches:
		return asSearchable(s.catalog.ListBranches(ctx))
	case models.CategoryGuests:
		return asSearchable(s.catalog.ListGuests(ctx))
	case models.CategoryBookings:
		return asSearchable(s.catalog.ListBookings(ctx))
	case models.CategoryStaff:
		return asSearchable(s.catalog.ListStaff(ctx))
	case models.CategoryOrders:
		return asSearchable(s.catalog.ListOrders(ctx))
	}
	return nil, fmt.Errorf("no lookup for category %q", c)
}

func matchesText(item models.Searchable, needle string) bool {
	for _, f := range item.SearchFields() {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func matchesBranch(item models.Searchable, branch string) bool {
	if branch == "" {
		return true
	}
	key := item.BranchKey()
	return key == "" || key == branch
}

func matchesPrice(item models.Searchable, opts models.SearchOptions) bool {
	price, ok := item.PriceValue()
	if !ok {
		return true
	}
	if opts.MinPrice != nil && price < *opts.MinPrice {
		return false
	}
	if opts.MaxPrice != nil && price > *opts.MaxPrice {
		return false
	}
	return true
}

// filterCategory applies the text, branch and price filters, sorts, and caps the result.
// The returned total is the match count before the cap.
func filterCategory(items []models.Searchable, needle string, opts models.SearchOptions) ([]models.SearchHit, int) {
	matched := make([]models.Searchable, 0)
	for _, item := range items {
		if matchesText(item, needle) && matchesBranch(item, opts.BranchFilter) && matchesPrice(item, opts) {
			matched = append(matched, item)
		}
	}
	sortByPrice(matched, opts.SortBy)

	total := len(matched)
	if len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	hits := make([]models.SearchHit, len(matched))
	for i, item := range matched {
		hits[i] = item.Hit()
	}
	return hits, total
}

// sortByPrice reorders items for the price sorts; relevance keeps store order.
func sortByPrice(items []models.Searchable, sortBy string) {
	if sortBy != models.SortPriceAsc && sortBy != models.SortPriceDesc {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		pi, iok := items[i].PriceValue()
		pj, jok := items[j].PriceValue()
		if !iok || !jok {
			return iok && !jok
		}
		if sortBy == models.SortPriceDesc {
			return pi > pj
		}
		return pi < pj
	})
}

// popularMatches returns up to four popular terms that contain the query or are contained in it.
func popularMatches(needle string) []models.Suggestion {
	out := []models.Suggestion{}
	for _, term := range PopularSearches {
		if len(out) == maxPopularSuggestions {
			break
		}
		lower := strings.ToLower(term)
		if strings.Contains(lower, needle) || strings.Contains(needle, lower) {
			out = append(out, models.Suggestion{Label: term, Kind: models.SuggestionPopular})
		}
	}
	return out
}

func (s *searchService) emptyQuery(ctx context.Context, opts models.SearchOptions) *models.SearchResultSet {
	res := models.NewSearchResultSet("")
	for _, term := range PopularSearches {
		res.Suggestions = append(res.Suggestions, models.Suggestion{Label: term, Kind: models.SuggestionPopular})
	}

	featured := &models.FeaturedBundle{
		Rooms:     []models.SearchHit{},
		MenuItems: []models.SearchHit{},
		Events:    []models.SearchHit{},
	}
	var mu sync.Mutex
	failures := 0
	g, gctx := errgroup.WithContext(ctx)
	collect := func(kind string, build func(context.Context) ([]models.SearchHit, error), dst *[]models.SearchHit) {
		g.Go(func() error {
			hits, err := build(gctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				utils.LogWarn(err, "Search: featured lookup failed", map[string]interface{}{"kind": kind})
				return nil
			}
			*dst = hits
			return nil
		})
	}
	collect("rooms", func(ctx context.Context) ([]models.SearchHit, error) {
		return s.featuredRooms(ctx, opts.BranchFilter)
	}, &featured.Rooms)
	collect("menuItems", s.featuredMenu, &featured.MenuItems)
	collect("events", func(ctx context.Context) ([]models.SearchHit, error) {
		return s.featuredEvents(ctx, opts.BranchFilter)
	}, &featured.Events)
	_ = g.Wait()

	if failures == 3 {
		return failedSet("", ErrSearchUnavailable.Error())
	}
	res.Featured = featured
	return res
}

func (s *searchService) featuredRooms(ctx context.Context, branch string) ([]models.SearchHit, error) {
	rooms, err := s.catalog.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == models.RoomStatusAvailable && (branch == "" || r.BranchID == branch) {
			available = append(available, r)
		}
	}
	sort.SliceStable(available, func(i, j int) bool { return available[i].Price > available[j].Price })
	return topHits(available, featuredPerKind), nil
}

func (s *searchService) featuredMenu(ctx context.Context) ([]models.SearchHit, error) {
	items, err := s.catalog.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]models.MenuItem, 0, len(items))
	for _, m := range items {
		if m.Available {
			available = append(available, m)
		}
	}
	sort.SliceStable(available, func(i, j int) bool { return available[i].Rating > available[j].Rating })
	return topHits(available, featuredPerKind), nil
}

func (s *searchService) featuredEvents(ctx context.Context, branch string) ([]models.SearchHit, error) {
	events, err := s.catalog.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	upcoming := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !e.Date.Before(now) && (branch == "" || e.BranchID == branch) {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	return topHits(upcoming, featuredPerKind), nil
}

func topHits[T models.Searchable](items []T, n int) []models.SearchHit {
	if len(items) > n {
		items = items[:n]
	}
	hits := make([]models.SearchHit, len(items))
	for i, item := range items {
		hits[i] = item.Hit()
	}
	return hits
}
