package models

import "strconv"

// EntityType is the "_type" discriminant of a search hit.
type EntityType string

const (
	EntityRoom     EntityType = "room"
	EntityMenuItem EntityType = "menuItem"
	EntityEvent    EntityType = "event"
	EntityService  EntityType = "service"
	EntityGuest    EntityType = "guest"
	EntityBooking  EntityType = "booking"
	EntityStaff    EntityType = "staff"
	EntityOrder    EntityType = "order"
	EntityBranch   EntityType = "branch"
)

// SearchCategory is a category filter value accepted by search.
type SearchCategory string

const (
	CategoryAll      SearchCategory = "all"
	CategoryRooms    SearchCategory = "rooms"
	CategoryMenu     SearchCategory = "menu"
	CategoryEvents   SearchCategory = "events"
	CategoryServices SearchCategory = "services"
	CategoryGuests   SearchCategory = "guests"
	CategoryBookings SearchCategory = "bookings"
	CategoryStaff    SearchCategory = "staff"
	CategoryOrders   SearchCategory = "orders"
	CategoryBranches SearchCategory = "branches"
)

// SearchCategories lists every concrete category in response order.
var SearchCategories = []SearchCategory{
	CategoryRooms, CategoryMenu, CategoryEvents, CategoryServices, CategoryBranches,
	CategoryGuests, CategoryBookings, CategoryStaff, CategoryOrders,
}

// DisplayName is the label used on suggestion chips.
func (c SearchCategory) DisplayName() string {
	switch c {
	case CategoryRooms:
		return "Rooms"
	case CategoryMenu:
		return "Menu"
	case CategoryEvents:
		return "Events"
	case CategoryServices:
		return "Services"
	case CategoryGuests:
		return "Guests"
	case CategoryBookings:
		return "Bookings"
	case CategoryStaff:
		return "Staff"
	case CategoryOrders:
		return "Orders"
	case CategoryBranches:
		return "Branches"
	}
	return string(c)
}

// IsPublic reports whether anonymous callers may search the category.
func (c SearchCategory) IsPublic() bool {
	switch c {
	case CategoryRooms, CategoryMenu, CategoryEvents, CategoryServices, CategoryBranches:
		return true
	}
	return false
}

// IsValidSearchCategory accepts "all" and every concrete category.
func IsValidSearchCategory(s string) bool {
	if SearchCategory(s) == CategoryAll {
		return true
	}
	for _, c := range SearchCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Sort orders.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Search scopes. The staff scope adds guest, booking, staff and order lookups.
const (
	ScopePublic = "public"
	ScopeStaff  = "staff"
)

// SearchOptions are the filters applied to a search request.
type SearchOptions struct {
	Category     SearchCategory `json:"category"`
	MinPrice     *float64       `json:"minPrice,omitempty"`
	MaxPrice     *float64       `json:"maxPrice,omitempty"`
	SortBy       string         `json:"sortBy"`
	Limit        int            `json:"limit"`
	BranchFilter string         `json:"branch"`
	Scope        string         `json:"scope"`
}

// SearchHit is a tagged search result: Type discriminates the native entity held in Data.
type SearchHit struct {
	Type     EntityType `json:"_type"`
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	Price    *float64   `json:"price,omitempty"`
	BranchID string     `json:"branchId,omitempty"`
	Data     any        `json:"data"`
}

// Suggestion kinds.
const (
	SuggestionCategory = "category"
	SuggestionPopular  = "popular"
)

// Suggestion is a clickable chip under the search box.
type Suggestion struct {
	Label    string         `json:"label"`
	Kind     string         `json:"kind"`
	Category SearchCategory `json:"category,omitempty"`
}

// FeaturedBundle is shown when the query is empty.
type FeaturedBundle struct {
	Rooms     []SearchHit `json:"rooms"`
	MenuItems []SearchHit `json:"menuItems"`
	Events    []SearchHit `json:"events"`
}

// SearchResultSet is built fresh for every request and never persisted.
// ResultsPerCategory and TotalResults hold true match counts; the hit lists are capped at the limit.
type SearchResultSet struct {
	Success            bool                   `json:"success"`
	Query              string                 `json:"query"`
	Rooms              []SearchHit            `json:"rooms"`
	MenuItems          []SearchHit            `json:"menuItems"`
	Events             []SearchHit            `json:"events"`
	Services           []SearchHit            `json:"services"`
	Branches           []SearchHit            `json:"branches"`
	Guests             []SearchHit            `json:"guests,omitempty"`
	Bookings           []SearchHit            `json:"bookings,omitempty"`
	Staff              []SearchHit            `json:"staff,omitempty"`
	Orders             []SearchHit            `json:"orders,omitempty"`
	Suggestions        []Suggestion           `json:"suggestions"`
	TotalResults       int                    `json:"totalResults"`
	ResultsPerCategory map[SearchCategory]int `json:"resultsPerCategory"`
	Featured           *FeaturedBundle        `json:"featured,omitempty"`
	FailedCategories   []SearchCategory       `json:"failedCategories,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

// NewSearchResultSet returns a set with empty (non-nil) public lists.
func NewSearchResultSet(query string) *SearchResultSet {
	return &SearchResultSet{
		Success:            true,
		Query:              query,
		Rooms:              []SearchHit{},
		MenuItems:          []SearchHit{},
		Events:             []SearchHit{},
		Services:           []SearchHit{},
		Branches:           []SearchHit{},
		Suggestions:        []Suggestion{},
		ResultsPerCategory: map[SearchCategory]int{},
	}
}

// SetHits stores hits under their category.
func (r *SearchResultSet) SetHits(c SearchCategory, hits []SearchHit) {
	switch c {
	case CategoryRooms:
		r.Rooms = hits
	case CategoryMenu:
		r.MenuItems = hits
	case CategoryEvents:
		r.Events = hits
	case CategoryServices:
		r.Services = hits
	case CategoryBranches:
		r.Branches = hits
	case CategoryGuests:
		r.Guests = hits
	case CategoryBookings:
		r.Bookings = hits
	case CategoryStaff:
		r.Staff = hits
	case CategoryOrders:
		r.Orders = hits
	}
}

// Hits returns the stored hits of a category.
func (r *SearchResultSet) Hits(c SearchCategory) []SearchHit {
	switch c {
	case CategoryRooms:
		return r.Rooms
	case CategoryMenu:
		return r.MenuItems
	case CategoryEvents:
		return r.Events
	case CategoryServices:
		return r.Services
	case CategoryBranches:
		return r.Branches
	case CategoryGuests:
		return r.Guests
	case CategoryBookings:
		return r.Bookings
	case CategoryStaff:
		return r.Staff
	case CategoryOrders:
		return r.Orders
	}
	return nil
}

// Searchable is implemented by every entity the search aggregator can return.
type Searchable interface {
	SearchFields() []string
	// BranchKey is empty for entity types that are not branch scoped.
	BranchKey() string
	PriceValue() (float64, bool)
	Hit() SearchHit
}

func price(v int64) *float64 {
	f := float64(v)
	return &f
}

func (r Room) SearchFields() []string      { return []string{r.Number, r.Description, r.Type} }
func (r Room) BranchKey() string           { return r.BranchID }
func (r Room) PriceValue() (float64, bool) { return float64(r.Price), true }
func (r Room) Hit() SearchHit {
	return SearchHit{Type: EntityRoom, ID: r.ID, Title: "Room " + r.Number, Subtitle: r.Type,
		Price: price(r.Price), BranchID: r.BranchID, Data: r}
}

func (m MenuItem) SearchFields() []string      { return []string{m.Name, m.NameLocal, m.Description} }
func (m MenuItem) BranchKey() string           { return "" }
func (m MenuItem) PriceValue() (float64, bool) { return float64(m.Price), true }
func (m MenuItem) Hit() SearchHit {
	return SearchHit{Type: EntityMenuItem, ID: m.ID, Title: m.Name, Subtitle: m.Category,
		Price: price(m.Price), Data: m}
}

func (e Event) SearchFields() []string      { return []string{e.Name, e.Hall, e.OrganizerName} }
func (e Event) BranchKey() string           { return e.BranchID }
func (e Event) PriceValue() (float64, bool) { return float64(e.Price), true }
func (e Event) Hit() SearchHit {
	return SearchHit{Type: EntityEvent, ID: e.ID, Title: e.Name, Subtitle: e.Hall + " · " + e.Date.Format("2006-01-02"),
		Price: price(e.Price), BranchID: e.BranchID, Data: e}
}

func (s HotelService) SearchFields() []string      { return []string{s.Name, s.Description, s.Category} }
func (s HotelService) BranchKey() string           { return "" }
func (s HotelService) PriceValue() (float64, bool) { return float64(s.Price), true }
func (s HotelService) Hit() SearchHit {
	return SearchHit{Type: EntityService, ID: s.ID, Title: s.Name, Subtitle: s.Category,
		Price: price(s.Price), Data: s}
}

func (g Guest) SearchFields() []string      { return []string{g.FullName, g.Email, g.Phone} }
func (g Guest) BranchKey() string           { return "" }
func (g Guest) PriceValue() (float64, bool) { return 0, false }
func (g Guest) Hit() SearchHit {
	return SearchHit{Type: EntityGuest, ID: g.ID, Title: g.FullName, Subtitle: g.Email, Data: g}
}

func (b Booking) SearchFields() []string {
	return []string{b.GuestName, b.ID, b.RoomNumber, b.GuestEmail}
}
func (b Booking) BranchKey() string           { return b.BranchID }
func (b Booking) PriceValue() (float64, bool) { return float64(b.TotalAmount), true }
func (b Booking) Hit() SearchHit {
	return SearchHit{Type: EntityBooking, ID: b.ID, Title: b.GuestName, Subtitle: "Room " + b.RoomNumber + " · " + b.Status,
		Price: price(b.TotalAmount), BranchID: b.BranchID, Data: b}
}

func (s StaffMember) SearchFields() []string      { return []string{s.FullName, s.Email, s.Department} }
func (s StaffMember) BranchKey() string           { return s.BranchID }
func (s StaffMember) PriceValue() (float64, bool) { return 0, false }
func (s StaffMember) Hit() SearchHit {
	return SearchHit{Type: EntityStaff, ID: s.ID, Title: s.FullName, Subtitle: s.Department,
		BranchID: s.BranchID, Data: s}
}

func (o Order) SearchFields() []string      { return []string{o.ID, o.GuestName, o.ItemNames()} }
func (o Order) BranchKey() string           { return o.BranchID }
func (o Order) PriceValue() (float64, bool) { return float64(o.TotalAmount), true }
func (o Order) Hit() SearchHit {
	return SearchHit{Type: EntityOrder, ID: o.ID, Title: "Order " + o.ID, Subtitle: o.GuestName + " · " + strconv.Itoa(len(o.Items)) + " items",
		Price: price(o.TotalAmount), BranchID: o.BranchID, Data: o}
}

func (b Branch) SearchFields() []string      { return []string{b.Name, b.Location} }
func (b Branch) BranchKey() string           { return b.ID }
func (b Branch) PriceValue() (float64, bool) { return 0, false }
func (b Branch) Hit() SearchHit {
	return SearchHit{Type: EntityBranch, ID: b.ID, Title: b.Name, Subtitle: b.Location, BranchID: b.ID, Data: b}
}
