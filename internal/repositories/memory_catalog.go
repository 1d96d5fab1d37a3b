package repositories

import (
	"context"
	"sync"
	"time"

	"hotel_platform_backend/internal/models"
)

// MemoryCatalog is an in-memory CatalogRepository. Lists are returned as copies in slice order.
type MemoryCatalog struct {
	mu        sync.RWMutex
	Branches  []models.Branch
	RoomTypes []models.RoomType
	Rooms     []models.Room
	MenuItems []models.MenuItem
	Events    []models.Event
	Services  []models.HotelService
	Guests    []models.Guest
	Bookings  []models.Booking
	Staff     []models.StaffMember
	Orders    []models.Order
}

func copyList[T any](mu *sync.RWMutex, list []T) []T {
	mu.RLock()
	defer mu.RUnlock()
	return append([]T{}, list...)
}

func (m *MemoryCatalog) ListBranches(ctx context.Context) ([]models.Branch, error) {
	return copyList(&m.mu, m.Branches), nil
}

func (m *MemoryCatalog) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	return copyList(&m.mu, m.RoomTypes), nil
}

func (m *MemoryCatalog) ListRooms(ctx context.Context) ([]models.Room, error) {
	return copyList(&m.mu, m.Rooms), nil
}

func (m *MemoryCatalog) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return copyList(&m.mu, m.MenuItems), nil
}

func (m *MemoryCatalog) ListEvents(ctx context.Context) ([]models.Event, error) {
	return copyList(&m.mu, m.Events), nil
}

func (m *MemoryCatalog) ListServices(ctx context.Context) ([]models.HotelService, error) {
	return copyList(&m.mu, m.Services), nil
}

func (m *MemoryCatalog) ListGuests(ctx context.Context) ([]models.Guest, error) {
	return copyList(&m.mu, m.Guests), nil
}

func (m *MemoryCatalog) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return copyList(&m.mu, m.Bookings), nil
}

func (m *MemoryCatalog) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	return copyList(&m.mu, m.Staff), nil
}

func (m *MemoryCatalog) ListOrders(ctx context.Context) ([]models.Order, error) {
	return copyList(&m.mu, m.Orders), nil
}

// NewSeededCatalog returns a MemoryCatalog holding the demo data set. Event and booking
// dates are laid out relative to now.
func NewSeededCatalog(now time.Time) *MemoryCatalog {
	day := func(n int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	}
	at := func(n, hour int) time.Time { return day(n).Add(time.Duration(hour) * time.Hour) }

	roomTypes := []models.RoomType{
		{ID: "rt-standard", Name: "Standard Room", Description: "Queen bed with garden view", BasePrice: 180000, MaxGuests: 2},
		{ID: "rt-deluxe", Name: "Deluxe Room", Description: "King bed, balcony and city view", BasePrice: 325000, MaxGuests: 2},
		{ID: "rt-family", Name: "Family Room", Description: "Two queen beds and a lounge corner", BasePrice: 380000, MaxGuests: 4},
		{ID: "rt-executive", Name: "Executive Suite", Description: "Separate living room and work desk", BasePrice: 520000, MaxGuests: 3},
		{ID: "rt-presidential", Name: "Presidential Suite", Description: "Top floor suite with private terrace", BasePrice: 1200000, MaxGuests: 4},
	}
	typeByID := make(map[string]models.RoomType, len(roomTypes))
	for _, t := range roomTypes {
		typeByID[t.ID] = t
	}
	room := func(id, number, typeID, branchID, status string, floor int, description string) models.Room {
		t := typeByID[typeID]
		return models.Room{
			ID: id, Number: number, RoomTypeID: typeID, Type: t.Name, Description: description,
			Price: t.BasePrice, Status: status, Floor: floor, MaxOccupancy: t.MaxGuests, BranchID: branchID,
		}
	}

	return &MemoryCatalog{
		Branches: []models.Branch{
			{ID: "br-001", Name: "Kigali Heights Hotel", Location: "Kigali, Kimihurura", Phone: "+250 788 100 001", Email: "kigali@hotel.rw", IsActive: true},
			{ID: "br-002", Name: "Lake Kivu Resort", Location: "Rubavu, Gisenyi", Phone: "+250 788 100 002", Email: "kivu@hotel.rw", IsActive: true},
			{ID: "br-003", Name: "Volcanoes Lodge", Location: "Musanze", Phone: "+250 788 100 003", Email: "musanze@hotel.rw", IsActive: true},
		},
		RoomTypes: roomTypes,
		Rooms: []models.Room{
			room("room-101", "101", "rt-standard", "br-001", models.RoomStatusAvailable, 1, "Quiet room facing the garden"),
			room("room-102", "102", "rt-standard", "br-001", models.RoomStatusOccupied, 1, "Quiet room facing the garden"),
			room("room-201", "201", "rt-deluxe", "br-001", models.RoomStatusAvailable, 2, "Balcony overlooking the city"),
			room("room-202", "202", "rt-deluxe", "br-001", models.RoomStatusAvailable, 2, "Corner room with balcony"),
			room("room-301", "301", "rt-executive", "br-001", models.RoomStatusAvailable, 3, "Suite with separate lounge"),
			room("room-501", "501", "rt-presidential", "br-001", models.RoomStatusAvailable, 5, "Private terrace and butler service"),
			room("room-k110", "K110", "rt-family", "br-002", models.RoomStatusAvailable, 1, "Lake view, two queen beds"),
			room("room-k210", "K210", "rt-deluxe", "br-002", models.RoomStatusMaintenance, 2, "Lake view with balcony"),
			room("room-k310", "K310", "rt-presidential", "br-002", models.RoomStatusAvailable, 3, "Lakefront terrace suite"),
			room("room-v12", "V12", "rt-standard", "br-003", models.RoomStatusAvailable, 1, "Volcano view cottage room"),
			room("room-v20", "V20", "rt-executive", "br-003", models.RoomStatusOccupied, 2, "Fireplace and volcano view"),
		},
		MenuItems: []models.MenuItem{
			{ID: "menu-brochettes", Name: "Goat Brochettes", NameLocal: "Brochette y'ihene", Description: "Grilled goat skewers with fried plantain", Category: "Grill", Price: 8000, Rating: 4.8, Available: true},
			{ID: "menu-tilapia", Name: "Grilled Tilapia", NameLocal: "Ifi yokeje", Description: "Whole lake fish with chips and salad", Category: "Mains", Price: 14000, Rating: 4.6, Available: true},
			{ID: "menu-isombe", Name: "Isombe", NameLocal: "Isombe", Description: "Cassava leaves with peanut sauce", Category: "Traditional", Price: 6500, Rating: 4.4, Available: true},
			{ID: "menu-breakfast", Name: "Full Breakfast", NameLocal: "Ifunguro rya mu gitondo", Description: "Eggs, sausages, fruit and Rwandan coffee", Category: "Breakfast", Price: 12000, Rating: 4.5, Available: true},
			{ID: "menu-beef-fillet", Name: "Beef Fillet", NameLocal: "Inyama y'inka", Description: "Pepper sauce and roast potatoes", Category: "Mains", Price: 18000, Rating: 4.9, Available: false},
			{ID: "menu-coffee", Name: "Rwandan Coffee", NameLocal: "Ikawa", Description: "Single origin pour over", Category: "Drinks", Price: 3000, Rating: 4.7, Available: true},
			{ID: "menu-chapati", Name: "Chapati Wrap", NameLocal: "Chapati", Description: "Chicken and vegetable wrap", Category: "Snacks", Price: 5000, Rating: 4.1, Available: true},
		},
		Events: []models.Event{
			{ID: "ev-wedding-01", Name: "Uwase & Mugisha Wedding", EventType: "wedding", Hall: "Grand Ballroom", OrganizerName: "Claudine Uwase", Date: at(12, 14), Price: 4500000, Status: "confirmed", BranchID: "br-001"},
			{ID: "ev-conf-01", Name: "East Africa Fintech Summit", EventType: "conference", Hall: "Conference Hall A", OrganizerName: "Rwanda ICT Chamber", Date: at(5, 9), Price: 2800000, Status: "confirmed", BranchID: "br-001"},
			{ID: "ev-gala-01", Name: "Lakeside Charity Gala", EventType: "gala", Hall: "Kivu Terrace", OrganizerName: "Jean Bosco Habimana", Date: at(20, 18), Price: 3200000, Status: "tentative", BranchID: "br-002"},
			{ID: "ev-retreat-01", Name: "Leadership Retreat", EventType: "corporate", Hall: "Gorilla Hall", OrganizerName: "Bank of Kigali", Date: at(2, 8), Price: 1500000, Status: "confirmed", BranchID: "br-003"},
			{ID: "ev-past-01", Name: "Independence Day Dinner", EventType: "dinner", Hall: "Grand Ballroom", OrganizerName: "Hotel Management", Date: at(-30, 19), Price: 900000, Status: "completed", BranchID: "br-001"},
		},
		Services: []models.HotelService{
			{ID: "svc-swedish-massage", Name: "Swedish Massage", Category: "Spa & Wellness", Description: "Full body relaxation massage", Price: 45000, DurationMinutes: 60},
			{ID: "svc-deep-tissue", Name: "Deep Tissue Massage", Category: "Spa & Wellness", Description: "Targeted muscle tension relief", Price: 55000, DurationMinutes: 75},
			{ID: "svc-hot-stone", Name: "Hot Stone Therapy", Category: "Spa & Wellness", Description: "Heated volcanic stones treatment", Price: 60000, DurationMinutes: 90},
			{ID: "svc-facial", Name: "Aromatherapy Facial", Category: "Spa & Wellness", Description: "Cleansing facial with essential oils", Price: 40000, DurationMinutes: 50},
			{ID: "svc-airport", Name: "Airport Transfer", Category: "Transport", Description: "Private car to or from Kigali International Airport", Price: 35000, DurationMinutes: 45},
			{ID: "svc-laundry", Name: "Express Laundry", Category: "Housekeeping", Description: "Same day wash and press", Price: 10000, DurationMinutes: 240},
			{ID: "svc-city-tour", Name: "Kigali City Tour", Category: "Excursions", Description: "Guided tour of markets and memorial sites", Price: 70000, DurationMinutes: 240},
		},
		Guests: []models.Guest{
			{ID: "guest-001", FullName: "Aline Mukamana", Email: "aline.mukamana@example.com", Phone: "+250 788 555 101", Nationality: "Rwandan", LoyaltyTier: "gold", LoyaltyPoints: 5400},
			{ID: "guest-002", FullName: "David Okoth", Email: "d.okoth@example.com", Phone: "+254 722 555 202", Nationality: "Kenyan", LoyaltyTier: "silver", LoyaltyPoints: 2100},
			{ID: "guest-003", FullName: "Sarah Jensen", Email: "sarah.jensen@example.com", Phone: "+45 20 555 303", Nationality: "Danish", LoyaltyTier: "bronze", LoyaltyPoints: 300},
			{ID: "guest-004", FullName: "Eric Niyonzima", Email: "eric.n@example.com", Phone: "+250 783 555 404", Nationality: "Rwandan", LoyaltyTier: "platinum", LoyaltyPoints: 12800},
		},
		Bookings: []models.Booking{
			{ID: "bk-1001", GuestName: "Aline Mukamana", GuestEmail: "aline.mukamana@example.com", RoomID: "room-102", RoomNumber: "102", BranchID: "br-001", CheckIn: day(-1), CheckOut: day(2), Status: "checked_in", TotalAmount: 540000},
			{ID: "bk-1002", GuestName: "David Okoth", GuestEmail: "d.okoth@example.com", RoomID: "room-k110", RoomNumber: "K110", BranchID: "br-002", CheckIn: day(3), CheckOut: day(6), Status: "confirmed", TotalAmount: 1140000},
			{ID: "bk-1003", GuestName: "Sarah Jensen", GuestEmail: "sarah.jensen@example.com", RoomID: "room-v20", RoomNumber: "V20", BranchID: "br-003", CheckIn: day(-2), CheckOut: day(1), Status: "checked_in", TotalAmount: 1560000},
			{ID: "bk-1004", GuestName: "Eric Niyonzima", GuestEmail: "eric.n@example.com", RoomID: "room-501", RoomNumber: "501", BranchID: "br-001", CheckIn: day(10), CheckOut: day(12), Status: "confirmed", TotalAmount: 2400000},
		},
		Staff: []models.StaffMember{
			{ID: "staff-001", FullName: "Alice Uwimana", Email: "alice@hotel.rw", Phone: "+250 788 200 001", Department: "Management", Position: "Branch Manager", Status: "active", BranchID: "br-001"},
			{ID: "staff-002", FullName: "Patrick Nkurunziza", Email: "patrick@hotel.rw", Phone: "+250 788 200 002", Department: "Front Office", Position: "Receptionist", Status: "active", BranchID: "br-001"},
			{ID: "staff-003", FullName: "Grace Ingabire", Email: "grace@hotel.rw", Phone: "+250 788 200 003", Department: "Wellness", Position: "Massage Therapist", Status: "active", BranchID: "br-002"},
			{ID: "staff-004", FullName: "Samuel Habineza", Email: "samuel@hotel.rw", Phone: "+250 788 200 004", Department: "Kitchen", Position: "Head Chef", Status: "on_leave", BranchID: "br-003"},
		},
		Orders: []models.Order{
			{ID: "ord-5001", GuestName: "Aline Mukamana", RoomNumber: "102", BranchID: "br-001", Status: "delivered", TotalAmount: 22000, CreatedAt: at(-1, 8),
				Items: []models.OrderItem{
					{MenuItemID: "menu-breakfast", Name: "Full Breakfast", Quantity: 1, UnitPrice: 12000},
					{MenuItemID: "menu-coffee", Name: "Rwandan Coffee", Quantity: 2, UnitPrice: 3000},
					{MenuItemID: "menu-chapati", Name: "Chapati Wrap", Quantity: 1, UnitPrice: 5000},
				}},
			{ID: "ord-5002", GuestName: "Sarah Jensen", RoomNumber: "V20", BranchID: "br-003", Status: "preparing", TotalAmount: 30000, CreatedAt: at(0, 12),
				Items: []models.OrderItem{
					{MenuItemID: "menu-tilapia", Name: "Grilled Tilapia", Quantity: 1, UnitPrice: 14000},
					{MenuItemID: "menu-brochettes", Name: "Goat Brochettes", Quantity: 2, UnitPrice: 8000},
				}},
		},
	}
}
