package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_platform_backend/internal/models"
)

// CatalogRepository lists the entity collections read by search, bulk adjustment and quotes.
// Every list is returned in store order.
type CatalogRepository interface {
	ListBranches(ctx context.Context) ([]models.Branch, error)
	ListRoomTypes(ctx context.Context) ([]models.RoomType, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListServices(ctx context.Context) ([]models.HotelService, error)
	ListGuests(ctx context.Context) ([]models.Guest, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListStaff(ctx context.Context) ([]models.StaffMember, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a postgres-backed CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// queryList runs query and scans every row with scan.
func queryList[T any](ctx context.Context, executor SQLExecutor, what, query string, scan func(s scanner) (T, error), args ...interface{}) ([]T, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", ErrDatabaseError, what, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %v", ErrDatabaseError, what, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s rows: %v", ErrDatabaseError, what, err)
	}
	return items, nil
}

func (r *catalogRepository) ListBranches(ctx context.Context) ([]models.Branch, error) {
	query := `SELECT id, name, location, COALESCE(phone, ''), COALESCE(email, ''), is_active
	          FROM branches ORDER BY created_at, id`
	return queryList(ctx, r.db, "branches", query, func(s scanner) (models.Branch, error) {
		var b models.Branch
		err := s.Scan(&b.ID, &b.Name, &b.Location, &b.Phone, &b.Email, &b.IsActive)
		return b, err
	})
}

func (r *catalogRepository) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	query := `SELECT id, name, COALESCE(description, ''), base_price, max_guests
	          FROM room_types ORDER BY base_price, id`
	return queryList(ctx, r.db, "room types", query, func(s scanner) (models.RoomType, error) {
		var t models.RoomType
		err := s.Scan(&t.ID, &t.Name, &t.Description, &t.BasePrice, &t.MaxGuests)
		return t, err
	})
}

func (r *catalogRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	query := `SELECT ro.id, ro.room_number, ro.room_type_id, rt.name, COALESCE(ro.description, ''),
	                 COALESCE(ro.price, rt.base_price), ro.status, ro.floor, rt.max_guests, ro.branch_id
	          FROM rooms ro
	          JOIN room_types rt ON rt.id = ro.room_type_id
	          ORDER BY ro.created_at, ro.id`
	return queryList(ctx, r.db, "rooms", query, func(s scanner) (models.Room, error) {
		var ro models.Room
		err := s.Scan(&ro.ID, &ro.Number, &ro.RoomTypeID, &ro.Type, &ro.Description,
			&ro.Price, &ro.Status, &ro.Floor, &ro.MaxOccupancy, &ro.BranchID)
		return ro, err
	})
}

func (r *catalogRepository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	query := `SELECT id, name, COALESCE(name_local, ''), COALESCE(description, ''), category, price, rating, available
	          FROM menu_items ORDER BY created_at, id`
	return queryList(ctx, r.db, "menu items", query, func(s scanner) (models.MenuItem, error) {
		var m models.MenuItem
		err := s.Scan(&m.ID, &m.Name, &m.NameLocal, &m.Description, &m.Category, &m.Price, &m.Rating, &m.Available)
		return m, err
	})
}

func (r *catalogRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	query := `SELECT id, name, event_type, hall, organizer_name, event_date, price, status, branch_id
	          FROM events ORDER BY created_at, id`
	return queryList(ctx, r.db, "events", query, func(s scanner) (models.Event, error) {
		var e models.Event
		err := s.Scan(&e.ID, &e.Name, &e.EventType, &e.Hall, &e.OrganizerName, &e.Date, &e.Price, &e.Status, &e.BranchID)
		return e, err
	})
}

func (r *catalogRepository) ListServices(ctx context.Context) ([]models.HotelService, error) {
	query := `SELECT id, name, category, COALESCE(description, ''), price, duration_minutes
	          FROM hotel_services ORDER BY sort_order, id`
	return queryList(ctx, r.db, "services", query, func(s scanner) (models.HotelService, error) {
		var hs models.HotelService
		err := s.Scan(&hs.ID, &hs.Name, &hs.Category, &hs.Description, &hs.Price, &hs.DurationMinutes)
		return hs, err
	})
}

func (r *catalogRepository) ListGuests(ctx context.Context) ([]models.Guest, error) {
	query := `SELECT id, full_name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(nationality, ''),
	                 loyalty_tier, loyalty_points
	          FROM guests ORDER BY created_at, id`
	return queryList(ctx, r.db, "guests", query, func(s scanner) (models.Guest, error) {
		var g models.Guest
		err := s.Scan(&g.ID, &g.FullName, &g.Email, &g.Phone, &g.Nationality, &g.LoyaltyTier, &g.LoyaltyPoints)
		return g, err
	})
}

func (r *catalogRepository) ListBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT b.id, b.guest_name, COALESCE(b.guest_email, ''), b.room_id, ro.room_number, ro.branch_id,
	                 b.check_in, b.check_out, b.status, b.total_amount
	          FROM bookings b
	          JOIN rooms ro ON ro.id = b.room_id
	          ORDER BY b.created_at, b.id`
	return queryList(ctx, r.db, "bookings", query, func(s scanner) (models.Booking, error) {
		var b models.Booking
		err := s.Scan(&b.ID, &b.GuestName, &b.GuestEmail, &b.RoomID, &b.RoomNumber, &b.BranchID,
			&b.CheckIn, &b.CheckOut, &b.Status, &b.TotalAmount)
		return b, err
	})
}

func (r *catalogRepository) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	query := `SELECT id, full_name, email, COALESCE(phone, ''), department, position, status, branch_id
	          FROM staff_members ORDER BY created_at, id`
	return queryList(ctx, r.db, "staff", query, func(s scanner) (models.StaffMember, error) {
		var m models.StaffMember
		err := s.Scan(&m.ID, &m.FullName, &m.Email, &m.Phone, &m.Department, &m.Position, &m.Status, &m.BranchID)
		return m, err
	})
}

// ListOrders loads orders and then their lines in a second query.
func (r *catalogRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	query := `SELECT id, guest_name, COALESCE(room_number, ''), branch_id, status, total_amount, created_at
	          FROM orders ORDER BY created_at, id`
	orders, err := queryList(ctx, r.db, "orders", query, func(s scanner) (models.Order, error) {
		var o models.Order
		err := s.Scan(&o.ID, &o.GuestName, &o.RoomNumber, &o.BranchID, &o.Status, &o.TotalAmount, &o.CreatedAt)
		return o, err
	})
	if err != nil || len(orders) == 0 {
		return orders, err
	}

	type line struct {
		orderID string
		item    models.OrderItem
	}
	itemsQuery := `SELECT oi.order_id, oi.menu_item_id, oi.name, oi.quantity, oi.unit_price
	               FROM order_items oi ORDER BY oi.order_id, oi.id`
	lines, err := queryList(ctx, r.db, "order items", itemsQuery, func(s scanner) (line, error) {
		var l line
		err := s.Scan(&l.orderID, &l.item.MenuItemID, &l.item.Name, &l.item.Quantity, &l.item.UnitPrice)
		return l, err
	})
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(orders))
	for i := range orders {
		index[orders[i].ID] = i
	}
	for _, l := range lines {
		if i, ok := index[l.orderID]; ok {
			orders[i].Items = append(orders[i].Items, l.item)
		}
	}
	return orders, nil
}
