package models

import (
	"strings"
	"time"
)

// Branch is a physical hotel location.
type Branch struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Location string `json:"location" db:"location"`
	Phone    string `json:"phone,omitempty" db:"phone"`
	Email    string `json:"email,omitempty" db:"email"`
	IsActive bool   `json:"isActive" db:"is_active"`
}

// RoomType carries the catalog (non-branch) base price for a class of rooms.
type RoomType struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	BasePrice   int64  `json:"basePrice" db:"base_price"`
	MaxGuests   int    `json:"maxGuests" db:"max_guests"`
}

// Room statuses.
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

// Room is a physical room in a branch.
type Room struct {
	ID           string `json:"id" db:"id"`
	Number       string `json:"number" db:"room_number"`
	RoomTypeID   string `json:"roomTypeId" db:"room_type_id"`
	Type         string `json:"type" db:"type_name"`
	Description  string `json:"description" db:"description"`
	Price        int64  `json:"price" db:"price"`
	Status       string `json:"status" db:"status"`
	Floor        int    `json:"floor" db:"floor"`
	MaxOccupancy int    `json:"maxOccupancy" db:"max_occupancy"`
	BranchID     string `json:"branchId" db:"branch_id"`
}

// MenuItem is a restaurant catalog entry shared by all branches.
type MenuItem struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	NameLocal   string  `json:"nameLocal,omitempty" db:"name_local"`
	Description string  `json:"description" db:"description"`
	Category    string  `json:"category" db:"category"`
	Price       int64   `json:"price" db:"price"`
	Rating      float64 `json:"rating" db:"rating"`
	Available   bool    `json:"available" db:"available"`
}

// Event is a hall booking such as a wedding or conference.
type Event struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	EventType     string    `json:"eventType" db:"event_type"`
	Hall          string    `json:"hall" db:"hall"`
	OrganizerName string    `json:"organizerName" db:"organizer_name"`
	Date          time.Time `json:"date" db:"event_date"`
	Price         int64     `json:"price" db:"price"`
	Status        string    `json:"status" db:"status"`
	BranchID      string    `json:"branchId" db:"branch_id"`
}

// HotelService is a bookable offering such as a spa treatment.
type HotelService struct {
	ID              string `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	Category        string `json:"category" db:"category"`
	Description     string `json:"description" db:"description"`
	Price           int64  `json:"price" db:"price"`
	DurationMinutes int    `json:"durationMinutes" db:"duration_minutes"`
}

// Guest is a loyalty-program guest profile; guests are not scoped to a branch.
type Guest struct {
	ID            string `json:"id" db:"id"`
	FullName      string `json:"fullName" db:"full_name"`
	Email         string `json:"email" db:"email"`
	Phone         string `json:"phone" db:"phone"`
	Nationality   string `json:"nationality,omitempty" db:"nationality"`
	LoyaltyTier   string `json:"loyaltyTier" db:"loyalty_tier"`
	LoyaltyPoints int    `json:"loyaltyPoints" db:"loyalty_points"`
}

// Booking is a room reservation.
type Booking struct {
	ID          string    `json:"id" db:"id"`
	GuestName   string    `json:"guestName" db:"guest_name"`
	GuestEmail  string    `json:"guestEmail" db:"guest_email"`
	RoomID      string    `json:"roomId" db:"room_id"`
	RoomNumber  string    `json:"roomNumber" db:"room_number"`
	BranchID    string    `json:"branchId" db:"branch_id"`
	CheckIn     time.Time `json:"checkIn" db:"check_in"`
	CheckOut    time.Time `json:"checkOut" db:"check_out"`
	Status      string    `json:"status" db:"status"`
	TotalAmount int64     `json:"totalAmount" db:"total_amount"`
}

// StaffMember is an employee of one branch.
type StaffMember struct {
	ID         string `json:"id" db:"id"`
	FullName   string `json:"fullName" db:"full_name"`
	Email      string `json:"email" db:"email"`
	Phone      string `json:"phone,omitempty" db:"phone"`
	Department string `json:"department" db:"department"`
	Position   string `json:"position" db:"position"`
	Status     string `json:"status" db:"status"`
	BranchID   string `json:"branchId" db:"branch_id"`
}

// OrderItem is one line of a restaurant order.
type OrderItem struct {
	MenuItemID string `json:"menuItemId" db:"menu_item_id"`
	Name       string `json:"name" db:"name"`
	Quantity   int    `json:"quantity" db:"quantity"`
	UnitPrice  int64  `json:"unitPrice" db:"unit_price"`
}

// Order is a restaurant order placed by a guest.
type Order struct {
	ID          string      `json:"id" db:"id"`
	GuestName   string      `json:"guestName" db:"guest_name"`
	RoomNumber  string      `json:"roomNumber,omitempty" db:"room_number"`
	BranchID    string      `json:"branchId" db:"branch_id"`
	Status      string      `json:"status" db:"status"`
	TotalAmount int64       `json:"totalAmount" db:"total_amount"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
}

// ItemNames joins the order line names for text matching.
func (o Order) ItemNames() string {
	names := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		names = append(names, it.Name)
	}
	return strings.Join(names, " ")
}
