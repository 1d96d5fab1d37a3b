package models

import "time"

// OverrideCategory is the catalog partition an override applies to.
type OverrideCategory string

const (
	OverrideCategoryRoom    OverrideCategory = "room"
	OverrideCategoryMenu    OverrideCategory = "menu"
	OverrideCategorySpa     OverrideCategory = "spa"
	OverrideCategoryEvent   OverrideCategory = "event"
	OverrideCategoryService OverrideCategory = "service"
)

// IsValidOverrideCategory checks if the provided string is a known OverrideCategory.
func IsValidOverrideCategory(category string) bool {
	switch OverrideCategory(category) {
	case OverrideCategoryRoom,
		OverrideCategoryMenu,
		OverrideCategorySpa,
		OverrideCategoryEvent,
		OverrideCategoryService:
		return true
	default:
		return false
	}
}

// PriceOverride is a branch-scoped replacement price for a catalog item.
// There is at most one row per (BranchID, ItemID); inactive rows are kept for history
// and never affect price resolution.
type PriceOverride struct {
	ID            string           `json:"id" db:"id"`
	Category      OverrideCategory `json:"category" db:"category"`
	ItemID        string           `json:"itemId" db:"item_id"`
	ItemName      string           `json:"itemName" db:"item_name"`
	BranchID      string           `json:"branchId" db:"branch_id"`
	OriginalPrice int64            `json:"originalPrice" db:"original_price"` // catalog snapshot at creation
	NewPrice      int64            `json:"newPrice" db:"new_price"`
	Active        bool             `json:"active" db:"active"`
	UpdatedBy     string           `json:"updatedBy" db:"updated_by"`
	Reason        *string          `json:"reason,omitempty" db:"reason"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time        `json:"updatedAt" db:"updated_at"`
}

// PercentChange is the override delta relative to the original price snapshot.
func (o *PriceOverride) PercentChange() float64 {
	if o.OriginalPrice == 0 {
		return 0
	}
	return float64(o.NewPrice-o.OriginalPrice) / float64(o.OriginalPrice) * 100
}

// Audit actions recorded for override writes.
const (
	AuditActionSet    = "set"
	AuditActionBulk   = "bulk"
	AuditActionToggle = "toggle"
	AuditActionRemove = "remove"
)

// PriceOverrideAudit is an append-only record of one override write.
type PriceOverrideAudit struct {
	ID         int64     `json:"id" db:"id"`
	OverrideID string    `json:"overrideId" db:"override_id"`
	BranchID   string    `json:"branchId" db:"branch_id"`
	ItemID     string    `json:"itemId" db:"item_id"`
	ItemName   string    `json:"itemName" db:"item_name"`
	Action     string    `json:"action" db:"action"`
	OldPrice   *int64    `json:"oldPrice,omitempty" db:"old_price"`
	NewPrice   *int64    `json:"newPrice,omitempty" db:"new_price"`
	Active     bool      `json:"active" db:"active"`
	ActorName  string    `json:"actorName" db:"actor_name"`
	Reason     *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// CatalogItem is the priced view of a catalog entry used by bulk adjustment and quotes.
type CatalogItem struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category OverrideCategory `json:"category"`
	Price    int64            `json:"price"`
}
