package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
	"hotel_platform_backend/pkg/utils"
)

// --- Custom Service Errors for Pricing ---
var (
	ErrBranchForbidden  = errors.New("override belongs to another branch")
	ErrItemNotFound     = errors.New("catalog item not found")
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// --- DTOs ---

// SetPriceInput creates or supersedes the override of one (branchId, itemId) pair.
type SetPriceInput struct {
	Category      string  `json:"category" validate:"required,oneof=room menu spa event service"`
	ItemID        string  `json:"itemId" validate:"required"`
	ItemName      string  `json:"itemName"`
	OriginalPrice int64   `json:"originalPrice" validate:"gte=0"`
	NewPrice      int64   `json:"newPrice" validate:"gt=0"`
	BranchID      string  `json:"branchId" validate:"required"`
	UpdatedBy     string  `json:"updatedBy" validate:"required"`
	Reason        *string `json:"reason"`
	Active        *bool   `json:"active"` // defaults to true
}

// BulkAdjustInput applies a percentage change to every catalog item of a category in one branch.
type BulkAdjustInput struct {
	Category   string  `json:"category" validate:"required,oneof=room menu spa event service"`
	BranchID   string  `json:"branchId" validate:"required"`
	Percentage float64 `json:"percentage" validate:"ne=0"`
	UpdatedBy  string  `json:"updatedBy" validate:"required"`
}

// BulkItemFailure reports one catalog item a bulk adjustment could not update.
type BulkItemFailure struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	Reason   string `json:"reason"`
}

// BulkAdjustResult lists the overrides written and the items rejected.
type BulkAdjustResult struct {
	Category   models.OverrideCategory `json:"category"`
	BranchID   string                  `json:"branchId"`
	Percentage float64                 `json:"percentage"`
	Reason     string                  `json:"reason"`
	Total      int                     `json:"total"`
	Updated    []models.PriceOverride  `json:"updated"`
	Failed     []BulkItemFailure       `json:"failed"`
}

// PartialFailure reports whether some but not all items were rejected.
func (r *BulkAdjustResult) PartialFailure() bool {
	return len(r.Failed) > 0 && len(r.Updated) > 0
}

// Actor is the identity performing a write. A non-empty BranchID restricts it to that branch.
type Actor struct {
	Name     string
	BranchID string
}

// QuoteLine is one priced line of a booking or order.
type QuoteLine struct {
	Category string `json:"category" validate:"required,oneof=room menu spa event service"`
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// QuoteRequest asks for the branch-effective total of a set of lines.
type QuoteRequest struct {
	BranchID string      `json:"branchId" validate:"required"`
	Lines    []QuoteLine `json:"lines" validate:"required,min=1,dive"`
}

// QuotedLine is a QuoteLine resolved against the catalog and the branch overrides.
type QuotedLine struct {
	Category     models.OverrideCategory `json:"category"`
	ItemID       string                  `json:"itemId"`
	ItemName     string                  `json:"itemName"`
	Quantity     int                     `json:"quantity"`
	CatalogPrice int64                   `json:"catalogPrice"`
	UnitPrice    int64                   `json:"unitPrice"`
	Overridden   bool                    `json:"overridden"`
	LineTotal    int64                   `json:"lineTotal"`
}

// Quote is the computed total of a QuoteRequest.
type Quote struct {
	BranchID string       `json:"branchId"`
	Lines    []QuotedLine `json:"lines"`
	Total    int64        `json:"total"`
}

// --- PricingService Interface ---
type PricingService interface {
	SetPrice(ctx context.Context, in SetPriceInput) (*models.PriceOverride, error)
	// ToggleOverride flips the active flag. An unknown id is a no-op returning (nil, nil).
	ToggleOverride(ctx context.Context, overrideID string, actor Actor) (*models.PriceOverride, error)
	// RemoveOverride deletes the override and reports whether a row was removed.
	RemoveOverride(ctx context.Context, overrideID string, actor Actor) (bool, error)
	GetOverridesByBranch(ctx context.Context, branchID string) ([]models.PriceOverride, error)
	GetEffectivePrice(ctx context.Context, itemID, branchID string, catalogPrice int64) (int64, error)
	BulkAdjust(ctx context.Context, in BulkAdjustInput) (*BulkAdjustResult, error)
	GetAuditLog(ctx context.Context, branchID string, limit int) ([]models.PriceOverrideAudit, error)
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

// --- pricingService Implementation ---
type pricingService struct {
	overrideRepo repositories.PriceOverrideRepository
	catalog      PriceCatalog
	newID        func() string
}

// NewPricingService creates a new instance of PricingService.
func NewPricingService(overrideRepo repositories.PriceOverrideRepository, catalog PriceCatalog) PricingService {
	return &pricingService{
		overrideRepo: overrideRepo,
		catalog:      catalog,
		newID:        uuid.NewString,
	}
}

func (s *pricingService) SetPrice(ctx context.Context, in SetPriceInput) (*models.PriceOverride, error) {
	return s.setPrice(ctx, in, models.AuditActionSet)
}

func (s *pricingService) setPrice(ctx context.Context, in SetPriceInput, action string) (*models.PriceOverride, error) {
	in.ItemID = strings.TrimSpace(in.ItemID)
	in.BranchID = strings.TrimSpace(in.BranchID)
	in.UpdatedBy = strings.TrimSpace(in.UpdatedBy)
	in.ItemName = strings.TrimSpace(in.ItemName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.ItemName == "" {
		in.ItemName = in.ItemID
	}
	var reason *string
	if in.Reason != nil {
		reason = utils.NewNullString(*in.Reason)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	var stored *models.PriceOverride
	err := s.overrideRepo.InTx(ctx, func(repo repositories.PriceOverrideRepository) error {
		var oldPrice *int64
		id := s.newID()
		prev, err := repo.GetByItem(ctx, in.BranchID, in.ItemID)
		switch {
		case err == nil:
			id = prev.ID
			p := prev.NewPrice
			oldPrice = &p
		case !errors.Is(err, repositories.ErrNotFound):
			return err
		}

		stored, err = repo.Upsert(ctx, &models.PriceOverride{
			ID:            id,
			Category:      models.OverrideCategory(in.Category),
			ItemID:        in.ItemID,
			ItemName:      in.ItemName,
			BranchID:      in.BranchID,
			OriginalPrice: in.OriginalPrice,
			NewPrice:      in.NewPrice,
			Active:        active,
			UpdatedBy:     in.UpdatedBy,
			Reason:        reason,
		})
		if err != nil {
			return err
		}
		newPrice := stored.NewPrice
		return repo.AppendAudit(ctx, &models.PriceOverrideAudit{
			OverrideID: stored.ID,
			BranchID:   stored.BranchID,
			ItemID:     stored.ItemID,
			ItemName:   stored.ItemName,
			Action:     action,
			OldPrice:   oldPrice,
			NewPrice:   &newPrice,
			Active:     stored.Active,
			ActorName:  stored.UpdatedBy,
			Reason:     stored.Reason,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set price override: %w", err)
	}
	return stored, nil
}

func (s *pricingService) ToggleOverride(ctx context.Context, overrideID string, actor Actor) (*models.PriceOverride, error) {
	var toggled *models.PriceOverride
	err := s.overrideRepo.InTx(ctx, func(repo repositories.PriceOverrideRepository) error {
		current, err := repo.GetByID(ctx, overrideID)
		if err != nil {
			return err
		}
		if actor.BranchID != "" && current.BranchID != actor.BranchID {
			return ErrBranchForbidden
		}
		toggled, err = repo.ToggleActive(ctx, overrideID, actor.Name)
		if err != nil {
			return err
		}
		price := toggled.NewPrice
		return repo.AppendAudit(ctx, &models.PriceOverrideAudit{
			OverrideID: toggled.ID,
			BranchID:   toggled.BranchID,
			ItemID:     toggled.ItemID,
			ItemName:   toggled.ItemName,
			Action:     models.AuditActionToggle,
			OldPrice:   &price,
			NewPrice:   &price,
			Active:     toggled.Active,
			ActorName:  actor.Name,
		})
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, ErrBranchForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to toggle price override: %w", err)
	}
	return toggled, nil
}

func (s *pricingService) RemoveOverride(ctx context.Context, overrideID string, actor Actor) (bool, error) {
	err := s.overrideRepo.InTx(ctx, func(repo repositories.PriceOverrideRepository) error {
		current, err := repo.GetByID(ctx, overrideID)
		if err != nil {
			return err
		}
		if actor.BranchID != "" && current.BranchID != actor.BranchID {
			return ErrBranchForbidden
		}
		removed, err := repo.Delete(ctx, overrideID)
		if err != nil {
			return err
		}
		oldPrice := removed.NewPrice
		return repo.AppendAudit(ctx, &models.PriceOverrideAudit{
			OverrideID: removed.ID,
			BranchID:   removed.BranchID,
			ItemID:     removed.ItemID,
			ItemName:   removed.ItemName,
			Action:     models.AuditActionRemove,
			OldPrice:   &oldPrice,
			Active:     false,
			ActorName:  actor.Name,
		})
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		if errors.Is(err, ErrBranchForbidden) {
			return false, err
		}
		return false, fmt.Errorf("failed to remove price override: %w", err)
	}
	return true, nil
}

func (s *pricingService) GetOverridesByBranch(ctx context.Context, branchID string) ([]models.PriceOverride, error) {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return nil, fmt.Errorf("%w: branchId is required", ErrValidation)
	}
	overrides, err := s.overrideRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price overrides: %w", err)
	}
	return overrides, nil
}

// GetEffectivePrice returns the active override price for (branchID, itemID), else catalogPrice unchanged.
func (s *pricingService) GetEffectivePrice(ctx context.Context, itemID, branchID string, catalogPrice int64) (int64, error) {
	price, _, err := s.resolve(ctx, itemID, branchID, catalogPrice)
	return price, err
}

func (s *pricingService) resolve(ctx context.Context, itemID, branchID string, catalogPrice int64) (int64, bool, error) {
	override, err := s.overrideRepo.GetActive(ctx, branchID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return catalogPrice, false, nil
		}
		return 0, false, fmt.Errorf("failed to resolve effective price: %w", err)
	}
	return override.NewPrice, true, nil
}

// bulkReason renders the audit reason of a bulk adjustment, e.g. "Bulk decrease: 5%".
func bulkReason(percentage float64) string {
	direction := "increase"
	if percentage < 0 {
		direction = "decrease"
	}
	return "Bulk " + direction + ": " + strconv.FormatFloat(math.Abs(percentage), 'f', -1, 64) + "%"
}

// adjustPrice applies percentage to price, rounded to the nearest whole currency unit.
func adjustPrice(price int64, percentage float64) int64 {
	return int64(math.Round(float64(price) * (1 + percentage/100)))
}

func (s *pricingService) BulkAdjust(ctx context.Context, in BulkAdjustInput) (*BulkAdjustResult, error) {
	in.BranchID = strings.TrimSpace(in.BranchID)
	in.UpdatedBy = strings.TrimSpace(in.UpdatedBy)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	category := models.OverrideCategory(in.Category)
	items, err := s.catalog.ListPriceItems(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s catalog: %w", category, err)
	}

	reason := bulkReason(in.Percentage)
	result := &BulkAdjustResult{
		Category:   category,
		BranchID:   in.BranchID,
		Percentage: in.Percentage,
		Reason:     reason,
		Total:      len(items),
		Updated:    []models.PriceOverride{},
		Failed:     []BulkItemFailure{},
	}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fail := func(msg string) {
			result.Failed = append(result.Failed, BulkItemFailure{ItemID: item.ID, ItemName: item.Name, Reason: msg})
		}

		effective, err := s.GetEffectivePrice(ctx, item.ID, in.BranchID, item.Price)
		if err != nil {
			utils.LogWarn(err, "BulkAdjust: resolving effective price failed", map[string]interface{}{"item_id": item.ID, "branch_id": in.BranchID})
			fail(err.Error())
			continue
		}
		updated := adjustPrice(effective, in.Percentage)
		if updated <= 0 {
			fail(fmt.Sprintf("resulting price %d must be greater than 0", updated))
			continue
		}

		override, err := s.setPrice(ctx, SetPriceInput{
			Category:      string(category),
			ItemID:        item.ID,
			ItemName:      item.Name,
			OriginalPrice: item.Price,
			NewPrice:      updated,
			BranchID:      in.BranchID,
			UpdatedBy:     in.UpdatedBy,
			Reason:        &reason,
		}, models.AuditActionBulk)
		if err != nil {
			utils.LogWarn(err, "BulkAdjust: setting price failed", map[string]interface{}{"item_id": item.ID, "branch_id": in.BranchID})
			fail(err.Error())
			continue
		}
		result.Updated = append(result.Updated, *override)
	}

	utils.LogInfo("Bulk price adjustment applied", map[string]interface{}{
		"branch_id": in.BranchID, "category": string(category), "percentage": in.Percentage,
		"updated": len(result.Updated), "failed": len(result.Failed),
	})
	return result, nil
}

func (s *pricingService) GetAuditLog(ctx context.Context, branchID string, limit int) ([]models.PriceOverrideAudit, error) {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return nil, fmt.Errorf("%w: branchId is required", ErrValidation)
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	entries, err := s.overrideRepo.ListAudit(ctx, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read price override audit: %w", err)
	}
	return entries, nil
}

func (s *pricingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	req.BranchID = strings.TrimSpace(req.BranchID)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	byCategory := map[models.OverrideCategory][]models.CatalogItem{}
	quote := &Quote{BranchID: req.BranchID, Lines: make([]QuotedLine, 0, len(req.Lines))}
	for _, line := range req.Lines {
		category := models.OverrideCategory(line.Category)
		items, ok := byCategory[category]
		if !ok {
			var err error
			items, err = s.catalog.ListPriceItems(ctx, category)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s catalog: %w", category, err)
			}
			byCategory[category] = items
		}
		item, found := findPriceItem(items, line.ItemID)
		if !found {
			return nil, fmt.Errorf("%w: %w: %s %s", ErrValidation, ErrItemNotFound, category, line.ItemID)
		}

		unit, overridden, err := s.resolve(ctx, item.ID, req.BranchID, item.Price)
		if err != nil {
			return nil, err
		}
		quoted := QuotedLine{
			Category:     category,
			ItemID:       item.ID,
			ItemName:     item.Name,
			Quantity:     line.Quantity,
			CatalogPrice: item.Price,
			UnitPrice:    unit,
			Overridden:   overridden,
			LineTotal:    unit * int64(line.Quantity),
		}
		quote.Lines = append(quote.Lines, quoted)
		quote.Total += quoted.LineTotal
	}
	return quote, nil
}
