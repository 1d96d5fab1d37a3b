package services

import (
	"context"
	"fmt"
	"strings"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
)

// spaServiceCategory marks hotel services that belong to the spa override category.
const spaServiceCategory = "spa"

// PriceCatalog exposes the catalog price list of an override category.
type PriceCatalog interface {
	ListPriceItems(ctx context.Context, category models.OverrideCategory) ([]models.CatalogItem, error)
}

type priceCatalog struct {
	catalog repositories.CatalogRepository
}

// NewPriceCatalog derives override-category price lists from the catalog collaborator.
// Rooms are priced per room type; spa and service split the hotel services on their category.
func NewPriceCatalog(catalog repositories.CatalogRepository) PriceCatalog {
	return &priceCatalog{catalog: catalog}
}

func (p *priceCatalog) ListPriceItems(ctx context.Context, category models.OverrideCategory) ([]models.CatalogItem, error) {
	items := []models.CatalogItem{}
	switch category {
	case models.OverrideCategoryRoom:
		types, err := p.catalog.ListRoomTypes(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range types {
			items = append(items, models.CatalogItem{ID: t.ID, Name: t.Name, Category: category, Price: t.BasePrice})
		}
	case models.OverrideCategoryMenu:
		menu, err := p.catalog.ListMenuItems(ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range menu {
			items = append(items, models.CatalogItem{ID: m.ID, Name: m.Name, Category: category, Price: m.Price})
		}
	case models.OverrideCategoryEvent:
		events, err := p.catalog.ListEvents(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			items = append(items, models.CatalogItem{ID: e.ID, Name: e.Name, Category: category, Price: e.Price})
		}
	case models.OverrideCategorySpa, models.OverrideCategoryService:
		services, err := p.catalog.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		wantSpa := category == models.OverrideCategorySpa
		for _, s := range services {
			isSpa := strings.Contains(strings.ToLower(s.Category), spaServiceCategory)
			if isSpa == wantSpa {
				items = append(items, models.CatalogItem{ID: s.ID, Name: s.Name, Category: category, Price: s.Price})
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return items, nil
}

func findPriceItem(items []models.CatalogItem, itemID string) (models.CatalogItem, bool) {
	for _, it := range items {
		if it.ID == itemID {
			return it, true
		}
	}
	return models.CatalogItem{}, false
}
