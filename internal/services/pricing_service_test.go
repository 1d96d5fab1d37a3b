package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
)

func newTestPricing(t *testing.T) (PricingService, *repositories.MemoryPriceOverrideRepository) {
	t.Helper()
	repo := repositories.NewMemoryPriceOverrideRepository()
	catalog := repositories.NewSeededCatalog(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	return NewPricingService(repo, NewPriceCatalog(catalog)), repo
}

func deluxeInput(newPrice int64) SetPriceInput {
	return SetPriceInput{
		Category:      "room",
		ItemID:        "rt-deluxe",
		ItemName:      "Deluxe Room",
		OriginalPrice: 325000,
		NewPrice:      newPrice,
		BranchID:      "br-001",
		UpdatedBy:     "Alice",
	}
}

func effective(t *testing.T, svc PricingService, itemID, branchID string, catalogPrice int64) int64 {
	t.Helper()
	price, err := svc.GetEffectivePrice(context.Background(), itemID, branchID, catalogPrice)
	if err != nil {
		t.Fatalf("GetEffectivePrice: %v", err)
	}
	return price
}

func TestGetEffectivePrice_FallsBackToCatalogPrice(t *testing.T) {
	svc, _ := newTestPricing(t)
	for _, catalogPrice := range []int64{1, 325000, 9_999_999} {
		if got := effective(t, svc, "rt-deluxe", "br-001", catalogPrice); got != catalogPrice {
			t.Fatalf("expected catalog price %d, got %d", catalogPrice, got)
		}
	}
}

func TestSetPrice_OverrideTakesPrecedence(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()

	o, err := svc.SetPrice(ctx, deluxeInput(390000))
	if err != nil {
		t.Fatalf("SetPrice: %v", err)
	}
	if !o.Active || o.ID == "" || o.UpdatedBy != "Alice" {
		t.Fatalf("unexpected override: %+v", o)
	}
	for _, catalogPrice := range []int64{325000, 1, 500} {
		if got := effective(t, svc, "rt-deluxe", "br-001", catalogPrice); got != 390000 {
			t.Fatalf("expected 390000, got %d", got)
		}
	}
	if got := effective(t, svc, "rt-deluxe", "br-002", 325000); got != 325000 {
		t.Fatalf("override leaked into another branch: %d", got)
	}
}

func TestSetPrice_SupersedesSameKey(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()

	first, err := svc.SetPrice(ctx, deluxeInput(390000))
	if err != nil {
		t.Fatalf("first SetPrice: %v", err)
	}
	second, err := svc.SetPrice(ctx, deluxeInput(410000))
	if err != nil {
		t.Fatalf("second SetPrice: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the row to be updated in place, ids %s and %s", first.ID, second.ID)
	}

	list, err := svc.GetOverridesByBranch(ctx, "br-001")
	if err != nil {
		t.Fatalf("GetOverridesByBranch: %v", err)
	}
	active := 0
	for _, o := range list {
		if o.ItemID == "rt-deluxe" && o.Active {
			active++
			if o.NewPrice != 410000 {
				t.Fatalf("expected newPrice 410000, got %d", o.NewPrice)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active override, got %d", active)
	}
}

func TestToggleOverride_DeactivatesAndRestores(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	o, err := svc.SetPrice(ctx, deluxeInput(390000))
	if err != nil {
		t.Fatalf("SetPrice: %v", err)
	}

	toggled, err := svc.ToggleOverride(ctx, o.ID, Actor{Name: "Alice"})
	if err != nil || toggled == nil || toggled.Active {
		t.Fatalf("expected inactive override, got %+v (err %v)", toggled, err)
	}
	if got := effective(t, svc, "rt-deluxe", "br-001", 330000); got != 330000 {
		t.Fatalf("inactive override still applied: %d", got)
	}

	if _, err := svc.ToggleOverride(ctx, o.ID, Actor{Name: "Alice"}); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if got := effective(t, svc, "rt-deluxe", "br-001", 330000); got != 390000 {
		t.Fatalf("expected override restored, got %d", got)
	}
}

func TestToggleOverride_UnknownIDIsNoop(t *testing.T) {
	svc, _ := newTestPricing(t)
	o, err := svc.ToggleOverride(context.Background(), "missing", Actor{Name: "Alice"})
	if err != nil || o != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", o, err)
	}
}

func TestToggleOverride_RejectsOtherBranch(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	o, err := svc.SetPrice(ctx, deluxeInput(390000))
	if err != nil {
		t.Fatalf("SetPrice: %v", err)
	}
	if _, err := svc.ToggleOverride(ctx, o.ID, Actor{Name: "Bob", BranchID: "br-002"}); !errors.Is(err, ErrBranchForbidden) {
		t.Fatalf("expected ErrBranchForbidden, got %v", err)
	}
	if got := effective(t, svc, "rt-deluxe", "br-001", 325000); got != 390000 {
		t.Fatalf("forbidden toggle changed state: %d", got)
	}
}

func TestRemoveOverride_ResetsToCatalog(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	o, err := svc.SetPrice(ctx, deluxeInput(390000))
	if err != nil {
		t.Fatalf("SetPrice: %v", err)
	}

	removed, err := svc.RemoveOverride(ctx, o.ID, Actor{Name: "Alice"})
	if err != nil || !removed {
		t.Fatalf("expected removal, got %v (err %v)", removed, err)
	}
	if got := effective(t, svc, "rt-deluxe", "br-001", 340000); got != 340000 {
		t.Fatalf("expected live catalog price, got %d", got)
	}
	list, _ := svc.GetOverridesByBranch(ctx, "br-001")
	if len(list) != 0 {
		t.Fatalf("expected no overrides after removal, got %d", len(list))
	}

	removed, err = svc.RemoveOverride(ctx, o.ID, Actor{Name: "Alice"})
	if err != nil || removed {
		t.Fatalf("second removal should be a no-op, got %v (err %v)", removed, err)
	}
}

func TestSetPrice_RejectsNonPositivePrice(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	for _, price := range []int64{0, -10} {
		if _, err := svc.SetPrice(ctx, deluxeInput(price)); !errors.Is(err, ErrValidation) {
			t.Fatalf("price %d: expected ErrValidation, got %v", price, err)
		}
	}
	list, _ := svc.GetOverridesByBranch(ctx, "br-001")
	if len(list) != 0 {
		t.Fatalf("rejected writes changed state: %d overrides", len(list))
	}
	audit, _ := svc.GetAuditLog(ctx, "br-001", 0)
	if len(audit) != 0 {
		t.Fatalf("rejected writes were audited: %d entries", len(audit))
	}
}

func TestSetPrice_RequiresBranchAndItem(t *testing.T) {
	svc, _ := newTestPricing(t)
	in := deluxeInput(390000)
	in.BranchID = "  "
	if _, err := svc.SetPrice(context.Background(), in); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing branch, got %v", err)
	}
	in = deluxeInput(390000)
	in.ItemID = ""
	if _, err := svc.SetPrice(context.Background(), in); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing item, got %v", err)
	}
}

func TestGetOverridesByBranch_InsertionOrder(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	for _, id := range []string{"menu-tilapia", "menu-brochettes", "menu-isombe"} {
		_, err := svc.SetPrice(ctx, SetPriceInput{Category: "menu", ItemID: id, NewPrice: 9000, BranchID: "br-001", UpdatedBy: "Alice"})
		if err != nil {
			t.Fatalf("SetPrice %s: %v", id, err)
		}
	}
	// superseding keeps the original position
	if _, err := svc.SetPrice(ctx, SetPriceInput{Category: "menu", ItemID: "menu-tilapia", NewPrice: 9500, BranchID: "br-001", UpdatedBy: "Alice"}); err != nil {
		t.Fatalf("SetPrice: %v", err)
	}

	list, err := svc.GetOverridesByBranch(ctx, "br-001")
	if err != nil {
		t.Fatalf("GetOverridesByBranch: %v", err)
	}
	want := []string{"menu-tilapia", "menu-brochettes", "menu-isombe"}
	if len(list) != len(want) {
		t.Fatalf("expected %d overrides, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ItemID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, list[i].ItemID)
		}
	}
}

func TestBulkAdjust_AppliesRoundedPercentage(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	if _, err := svc.SetPrice(ctx, deluxeInput(390000)); err != nil {
		t.Fatalf("SetPrice: %v", err)
	}

	res, err := svc.BulkAdjust(ctx, BulkAdjustInput{Category: "room", BranchID: "br-001", Percentage: 5, UpdatedBy: "Alice"})
	if err != nil {
		t.Fatalf("BulkAdjust: %v", err)
	}
	if len(res.Failed) != 0 || len(res.Updated) != res.Total {
		t.Fatalf("expected every room type updated, got %d/%d with %d failures", len(res.Updated), res.Total, len(res.Failed))
	}
	if res.Reason != "Bulk increase: 5%" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
	if got := effective(t, svc, "rt-deluxe", "br-001", 325000); got != 409500 {
		t.Fatalf("expected 409500, got %d", got)
	}
	// 180000 * 1.05
	if got := effective(t, svc, "rt-standard", "br-001", 180000); got != 189000 {
		t.Fatalf("expected 189000, got %d", got)
	}
	for _, o := range res.Updated {
		if o.Reason == nil || *o.Reason != "Bulk increase: 5%" {
			t.Fatalf("override %s missing bulk reason", o.ItemID)
		}
	}
}

func TestBulkAdjust_TenPercentOfThousand(t *testing.T) {
	repo := repositories.NewMemoryPriceOverrideRepository()
	catalog := &repositories.MemoryCatalog{
		MenuItems: []models.MenuItem{{ID: "m1", Name: "Tea", Price: 1000, Available: true}},
	}
	svc := NewPricingService(repo, NewPriceCatalog(catalog))

	res, err := svc.BulkAdjust(context.Background(), BulkAdjustInput{Category: "menu", BranchID: "br-001", Percentage: 10, UpdatedBy: "Alice"})
	if err != nil {
		t.Fatalf("BulkAdjust: %v", err)
	}
	if len(res.Updated) != 1 || res.Updated[0].NewPrice != 1100 {
		t.Fatalf("expected newPrice 1100, got %+v", res.Updated)
	}
}

func TestBulkAdjust_RejectsNonPositiveItemsAndContinues(t *testing.T) {
	repo := repositories.NewMemoryPriceOverrideRepository()
	catalog := &repositories.MemoryCatalog{
		MenuItems: []models.MenuItem{
			{ID: "cheap", Name: "Mint", Price: 1},
			{ID: "tea", Name: "Tea", Price: 1000},
		},
	}
	svc := NewPricingService(repo, NewPriceCatalog(catalog))
	ctx := context.Background()

	// -60% of 1 rounds to 0; -60% of 1000 is 400
	res, err := svc.BulkAdjust(ctx, BulkAdjustInput{Category: "menu", BranchID: "br-001", Percentage: -60, UpdatedBy: "Alice"})
	if err != nil {
		t.Fatalf("BulkAdjust: %v", err)
	}
	if len(res.Failed) != 1 || res.Failed[0].ItemID != "cheap" {
		t.Fatalf("expected only 'cheap' to fail, got %+v", res.Failed)
	}
	if len(res.Updated) != 1 || res.Updated[0].NewPrice != 400 {
		t.Fatalf("expected tea at 400, got %+v", res.Updated)
	}
	if !res.PartialFailure() {
		t.Fatalf("expected a partial failure")
	}
	if res.Reason != "Bulk decrease: 60%" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
	if got := effective(t, svc, "cheap", "br-001", 1); got != 1 {
		t.Fatalf("rejected item gained an override: %d", got)
	}

	all, err := svc.BulkAdjust(ctx, BulkAdjustInput{Category: "menu", BranchID: "br-001", Percentage: -100, UpdatedBy: "Alice"})
	if err != nil {
		t.Fatalf("BulkAdjust -100: %v", err)
	}
	if len(all.Updated) != 0 || len(all.Failed) != 2 {
		t.Fatalf("expected every item rejected at -100%%, got %d updated %d failed", len(all.Updated), len(all.Failed))
	}
}

func TestBulkAdjust_RejectsZeroPercentage(t *testing.T) {
	svc, _ := newTestPricing(t)
	_, err := svc.BulkAdjust(context.Background(), BulkAdjustInput{Category: "room", BranchID: "br-001", Percentage: 0, UpdatedBy: "Alice"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBulkAdjust_SpaCoversSpaServicesOnly(t *testing.T) {
	svc, _ := newTestPricing(t)
	res, err := svc.BulkAdjust(context.Background(), BulkAdjustInput{Category: "spa", BranchID: "br-002", Percentage: 10, UpdatedBy: "Grace"})
	if err != nil {
		t.Fatalf("BulkAdjust: %v", err)
	}
	if res.Total != 4 {
		t.Fatalf("expected 4 spa services, got %d", res.Total)
	}
	for _, o := range res.Updated {
		if o.ItemID == "svc-airport" || o.ItemID == "svc-laundry" {
			t.Fatalf("non-spa service adjusted: %s", o.ItemID)
		}
	}
}

func TestAuditLog_RecordsWritesNewestFirst(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	o, err := svc.SetPrice(ctx, deluxeInput(390000))
	if err != nil {
		t.Fatalf("SetPrice: %v", err)
	}
	if _, err := svc.SetPrice(ctx, deluxeInput(400000)); err != nil {
		t.Fatalf("SetPrice: %v", err)
	}
	if _, err := svc.ToggleOverride(ctx, o.ID, Actor{Name: "Bob"}); err != nil {
		t.Fatalf("ToggleOverride: %v", err)
	}
	if _, err := svc.RemoveOverride(ctx, o.ID, Actor{Name: "Carol"}); err != nil {
		t.Fatalf("RemoveOverride: %v", err)
	}

	entries, err := svc.GetAuditLog(ctx, "br-001", 10)
	if err != nil {
		t.Fatalf("GetAuditLog: %v", err)
	}
	wantActions := []string{models.AuditActionRemove, models.AuditActionToggle, models.AuditActionSet, models.AuditActionSet}
	if len(entries) != len(wantActions) {
		t.Fatalf("expected %d entries, got %d", len(wantActions), len(entries))
	}
	for i, a := range wantActions {
		if entries[i].Action != a {
			t.Fatalf("entry %d: expected %s, got %s", i, a, entries[i].Action)
		}
	}
	if entries[2].OldPrice == nil || *entries[2].OldPrice != 390000 || *entries[2].NewPrice != 400000 {
		t.Fatalf("supersede entry lost price change: %+v", entries[2])
	}
	if entries[3].OldPrice != nil {
		t.Fatalf("first write should have no old price")
	}
	if entries[0].ActorName != "Carol" {
		t.Fatalf("expected remover recorded, got %s", entries[0].ActorName)
	}
}

func TestQuote_UsesEffectivePrices(t *testing.T) {
	svc, _ := newTestPricing(t)
	ctx := context.Background()
	if _, err := svc.SetPrice(ctx, deluxeInput(390000)); err != nil {
		t.Fatalf("SetPrice: %v", err)
	}

	q, err := svc.Quote(ctx, QuoteRequest{BranchID: "br-001", Lines: []QuoteLine{
		{Category: "room", ItemID: "rt-deluxe", Quantity: 2},
		{Category: "menu", ItemID: "menu-coffee", Quantity: 3},
	}})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Total != 2*390000+3*3000 {
		t.Fatalf("unexpected total %d", q.Total)
	}
	if !q.Lines[0].Overridden || q.Lines[1].Overridden {
		t.Fatalf("unexpected overridden flags: %+v", q.Lines)
	}

	_, err = svc.Quote(ctx, QuoteRequest{BranchID: "br-001", Lines: []QuoteLine{{Category: "menu", ItemID: "nope", Quantity: 1}}})
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected unknown item validation error, got %v", err)
	}
}
