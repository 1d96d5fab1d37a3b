package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"hotel_platform_backend/internal/database"
	"hotel_platform_backend/internal/models"
)

// runOverrideContract exercises behavior both stores must share.
func runOverrideContract(t *testing.T, repo PriceOverrideRepository, branchID string) {
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &models.PriceOverride{
		ID: uuid.NewString(), Category: models.OverrideCategoryRoom, ItemID: "rt-deluxe", ItemName: "Deluxe Room",
		BranchID: branchID, OriginalPrice: 325000, NewPrice: 299000, Active: true, UpdatedBy: "Alice",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, &models.PriceOverride{
		ID: uuid.NewString(), Category: models.OverrideCategoryMenu, ItemID: "menu-coffee", ItemName: "Rwandan Coffee",
		BranchID: branchID, OriginalPrice: 3000, NewPrice: 3500, Active: true, UpdatedBy: "Alice",
	}); err != nil {
		t.Fatalf("Upsert second: %v", err)
	}

	// Same (branch, item) updates the existing row in place.
	again, err := repo.Upsert(ctx, &models.PriceOverride{
		ID: uuid.NewString(), Category: models.OverrideCategoryRoom, ItemID: "rt-deluxe", ItemName: "Deluxe Room",
		BranchID: branchID, OriginalPrice: 325000, NewPrice: 310000, Active: true, UpdatedBy: "Bob",
	})
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if again.ID != first.ID || again.NewPrice != 310000 {
		t.Fatalf("expected in-place update of %s, got %+v", first.ID, again)
	}

	list, err := repo.ListByBranch(ctx, branchID)
	if err != nil {
		t.Fatalf("ListByBranch: %v", err)
	}
	if len(list) != 2 || list[0].ItemID != "rt-deluxe" || list[1].ItemID != "menu-coffee" {
		t.Fatalf("expected insertion order, got %+v", list)
	}

	toggled, err := repo.ToggleActive(ctx, first.ID, "Carol")
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if toggled.Active || toggled.UpdatedBy != "Carol" {
		t.Fatalf("unexpected toggled row %+v", toggled)
	}
	if _, err := repo.GetActive(ctx, branchID, "rt-deluxe"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("inactive override must not be returned by GetActive, got %v", err)
	}

	removed, err := repo.Delete(ctx, first.ID)
	if err != nil || removed.ID != first.ID {
		t.Fatalf("Delete: %v %+v", err, removed)
	}
	if _, err := repo.Delete(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.ToggleActive(ctx, first.ID, "Carol"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ToggleActive on removed: expected ErrNotFound, got %v", err)
	}

	for _, action := range []string{models.AuditActionSet, models.AuditActionToggle} {
		if err := repo.AppendAudit(ctx, &models.PriceOverrideAudit{
			OverrideID: first.ID, BranchID: branchID, ItemID: "rt-deluxe", ItemName: "Deluxe Room",
			Action: action, ActorName: "Alice",
		}); err != nil {
			t.Fatalf("AppendAudit: %v", err)
		}
	}
	audit, err := repo.ListAudit(ctx, branchID, 10)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(audit) != 2 || audit[0].Action != models.AuditActionToggle {
		t.Fatalf("expected newest first, got %+v", audit)
	}
}

func TestMemoryPriceOverrideRepository(t *testing.T) {
	runOverrideContract(t, NewMemoryPriceOverrideRepository(), "br-001")
}

func TestMemoryPriceOverrideRepository_InTxRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPriceOverrideRepository()
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(tx PriceOverrideRepository) error {
		if _, err := tx.Upsert(ctx, &models.PriceOverride{
			ID: "o-1", Category: models.OverrideCategoryMenu, ItemID: "menu-coffee", BranchID: "br-001", NewPrice: 3500, Active: true, UpdatedBy: "Alice",
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if list, _ := repo.ListByBranch(ctx, "br-001"); len(list) != 0 {
		t.Fatalf("failed transaction must leave no rows, got %d", len(list))
	}
}

func TestPostgresPriceOverrideRepository(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := database.InitDB(ctx, dsn, 5)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()
	if err := database.ApplySchema(ctx, db); err != nil {
		t.Fatalf("ApplySchema: %v", err)
	}

	branchID := "test-" + uuid.NewString()
	t.Cleanup(func() { cleanupBranch(db, branchID) })

	runOverrideContract(t, NewPriceOverrideRepository(db), branchID)
}

func cleanupBranch(db *sql.DB, branchID string) {
	_, _ = db.Exec(`DELETE FROM price_override_audit WHERE branch_id = $1`, branchID)
	_, _ = db.Exec(`DELETE FROM price_overrides WHERE branch_id = $1`, branchID)
}
