package handlers

import (
	"net/http"
	"testing"

	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/services"
)

func TestSetPrice_ManagerWritesOwnBranch(t *testing.T) {
	s := newTestServer(t)
	tok := bearer(t, models.RoleManager, "br-001")

	w := s.do(t, http.MethodPost, "/price-overrides", tok, map[string]interface{}{
		"category":      "room",
		"itemId":        "rt-deluxe",
		"itemName":      "Deluxe Room",
		"originalPrice": 325000,
		"newPrice":      299000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var o models.PriceOverride
	decodeEnvelope(t, w, &o)
	if o.BranchID != "br-001" || o.NewPrice != 299000 || !o.Active {
		t.Fatalf("unexpected override %+v", o)
	}
	if o.UpdatedBy != "Jean Mugisha" {
		t.Fatalf("updatedBy should come from the token, got %q", o.UpdatedBy)
	}

	w = s.do(t, http.MethodGet, "/price-overrides/effective?item_id=rt-deluxe&catalog_price=325000", tok, nil)
	var eff struct {
		EffectivePrice int64 `json:"effectivePrice"`
	}
	decodeEnvelope(t, w, &eff)
	if w.Code != http.StatusOK || eff.EffectivePrice != 299000 {
		t.Fatalf("effective price: %d %s", w.Code, w.Body.String())
	}
}

func TestSetPrice_ManagerCannotWriteOtherBranch(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/price-overrides", bearer(t, models.RoleManager, "br-001"), map[string]interface{}{
		"category": "room", "itemId": "rt-deluxe", "newPrice": 299000, "branchId": "br-002",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestSetPrice_RejectsNonPositivePrice(t *testing.T) {
	s := newTestServer(t)
	tok := bearer(t, models.RoleAdmin, "")
	w := s.do(t, http.MethodPost, "/price-overrides", tok, map[string]interface{}{
		"category": "menu", "itemId": "menu-coffee", "newPrice": 0, "branchId": "br-001",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeEnvelope(t, w, nil)
	if env.Success || env.Error == nil || env.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/price-overrides?branch_id=br-001", tok, nil)
	var list []models.PriceOverride
	decodeEnvelope(t, w, &list)
	if len(list) != 0 {
		t.Fatalf("rejected write must not persist, got %d rows", len(list))
	}
}

func TestSetPrice_AdminMustNameBranch(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/price-overrides", bearer(t, models.RoleAdmin, ""), map[string]interface{}{
		"category": "menu", "itemId": "menu-coffee", "newPrice": 3500,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestToggleAndRemove_UnknownIDIsNoOp(t *testing.T) {
	s := newTestServer(t)
	tok := bearer(t, models.RoleManager, "br-001")

	w := s.do(t, http.MethodPatch, "/price-overrides/does-not-exist/toggle", tok, nil)
	env := decodeEnvelope(t, w, nil)
	if w.Code != http.StatusOK || !env.Success || string(env.Data) != "null" {
		t.Fatalf("toggle unknown: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodDelete, "/price-overrides/does-not-exist", tok, nil)
	var removed struct {
		Removed bool `json:"removed"`
	}
	decodeEnvelope(t, w, &removed)
	if w.Code != http.StatusOK || removed.Removed {
		t.Fatalf("remove unknown: %d %s", w.Code, w.Body.String())
	}
}

func TestToggleThenRemove(t *testing.T) {
	s := newTestServer(t)
	tok := bearer(t, models.RoleManager, "br-001")

	w := s.do(t, http.MethodPost, "/price-overrides", tok, map[string]interface{}{
		"category": "menu", "itemId": "menu-brochettes", "newPrice": 9000,
	})
	var o models.PriceOverride
	decodeEnvelope(t, w, &o)

	w = s.do(t, http.MethodPatch, "/price-overrides/"+o.ID+"/toggle", tok, nil)
	var toggled models.PriceOverride
	decodeEnvelope(t, w, &toggled)
	if toggled.Active {
		t.Fatalf("expected inactive after toggle")
	}

	w = s.do(t, http.MethodGet, "/price-overrides/effective?item_id=menu-brochettes&catalog_price=8000", tok, nil)
	var eff struct {
		EffectivePrice int64 `json:"effectivePrice"`
	}
	decodeEnvelope(t, w, &eff)
	if eff.EffectivePrice != 8000 {
		t.Fatalf("inactive override must fall back to catalog price, got %d", eff.EffectivePrice)
	}

	// Another branch's manager cannot remove it.
	w = s.do(t, http.MethodDelete, "/price-overrides/"+o.ID, bearer(t, models.RoleManager, "br-002"), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 from other branch, got %d", w.Code)
	}

	w = s.do(t, http.MethodDelete, "/price-overrides/"+o.ID, tok, nil)
	var removed struct {
		Removed bool `json:"removed"`
	}
	decodeEnvelope(t, w, &removed)
	if !removed.Removed {
		t.Fatalf("expected removed=true: %s", w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/price-overrides/audit", tok, nil)
	var audit []models.PriceOverrideAudit
	decodeEnvelope(t, w, &audit)
	if len(audit) != 3 || audit[0].Action != models.AuditActionRemove {
		t.Fatalf("expected set, toggle, remove newest first, got %+v", audit)
	}
}

func TestBulkAdjust_Endpoint(t *testing.T) {
	s := newTestServer(t)
	tok := bearer(t, models.RoleManager, "br-001")

	w := s.do(t, http.MethodPost, "/price-overrides/bulk", tok, map[string]interface{}{
		"category": "spa", "percentage": 10,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res services.BulkAdjustResult
	decodeEnvelope(t, w, &res)
	if res.Total != 4 || len(res.Updated) != 4 || len(res.Failed) != 0 {
		t.Fatalf("unexpected bulk result %+v", res)
	}
	if res.Reason != "Bulk increase: 10%" {
		t.Fatalf("reason = %q", res.Reason)
	}

	w = s.do(t, http.MethodPost, "/price-overrides/bulk", tok, map[string]interface{}{
		"category": "spa", "percentage": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero percentage: expected 400, got %d", w.Code)
	}
}

func TestStaffCannotManageOverrides(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/price-overrides", bearer(t, models.RoleStaff, "br-001"), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestQuote_UsesEffectivePrices(t *testing.T) {
	s := newTestServer(t)
	manager := bearer(t, models.RoleManager, "br-001")
	s.do(t, http.MethodPost, "/price-overrides", manager, map[string]interface{}{
		"category": "menu", "itemId": "menu-coffee", "newPrice": 3500,
	})

	w := s.do(t, http.MethodPost, "/quote", bearer(t, models.RoleStaff, "br-001"), map[string]interface{}{
		"lines": []map[string]interface{}{
			{"category": "menu", "itemId": "menu-coffee", "quantity": 2},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var q services.Quote
	decodeEnvelope(t, w, &q)
	if q.Total != 7000 || !q.Lines[0].Overridden {
		t.Fatalf("unexpected quote %+v", q)
	}
}
