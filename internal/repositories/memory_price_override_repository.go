package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel_platform_backend/internal/models"
)

type overrideKey struct {
	branchID string
	itemID   string
}

type memoryOverrideState struct {
	byID   map[string]*models.PriceOverride
	byKey  map[overrideKey]string
	seq    int64 // insertion counter; ListByBranch orders by it
	order  map[string]int64
	audit  []models.PriceOverrideAudit
	nextID int64
}

func (s *memoryOverrideState) clone() *memoryOverrideState {
	c := &memoryOverrideState{
		byID:   make(map[string]*models.PriceOverride, len(s.byID)),
		byKey:  make(map[overrideKey]string, len(s.byKey)),
		seq:    s.seq,
		order:  make(map[string]int64, len(s.order)),
		audit:  append([]models.PriceOverrideAudit(nil), s.audit...),
		nextID: s.nextID,
	}
	for id, o := range s.byID {
		cp := *o
		c.byID[id] = &cp
	}
	for k, v := range s.byKey {
		c.byKey[k] = v
	}
	for k, v := range s.order {
		c.order[k] = v
	}
	return c
}

// MemoryPriceOverrideRepository keeps overrides in process memory. It backs demo mode and tests.
type MemoryPriceOverrideRepository struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	state *memoryOverrideState
	now   func() time.Time
}

// NewMemoryPriceOverrideRepository creates an empty in-memory override store.
func NewMemoryPriceOverrideRepository() *MemoryPriceOverrideRepository {
	return &MemoryPriceOverrideRepository{
		state: &memoryOverrideState{
			byID:  map[string]*models.PriceOverride{},
			byKey: map[overrideKey]string{},
			order: map[string]int64{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// InTx serializes fn against other transactions and restores the previous state when fn fails.
func (r *MemoryPriceOverrideRepository) InTx(ctx context.Context, fn func(repo PriceOverrideRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := r.state.clone()
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.state = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *MemoryPriceOverrideRepository) Upsert(ctx context.Context, o *models.PriceOverride) (*models.PriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	key := overrideKey{branchID: o.BranchID, itemID: o.ItemID}
	if id, ok := r.state.byKey[key]; ok {
		existing := r.state.byID[id]
		existing.Category = o.Category
		existing.ItemName = o.ItemName
		existing.OriginalPrice = o.OriginalPrice
		existing.NewPrice = o.NewPrice
		existing.Active = o.Active
		existing.UpdatedBy = o.UpdatedBy
		existing.Reason = o.Reason
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}
	if _, taken := r.state.byID[o.ID]; taken {
		return nil, ErrDuplicateKey
	}

	stored := *o
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.state.seq++
	r.state.byID[stored.ID] = &stored
	r.state.byKey[key] = stored.ID
	r.state.order[stored.ID] = r.state.seq
	cp := stored
	return &cp, nil
}

func (r *MemoryPriceOverrideRepository) GetByID(ctx context.Context, id string) (*models.PriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.state.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MemoryPriceOverrideRepository) GetByItem(ctx context.Context, branchID, itemID string) (*models.PriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.state.byKey[overrideKey{branchID: branchID, itemID: itemID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r.state.byID[id]
	return &cp, nil
}

func (r *MemoryPriceOverrideRepository) GetActive(ctx context.Context, branchID, itemID string) (*models.PriceOverride, error) {
	o, err := r.GetByItem(ctx, branchID, itemID)
	if err != nil {
		return nil, err
	}
	if !o.Active {
		return nil, ErrNotFound
	}
	return o, nil
}

func (r *MemoryPriceOverrideRepository) ListByBranch(ctx context.Context, branchID string) ([]models.PriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	overrides := []models.PriceOverride{}
	for _, o := range r.state.byID {
		if o.BranchID == branchID {
			overrides = append(overrides, *o)
		}
	}
	sort.Slice(overrides, func(i, j int) bool {
		return r.state.order[overrides[i].ID] < r.state.order[overrides[j].ID]
	})
	return overrides, nil
}

func (r *MemoryPriceOverrideRepository) ToggleActive(ctx context.Context, id, updatedBy string) (*models.PriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.state.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Active = !o.Active
	o.UpdatedBy = updatedBy
	o.UpdatedAt = r.now()
	cp := *o
	return &cp, nil
}

func (r *MemoryPriceOverrideRepository) Delete(ctx context.Context, id string) (*models.PriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.state.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.state.byID, id)
	delete(r.state.byKey, overrideKey{branchID: o.BranchID, itemID: o.ItemID})
	delete(r.state.order, id)
	return o, nil
}

func (r *MemoryPriceOverrideRepository) AppendAudit(ctx context.Context, a *models.PriceOverrideAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.nextID++
	a.ID = r.state.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now()
	}
	r.state.audit = append(r.state.audit, *a)
	return nil
}

func (r *MemoryPriceOverrideRepository) ListAudit(ctx context.Context, branchID string, limit int) ([]models.PriceOverrideAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := []models.PriceOverrideAudit{}
	for i := len(r.state.audit) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) >= limit {
			break
		}
		if r.state.audit[i].BranchID == branchID {
			entries = append(entries, r.state.audit[i])
		}
	}
	return entries, nil
}
