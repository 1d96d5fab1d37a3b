package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotel_platform_backend/internal/models"
)

// PriceOverrideRepository defines the persistence operations for price overrides and their audit trail.
type PriceOverrideRepository interface {
	// InTx runs fn against a repository bound to a single transaction.
	InTx(ctx context.Context, fn func(repo PriceOverrideRepository) error) error

	// Upsert writes the override keyed on (BranchID, ItemID). An existing row for the key is
	// mutated in place and keeps its ID and CreatedAt; the stored row is returned.
	Upsert(ctx context.Context, override *models.PriceOverride) (*models.PriceOverride, error)
	GetByID(ctx context.Context, id string) (*models.PriceOverride, error)
	GetByItem(ctx context.Context, branchID, itemID string) (*models.PriceOverride, error)
	// GetActive returns ErrNotFound when the key has no row or the row is inactive.
	GetActive(ctx context.Context, branchID, itemID string) (*models.PriceOverride, error)
	ListByBranch(ctx context.Context, branchID string) ([]models.PriceOverride, error)
	ToggleActive(ctx context.Context, id, updatedBy string) (*models.PriceOverride, error)
	// Delete removes the row and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*models.PriceOverride, error)

	AppendAudit(ctx context.Context, entry *models.PriceOverrideAudit) error
	ListAudit(ctx context.Context, branchID string, limit int) ([]models.PriceOverrideAudit, error)
}

type priceOverrideRepository struct {
	db       *sql.DB
	executor SQLExecutor
}

// NewPriceOverrideRepository creates a new instance of PriceOverrideRepository.
func NewPriceOverrideRepository(db *sql.DB) PriceOverrideRepository {
	return &priceOverrideRepository{db: db, executor: db}
}

const overrideColumns = `id, category, item_id, item_name, branch_id, original_price, new_price, active,
	updated_by, reason, created_at, updated_at`

func scanOverride(s scanner) (*models.PriceOverride, error) {
	o := &models.PriceOverride{}
	var reason sql.NullString
	var category string
	err := s.Scan(&o.ID, &category, &o.ItemID, &o.ItemName, &o.BranchID, &o.OriginalPrice, &o.NewPrice,
		&o.Active, &o.UpdatedBy, &reason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Category = models.OverrideCategory(category)
	if reason.Valid {
		o.Reason = &reason.String
	}
	return o, nil
}

func (r *priceOverrideRepository) InTx(ctx context.Context, fn func(repo PriceOverrideRepository) error) error {
	if _, ok := r.executor.(*sql.Tx); ok {
		return fn(r)
	}
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&priceOverrideRepository{db: r.db, executor: tx})
	})
}

func (r *priceOverrideRepository) Upsert(ctx context.Context, o *models.PriceOverride) (*models.PriceOverride, error) {
	query := `INSERT INTO price_overrides (` + overrideColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          ON CONFLICT (branch_id, item_id) DO UPDATE SET
	            category = EXCLUDED.category,
	            item_name = EXCLUDED.item_name,
	            original_price = EXCLUDED.original_price,
	            new_price = EXCLUDED.new_price,
	            active = EXCLUDED.active,
	            updated_by = EXCLUDED.updated_by,
	            reason = EXCLUDED.reason,
	            updated_at = EXCLUDED.updated_at
	          RETURNING ` + overrideColumns

	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	stored, err := scanOverride(r.executor.QueryRowContext(ctx, query,
		o.ID, string(o.Category), o.ItemID, o.ItemName, o.BranchID, o.OriginalPrice, o.NewPrice, o.Active,
		o.UpdatedBy, o.Reason, o.CreatedAt, o.UpdatedAt,
	))
	if err != nil {
		return nil, wrapWriteError(err, "upserting price override")
	}
	return stored, nil
}

func (r *priceOverrideRepository) GetByID(ctx context.Context, id string) (*models.PriceOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM price_overrides WHERE id = $1`
	o, err := scanOverride(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting price override %s: %v", ErrDatabaseError, id, err)
	}
	return o, nil
}

func (r *priceOverrideRepository) GetByItem(ctx context.Context, branchID, itemID string) (*models.PriceOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM price_overrides WHERE branch_id = $1 AND item_id = $2`
	o, err := scanOverride(r.executor.QueryRowContext(ctx, query, branchID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting price override for %s/%s: %v", ErrDatabaseError, branchID, itemID, err)
	}
	return o, nil
}

func (r *priceOverrideRepository) GetActive(ctx context.Context, branchID, itemID string) (*models.PriceOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM price_overrides WHERE branch_id = $1 AND item_id = $2 AND active`
	o, err := scanOverride(r.executor.QueryRowContext(ctx, query, branchID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting active price override for %s/%s: %v", ErrDatabaseError, branchID, itemID, err)
	}
	return o, nil
}

func (r *priceOverrideRepository) ListByBranch(ctx context.Context, branchID string) ([]models.PriceOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM price_overrides WHERE branch_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.executor.QueryContext(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying price overrides: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	overrides := []models.PriceOverride{}
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning price override: %v", ErrDatabaseError, err)
		}
		overrides = append(overrides, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating price override rows: %v", ErrDatabaseError, err)
	}
	return overrides, nil
}

func (r *priceOverrideRepository) ToggleActive(ctx context.Context, id, updatedBy string) (*models.PriceOverride, error) {
	query := `UPDATE price_overrides SET active = NOT active, updated_by = $2, updated_at = $3
	          WHERE id = $1
	          RETURNING ` + overrideColumns
	o, err := scanOverride(r.executor.QueryRowContext(ctx, query, id, updatedBy, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapWriteError(err, "toggling price override")
	}
	return o, nil
}

func (r *priceOverrideRepository) Delete(ctx context.Context, id string) (*models.PriceOverride, error) {
	query := `DELETE FROM price_overrides WHERE id = $1 RETURNING ` + overrideColumns
	o, err := scanOverride(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapWriteError(err, "deleting price override")
	}
	return o, nil
}

func (r *priceOverrideRepository) AppendAudit(ctx context.Context, a *models.PriceOverrideAudit) error {
	query := `INSERT INTO price_override_audit
	            (override_id, branch_id, item_id, item_name, action, old_price, new_price, active, actor_name, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	err := r.executor.QueryRowContext(ctx, query,
		a.OverrideID, a.BranchID, a.ItemID, a.ItemName, a.Action, a.OldPrice, a.NewPrice, a.Active,
		a.ActorName, a.Reason, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return wrapWriteError(err, "appending price override audit")
	}
	return nil
}

func (r *priceOverrideRepository) ListAudit(ctx context.Context, branchID string, limit int) ([]models.PriceOverrideAudit, error) {
	query := `SELECT id, override_id, branch_id, item_id, item_name, action, old_price, new_price, active, actor_name, reason, created_at
	          FROM price_override_audit
	          WHERE branch_id = $1
	          ORDER BY created_at DESC, id DESC
	          LIMIT $2`
	rows, err := r.executor.QueryContext(ctx, query, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying price override audit: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.PriceOverrideAudit{}
	for rows.Next() {
		var a models.PriceOverrideAudit
		var oldPrice, newPrice sql.NullInt64
		var reason sql.NullString
		if err := rows.Scan(&a.ID, &a.OverrideID, &a.BranchID, &a.ItemID, &a.ItemName, &a.Action,
			&oldPrice, &newPrice, &a.Active, &a.ActorName, &reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning price override audit: %v", ErrDatabaseError, err)
		}
		if oldPrice.Valid {
			a.OldPrice = &oldPrice.Int64
		}
		if newPrice.Valid {
			a.NewPrice = &newPrice.Int64
		}
		if reason.Valid {
			a.Reason = &reason.String
		}
		entries = append(entries, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating price override audit rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}
