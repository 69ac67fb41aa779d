// Package pickup implements the waste-pickup scheduling repository.
package pickup

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/neighborly/portal-backend/internal/adapter/postgres"
	"github.com/neighborly/portal-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const pickupColumns = "id, user_id, waste_type, preferred_date, address, status, notes, created_at"

// Repo provides pickup persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a pickup repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type pickupRow struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	WasteType     string    `db:"waste_type"`
	PreferredDate time.Time `db:"preferred_date"`
	Address       string    `db:"address"`
	Status        string    `db:"status"`
	Notes         *string   `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r pickupRow) toDomain() *domain.Pickup {
	return &domain.Pickup{
		ID:            r.ID,
		UserID:        r.UserID,
		WasteType:     r.WasteType,
		PreferredDate: r.PreferredDate,
		Address:       r.Address,
		Status:        domain.PickupStatus(r.Status),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

// Create inserts a new pending pickup request and returns the persisted
// record.
func (r *Repo) Create(ctx context.Context, p *domain.Pickup) (*domain.Pickup, error) {
	sql, args, err := builder.
		Insert("scheduled_pickups").
		Columns("user_id", "waste_type", "preferred_date", "address", "status", "notes").
		Values(p.UserID, p.WasteType, p.PreferredDate, p.Address, string(domain.PickupPending), p.Notes).
		Suffix("RETURNING " + pickupColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pickup insert: %w", err)
	}

	var row pickupRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "pickup")
	}
	return row.toDomain(), nil
}

// GetByID returns a pickup by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pickup, error) {
	sql, args, err := builder.
		Select(pickupColumns).
		From("scheduled_pickups").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pickup select: %w", err)
	}

	var row pickupRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "pickup")
	}
	return row.toDomain(), nil
}

// ListByUser returns a user's pickups, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Pickup, error) {
	sql, args, err := builder.
		Select(pickupColumns).
		From("scheduled_pickups").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pickup list: %w", err)
	}

	var rows []pickupRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "pickup")
	}

	pickups := make([]*domain.Pickup, len(rows))
	for i, row := range rows {
		pickups[i] = row.toDomain()
	}
	return pickups, nil
}

// Cancel cancels a pickup owned by the user while it is still pending or
// scheduled. A pickup past that point reports ErrConflict.
func (r *Repo) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	sql, args, err := builder.
		Update("scheduled_pickups").
		Set("status", string(domain.PickupCancelled)).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"status": []string{string(domain.PickupPending), string(domain.PickupScheduled)}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build pickup cancel: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "pickup")
	}
	if tag.RowsAffected() == 0 {
		// Row exists but is past cancellation, or is not the user's.
		if p, getErr := r.GetByID(ctx, id); getErr == nil && p.UserID == userID {
			return fmt.Errorf("pickup %s: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("pickup %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
