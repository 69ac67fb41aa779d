// Package lostfound implements the lost-and-found repository using PostgreSQL.
package lostfound

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

const itemColumns = "id, type, title, description, category, location, contact_phone, status, posted_by, created_at"

// Repo provides lost-and-found persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a lost-and-found repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type itemRow struct {
	ID           uuid.UUID `db:"id"`
	Type         string    `db:"type"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Category     string    `db:"category"`
	Location     string    `db:"location"`
	ContactPhone string    `db:"contact_phone"`
	Status       string    `db:"status"`
	PostedBy     uuid.UUID `db:"posted_by"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r itemRow) toDomain() *domain.LostFoundItem {
	return &domain.LostFoundItem{
		ID:           r.ID,
		Type:         domain.LostFoundType(r.Type),
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Location:     r.Location,
		ContactPhone: r.ContactPhone,
		Status:       domain.ItemStatus(r.Status),
		PostedBy:     r.PostedBy,
		CreatedAt:    r.CreatedAt,
	}
}

// Create inserts a new posting and returns the persisted record.
func (r *Repo) Create(ctx context.Context, item *domain.LostFoundItem) (*domain.LostFoundItem, error) {
	sql, args, err := builder.
		Insert("lost_found_items").
		Columns("type", "title", "description", "category", "location", "contact_phone", "status", "posted_by").
		Values(string(item.Type), item.Title, item.Description, item.Category, item.Location,
			item.ContactPhone, string(domain.StatusActive), item.PostedBy).
		Suffix("RETURNING " + itemColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item insert: %w", err)
	}

	var row itemRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "lost_found_item")
	}
	return row.toDomain(), nil
}

// GetByID returns a posting by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LostFoundItem, error) {
	sql, args, err := builder.
		Select(itemColumns).
		From("lost_found_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item select: %w", err)
	}

	var row itemRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "lost_found_item")
	}
	return row.toDomain(), nil
}

// List returns active postings, newest first, optionally restricted to one
// posting type (lost or found).
func (r *Repo) List(ctx context.Context, itemType domain.LostFoundType, limit int) ([]*domain.LostFoundItem, error) {
	q := builder.
		Select(itemColumns).
		From("lost_found_items").
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if itemType != "" {
		q = q.Where(sq.Eq{"type": string(itemType)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item list: %w", err)
	}

	var rows []itemRow
	querier := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "lost_found_item")
	}

	items := make([]*domain.LostFoundItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// Resolve closes a posting. Only the poster may resolve it.
func (r *Repo) Resolve(ctx context.Context, id, userID uuid.UUID) error {
	sql, args, err := builder.
		Update("lost_found_items").
		Set("status", string(domain.StatusResolved)).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"posted_by": userID}).
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build item resolve: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "lost_found_item")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lost_found_item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
