// Package problem implements the civic problem-report repository. The
// upvotes column is trigger-maintained from problem_upvotes.
package problem

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

const problemColumns = "id, title, description, category, location, status, upvotes, reported_by, created_at"

// Repo provides problem-report persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a problem repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type problemRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Location    string    `db:"location"`
	Status      string    `db:"status"`
	Upvotes     int       `db:"upvotes"`
	ReportedBy  uuid.UUID `db:"reported_by"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r problemRow) toDomain() *domain.ProblemReport {
	return &domain.ProblemReport{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Status:      domain.ItemStatus(r.Status),
		Upvotes:     r.Upvotes,
		ReportedBy:  r.ReportedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// Create inserts a new problem report and returns the persisted record.
func (r *Repo) Create(ctx context.Context, p *domain.ProblemReport) (*domain.ProblemReport, error) {
	sql, args, err := builder.
		Insert("problem_reports").
		Columns("title", "description", "category", "location", "status", "reported_by").
		Values(p.Title, p.Description, p.Category, p.Location, string(domain.StatusActive), p.ReportedBy).
		Suffix("RETURNING " + problemColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build problem insert: %w", err)
	}

	var row problemRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "problem")
	}
	return row.toDomain(), nil
}

// GetByID returns a problem report by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error) {
	sql, args, err := builder.
		Select(problemColumns).
		From("problem_reports").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build problem select: %w", err)
	}

	var row problemRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "problem")
	}
	return row.toDomain(), nil
}

// List returns problem reports, most upvoted first. An empty status lists all.
func (r *Repo) List(ctx context.Context, status domain.ItemStatus, limit int) ([]*domain.ProblemReport, error) {
	q := builder.
		Select(problemColumns).
		From("problem_reports").
		OrderBy("upvotes DESC", "created_at DESC").
		Limit(uint64(limit))
	if status != "" {
		q = q.Where(sq.Eq{"status": string(status)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build problem list: %w", err)
	}

	var rows []problemRow
	querier := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "problem")
	}

	problems := make([]*domain.ProblemReport, len(rows))
	for i, row := range rows {
		problems[i] = row.toDomain()
	}
	return problems, nil
}

// UpdateStatus transitions a problem report to the given status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error {
	sql, args, err := builder.
		Update("problem_reports").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build problem status update: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "problem")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("problem %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
