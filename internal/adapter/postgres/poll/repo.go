// Package poll implements the poll repository using PostgreSQL. Vote totals
// live on the polls row and are maintained by database triggers; readers
// always take them from the store instead of counting locally.
package poll

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

const pollColumns = "id, title, description, category, options, status, total_votes, created_by, created_at, expires_at"

// Repo provides poll persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a poll repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type pollRow struct {
	ID          uuid.UUID  `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Category    string     `db:"category"`
	Options     []byte     `db:"options"`
	Status      string     `db:"status"`
	TotalVotes  int        `db:"total_votes"`
	CreatedBy   uuid.UUID  `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	ExpiresAt   *time.Time `db:"expires_at"`
}

// toDomain decodes the options JSON at the store boundary so no consumer
// ever re-parses it.
func (r pollRow) toDomain() (*domain.Poll, error) {
	options, err := domain.DecodePollOptions(r.Options)
	if err != nil {
		return nil, fmt.Errorf("poll %s: %w", r.ID, err)
	}
	return &domain.Poll{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Options:     options,
		Status:      domain.ItemStatus(r.Status),
		TotalVotes:  r.TotalVotes,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		ExpiresAt:   r.ExpiresAt,
	}, nil
}

// Create inserts a new poll and returns the persisted record.
func (r *Repo) Create(ctx context.Context, p *domain.Poll) (*domain.Poll, error) {
	raw, err := domain.EncodePollOptions(p.Options)
	if err != nil {
		return nil, err
	}

	sql, args, err := builder.
		Insert("polls").
		Columns("title", "description", "category", "options", "status", "created_by", "expires_at").
		Values(p.Title, p.Description, p.Category, raw, string(domain.StatusActive), p.CreatedBy, p.ExpiresAt).
		Suffix("RETURNING " + pollColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build poll insert: %w", err)
	}

	var row pollRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "poll")
	}
	return row.toDomain()
}

// GetByID returns a poll by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	sql, args, err := builder.
		Select(pollColumns).
		From("polls").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build poll select: %w", err)
	}

	var row pollRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "poll")
	}
	return row.toDomain()
}

// ListActive returns active polls, newest first.
func (r *Repo) ListActive(ctx context.Context, limit int) ([]*domain.Poll, error) {
	sql, args, err := builder.
		Select(pollColumns).
		From("polls").
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build poll list: %w", err)
	}

	var rows []pollRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "poll")
	}

	polls := make([]*domain.Poll, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		polls = append(polls, p)
	}
	return polls, nil
}

type optionCount struct {
	OptionIndex int `db:"option_index"`
	Votes       int `db:"votes"`
}

// CountVotesByOption returns per-option vote counts for a poll.
func (r *Repo) CountVotesByOption(ctx context.Context, pollID uuid.UUID) (map[int]int, error) {
	sql, args, err := builder.
		Select("option_index", "COUNT(*) AS votes").
		From("poll_votes").
		Where(sq.Eq{"poll_id": pollID}).
		GroupBy("option_index").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build vote count: %w", err)
	}

	var rows []optionCount
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "poll_votes")
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.OptionIndex] = row.Votes
	}
	return counts, nil
}

// ExpireOlderThan closes active polls whose expiry has passed. Returns the
// number of polls transitioned; used by the retention job.
func (r *Repo) ExpireOlderThan(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := builder.
		Update("polls").
		Set("status", string(domain.StatusExpired)).
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		Where(sq.NotEq{"expires_at": nil}).
		Where(sq.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build poll expire: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "poll")
	}
	return tag.RowsAffected(), nil
}
