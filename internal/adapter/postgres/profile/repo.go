// Package profile implements the profile, civic-points, and community-stats
// repository. A profile's points column is the aggregate of the user_points
// journal and is maintained by a trigger on insert.
package profile

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

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a profile repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type profileRow struct {
	ID                uuid.UUID `db:"id"`
	DisplayName       *string   `db:"display_name"`
	Points            int       `db:"points"`
	ShowOnLeaderboard bool      `db:"show_on_leaderboard"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r profileRow) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:                r.ID,
		DisplayName:       r.DisplayName,
		Points:            r.Points,
		ShowOnLeaderboard: r.ShowOnLeaderboard,
		CreatedAt:         r.CreatedAt,
	}
}

// GetByID returns a profile by user id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	sql, args, err := builder.
		Select("id", "display_name", "points", "show_on_leaderboard", "created_at").
		From("profiles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile select: %w", err)
	}

	var row profileRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "profile")
	}
	return row.toDomain(), nil
}

// Leaderboard returns the top profiles by points among users who opted in.
func (r *Repo) Leaderboard(ctx context.Context, size int) ([]*domain.Profile, error) {
	sql, args, err := builder.
		Select("id", "display_name", "points", "show_on_leaderboard", "created_at").
		From("profiles").
		Where(sq.Eq{"show_on_leaderboard": true}).
		OrderBy("points DESC", "created_at ASC").
		Limit(uint64(size)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard: %w", err)
	}

	var rows []profileRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "profile")
	}

	profiles := make([]*domain.Profile, len(rows))
	for i, row := range rows {
		profiles[i] = row.toDomain()
	}
	return profiles, nil
}

// AwardPoints appends a journal entry for a civic action. The profiles.points
// aggregate follows via trigger.
func (r *Repo) AwardPoints(ctx context.Context, e *domain.PointsEntry) error {
	sql, args, err := builder.
		Insert("user_points").
		Columns("user_id", "action_type", "description", "points").
		Values(e.UserID, e.ActionType, e.Description, e.Points).
		ToSql()
	if err != nil {
		return fmt.Errorf("build points insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "user_points")
	}
	return nil
}

type pointsRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	ActionType  string    `db:"action_type"`
	Description *string   `db:"description"`
	Points      int       `db:"points"`
	CreatedAt   time.Time `db:"created_at"`
}

// PointsHistory returns a user's journal entries, newest first.
func (r *Repo) PointsHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.PointsEntry, error) {
	sql, args, err := builder.
		Select("id", "user_id", "action_type", "description", "points", "created_at").
		From("user_points").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build points history: %w", err)
	}

	var rows []pointsRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user_points")
	}

	entries := make([]*domain.PointsEntry, len(rows))
	for i, row := range rows {
		entries[i] = &domain.PointsEntry{
			ID:          row.ID,
			UserID:      row.UserID,
			ActionType:  row.ActionType,
			Description: row.Description,
			Points:      row.Points,
			CreatedAt:   row.CreatedAt,
		}
	}
	return entries, nil
}

type statsRow struct {
	ActiveEvents     int `db:"active_events"`
	OpenJobs         int `db:"open_jobs"`
	OpenDonations    int `db:"open_donations"`
	ProblemsResolved int `db:"problems_resolved"`
	ActivePolls      int `db:"active_polls"`
	Volunteers       int `db:"volunteers"`
}

// CommunityStats returns the portal-wide counters shown on the landing page.
// One round trip; the scalar subqueries each hit a partial index.
func (r *Repo) CommunityStats(ctx context.Context) (*domain.CommunityStats, error) {
	const sql = `SELECT
  (SELECT COUNT(*) FROM events WHERE status = 'active') AS active_events,
  (SELECT COUNT(*) FROM jobs WHERE status = 'active') AS open_jobs,
  (SELECT COUNT(*) FROM food_donations WHERE status = 'open') AS open_donations,
  (SELECT COUNT(*) FROM problem_reports WHERE status = 'resolved') AS problems_resolved,
  (SELECT COUNT(*) FROM polls WHERE status = 'active') AS active_polls,
  (SELECT COUNT(DISTINCT user_id) FROM event_volunteers) AS volunteers`

	var row statsRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql); err != nil {
		return nil, postgres.MapError(err, "community_stats")
	}
	return &domain.CommunityStats{
		ActiveEvents:     row.ActiveEvents,
		OpenJobs:         row.OpenJobs,
		OpenDonations:    row.OpenDonations,
		ProblemsResolved: row.ProblemsResolved,
		ActivePolls:      row.ActivePolls,
		Volunteers:       row.Volunteers,
	}, nil
}
