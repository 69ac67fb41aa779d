// Package event implements the event repository using PostgreSQL.
// RSVP and volunteer aggregates on the events row are trigger-maintained.
package event

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

const eventColumns = "id, title, description, category, location, event_date, end_date, status, rsvp_count, volunteer_spots, volunteers_joined, created_by, created_at"

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates an event repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type eventRow struct {
	ID               uuid.UUID  `db:"id"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	Category         string     `db:"category"`
	Location         string     `db:"location"`
	EventDate        time.Time  `db:"event_date"`
	EndDate          *time.Time `db:"end_date"`
	Status           string     `db:"status"`
	RSVPCount        int        `db:"rsvp_count"`
	VolunteerSpots   int        `db:"volunteer_spots"`
	VolunteersJoined int        `db:"volunteers_joined"`
	CreatedBy        uuid.UUID  `db:"created_by"`
	CreatedAt        time.Time  `db:"created_at"`
}

func (r eventRow) toDomain() *domain.Event {
	return &domain.Event{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		Location:         r.Location,
		EventDate:        r.EventDate,
		EndDate:          r.EndDate,
		Status:           domain.ItemStatus(r.Status),
		RSVPCount:        r.RSVPCount,
		VolunteerSpots:   r.VolunteerSpots,
		VolunteersJoined: r.VolunteersJoined,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
	}
}

// Create inserts a new event and returns the persisted record.
func (r *Repo) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	sql, args, err := builder.
		Insert("events").
		Columns("title", "description", "category", "location", "event_date", "end_date", "volunteer_spots", "status", "created_by").
		Values(e.Title, e.Description, e.Category, e.Location, e.EventDate, e.EndDate, e.VolunteerSpots, string(domain.StatusActive), e.CreatedBy).
		Suffix("RETURNING " + eventColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event insert: %w", err)
	}

	var row eventRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "event")
	}
	return row.toDomain(), nil
}

// GetByID returns an event by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	sql, args, err := builder.
		Select(eventColumns).
		From("events").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event select: %w", err)
	}

	var row eventRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "event")
	}
	return row.toDomain(), nil
}

// ListUpcoming returns active events with a start date at or after now,
// soonest first.
func (r *Repo) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*domain.Event, error) {
	sql, args, err := builder.
		Select(eventColumns).
		From("events").
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		Where(sq.GtOrEq{"event_date": now}).
		OrderBy("event_date ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event list: %w", err)
	}

	var rows []eventRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "event")
	}

	events := make([]*domain.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
	}
	return events, nil
}

type commentRow struct {
	ID        uuid.UUID `db:"id"`
	EventID   uuid.UUID `db:"event_id"`
	UserID    uuid.UUID `db:"user_id"`
	Text      string    `db:"comment_text"`
	CreatedAt time.Time `db:"created_at"`
}

// AddComment inserts an event comment and returns the persisted record.
func (r *Repo) AddComment(ctx context.Context, c *domain.EventComment) (*domain.EventComment, error) {
	sql, args, err := builder.
		Insert("event_comments").
		Columns("event_id", "user_id", "comment_text").
		Values(c.EventID, c.UserID, c.Text).
		Suffix("RETURNING id, event_id, user_id, comment_text, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment insert: %w", err)
	}

	var row commentRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "event_comment")
	}
	return &domain.EventComment{ID: row.ID, EventID: row.EventID, UserID: row.UserID, Text: row.Text, CreatedAt: row.CreatedAt}, nil
}

// ListComments returns an event's comments, oldest first.
func (r *Repo) ListComments(ctx context.Context, eventID uuid.UUID) ([]*domain.EventComment, error) {
	sql, args, err := builder.
		Select("id", "event_id", "user_id", "comment_text", "created_at").
		From("event_comments").
		Where(sq.Eq{"event_id": eventID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment list: %w", err)
	}

	var rows []commentRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "event_comment")
	}

	comments := make([]*domain.EventComment, len(rows))
	for i, row := range rows {
		comments[i] = &domain.EventComment{ID: row.ID, EventID: row.EventID, UserID: row.UserID, Text: row.Text, CreatedAt: row.CreatedAt}
	}
	return comments, nil
}
