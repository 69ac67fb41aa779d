// Package green implements the green hub repository: initiative drives,
// awareness campaigns, and drive registrations, backed by PostgreSQL.
package green

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

const driveColumns = "id, title, description, category, location, organizer, drive_date, registration_link, participants_count, status, created_by, created_at"

const campaignColumns = "id, title, description, content, category, media_link, views_count, status, created_by, created_at"

// Repo provides green hub persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a green hub repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type driveRow struct {
	ID                uuid.UUID  `db:"id"`
	Title             string     `db:"title"`
	Description       string     `db:"description"`
	Category          string     `db:"category"`
	Location          string     `db:"location"`
	Organizer         string     `db:"organizer"`
	DriveDate         time.Time  `db:"drive_date"`
	RegistrationLink  *string    `db:"registration_link"`
	ParticipantsCount int        `db:"participants_count"`
	Status            string     `db:"status"`
	CreatedBy         uuid.UUID  `db:"created_by"`
	CreatedAt         time.Time  `db:"created_at"`
}

func (r driveRow) toDomain() *domain.Drive {
	return &domain.Drive{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		Location:         r.Location,
		Organizer:        r.Organizer,
		DriveDate:        r.DriveDate,
		RegistrationLink: r.RegistrationLink,
		Participants:     r.ParticipantsCount,
		Status:           domain.ItemStatus(r.Status),
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
	}
}

// ListActiveDrives returns active drives, soonest first.
func (r *Repo) ListActiveDrives(ctx context.Context, limit int) ([]*domain.Drive, error) {
	sql, args, err := builder.
		Select(driveColumns).
		From("drives").
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		OrderBy("drive_date ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build drive list: %w", err)
	}

	var rows []driveRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "drive")
	}

	drives := make([]*domain.Drive, len(rows))
	for i, row := range rows {
		drives[i] = row.toDomain()
	}
	return drives, nil
}

// GetDrive returns a drive by primary key.
func (r *Repo) GetDrive(ctx context.Context, id uuid.UUID) (*domain.Drive, error) {
	sql, args, err := builder.
		Select(driveColumns).
		From("drives").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build drive select: %w", err)
	}

	var row driveRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "drive")
	}
	return row.toDomain(), nil
}

// Register inserts a drive registration. The unique (drive, user) constraint
// guards against duplicates; violations surface as domain.ErrAlreadyExists.
// participants_count on the drive is trigger-maintained.
func (r *Repo) Register(ctx context.Context, reg *domain.DriveRegistration) error {
	sql, args, err := builder.
		Insert("drive_registrations").
		Columns("drive_id", "user_id", "full_name", "email", "phone").
		Values(reg.DriveID, reg.UserID, reg.FullName, reg.Email, reg.Phone).
		ToSql()
	if err != nil {
		return fmt.Errorf("build registration insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "drive_registration")
	}
	return nil
}

type campaignRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Content     string    `db:"content"`
	Category    string    `db:"category"`
	MediaLink   *string   `db:"media_link"`
	ViewsCount  int       `db:"views_count"`
	Status      string    `db:"status"`
	CreatedBy   uuid.UUID `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r campaignRow) toDomain() *domain.Campaign {
	return &domain.Campaign{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Content:     r.Content,
		Category:    r.Category,
		MediaLink:   r.MediaLink,
		Views:       r.ViewsCount,
		Status:      domain.ItemStatus(r.Status),
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// ListActiveCampaigns returns active awareness campaigns, newest first.
func (r *Repo) ListActiveCampaigns(ctx context.Context, limit int) ([]*domain.Campaign, error) {
	sql, args, err := builder.
		Select(campaignColumns).
		From("campaigns").
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build campaign list: %w", err)
	}

	var rows []campaignRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "campaign")
	}

	campaigns := make([]*domain.Campaign, len(rows))
	for i, row := range rows {
		campaigns[i] = row.toDomain()
	}
	return campaigns, nil
}
