// Package food implements the surplus-food donation and request repository.
package food

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/neighborly/portal-backend/internal/adapter/postgres"
	"github.com/neighborly/portal-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const donationColumns = "id, donor_id, donor_name, donor_type, food_type, quantity, pickup_location, expiry_time, status, assigned_volunteer_id, contact_phone, notes, created_at"

// Repo provides food donation and request persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a food repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type donationRow struct {
	ID                  uuid.UUID  `db:"id"`
	DonorID             uuid.UUID  `db:"donor_id"`
	DonorName           string     `db:"donor_name"`
	DonorType           string     `db:"donor_type"`
	FoodType            string     `db:"food_type"`
	Quantity            string     `db:"quantity"`
	PickupLocation      string     `db:"pickup_location"`
	ExpiryTime          time.Time  `db:"expiry_time"`
	Status              string     `db:"status"`
	AssignedVolunteerID *uuid.UUID `db:"assigned_volunteer_id"`
	ContactPhone        string     `db:"contact_phone"`
	Notes               *string    `db:"notes"`
	CreatedAt           time.Time  `db:"created_at"`
}

func (r donationRow) toDomain() *domain.FoodDonation {
	return &domain.FoodDonation{
		ID:                  r.ID,
		DonorID:             r.DonorID,
		DonorName:           r.DonorName,
		DonorType:           r.DonorType,
		FoodType:            r.FoodType,
		Quantity:            r.Quantity,
		PickupLocation:      r.PickupLocation,
		ExpiryTime:          r.ExpiryTime,
		Status:              domain.DonationStatus(r.Status),
		AssignedVolunteerID: r.AssignedVolunteerID,
		ContactPhone:        r.ContactPhone,
		Notes:               r.Notes,
		CreatedAt:           r.CreatedAt,
	}
}

// CreateDonation inserts a new open donation and returns the persisted record.
func (r *Repo) CreateDonation(ctx context.Context, d *domain.FoodDonation) (*domain.FoodDonation, error) {
	sql, args, err := builder.
		Insert("food_donations").
		Columns("donor_id", "donor_name", "donor_type", "food_type", "quantity",
			"pickup_location", "expiry_time", "status", "contact_phone", "notes").
		Values(d.DonorID, d.DonorName, d.DonorType, d.FoodType, d.Quantity,
			d.PickupLocation, d.ExpiryTime, string(domain.DonationOpen), d.ContactPhone, d.Notes).
		Suffix("RETURNING " + donationColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build donation insert: %w", err)
	}

	var row donationRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "food_donation")
	}
	return row.toDomain(), nil
}

// GetDonation returns a donation by primary key.
func (r *Repo) GetDonation(ctx context.Context, id uuid.UUID) (*domain.FoodDonation, error) {
	sql, args, err := builder.
		Select(donationColumns).
		From("food_donations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build donation select: %w", err)
	}

	var row donationRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "food_donation")
	}
	return row.toDomain(), nil
}

// ListOpenDonations returns unassigned donations that have not expired,
// soonest to expire first.
func (r *Repo) ListOpenDonations(ctx context.Context, now time.Time, limit int) ([]*domain.FoodDonation, error) {
	sql, args, err := builder.
		Select(donationColumns).
		From("food_donations").
		Where(sq.Eq{"status": string(domain.DonationOpen)}).
		Where(sq.Gt{"expiry_time": now}).
		OrderBy("expiry_time ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build donation list: %w", err)
	}

	var rows []donationRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "food_donation")
	}

	donations := make([]*domain.FoodDonation, len(rows))
	for i, row := range rows {
		donations[i] = row.toDomain()
	}
	return donations, nil
}

// AssignVolunteer claims an open donation for a volunteer. Only the open →
// assigned transition is allowed; a donation already claimed reports
// ErrConflict.
func (r *Repo) AssignVolunteer(ctx context.Context, donationID, volunteerID uuid.UUID) (*domain.FoodDonation, error) {
	sql, args, err := builder.
		Update("food_donations").
		Set("status", string(domain.DonationAssigned)).
		Set("assigned_volunteer_id", volunteerID).
		Where(sq.Eq{"id": donationID}).
		Where(sq.Eq{"status": string(domain.DonationOpen)}).
		Suffix("RETURNING " + donationColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build donation assign: %w", err)
	}

	var row donationRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		mapped := postgres.MapError(err, "food_donation")
		// No matching row means either a missing donation or one already
		// claimed; disambiguate for the caller.
		if errors.Is(mapped, domain.ErrNotFound) {
			if _, getErr := r.GetDonation(ctx, donationID); getErr == nil {
				return nil, fmt.Errorf("food_donation %s: %w", donationID, domain.ErrConflict)
			}
		}
		return nil, mapped
	}
	return row.toDomain(), nil
}

// MarkCollected finishes an assigned donation.
func (r *Repo) MarkCollected(ctx context.Context, donationID uuid.UUID) error {
	sql, args, err := builder.
		Update("food_donations").
		Set("status", string(domain.DonationCollected)).
		Where(sq.Eq{"id": donationID}).
		Where(sq.Eq{"status": string(domain.DonationAssigned)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build donation collect: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "food_donation")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("food_donation %s: %w", donationID, domain.ErrConflict)
	}
	return nil
}

// ExpireStaleDonations closes open donations whose expiry has passed.
// Returns the number of rows transitioned; used by the retention job.
func (r *Repo) ExpireStaleDonations(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := builder.
		Update("food_donations").
		Set("status", string(domain.DonationExpired)).
		Where(sq.Eq{"status": string(domain.DonationOpen)}).
		Where(sq.LtOrEq{"expiry_time": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build donation expire: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "food_donation")
	}
	return tag.RowsAffected(), nil
}

// PurgeFinishedDonations hard-deletes expired and collected donations created
// before the cutoff. Open and assigned donations are never touched. Returns
// the number of rows removed; used by the retention job.
func (r *Repo) PurgeFinishedDonations(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := builder.
		Delete("food_donations").
		Where(sq.Eq{"status": []string{string(domain.DonationExpired), string(domain.DonationCollected)}}).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build donation purge: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "food_donation")
	}
	return tag.RowsAffected(), nil
}

type requestRow struct {
	ID               uuid.UUID `db:"id"`
	RequesterID      uuid.UUID `db:"requester_id"`
	OrganizationName string    `db:"organization_name"`
	OrganizationType string    `db:"organization_type"`
	FoodTypeNeeded   string    `db:"food_type_needed"`
	QuantityNeeded   string    `db:"quantity_needed"`
	PickupLocation   string    `db:"pickup_location"`
	Urgency          string    `db:"urgency"`
	Status           string    `db:"status"`
	ContactPhone     string    `db:"contact_phone"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r requestRow) toDomain() *domain.FoodRequest {
	return &domain.FoodRequest{
		ID:               r.ID,
		RequesterID:      r.RequesterID,
		OrganizationName: r.OrganizationName,
		OrganizationType: r.OrganizationType,
		FoodTypeNeeded:   r.FoodTypeNeeded,
		QuantityNeeded:   r.QuantityNeeded,
		PickupLocation:   r.PickupLocation,
		Urgency:          domain.UrgencyLevel(r.Urgency),
		Status:           domain.DonationStatus(r.Status),
		ContactPhone:     r.ContactPhone,
		CreatedAt:        r.CreatedAt,
	}
}

// CreateRequest inserts a standing food request and returns the persisted
// record.
func (r *Repo) CreateRequest(ctx context.Context, req *domain.FoodRequest) (*domain.FoodRequest, error) {
	sql, args, err := builder.
		Insert("food_requests").
		Columns("requester_id", "organization_name", "organization_type", "food_type_needed",
			"quantity_needed", "pickup_location", "urgency", "status", "contact_phone").
		Values(req.RequesterID, req.OrganizationName, req.OrganizationType, req.FoodTypeNeeded,
			req.QuantityNeeded, req.PickupLocation, string(req.Urgency), string(domain.DonationOpen), req.ContactPhone).
		Suffix("RETURNING id, requester_id, organization_name, organization_type, food_type_needed, quantity_needed, pickup_location, urgency, status, contact_phone, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build request insert: %w", err)
	}

	var row requestRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "food_request")
	}
	return row.toDomain(), nil
}

// ListOpenRequests returns open food requests, most urgent first.
func (r *Repo) ListOpenRequests(ctx context.Context, limit int) ([]*domain.FoodRequest, error) {
	sql, args, err := builder.
		Select("id", "requester_id", "organization_name", "organization_type", "food_type_needed",
			"quantity_needed", "pickup_location", "urgency", "status", "contact_phone", "created_at").
		From("food_requests").
		Where(sq.Eq{"status": string(domain.DonationOpen)}).
		OrderBy("CASE urgency WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END", "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build request list: %w", err)
	}

	var rows []requestRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "food_request")
	}

	requests := make([]*domain.FoodRequest, len(rows))
	for i, row := range rows {
		requests[i] = row.toDomain()
	}
	return requests, nil
}
