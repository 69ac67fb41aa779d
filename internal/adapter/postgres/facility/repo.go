// Package facility implements the health-and-safety directory repository:
// medical centers, community kitchens, emergency contacts, and the pharmacy
// medicine inventory.
package facility

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

// Repo provides directory persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a facility repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type medicalCenterRow struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	Type           string    `db:"type"`
	Address        string    `db:"address"`
	Contact        string    `db:"contact"`
	Timings        *string   `db:"timings"`
	Specialization *string   `db:"specialization"`
	Latitude       *float64  `db:"latitude"`
	Longitude      *float64  `db:"longitude"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r medicalCenterRow) toDomain() *domain.MedicalCenter {
	return &domain.MedicalCenter{
		ID:             r.ID,
		Name:           r.Name,
		Type:           r.Type,
		Address:        r.Address,
		Contact:        r.Contact,
		Timings:        r.Timings,
		Specialization: r.Specialization,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		CreatedAt:      r.CreatedAt,
	}
}

// ListMedicalCenters returns directory entries, optionally restricted to one
// facility type (hospital, clinic, pharmacy), ordered by name.
func (r *Repo) ListMedicalCenters(ctx context.Context, facilityType string) ([]*domain.MedicalCenter, error) {
	q := builder.
		Select("id", "name", "type", "address", "contact", "timings", "specialization", "latitude", "longitude", "created_at").
		From("medical_centers").
		OrderBy("name ASC")
	if facilityType != "" {
		q = q.Where(sq.Eq{"type": facilityType})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build medical center list: %w", err)
	}

	var rows []medicalCenterRow
	querier := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "medical_center")
	}

	centers := make([]*domain.MedicalCenter, len(rows))
	for i, row := range rows {
		centers[i] = row.toDomain()
	}
	return centers, nil
}

// GetMedicalCenter returns one directory entry by primary key.
func (r *Repo) GetMedicalCenter(ctx context.Context, id uuid.UUID) (*domain.MedicalCenter, error) {
	sql, args, err := builder.
		Select("id", "name", "type", "address", "contact", "timings", "specialization", "latitude", "longitude", "created_at").
		From("medical_centers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build medical center select: %w", err)
	}

	var row medicalCenterRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "medical_center")
	}
	return row.toDomain(), nil
}

type kitchenRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Address      string    `db:"address"`
	Location     string    `db:"location"`
	ContactPhone string    `db:"contact_phone"`
	Timings      string    `db:"timings"`
	IsFree       bool      `db:"is_free"`
	MealTypes    []string  `db:"meal_types"`
	Capacity     *int      `db:"capacity"`
	Rating       float64   `db:"rating"`
	TotalReviews int       `db:"total_reviews"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r kitchenRow) toDomain() *domain.Kitchen {
	return &domain.Kitchen{
		ID:           r.ID,
		Name:         r.Name,
		Address:      r.Address,
		Location:     r.Location,
		ContactPhone: r.ContactPhone,
		Timings:      r.Timings,
		IsFree:       r.IsFree,
		MealTypes:    r.MealTypes,
		Capacity:     r.Capacity,
		Rating:       r.Rating,
		TotalReviews: r.TotalReviews,
		Status:       domain.ItemStatus(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

// ListKitchens returns active community kitchens ordered by rating.
func (r *Repo) ListKitchens(ctx context.Context) ([]*domain.Kitchen, error) {
	sql, args, err := builder.
		Select("id", "name", "address", "location", "contact_phone", "timings", "is_free",
			"meal_types", "capacity", "rating", "total_reviews", "status", "created_at").
		From("community_kitchens").
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		OrderBy("rating DESC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build kitchen list: %w", err)
	}

	var rows []kitchenRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "kitchen")
	}

	kitchens := make([]*domain.Kitchen, len(rows))
	for i, row := range rows {
		kitchens[i] = row.toDomain()
	}
	return kitchens, nil
}

// GetKitchen returns one kitchen by primary key.
func (r *Repo) GetKitchen(ctx context.Context, id uuid.UUID) (*domain.Kitchen, error) {
	sql, args, err := builder.
		Select("id", "name", "address", "location", "contact_phone", "timings", "is_free",
			"meal_types", "capacity", "rating", "total_reviews", "status", "created_at").
		From("community_kitchens").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build kitchen select: %w", err)
	}

	var row kitchenRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "kitchen")
	}
	return row.toDomain(), nil
}

type emergencyContactRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Type        string    `db:"type"`
	PhoneNumber string    `db:"phone_number"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// ListEmergencyContacts returns all hotline entries ordered by type then name.
func (r *Repo) ListEmergencyContacts(ctx context.Context) ([]*domain.EmergencyContact, error) {
	sql, args, err := builder.
		Select("id", "name", "type", "phone_number", "description", "created_at").
		From("emergency_contacts").
		OrderBy("type ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build emergency contact list: %w", err)
	}

	var rows []emergencyContactRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "emergency_contact")
	}

	contacts := make([]*domain.EmergencyContact, len(rows))
	for i, row := range rows {
		contacts[i] = &domain.EmergencyContact{
			ID:          row.ID,
			Name:        row.Name,
			Type:        row.Type,
			PhoneNumber: row.PhoneNumber,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		}
	}
	return contacts, nil
}

type medicineRow struct {
	ID           uuid.UUID `db:"id"`
	PharmacyName string    `db:"pharmacy_name"`
	MedicineName string    `db:"medicine_name"`
	StockStatus  string    `db:"stock_status"`
	Address      string    `db:"address"`
	Contact      string    `db:"contact"`
	LastUpdated  time.Time `db:"last_updated"`
}

// SearchMedicines returns pharmacy stock rows whose medicine name matches the
// query case-insensitively.
func (r *Repo) SearchMedicines(ctx context.Context, query string, limit int) ([]*domain.Medicine, error) {
	sql, args, err := builder.
		Select("id", "pharmacy_name", "medicine_name", "stock_status", "address", "contact", "last_updated").
		From("medicine_inventory").
		Where(sq.ILike{"medicine_name": "%" + query + "%"}).
		OrderBy("last_updated DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build medicine search: %w", err)
	}

	var rows []medicineRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "medicine")
	}

	medicines := make([]*domain.Medicine, len(rows))
	for i, row := range rows {
		medicines[i] = &domain.Medicine{
			ID:           row.ID,
			PharmacyName: row.PharmacyName,
			MedicineName: row.MedicineName,
			StockStatus:  row.StockStatus,
			Address:      row.Address,
			Contact:      row.Contact,
			LastUpdated:  row.LastUpdated,
		}
	}
	return medicines, nil
}
