// Package job implements the job-listing repository using PostgreSQL.
package job

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

const jobColumns = "id, title, company, description, location, category, employment_type, salary_min, salary_max, skills, urgency, verified, status, posted_by, created_at, expires_at"

// Filter narrows job listings. Zero values mean no filtering.
type Filter struct {
	// Search matches title, company, or description case-insensitively.
	Search string
	// Category restricts to one job category.
	Category string
	Limit    int
}

// Repo provides job persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a job repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type jobRow struct {
	ID             uuid.UUID  `db:"id"`
	Title          string     `db:"title"`
	Company        string     `db:"company"`
	Description    string     `db:"description"`
	Location       string     `db:"location"`
	Category       string     `db:"category"`
	EmploymentType string     `db:"employment_type"`
	SalaryMin      *int       `db:"salary_min"`
	SalaryMax      *int       `db:"salary_max"`
	Skills         []string   `db:"skills"`
	Urgency        string     `db:"urgency"`
	Verified       bool       `db:"verified"`
	Status         string     `db:"status"`
	PostedBy       uuid.UUID  `db:"posted_by"`
	CreatedAt      time.Time  `db:"created_at"`
	ExpiresAt      *time.Time `db:"expires_at"`
}

func (r jobRow) toDomain() *domain.Job {
	return &domain.Job{
		ID:             r.ID,
		Title:          r.Title,
		Company:        r.Company,
		Description:    r.Description,
		Location:       r.Location,
		Category:       r.Category,
		EmploymentType: domain.EmploymentType(r.EmploymentType),
		SalaryMin:      r.SalaryMin,
		SalaryMax:      r.SalaryMax,
		Skills:         r.Skills,
		Urgency:        domain.UrgencyLevel(r.Urgency),
		Verified:       r.Verified,
		Status:         domain.ItemStatus(r.Status),
		PostedBy:       r.PostedBy,
		CreatedAt:      r.CreatedAt,
		ExpiresAt:      r.ExpiresAt,
	}
}

// Create inserts a new job listing and returns the persisted record.
func (r *Repo) Create(ctx context.Context, j *domain.Job) (*domain.Job, error) {
	sql, args, err := builder.
		Insert("jobs").
		Columns("title", "company", "description", "location", "category", "employment_type",
			"salary_min", "salary_max", "skills", "urgency", "status", "posted_by", "expires_at").
		Values(j.Title, j.Company, j.Description, j.Location, j.Category, string(j.EmploymentType),
			j.SalaryMin, j.SalaryMax, j.Skills, string(j.Urgency), string(domain.StatusActive), j.PostedBy, j.ExpiresAt).
		Suffix("RETURNING " + jobColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job insert: %w", err)
	}

	var row jobRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "job")
	}
	return row.toDomain(), nil
}

// GetByID returns a job by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	sql, args, err := builder.
		Select(jobColumns).
		From("jobs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job select: %w", err)
	}

	var row jobRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "job")
	}
	return row.toDomain(), nil
}

// List returns active jobs matching the filter, newest first.
func (r *Repo) List(ctx context.Context, f Filter) ([]*domain.Job, error) {
	q := builder.
		Select(jobColumns).
		From("jobs").
		Where(sq.Eq{"status": string(domain.StatusActive)}).
		OrderBy("created_at DESC")

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"company": pattern},
			sq.ILike{"description": pattern},
		})
	}
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job list: %w", err)
	}

	var rows []jobRow
	querier := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "job")
	}

	jobs := make([]*domain.Job, len(rows))
	for i, row := range rows {
		jobs[i] = row.toDomain()
	}
	return jobs, nil
}

// CreateApplication inserts a job application and returns the persisted
// record. The unique (job, user) constraint rejects a second application;
// violations surface as domain.ErrAlreadyExists.
func (r *Repo) CreateApplication(ctx context.Context, a *domain.JobApplication) (*domain.JobApplication, error) {
	sql, args, err := builder.
		Insert("job_applications").
		Columns("job_id", "user_id", "full_name", "email", "phone", "cover_letter").
		Values(a.JobID, a.UserID, a.FullName, a.Email, a.Phone, a.CoverLetter).
		Suffix("RETURNING id, job_id, user_id, full_name, email, phone, cover_letter, status, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build application insert: %w", err)
	}

	var row applicationRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "job_application")
	}
	return row.toDomain(), nil
}

type applicationRow struct {
	ID          uuid.UUID `db:"id"`
	JobID       uuid.UUID `db:"job_id"`
	UserID      uuid.UUID `db:"user_id"`
	FullName    string    `db:"full_name"`
	Email       string    `db:"email"`
	Phone       string    `db:"phone"`
	CoverLetter *string   `db:"cover_letter"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r applicationRow) toDomain() *domain.JobApplication {
	return &domain.JobApplication{
		ID:          r.ID,
		JobID:       r.JobID,
		UserID:      r.UserID,
		FullName:    r.FullName,
		Email:       r.Email,
		Phone:       r.Phone,
		CoverLetter: r.CoverLetter,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

// ListSavedByUser returns the jobs a user has saved, most recently saved
// first.
func (r *Repo) ListSavedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Job, error) {
	sql, args, err := builder.
		Select("j.id, j.title, j.company, j.description, j.location, j.category, j.employment_type, "+
			"j.salary_min, j.salary_max, j.skills, j.urgency, j.verified, j.status, j.posted_by, j.created_at, j.expires_at").
		From("saved_jobs s").
		Join("jobs j ON j.id = s.job_id").
		Where(sq.Eq{"s.user_id": userID}).
		OrderBy("s.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build saved jobs list: %w", err)
	}

	var rows []jobRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "saved_jobs")
	}

	jobs := make([]*domain.Job, len(rows))
	for i, row := range rows {
		jobs[i] = row.toDomain()
	}
	return jobs, nil
}
