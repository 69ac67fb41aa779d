// Package membership implements the persistence layer shared by every
// toggle relationship in the portal: poll votes, problem upvotes, event
// RSVPs, saved jobs, volunteer sign-ups, and drive registrations. All seven
// tables share the same shape, a unique (subject, user) pair with at most
// one value column, so a single table-spec-driven repo serves them all.
package membership

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/neighborly/portal-backend/internal/adapter/postgres"
	"github.com/neighborly/portal-backend/internal/domain"
)

// tableSpec describes the join table backing one membership kind.
type tableSpec struct {
	table      string
	subjectCol string
	// valueCol is the optional payload column: option_index for votes,
	// rsvp_type for RSVPs, role for volunteers. Empty for plain pairs.
	valueCol string
	// intValue marks valueCol as an integer column (poll option index).
	intValue bool
}

var specs = map[domain.MembershipKind]tableSpec{
	domain.KindPollVote:         {table: "poll_votes", subjectCol: "poll_id", valueCol: "option_index", intValue: true},
	domain.KindUpvote:           {table: "problem_upvotes", subjectCol: "problem_id"},
	domain.KindRSVP:             {table: "event_rsvps", subjectCol: "event_id", valueCol: "rsvp_type"},
	domain.KindSavedJob:         {table: "saved_jobs", subjectCol: "job_id"},
	domain.KindEventVolunteer:   {table: "event_volunteers", subjectCol: "event_id", valueCol: "volunteer_role"},
	domain.KindKitchenVolunteer: {table: "kitchen_volunteers", subjectCol: "kitchen_id", valueCol: "role"},
	// Inserts for this kind go through the green repo, which carries the
	// registration contact columns; reads and deletes come through here.
	domain.KindDriveRegistration: {table: "drive_registrations", subjectCol: "drive_id"},
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides membership persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a membership repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func spec(kind domain.MembershipKind) (tableSpec, error) {
	s, ok := specs[kind]
	if !ok {
		return tableSpec{}, fmt.Errorf("%w: unknown membership kind %q", domain.ErrValidation, kind)
	}
	return s, nil
}

// membershipRow is the scan target shared by all membership tables.
type membershipRow struct {
	SubjectID   uuid.UUID `db:"subject_id"`
	UserID      uuid.UUID `db:"user_id"`
	OptionIndex *int      `db:"option_index"`
	Value       *string   `db:"value"`
}

func (r membershipRow) toDomain(kind domain.MembershipKind) *domain.Membership {
	return &domain.Membership{
		Kind:        kind,
		SubjectID:   r.SubjectID,
		UserID:      r.UserID,
		OptionIndex: r.OptionIndex,
		Value:       r.Value,
	}
}

// Get returns the membership record for the (subject, user) pair, or
// domain.ErrNotFound when the user has no relationship to the subject.
func (r *Repo) Get(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error) {
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}

	cols := []string{s.subjectCol + " AS subject_id", "user_id"}
	switch {
	case s.valueCol != "" && s.intValue:
		cols = append(cols, s.valueCol+" AS option_index", "NULL AS value")
	case s.valueCol != "":
		cols = append(cols, "NULL::int AS option_index", s.valueCol+" AS value")
	default:
		cols = append(cols, "NULL::int AS option_index", "NULL AS value")
	}

	sql, args, err := builder.
		Select(cols...).
		From(s.table).
		Where(sq.Eq{s.subjectCol: subjectID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build membership select: %w", err)
	}

	var row membershipRow
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, string(kind))
	}
	return row.toDomain(kind), nil
}

// Insert creates the membership record. The store's unique (subject, user)
// constraint guards against concurrent duplicates; violations surface as
// domain.ErrAlreadyExists.
func (r *Repo) Insert(ctx context.Context, m *domain.Membership) error {
	s, err := spec(m.Kind)
	if err != nil {
		return err
	}

	ins := builder.Insert(s.table)
	cols := []string{s.subjectCol, "user_id"}
	values := []any{m.SubjectID, m.UserID}
	if s.valueCol != "" {
		cols = append(cols, s.valueCol)
		if s.intValue {
			values = append(values, m.OptionIndex)
		} else {
			values = append(values, m.Value)
		}
	}

	sql, args, err := ins.Columns(cols...).Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("build membership insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, string(m.Kind))
	}
	return nil
}

// UpdateValue replaces the value column in place. Only the RSVP kind uses
// this path; poll votes are append-only and never reach it.
func (r *Repo) UpdateValue(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID, value string) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}
	if s.valueCol == "" || s.intValue {
		return fmt.Errorf("%w: kind %q has no replaceable value", domain.ErrValidation, kind)
	}

	sql, args, err := builder.
		Update(s.table).
		Set(s.valueCol, value).
		Where(sq.Eq{s.subjectCol: subjectID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build membership update: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, string(kind))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", kind, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the membership record (toggle off).
func (r *Repo) Delete(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}

	sql, args, err := builder.
		Delete(s.table).
		Where(sq.Eq{s.subjectCol: subjectID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build membership delete: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, string(kind))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", kind, domain.ErrNotFound)
	}
	return nil
}

// ListSubjects returns the subject IDs a user has a relationship with, used
// to render toggle button state across a list (saved jobs, upvoted
// problems). Returns an empty slice, not nil, when there are none.
func (r *Repo) ListSubjects(ctx context.Context, kind domain.MembershipKind, userID uuid.UUID) ([]uuid.UUID, error) {
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}

	sql, args, err := builder.
		Select(s.subjectCol).
		From(s.table).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build membership list: %w", err)
	}

	ids := []uuid.UUID{}
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := pgxscan.Select(ctx, q, &ids, sql, args...); err != nil {
		return nil, postgres.MapError(err, string(kind))
	}
	return ids, nil
}
