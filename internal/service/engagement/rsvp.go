package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
)

// RSVP reconciles a user's attendance intent for an event. Unlike poll
// votes, an RSVP is mutable: repeating the same intent removes the record
// (toggle off), a different intent replaces the stored value in place.
// Exactly one write happens per call; the event's rsvp_count is re-read
// afterwards, never adjusted locally.
func (s *Service) RSVP(ctx context.Context, input RSVPInput) (*RSVPResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseRSVPType(string(input.Type)); err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.StatusActive {
		return nil, fmt.Errorf("event %s is %s: %w", event.ID, event.Status, domain.ErrConflict)
	}

	existing, err := s.memberships.Get(ctx, domain.KindRSVP, input.EventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}

	switch {
	case existing == nil:
		value := string(input.Type)
		m := &domain.Membership{
			Kind:      domain.KindRSVP,
			SubjectID: input.EventID,
			UserID:    userID,
			Value:     &value,
		}
		if err := s.memberships.Insert(ctx, m); err != nil {
			return nil, fmt.Errorf("insert rsvp: %w", err)
		}
		s.award(ctx, userID, "event_rsvp", pointsRSVP)
		s.log.InfoContext(ctx, "rsvp created", "event_id", input.EventID, "type", input.Type)

	case existing.Value != nil && domain.RSVPType(*existing.Value) == input.Type:
		if err := s.memberships.Delete(ctx, domain.KindRSVP, input.EventID, userID); err != nil {
			return nil, fmt.Errorf("delete rsvp: %w", err)
		}
		s.log.InfoContext(ctx, "rsvp removed", "event_id", input.EventID)

	default:
		if err := s.memberships.UpdateValue(ctx, domain.KindRSVP, input.EventID, userID, string(input.Type)); err != nil {
			return nil, fmt.Errorf("update rsvp: %w", err)
		}
		s.log.InfoContext(ctx, "rsvp changed", "event_id", input.EventID, "type", input.Type)
	}

	return s.rsvpSnapshot(ctx, input.EventID, userID)
}

func (s *Service) rsvpSnapshot(ctx context.Context, eventID, userID uuid.UUID) (*RSVPResult, error) {
	membership, err := s.memberships.Get(ctx, domain.KindRSVP, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("reread rsvp: %w", err)
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("reread event: %w", err)
	}
	return &RSVPResult{Event: event, Membership: membership, State: membership.State()}, nil
}
