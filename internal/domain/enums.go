package domain

import "fmt"

// ItemStatus is the shared lifecycle status for listings (polls, jobs,
// drives, lost-and-found posts).
type ItemStatus string

const (
	StatusActive   ItemStatus = "active"
	StatusResolved ItemStatus = "resolved"
	StatusExpired  ItemStatus = "expired"
	StatusClosed   ItemStatus = "closed"
)

// ParseItemStatus validates a raw status string.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch ItemStatus(s) {
	case StatusActive, StatusResolved, StatusExpired, StatusClosed:
		return ItemStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// RSVPType is the attendance intent for an event. The two values are
// mutually exclusive per (event, user).
type RSVPType string

const (
	RSVPGoing      RSVPType = "going"
	RSVPInterested RSVPType = "interested"
)

// ParseRSVPType validates a raw RSVP value.
func ParseRSVPType(s string) (RSVPType, error) {
	switch RSVPType(s) {
	case RSVPGoing, RSVPInterested:
		return RSVPType(s), nil
	}
	return "", fmt.Errorf("%w: unknown rsvp type %q", ErrValidation, s)
}

// EmploymentType mirrors the jobs.employment_type column.
type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "full_time"
	EmploymentPartTime  EmploymentType = "part_time"
	EmploymentContract  EmploymentType = "contract"
	EmploymentVolunteer EmploymentType = "volunteer"
)

// ParseEmploymentType validates a raw employment type.
func ParseEmploymentType(s string) (EmploymentType, error) {
	switch EmploymentType(s) {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentVolunteer:
		return EmploymentType(s), nil
	}
	return "", fmt.Errorf("%w: unknown employment type %q", ErrValidation, s)
}

// UrgencyLevel mirrors the urgency_level column on jobs and food requests.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// ParseUrgency validates a raw urgency level. An empty string defaults to medium.
func ParseUrgency(s string) (UrgencyLevel, error) {
	if s == "" {
		return UrgencyMedium, nil
	}
	switch UrgencyLevel(s) {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return UrgencyLevel(s), nil
	}
	return "", fmt.Errorf("%w: unknown urgency %q", ErrValidation, s)
}

// LostFoundType distinguishes lost reports from found reports.
type LostFoundType string

const (
	ItemLost  LostFoundType = "lost"
	ItemFound LostFoundType = "found"
)

// ParseLostFoundType validates a raw lost/found type.
func ParseLostFoundType(s string) (LostFoundType, error) {
	switch LostFoundType(s) {
	case ItemLost, ItemFound:
		return LostFoundType(s), nil
	}
	return "", fmt.Errorf("%w: unknown item type %q", ErrValidation, s)
}

// PickupStatus is the lifecycle of a waste-pickup request.
type PickupStatus string

const (
	PickupPending   PickupStatus = "pending"
	PickupScheduled PickupStatus = "scheduled"
	PickupCompleted PickupStatus = "completed"
	PickupCancelled PickupStatus = "cancelled"
)

// DonationStatus is the lifecycle of a food donation or request.
type DonationStatus string

const (
	DonationOpen      DonationStatus = "open"
	DonationAssigned  DonationStatus = "assigned"
	DonationCollected DonationStatus = "collected"
	DonationExpired   DonationStatus = "expired"
)
