package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PollOption is one choice on a poll. Options are stored as a JSON array in
// the polls.options column; they are decoded and validated once at the store
// boundary so consumers never re-parse free-form data.
type PollOption struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Poll is a single-choice community poll. TotalVotes is a server-maintained
// aggregate and must be re-read after writes, never incremented locally.
type Poll struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Category    string
	Options     []PollOption
	Status      ItemStatus
	TotalVotes  int
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	ExpiresAt   *time.Time
}

// HasOption reports whether the given option index exists on the poll.
func (p *Poll) HasOption(index int) bool {
	for _, o := range p.Options {
		if o.Index == index {
			return true
		}
	}
	return false
}

// DecodePollOptions decodes the raw JSON options column into typed options.
// It accepts both the structured form [{"index":0,"text":"A"}] and the legacy
// bare-string form ["A","B"] found in older rows.
func DecodePollOptions(raw []byte) ([]PollOption, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: poll options empty", ErrValidation)
	}

	var structured []PollOption
	if err := json.Unmarshal(raw, &structured); err == nil && len(structured) > 0 && structured[0].Text != "" {
		for i := range structured {
			structured[i].Index = i
		}
		return structured, nil
	}

	var plain []string
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, fmt.Errorf("%w: poll options: %v", ErrValidation, err)
	}
	options := make([]PollOption, len(plain))
	for i, text := range plain {
		options[i] = PollOption{Index: i, Text: text}
	}
	return options, nil
}

// EncodePollOptions encodes typed options back to the JSON column form.
func EncodePollOptions(options []PollOption) ([]byte, error) {
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode poll options: %w", err)
	}
	return raw, nil
}
