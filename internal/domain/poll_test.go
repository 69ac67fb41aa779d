package domain

import (
	"errors"
	"testing"
)

func TestDecodePollOptions_Structured(t *testing.T) {
	t.Parallel()

	raw := []byte(`[{"index":0,"text":"More benches","votes":4},{"index":1,"text":"New playground","votes":9}]`)

	options, err := DecodePollOptions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("options: got %d, want 2", len(options))
	}
	if options[1].Text != "New playground" || options[1].Votes != 9 {
		t.Errorf("option 1: got %+v", options[1])
	}
	if options[0].Index != 0 || options[1].Index != 1 {
		t.Errorf("indexes not normalized: %+v", options)
	}
}

func TestDecodePollOptions_LegacyStrings(t *testing.T) {
	t.Parallel()

	options, err := DecodePollOptions([]byte(`["A","B","C"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 3 {
		t.Fatalf("options: got %d, want 3", len(options))
	}
	if options[2].Index != 2 || options[2].Text != "C" || options[2].Votes != 0 {
		t.Errorf("option 2: got %+v", options[2])
	}
}

func TestDecodePollOptions_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not json", `{"a":1}`} {
		if _, err := DecodePollOptions([]byte(raw)); !errors.Is(err, ErrValidation) {
			t.Errorf("DecodePollOptions(%q): got %v, want ErrValidation", raw, err)
		}
	}
}

func TestPoll_HasOption(t *testing.T) {
	t.Parallel()

	p := &Poll{Options: []PollOption{{Index: 0, Text: "A"}, {Index: 1, Text: "B"}}}
	if !p.HasOption(1) {
		t.Error("HasOption(1) = false, want true")
	}
	if p.HasOption(2) {
		t.Error("HasOption(2) = true, want false")
	}
}
