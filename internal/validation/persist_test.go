package validation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/saitama-on/AssessmentAssist/internal/model"
)

func TestValidateForPersist_AcceptsValidDocuments(t *testing.T) {
	tests := []struct {
		name string
		q    *model.Question
	}{
		{"formative mcq", validMCQ()},
		{"summative mcq", validSummativeMCQ()},
		{"ordering", validOrdering()},
		{"hotspot", validHotspot()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateForPersist(tt.q); err != nil {
				t.Fatalf("expected nil, got %v", err)
			}
		})
	}
}

func TestValidateForPersist_StructuralRejections(t *testing.T) {
	tests := []struct {
		name string
		q    func() *model.Question
	}{
		{
			"blank stem",
			func() *model.Question { q := validMCQ(); q.Stem = "  "; return q },
		},
		{
			"summative without objective",
			func() *model.Question { q := validSummativeMCQ(); q.LearningObjective = ""; return q },
		},
		{
			"summative without blooms level",
			func() *model.Question { q := validSummativeMCQ(); q.BloomsLevel = ""; return q },
		},
		{
			"single option",
			func() *model.Question { q := validMCQ(); q.Options = q.Options[:1]; return q },
		},
		{
			"formative option without feedback",
			func() *model.Question { q := validMCQ(); q.Options[1].Feedback = ""; return q },
		},
		{
			"single item",
			func() *model.Question { q := validOrdering(); q.Items = q.Items[:1]; return q },
		},
		{
			"no zones",
			func() *model.Question { q := validHotspot(); q.Zones = nil; return q },
		},
		{
			"two point zone",
			func() *model.Question {
				q := validHotspot()
				q.Zones[0].Coordinates = q.Zones[0].Coordinates[:2]
				return q
			},
		},
		{
			"malformed image url",
			func() *model.Question { q := validHotspot(); q.ImageURL = "cell.png"; return q },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForPersist(tt.q())
			if err == nil {
				t.Fatal("expected rejection, got nil")
			}
			var se *StructuralError
			if !errors.As(err, &se) {
				t.Fatalf("expected StructuralError, got %T: %v", err, err)
			}
		})
	}
}

func TestValidateForPersist_InvariantRejections(t *testing.T) {
	tests := []struct {
		name string
		q    func() *model.Question
		want string
	}{
		{
			"no correct option",
			func() *model.Question { q := validMCQ(); q.Options[0].IsCorrect = false; return q },
			MsgExactlyOneCorrect,
		},
		{
			"two correct options",
			func() *model.Question { q := validMCQ(); q.Options[1].IsCorrect = true; return q },
			MsgExactlyOneCorrect,
		},
		{
			"orders offset by one",
			func() *model.Question {
				q := validOrdering()
				for i := range q.Items {
					q.Items[i].Order = i + 1
				}
				return q
			},
			MsgSequentialOrder,
		},
		{
			"duplicate orders",
			func() *model.Question {
				q := validOrdering()
				q.Items[1].Order = 0
				return q
			},
			MsgSequentialOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForPersist(tt.q())
			if err == nil {
				t.Fatal("expected rejection, got nil")
			}
			var ie *InvariantError
			if !errors.As(err, &ie) {
				t.Fatalf("expected InvariantError, got %T: %v", err, err)
			}
			if ie.Message != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, ie.Message)
			}
		})
	}
}

// Both validators must agree on every document: a draft the editor reports
// clean is never rejected at the persistence gate, and a draft it flags is
// never silently committed.
func TestValidatorsAgree(t *testing.T) {
	type mutation struct {
		name   string
		mutate func(q *model.Question)
	}

	corpus := []struct {
		name      string
		base      func() *model.Question
		mutations []mutation
	}{
		{
			"mcq", validMCQ,
			[]mutation{
				{"unchanged", func(q *model.Question) {}},
				{"blank stem", func(q *model.Question) { q.Stem = " " }},
				{"no correct", func(q *model.Question) { q.Options[0].IsCorrect = false }},
				{"two correct", func(q *model.Question) { q.Options[1].IsCorrect = true }},
				{"blank option text", func(q *model.Question) { q.Options[2].Text = "" }},
				{"missing feedback", func(q *model.Question) { q.Options[0].Feedback = "" }},
				{"single option", func(q *model.Question) { q.Options = q.Options[:1] }},
				{"malformed image url", func(q *model.Question) { q.ImageURL = "not-a-url" }},
				{"well-formed image url", func(q *model.Question) { q.ImageURL = "https://example.com/a.png" }},
				{"stray two point zone", func(q *model.Question) {
					q.Zones = []model.Zone{{ID: uuid.New(), Coordinates: []model.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}}
				}},
				{"stray well-formed zone", func(q *model.Question) {
					q.Zones = []model.Zone{{ID: uuid.New(), Coordinates: []model.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}}}
				}},
				{"stray blank item text", func(q *model.Question) {
					q.Items = []model.OrderItem{{ID: uuid.New(), Text: " ", Order: 0}}
				}},
			},
		},
		{
			"summative mcq", validSummativeMCQ,
			[]mutation{
				{"unchanged", func(q *model.Question) {}},
				{"no objective", func(q *model.Question) { q.LearningObjective = "" }},
				{"no blooms level", func(q *model.Question) { q.BloomsLevel = "" }},
				{"no feedback stays valid", func(q *model.Question) {
					for i := range q.Options {
						q.Options[i].Feedback = ""
					}
				}},
			},
		},
		{
			"ordering", validOrdering,
			[]mutation{
				{"unchanged", func(q *model.Question) {}},
				{"permuted orders", func(q *model.Question) { q.Items[1].Order, q.Items[2].Order = 2, 1 }},
				{"offset orders", func(q *model.Question) {
					for i := range q.Items {
						q.Items[i].Order = i + 1
					}
				}},
				{"duplicate orders", func(q *model.Question) { q.Items[1].Order = 0 }},
				{"blank item text", func(q *model.Question) { q.Items[0].Text = "" }},
				{"single item", func(q *model.Question) { q.Items = q.Items[:1] }},
				{"malformed image url", func(q *model.Question) { q.ImageURL = "example.com/a.png" }},
				{"stray blank option text", func(q *model.Question) {
					q.Options = []model.Option{{ID: uuid.New(), Text: ""}}
				}},
				{"stray well-formed option", func(q *model.Question) {
					q.Options = []model.Option{{ID: uuid.New(), Text: "Stray"}}
				}},
			},
		},
		{
			"hotspot", validHotspot,
			[]mutation{
				{"unchanged", func(q *model.Question) {}},
				{"no zones", func(q *model.Question) { q.Zones = nil }},
				{"two point zone", func(q *model.Question) { q.Zones[0].Coordinates = q.Zones[0].Coordinates[:2] }},
				{"relative image url", func(q *model.Question) { q.ImageURL = "/images/cell.png" }},
				{"absent image url", func(q *model.Question) { q.ImageURL = "" }},
				{"stray blank item text", func(q *model.Question) {
					q.Items = []model.OrderItem{{ID: uuid.New(), Text: "", Order: 0}}
				}},
			},
		},
	}

	for _, group := range corpus {
		for _, m := range group.mutations {
			t.Run(group.name+"/"+m.name, func(t *testing.T) {
				q := group.base()
				m.mutate(q)

				draftOK := ValidateDraft(q).IsValid
				persistOK := ValidateForPersist(q) == nil

				if draftOK != persistOK {
					t.Fatalf("validators disagree (%s): draft=%t persist=%t",
						Describe(q), draftOK, persistOK)
				}
			})
		}
	}
}
