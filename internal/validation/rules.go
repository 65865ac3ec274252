// Package validation holds the two enforcement points for question document
// invariants: the advisory draft validator that gates the editor's save
// action, and the authoritative persist validator that runs inside the
// persistence boundary. Both evaluate the single rule table below, so they
// cannot drift apart.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/saitama-on/AssessmentAssist/internal/model"
)

// Violation messages. Shared verbatim by both validators so a draft error
// always names the same invariant the persistence gate would report.
const (
	MsgStemRequired       = "Question stem is required"
	MsgObjectiveRequired  = "Learning objective is required for summative questions"
	MsgBloomsRequired     = "Bloom's level is required for summative questions"
	MsgExactlyOneCorrect  = "Question must have exactly one correct option"
	MsgOptionTextRequired = "Every option must have text"
	MsgFeedbackRequired   = "Every option must have feedback for formative questions"
	MsgMinOptions         = "Multiple-choice questions must have at least 2 options"
	MsgItemTextRequired   = "Every item must have text"
	MsgMinItems           = "Ordering questions must have at least 2 items"
	MsgSequentialOrder    = "Item order values must form the sequence 0..n-1"
	MsgMinZones           = "Hotspot questions must have at least one zone"
	MsgZoneVertices       = "Every hotspot zone must have at least 3 points"
	MsgImageURLFormat     = "Image URL must start with http:// or https://"
)

var imageURLPattern = regexp.MustCompile(`^https?://.+`)

// Rule is one invariant over a question document.
type Rule struct {
	// Applies reports whether the rule is applicable to the document.
	// A nil predicate means the rule always applies.
	Applies func(q *model.Question) bool
	// Check returns the violation message, or "" when the rule holds.
	Check func(q *model.Question) string
}

// Predicates over the document, used as rule applicability guards.
func isSummative(q *model.Question) bool { return q.Purpose == model.PurposeSummative }
func isMCQ(q *model.Question) bool       { return q.Type == model.QuestionTypeMCQ }
func isOrdering(q *model.Question) bool  { return q.Type == model.QuestionTypeOrdering }
func isHotspot(q *model.Question) bool   { return q.Type == model.QuestionTypeHotspot }
func isFormativeMCQ(q *model.Question) bool {
	return isMCQ(q) && q.Purpose == model.PurposeFormative
}

// rules is the shared invariant table. Order is the error-reporting order:
// stem, purpose-conditional fields, then the variant blocks.
//
// Guard placement mirrors the persist schema exactly. Well-formedness checks
// over whatever payload is present (option/item text, zone vertex minimum,
// imageUrl format) run unguarded, because the schema validates every present
// sub-element and the imageUrl pattern regardless of type. Only the set-level
// and minimum-count rules are scoped to the matching variant, the same way
// the schema scopes them with if/then. A stray out-of-variant payload on a
// document therefore draws the same verdict from both validators.
var rules = []Rule{
	{nil, checkStem},
	{isSummative, checkLearningObjective},
	{isSummative, checkBloomsLevel},

	{isMCQ, checkExactlyOneCorrect},
	{nil, checkOptionText},
	{isFormativeMCQ, checkOptionFeedback},
	{isMCQ, checkMinOptions},

	{nil, checkItemText},
	{isOrdering, checkMinItems},
	{isOrdering, checkSequentialOrder},

	{isHotspot, checkMinZones},
	{nil, checkZoneVertices},
	{nil, checkImageURL},
}

// Rules returns the shared invariant table in evaluation order.
func Rules() []Rule {
	return rules
}

func checkStem(q *model.Question) string {
	if strings.TrimSpace(q.Stem) == "" {
		return MsgStemRequired
	}
	return ""
}

func checkLearningObjective(q *model.Question) string {
	if strings.TrimSpace(q.LearningObjective) == "" {
		return MsgObjectiveRequired
	}
	return ""
}

func checkBloomsLevel(q *model.Question) string {
	if q.BloomsLevel == "" {
		return MsgBloomsRequired
	}
	return ""
}

// checkExactlyOneCorrect is a set-level invariant: the per-option fields
// cannot express it, the whole option list has to be counted.
func checkExactlyOneCorrect(q *model.Question) string {
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return MsgExactlyOneCorrect
	}
	return ""
}

func checkOptionText(q *model.Question) string {
	for _, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return MsgOptionTextRequired
		}
	}
	return ""
}

// checkOptionFeedback resolves the parent's purpose through the rule's
// applicability guard; the option alone cannot decide whether feedback is
// required.
func checkOptionFeedback(q *model.Question) string {
	for _, opt := range q.Options {
		if strings.TrimSpace(opt.Feedback) == "" {
			return MsgFeedbackRequired
		}
	}
	return ""
}

func checkMinOptions(q *model.Question) string {
	if len(q.Options) < 2 {
		return MsgMinOptions
	}
	return ""
}

func checkItemText(q *model.Question) string {
	for _, item := range q.Items {
		if strings.TrimSpace(item.Text) == "" {
			return MsgItemTextRequired
		}
	}
	return ""
}

func checkMinItems(q *model.Question) string {
	if len(q.Items) < 2 {
		return MsgMinItems
	}
	return ""
}

// checkSequentialOrder requires the multiset of order values, sorted
// ascending, to be exactly 0..n-1. Storage order is irrelevant; {0,2,1}
// passes, {1,2,3}, {0,0,1} and {0,2} do not.
func checkSequentialOrder(q *model.Question) string {
	orders := make([]int, len(q.Items))
	for i, item := range q.Items {
		orders[i] = item.Order
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i {
			return MsgSequentialOrder
		}
	}
	return ""
}

func checkMinZones(q *model.Question) string {
	if len(q.Zones) < 1 {
		return MsgMinZones
	}
	return ""
}

// A closed polygon needs at least 3 vertices.
func checkZoneVertices(q *model.Question) string {
	for _, z := range q.Zones {
		if len(z.Coordinates) < 3 {
			return MsgZoneVertices
		}
	}
	return ""
}

// checkImageURL accepts an absent/empty URL on any document; only a present,
// malformed one is a violation.
func checkImageURL(q *model.Question) string {
	if q.ImageURL == "" {
		return ""
	}
	if !imageURLPattern.MatchString(q.ImageURL) {
		return MsgImageURLFormat
	}
	return ""
}

// Describe renders a short diagnostic for logging, e.g. "mcq/summative".
func Describe(q *model.Question) string {
	return fmt.Sprintf("%s/%s", q.Type, q.Purpose)
}
