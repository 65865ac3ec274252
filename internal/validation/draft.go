package validation

import "github.com/saitama-on/AssessmentAssist/internal/model"

// Result is the draft validator's verdict on an in-memory question.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateDraft evaluates every applicable rule against the question and
// accumulates all violations in table order. It never stops early, never
// panics, and has no side effects, so the editor can call it on every
// keystroke. Two calls on the same unmodified document yield identical
// results.
func ValidateDraft(q *model.Question) Result {
	errs := []string{}
	for _, rule := range Rules() {
		if rule.Applies != nil && !rule.Applies(q) {
			continue
		}
		if msg := rule.Check(q); msg != "" {
			errs = append(errs, msg)
		}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}
