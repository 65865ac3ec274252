package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/saitama-on/AssessmentAssist/internal/model"
	"github.com/saitama-on/AssessmentAssist/internal/validation"
)

// fakeStore records saves and can be primed to fail.
type fakeStore struct {
	saved []*model.Question
	err   error
}

func (f *fakeStore) Save(ctx context.Context, q *model.Question) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, q)
	return nil
}

func newTestEditor() (*EditorService, *fakeStore) {
	store := &fakeStore{}
	return NewEditorService(store, zerolog.Nop()), store
}

func completeMCQRequest() *model.QuestionDocumentRequest {
	return &model.QuestionDocumentRequest{
		Type:    "mcq",
		Purpose: "formative",
		Stem:    "Which gas do plants absorb during photosynthesis?",
		Options: []model.Option{
			{ID: uuid.New(), Text: "Carbon dioxide", IsCorrect: true, Feedback: "Right, CO2 is fixed into sugar."},
			{ID: uuid.New(), Text: "Oxygen", Feedback: "Oxygen is released, not absorbed."},
		},
	}
}

func TestEditorCreate_Stubs(t *testing.T) {
	svc, _ := newTestEditor()

	mcq := svc.Create(1, model.QuestionTypeMCQ)
	if len(mcq.Options) != 4 {
		t.Fatalf("expected 4 stub options, got %d", len(mcq.Options))
	}
	correct := 0
	for _, o := range mcq.Options {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		t.Fatalf("expected exactly one pre-marked correct option, got %d", correct)
	}

	ord := svc.Create(1, model.QuestionTypeOrdering)
	if len(ord.Items) != 3 {
		t.Fatalf("expected 3 stub items, got %d", len(ord.Items))
	}
	for i, item := range ord.Items {
		if item.Order != i {
			t.Fatalf("stub item %d has order %d", i, item.Order)
		}
	}

	hs := svc.Create(1, model.QuestionTypeHotspot)
	if len(hs.Zones) != 2 {
		t.Fatalf("expected 2 stub zones, got %d", len(hs.Zones))
	}

	for _, q := range []*model.Question{mcq, ord, hs} {
		if q.Purpose != model.PurposeFormative {
			t.Fatalf("new draft should start formative, got %s", q.Purpose)
		}
	}

	// A fresh draft has an empty stem, so it starts invalid on purpose.
	result, err := svc.Validate(mcq.ID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.IsValid {
		t.Fatal("fresh draft should not validate clean")
	}
}

func TestEditorList_InsertionOrder(t *testing.T) {
	svc, _ := newTestEditor()

	a := svc.Create(1, model.QuestionTypeMCQ)
	b := svc.Create(1, model.QuestionTypeOrdering)
	c := svc.Create(1, model.QuestionTypeHotspot)

	if err := svc.Remove(b.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	drafts := svc.List()
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].ID != a.ID || drafts[1].ID != c.ID {
		t.Fatal("drafts not in insertion order after removal")
	}
}

func TestEditorGet_NotFound(t *testing.T) {
	svc, _ := newTestEditor()

	if _, err := svc.Get(uuid.New()); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
	if err := svc.Remove(uuid.New()); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
	if _, err := svc.Duplicate(uuid.New()); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestEditorUpdate_PreservesIdentity(t *testing.T) {
	svc, _ := newTestEditor()

	draft := svc.Create(1, model.QuestionTypeMCQ)
	updated, err := svc.Update(draft.ID, completeMCQRequest())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ID != draft.ID {
		t.Fatal("update changed the draft id")
	}
	if updated.AuthorID != draft.AuthorID {
		t.Fatal("update changed the author")
	}
	if !updated.CreatedAt.Equal(draft.CreatedAt) {
		t.Fatal("update changed the creation time")
	}
	if len(updated.Options) != 2 {
		t.Fatalf("expected payload replaced, got %d options", len(updated.Options))
	}

	result, err := svc.Validate(draft.ID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("complete draft should validate clean, got %v", result.Errors)
	}
}

func TestEditorUpdate_AcceptsInvalidContent(t *testing.T) {
	svc, _ := newTestEditor()

	draft := svc.Create(1, model.QuestionTypeMCQ)
	req := completeMCQRequest()
	req.Stem = ""
	req.Options[0].IsCorrect = false

	if _, err := svc.Update(draft.ID, req); err != nil {
		t.Fatalf("update of invalid content should succeed, got %v", err)
	}

	result, _ := svc.Validate(draft.ID)
	if result.IsValid {
		t.Fatal("draft should report its violations")
	}
}

func TestEditorDuplicate(t *testing.T) {
	svc, _ := newTestEditor()

	draft := svc.Create(7, model.QuestionTypeMCQ)
	if _, err := svc.Update(draft.ID, completeMCQRequest()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	dup, err := svc.Duplicate(draft.ID)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}

	if dup.ID == draft.ID {
		t.Fatal("duplicate must get a fresh id")
	}
	if dup.Stem != "Which gas do plants absorb during photosynthesis?"+" (Copy)" {
		t.Fatalf("unexpected duplicate stem %q", dup.Stem)
	}
	if dup.AuthorID != 7 {
		t.Fatalf("duplicate lost the author, got %d", dup.AuthorID)
	}

	// The copy validates exactly as the original does.
	origResult, _ := svc.Validate(draft.ID)
	dupResult, _ := svc.Validate(dup.ID)
	if origResult.IsValid != dupResult.IsValid || len(origResult.Errors) != len(dupResult.Errors) {
		t.Fatalf("duplicate validates differently: %v vs %v", origResult, dupResult)
	}

	if len(svc.List()) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(svc.List()))
	}
}

func TestEditorDuplicate_IsDeepCopy(t *testing.T) {
	svc, _ := newTestEditor()

	draft := svc.Create(1, model.QuestionTypeMCQ)
	if _, err := svc.Update(draft.ID, completeMCQRequest()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	dup, err := svc.Duplicate(draft.ID)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}

	// Break the copy; the original must stay valid.
	req := completeMCQRequest()
	req.Options[0].IsCorrect = false
	if _, err := svc.Update(dup.ID, req); err != nil {
		t.Fatalf("Update: %v", err)
	}

	origResult, _ := svc.Validate(draft.ID)
	if !origResult.IsValid {
		t.Fatalf("mutating the copy leaked into the original: %v", origResult.Errors)
	}
}

func TestEditorSave_RefusesInvalidDraft(t *testing.T) {
	svc, store := newTestEditor()

	draft := svc.Create(1, model.QuestionTypeMCQ)

	_, result, err := svc.Save(context.Background(), draft.ID)
	if !errors.Is(err, ErrDraftInvalid) {
		t.Fatalf("expected ErrDraftInvalid, got %v", err)
	}
	if result.IsValid || len(result.Errors) == 0 {
		t.Fatalf("refusal should carry the violation list, got %v", result)
	}
	if len(store.saved) != 0 {
		t.Fatal("store must not be touched for an invalid draft")
	}
}

func TestEditorSave_PersistsValidDraft(t *testing.T) {
	svc, store := newTestEditor()

	draft := svc.Create(1, model.QuestionTypeMCQ)
	if _, err := svc.Update(draft.ID, completeMCQRequest()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	saved, result, err := svc.Save(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected clean result, got %v", result.Errors)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one store write, got %d", len(store.saved))
	}
	if store.saved[0].ID != draft.ID || saved.ID != draft.ID {
		t.Fatal("saved document lost the draft id")
	}
}

func TestEditorSave_PropagatesStoreError(t *testing.T) {
	svc, store := newTestEditor()
	store.err = errors.New("connection refused")

	draft := svc.Create(1, model.QuestionTypeMCQ)
	if _, err := svc.Update(draft.ID, completeMCQRequest()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, _, err := svc.Save(context.Background(), draft.ID); !errors.Is(err, store.err) {
		t.Fatalf("expected store error, got %v", err)
	}

	// The draft survives a failed save and can be retried.
	if _, err := svc.Get(draft.ID); err != nil {
		t.Fatalf("draft lost after failed save: %v", err)
	}
	store.err = nil
	if _, _, err := svc.Save(context.Background(), draft.ID); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

// Save hands the store a clone, so concurrent edits cannot race the write.
func TestEditorSave_StoreGetsClone(t *testing.T) {
	svc, store := newTestEditor()

	draft := svc.Create(1, model.QuestionTypeMCQ)
	if _, err := svc.Update(draft.ID, completeMCQRequest()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, _, err := svc.Save(context.Background(), draft.ID); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store.saved[0].Options[0].Text = "mutated"

	current, err := svc.Get(draft.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.Options[0].Text == "mutated" {
		t.Fatal("store mutation leaked into the draft")
	}
}

func TestEditorSave_DraftInvalidIsNotPersisted(t *testing.T) {
	svc, store := newTestEditor()

	draft := svc.Create(1, model.QuestionTypeOrdering)
	req := &model.QuestionDocumentRequest{
		Type:    "ordering",
		Purpose: "formative",
		Stem:    "Order the layers of the atmosphere.",
		Items: []model.OrderItem{
			{ID: uuid.New(), Text: "Troposphere", Order: 1},
			{ID: uuid.New(), Text: "Stratosphere", Order: 2},
			{ID: uuid.New(), Text: "Mesosphere", Order: 3},
		},
	}
	if _, err := svc.Update(draft.ID, req); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, result, err := svc.Save(context.Background(), draft.ID)
	if !errors.Is(err, ErrDraftInvalid) {
		t.Fatalf("expected ErrDraftInvalid, got %v", err)
	}
	found := false
	for _, e := range result.Errors {
		if e == validation.MsgSequentialOrder {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sequence violation in %v", result.Errors)
	}
	if len(store.saved) != 0 {
		t.Fatal("store must not be touched")
	}
}
