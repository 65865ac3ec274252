package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/saitama-on/AssessmentAssist/internal/model"
	"github.com/saitama-on/AssessmentAssist/internal/validation"
)

// Editor errors.
var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrDraftInvalid  = errors.New("draft failed validation")
)

// QuestionStore is the persistence boundary the editor saves through. The
// implementation is expected to run the persist validator and commit
// all-or-nothing; the editor never assumes a write happened on error.
type QuestionStore interface {
	Save(ctx context.Context, q *model.Question) error
}

// EditorService is the editor controller: it owns the in-memory draft
// collection and gates the save action on the draft validator. Drafts keep
// their insertion order for display; id uniqueness is the only structural
// invariant of the collection itself.
type EditorService struct {
	store QuestionStore
	log   zerolog.Logger

	mu     sync.Mutex
	order  []uuid.UUID
	drafts map[uuid.UUID]*model.Question
}

// NewEditorService creates a new EditorService.
func NewEditorService(store QuestionStore, log zerolog.Logger) *EditorService {
	return &EditorService{
		store:  store,
		log:    log.With().Str("component", "editor").Logger(),
		drafts: make(map[uuid.UUID]*model.Question),
	}
}

// Create opens a new draft of the given type with stub sub-items so the
// editing UI has rows to fill in. The draft starts formative and invalid
// (empty stem); that is expected, validity is advisory until save.
func (s *EditorService) Create(authorID int, qType model.QuestionType) *model.Question {
	now := time.Now().UTC()
	q := &model.Question{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Type:      qType,
		Purpose:   model.PurposeFormative,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch qType {
	case model.QuestionTypeMCQ:
		q.Options = make([]model.Option, 4)
		for i := range q.Options {
			q.Options[i] = model.Option{ID: uuid.New()}
		}
		q.Options[0].IsCorrect = true
	case model.QuestionTypeOrdering:
		q.Items = make([]model.OrderItem, 3)
		for i := range q.Items {
			q.Items[i] = model.OrderItem{ID: uuid.New(), Order: i}
		}
	case model.QuestionTypeHotspot:
		q.Zones = make([]model.Zone, 2)
		for i := range q.Zones {
			q.Zones[i] = model.Zone{ID: uuid.New(), Coordinates: []model.Point{}}
		}
	}

	s.mu.Lock()
	s.drafts[q.ID] = q
	s.order = append(s.order, q.ID)
	s.mu.Unlock()

	s.log.Debug().Str("id", q.ID.String()).Str("type", string(qType)).Msg("Draft created")
	return q.Clone()
}

// List returns all drafts in insertion order.
func (s *EditorService) List() []*model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Question, 0, len(s.order))
	for _, id := range s.order {
		if q, ok := s.drafts[id]; ok {
			out = append(out, q.Clone())
		}
	}
	return out
}

// Get retrieves a single draft by id.
func (s *EditorService) Get(id uuid.UUID) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return q.Clone(), nil
}

// Update replaces the content of an existing draft. Identity and creation
// time are preserved; an invalid document is accepted, the author may keep
// editing an invalid draft indefinitely.
func (s *EditorService) Update(id uuid.UUID, req *model.QuestionDocumentRequest) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	req.Apply(q)
	q.UpdatedAt = time.Now().UTC()
	return q.Clone(), nil
}

// Remove deletes a draft from the collection.
func (s *EditorService) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Duplicate deep-copies a draft under a fresh identifier with " (Copy)"
// appended to the stem. The copy validates exactly as the original would.
func (s *EditorService) Duplicate(id uuid.UUID) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	dup := q.Clone()
	dup.ID = uuid.New()
	dup.Stem = q.Stem + " (Copy)"
	now := time.Now().UTC()
	dup.CreatedAt = now
	dup.UpdatedAt = now

	s.drafts[dup.ID] = dup
	s.order = append(s.order, dup.ID)
	return dup.Clone(), nil
}

// Validate runs the draft validator against a draft.
func (s *EditorService) Validate(id uuid.UUID) (validation.Result, error) {
	s.mu.Lock()
	q, ok := s.drafts[id]
	s.mu.Unlock()

	if !ok {
		return validation.Result{}, ErrDraftNotFound
	}
	return validation.ValidateDraft(q), nil
}

// Save persists a draft through the store. The draft validator gates the
// call: an invalid draft is refused with ErrDraftInvalid and the returned
// result lists every violation; the store is not touched. On success the
// draft's timestamps are refreshed from the committed document.
func (s *EditorService) Save(ctx context.Context, id uuid.UUID) (*model.Question, validation.Result, error) {
	s.mu.Lock()
	q, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return nil, validation.Result{}, ErrDraftNotFound
	}

	result := validation.ValidateDraft(q)
	if !result.IsValid {
		s.mu.Unlock()
		s.log.Debug().
			Str("id", id.String()).
			Str("shape", validation.Describe(q)).
			Int("errors", len(result.Errors)).
			Msg("Save refused by draft validator")
		return nil, result, ErrDraftInvalid
	}

	candidate := q.Clone()
	s.mu.Unlock()

	// Persist outside the lock; the store runs the authoritative validator
	// and commits all-or-nothing.
	if err := s.store.Save(ctx, candidate); err != nil {
		return nil, result, err
	}

	s.mu.Lock()
	if cur, ok := s.drafts[id]; ok {
		cur.CreatedAt = candidate.CreatedAt
		cur.UpdatedAt = candidate.UpdatedAt
	}
	s.mu.Unlock()

	s.log.Info().Str("id", id.String()).Msg("Question saved")
	return candidate, result, nil
}
