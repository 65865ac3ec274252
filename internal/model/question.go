package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType discriminates the three question document variants.
type QuestionType string

const (
	QuestionTypeMCQ      QuestionType = "mcq"
	QuestionTypeOrdering QuestionType = "ordering"
	QuestionTypeHotspot  QuestionType = "hotspot"
)

// Purpose classifies a question as practice or graded material.
type Purpose string

const (
	PurposeFormative Purpose = "formative"
	PurposeSummative Purpose = "summative"
)

// BloomsLevel tags the cognitive demand of a summative question.
type BloomsLevel string

const (
	BloomsRemember   BloomsLevel = "Remember"
	BloomsUnderstand BloomsLevel = "Understand"
	BloomsApply      BloomsLevel = "Apply"
	BloomsAnalyze    BloomsLevel = "Analyze"
	BloomsEvaluate   BloomsLevel = "Evaluate"
	BloomsCreate     BloomsLevel = "Create"
)

// BloomsLevels lists the accepted taxonomy values in ascending order.
var BloomsLevels = []BloomsLevel{
	BloomsRemember, BloomsUnderstand, BloomsApply,
	BloomsAnalyze, BloomsEvaluate, BloomsCreate,
}

// Option is an answer choice owned by an MCQ question.
// Feedback is required when the owning question's purpose is formative.
type Option struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"isCorrect"`
	Feedback  string    `json:"feedback,omitempty"`
}

// OrderItem is a sortable entry owned by an ordering question. The stored
// slice order is the display order; Order holds the correct position.
type OrderItem struct {
	ID    uuid.UUID `json:"id"`
	Text  string    `json:"text"`
	Order int       `json:"order"`
}

// Point is a single polygon vertex in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zone is a clickable polygon owned by a hotspot question.
type Zone struct {
	ID          uuid.UUID `json:"id"`
	Coordinates []Point   `json:"coordinates"`
	Label       string    `json:"label,omitempty"`
}

// Question is a single assessment item. Exactly one of the variant payloads
// (Options, Items, Zones) is meaningful, selected by Type; the document owns
// its payload entirely, sub-entities have no lifecycle outside the parent.
type Question struct {
	ID                uuid.UUID    `json:"id"`
	AuthorID          int          `json:"authorId"`
	Type              QuestionType `json:"type"`
	Purpose           Purpose      `json:"purpose"`
	Stem              string       `json:"stem"`
	Topic             string       `json:"topic,omitempty"`
	LearningObjective string       `json:"learningObjective,omitempty"`
	BloomsLevel       BloomsLevel  `json:"bloomsLevel,omitempty"`
	Tags              []string     `json:"tags,omitempty"`

	// MCQ payload.
	Options []Option `json:"options,omitempty"`
	// Ordering payload.
	Items []OrderItem `json:"items,omitempty"`
	// Hotspot payload.
	Zones    []Zone `json:"zones,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the question. The copy shares nothing with the
// receiver, so mutating one never leaks into the other.
func (q *Question) Clone() *Question {
	dup := *q

	if q.Tags != nil {
		dup.Tags = make([]string, len(q.Tags))
		copy(dup.Tags, q.Tags)
	}
	if q.Options != nil {
		dup.Options = make([]Option, len(q.Options))
		copy(dup.Options, q.Options)
	}
	if q.Items != nil {
		dup.Items = make([]OrderItem, len(q.Items))
		copy(dup.Items, q.Items)
	}
	if q.Zones != nil {
		dup.Zones = make([]Zone, len(q.Zones))
		for i, z := range q.Zones {
			zc := z
			if z.Coordinates != nil {
				zc.Coordinates = make([]Point, len(z.Coordinates))
				copy(zc.Coordinates, z.Coordinates)
			}
			dup.Zones[i] = zc
		}
	}

	return &dup
}

// CreateQuestionRequest is the payload for opening a new draft.
type CreateQuestionRequest struct {
	Type string `json:"type" binding:"required,oneof=mcq ordering hotspot"`
}

// QuestionDocumentRequest is the payload carrying a full question document.
// Deliberately loose beyond the two enums: a draft may be incomplete while it
// is being edited, and the draft validator reports that as advisory errors
// rather than a rejected request.
type QuestionDocumentRequest struct {
	Type              string      `json:"type" binding:"required,oneof=mcq ordering hotspot"`
	Purpose           string      `json:"purpose" binding:"required,oneof=formative summative"`
	Stem              string      `json:"stem"`
	Topic             string      `json:"topic"`
	LearningObjective string      `json:"learningObjective"`
	BloomsLevel       string      `json:"bloomsLevel" binding:"omitempty,oneof=Remember Understand Apply Analyze Evaluate Create"`
	Tags              []string    `json:"tags"`
	Options           []Option    `json:"options"`
	Items             []OrderItem `json:"items"`
	Zones             []Zone      `json:"zones"`
	ImageURL          string      `json:"imageUrl"`
}

// Apply copies the request's fields onto an existing draft, preserving
// identity and bookkeeping fields.
func (r *QuestionDocumentRequest) Apply(q *Question) {
	q.Type = QuestionType(r.Type)
	q.Purpose = Purpose(r.Purpose)
	q.Stem = r.Stem
	q.Topic = r.Topic
	q.LearningObjective = r.LearningObjective
	q.BloomsLevel = BloomsLevel(r.BloomsLevel)
	q.Tags = r.Tags
	q.Options = r.Options
	q.Items = r.Items
	q.Zones = r.Zones
	q.ImageURL = r.ImageURL
}
