package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/saitama-on/AssessmentAssist/internal/model"
)

// questionSchema declares the persisted shape of a question document: field
// presence, types, enums, trim constraints, the purpose- and type-conditional
// requirements, and the imageUrl format. Set-level invariants (exactly one
// correct option, the 0..n-1 order permutation) live in the rule table, not
// here; they are properties of whole collections, not of single fields.
const questionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://assessmentassist.dev/schemas/question.json",
  "type": "object",
  "required": ["id", "authorId", "type", "purpose", "stem"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "authorId": { "type": "integer" },
    "type": { "enum": ["mcq", "ordering", "hotspot"] },
    "purpose": { "enum": ["formative", "summative"] },
    "stem": { "type": "string", "pattern": "\\S" },
    "topic": { "type": "string" },
    "learningObjective": { "type": "string" },
    "bloomsLevel": { "enum": ["Remember", "Understand", "Apply", "Analyze", "Evaluate", "Create"] },
    "tags": { "type": "array", "items": { "type": "string" } },
    "imageUrl": { "type": "string", "pattern": "^https?://.+" },
    "options": { "type": "array", "items": { "$ref": "#/$defs/option" } },
    "items": { "type": "array", "items": { "$ref": "#/$defs/orderItem" } },
    "zones": { "type": "array", "items": { "$ref": "#/$defs/zone" } },
    "createdAt": { "type": "string" },
    "updatedAt": { "type": "string" }
  },
  "allOf": [
    {
      "if": { "properties": { "purpose": { "const": "summative" } }, "required": ["purpose"] },
      "then": {
        "required": ["learningObjective", "bloomsLevel"],
        "properties": { "learningObjective": { "pattern": "\\S" } }
      }
    },
    {
      "if": { "properties": { "type": { "const": "mcq" } }, "required": ["type"] },
      "then": { "required": ["options"], "properties": { "options": { "minItems": 2 } } }
    },
    {
      "if": {
        "properties": { "type": { "const": "mcq" }, "purpose": { "const": "formative" } },
        "required": ["type", "purpose"]
      },
      "then": {
        "properties": {
          "options": {
            "items": { "required": ["feedback"], "properties": { "feedback": { "pattern": "\\S" } } }
          }
        }
      }
    },
    {
      "if": { "properties": { "type": { "const": "ordering" } }, "required": ["type"] },
      "then": { "required": ["items"], "properties": { "items": { "minItems": 2 } } }
    },
    {
      "if": { "properties": { "type": { "const": "hotspot" } }, "required": ["type"] },
      "then": { "required": ["zones"], "properties": { "zones": { "minItems": 1 } } }
    }
  ],
  "$defs": {
    "option": {
      "type": "object",
      "required": ["id", "text", "isCorrect"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "text": { "type": "string", "pattern": "\\S" },
        "isCorrect": { "type": "boolean" },
        "feedback": { "type": "string" }
      }
    },
    "orderItem": {
      "type": "object",
      "required": ["id", "text", "order"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "text": { "type": "string", "pattern": "\\S" },
        "order": { "type": "integer" }
      }
    },
    "zone": {
      "type": "object",
      "required": ["id", "coordinates"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "coordinates": { "type": "array", "minItems": 3, "items": { "$ref": "#/$defs/point" } },
        "label": { "type": "string" }
      }
    },
    "point": {
      "type": "object",
      "required": ["x", "y"],
      "properties": { "x": { "type": "number" }, "y": { "type": "number" } }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiled returns the question schema, compiling it on first use.
func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse question schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://question.json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// StructuralError reports a field-level schema violation (missing required
// field, wrong enum value, malformed URL).
type StructuralError struct {
	Err error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("question document is malformed: %v", e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// InvariantError names the document-level invariant a candidate violated.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string { return e.Message }

// ValidateForPersist is the authoritative pre-commit gate. It runs the
// structural schema pass first, then the document-level invariant pass over
// the shared rule table, and returns the first violation found. A nil return
// means the document may be committed.
func ValidateForPersist(q *model.Question) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode question: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode question: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return &StructuralError{Err: err}
	}

	for _, rule := range Rules() {
		if rule.Applies != nil && !rule.Applies(q) {
			continue
		}
		if msg := rule.Check(q); msg != "" {
			return &InvariantError{Message: msg}
		}
	}

	return nil
}
