package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saitama-on/AssessmentAssist/internal/middleware"
	"github.com/saitama-on/AssessmentAssist/internal/model"
	"github.com/saitama-on/AssessmentAssist/internal/response"
	"github.com/saitama-on/AssessmentAssist/internal/service"
	"github.com/saitama-on/AssessmentAssist/internal/validation"
	"github.com/saitama-on/AssessmentAssist/internal/validator"
)

// EditorHandler exposes the draft editing surface.
type EditorHandler struct {
	editorService   *service.EditorService
	questionService *service.QuestionService
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(editorService *service.EditorService, questionService *service.QuestionService) *EditorHandler {
	return &EditorHandler{
		editorService:   editorService,
		questionService: questionService,
	}
}

// ListDrafts godoc
// GET /api/v1/editor/questions
// Lists all drafts in insertion order.
func (h *EditorHandler) ListDrafts(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"questions": h.editorService.List()})
}

// CreateDraft godoc
// POST /api/v1/editor/questions
// Opens a new draft of the requested type with stub sub-items.
func (h *EditorHandler) CreateDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := h.editorService.Create(claims.UserID, model.QuestionType(req.Type))
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// GetDraft godoc
// GET /api/v1/editor/questions/:id
// Returns a single draft with its current validation result.
func (h *EditorHandler) GetDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.editorService.Get(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	result := validation.ValidateDraft(question)
	response.Success(c, http.StatusOK, gin.H{"question": question, "validation": result})
}

// UpdateDraft godoc
// PUT /api/v1/editor/questions/:id
// Replaces a draft's content. An invalid document is accepted; the response
// carries the fresh validation result so the UI can show the error list.
func (h *EditorHandler) UpdateDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.QuestionDocumentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.editorService.Update(id, &req)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	result := validation.ValidateDraft(question)
	response.Success(c, http.StatusOK, gin.H{"question": question, "validation": result})
}

// DeleteDraft godoc
// DELETE /api/v1/editor/questions/:id
// Removes a draft from the collection.
func (h *EditorHandler) DeleteDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.editorService.Remove(id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// DuplicateDraft godoc
// POST /api/v1/editor/questions/:id/duplicate
// Deep-copies a draft under a fresh identifier.
func (h *EditorHandler) DuplicateDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.editorService.Duplicate(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ValidateDraft godoc
// POST /api/v1/editor/questions/:id/validate
// Runs the draft validator and returns its verdict without saving.
func (h *EditorHandler) ValidateDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.editorService.Validate(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"validation": result})
}

// SaveDraft godoc
// POST /api/v1/editor/questions/:id/save
// Persists a draft. Refused with the full error list while the draft is
// invalid; rejected persists surface the violated invariant.
func (h *EditorHandler) SaveDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, result, err := h.editorService.Save(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDraftNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrDraftInvalid):
			response.FailWithDetails(c, http.StatusUnprocessableEntity, response.ErrDraftInvalid, result.Errors)
		default:
			var invariantErr *validation.InvariantError
			var structuralErr *validation.StructuralError
			if errors.As(err, &invariantErr) || errors.As(err, &structuralErr) {
				response.FailWithDetails(c, http.StatusUnprocessableEntity, response.ErrPersistRejected, []string{err.Error()})
				return
			}
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	// The persisted payload changed; drop any stale cache entry.
	h.questionService.Invalidate(c.Request.Context(), question.ID)

	response.Success(c, http.StatusOK, gin.H{"question": question})
}
