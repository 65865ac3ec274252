package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saitama-on/AssessmentAssist/internal/middleware"
	"github.com/saitama-on/AssessmentAssist/internal/model"
	"github.com/saitama-on/AssessmentAssist/internal/repository"
	"github.com/saitama-on/AssessmentAssist/internal/response"
	"github.com/saitama-on/AssessmentAssist/internal/service"
	"github.com/saitama-on/AssessmentAssist/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	authorRepo  *repository.AuthorRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, authorRepo *repository.AuthorRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authorRepo:  authorRepo,
	}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	author, err := h.authorRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(author.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), author.ID, author.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"author": gin.H{
			"id":    author.ID,
			"email": author.Email,
			"name":  author.Name,
		},
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Clears the author's active session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ClearSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetProfile godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated author.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	author, err := h.authorRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"author": gin.H{
			"id":    author.ID,
			"email": author.Email,
			"name":  author.Name,
		},
	})
}
