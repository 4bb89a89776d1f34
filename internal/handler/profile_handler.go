package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/middleware"
	"github.com/wiruacademy/clubsite/internal/service"
)

type ProfileHandler struct {
	authService *service.AuthService
	docService  *service.DocumentService
}

func NewProfileHandler(authService *service.AuthService, docService *service.DocumentService) *ProfileHandler {
	return &ProfileHandler{
		authService: authService,
		docService:  docService,
	}
}

type ProfileUpdateRequest struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Level     string `json:"level"`
	GroupName string `json:"group_name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Overview returns the member's profile plus their latest documents.
// GET /api/profile
func (h *ProfileHandler) Overview(c *gin.Context) {
	user := middleware.CurrentUser(c)

	docs, err := h.docService.ListByUser(user.ID, 5)
	if err != nil {
		docs = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"documents": docs,
	})
}

// Update edits the profile fields.
// PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.authService.UpdateProfile(user, req.Username, req.FullName, req.Level, req.GroupName)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrUsernameAlreadyExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

// ChangePassword verifies the current password before replacing it.
// POST /api/profile/password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	if err := h.authService.ChangePassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// UploadAvatar stores a new profile picture through the same validation
// pipeline as document uploads.
// POST /api/profile/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	path, err := h.docService.UploadAvatar(user, fh.Filename, c.Request.ContentLength, f)
	if err != nil {
		c.JSON(uploadErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.SetAvatarPath(user, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated"})
}

// Avatar serves the member's own avatar from confined storage.
// GET /api/profile/avatar
func (h *ProfileHandler) Avatar(c *gin.Context) {
	user := middleware.CurrentUser(c)

	path, err := h.docService.ResolveAvatar(user)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(path)
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrExtensionNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
