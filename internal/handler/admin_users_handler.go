package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/middleware"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/service"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

// AdminUsersHandler is the back-office member directory: search, detail
// with audit history, and role changes.
type AdminUsersHandler struct {
	authService *service.AuthService
	roleService *service.RoleService
	docService  *service.DocumentService
	roleLogs    *repository.RoleLogRepository
}

func NewAdminUsersHandler(
	authService *service.AuthService,
	roleService *service.RoleService,
	docService *service.DocumentService,
	roleLogs *repository.RoleLogRepository,
) *AdminUsersHandler {
	return &AdminUsersHandler{
		authService: authService,
		roleService: roleService,
		docService:  docService,
		roleLogs:    roleLogs,
	}
}

// List searches members by email, username or full name.
// GET /api/admin/users?q=
func (h *AdminUsersHandler) List(c *gin.Context) {
	users, err := h.authService.SearchUsers(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Detail returns one member with their documents and role-change history.
// GET /api/admin/users/:id
func (h *AdminUsersHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := h.authService.GetUser(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	docs, err := h.docService.ListByUser(user.ID, 0)
	if err != nil {
		docs = nil
	}
	logs, err := h.roleLogs.ByTarget(user.ID, 50)
	if err != nil {
		logs = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"documents":   docs,
		"role_change": logs,
	})
}

// MakeAdmin elevates a member to admin.
// POST /api/admin/users/:id/make-admin
func (h *AdminUsersHandler) MakeAdmin(c *gin.Context) {
	h.changeRole(c, h.roleService.Promote)
}

// RemoveAdmin demotes a member back to a regular user.
// POST /api/admin/users/:id/remove-admin
func (h *AdminUsersHandler) RemoveAdmin(c *gin.Context) {
	h.changeRole(c, h.roleService.Demote)
}

func (h *AdminUsersHandler) changeRole(c *gin.Context, change func(actor *models.User, targetID uint) (*models.User, error)) {
	actor := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	target, err := change(actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		case errors.Is(err, service.ErrSuperadminSelfDemote),
			errors.Is(err, service.ErrSuperadminImmutable):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Log.Error("Role change request failed",
				zap.Uint("actor_id", actor.ID),
				zap.Uint64("target_id", id),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change role"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated",
		"user": gin.H{
			"id":   target.ID,
			"role": target.Role,
		},
	})
}
