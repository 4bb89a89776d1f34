package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/service"
	"github.com/wiruacademy/clubsite/internal/utils"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	// Identifier is an email or a username.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Remember   bool   `json:"remember"`
}

// Register creates an account and logs the new member in.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	user, err := h.authService.Register(req.Email, req.Username, req.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrEmailAlreadyExists) || errors.Is(err, service.ErrUsernameAlreadyExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	token, ttl, err := h.authService.TokenFor(user, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	h.setSessionCookie(c, token, int(ttl.Seconds()))

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful",
		"redirect": h.safeRedirect(c, "/profile"),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login authenticates with email or username. A safe "next" query parameter
// is echoed back so the client can resume the originally requested page;
// targets into the admin area are never honored from this entry point.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	user, err := h.authService.Authenticate(req.Identifier, req.Password)
	if err != nil {
		// Uniform message: unknown account, inactive account and wrong
		// password are indistinguishable to the caller.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email/username or password"})
		return
	}

	token, ttl, err := h.authService.TokenFor(user, req.Remember)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	h.setSessionCookie(c, token, int(ttl.Seconds()))

	redirect := h.safeRedirect(c, "/profile")
	if strings.HasPrefix(redirect, "/admin") {
		redirect = "/profile"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"redirect": redirect,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// AdminLogin is the back-office entry point: only principals that already
// hold admin rights may authenticate here, and a "next" target is never
// honored.
// POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	user, err := h.authService.Authenticate(req.Identifier, req.Password)
	if err != nil || !user.HasAdminRights() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email/username or password"})
		return
	}

	token, ttl, err := h.authService.TokenFor(user, req.Remember)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	h.setSessionCookie(c, token, int(ttl.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"redirect": "/profile",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout clears the session cookie; subsequent requests are anonymous.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		"token",
		token,
		maxAge,
		"/",
		"",
		h.authService.IsProduction(), // secure (HTTPS-only in production)
		true,                         // httpOnly
	)
}

func (h *AuthHandler) safeRedirect(c *gin.Context, fallback string) string {
	next := c.Query("next")
	if utils.IsSafeNext(next) {
		return next
	}
	return fallback
}
