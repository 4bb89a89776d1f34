package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/utils"
)

const currentUserKey = "current_user"

// RequireAuth resolves the request's principal exactly once: it validates
// the session token (cookie or bearer header), loads the user fresh from
// the database and binds it to the request context. Role checks read the
// stored row, not the token claims, so demotions take effect immediately.
//
// An unauthenticated request is redirected to the login page carrying the
// originally requested path so the flow can resume after login.
func RequireAuth(jwtSecret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			redirectToLogin(c)
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			redirectToLogin(c)
			return
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil || user == nil || !user.IsActive {
			redirectToLogin(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route to admin or superadmin principals. It must run
// after RequireAuth. Insufficient role is an explicit 403, not a redirect.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			redirectToLogin(c)
			return
		}
		if !user.HasAdminRights() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperadmin gates role-management routes.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			redirectToLogin(c)
			return
		}
		if !user.HasSuperadminRights() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Superadmin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the principal bound by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}
	return ""
}

func redirectToLogin(c *gin.Context) {
	next := c.Request.URL.Path
	if q := c.Request.URL.RawQuery; q != "" {
		next += "?" + q
	}
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(next))
	c.Abort()
}
