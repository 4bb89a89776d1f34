package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/wiruacademy/clubsite/internal/audit"
	"github.com/wiruacademy/clubsite/internal/config"
	"github.com/wiruacademy/clubsite/internal/database"
	"github.com/wiruacademy/clubsite/internal/handler"
	"github.com/wiruacademy/clubsite/internal/mailer"
	"github.com/wiruacademy/clubsite/internal/middleware"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/service"
	"github.com/wiruacademy/clubsite/internal/utils"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	isProduction := cfg.Environment == "production"
	if err := logger.Init(!isProduction); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET is required")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	// Bring pre-existing SQLite databases up to the current shape. Safe to
	// run on every start.
	database.Reconcile(db)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Log.Fatal("Failed to create upload directory",
			zap.String("dir", cfg.UploadDir),
			zap.Error(err),
		)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roleLogRepo := repository.NewRoleLogRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	signupRepo := repository.NewSignupRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	ensureSuperadmin(db, userRepo, cfg)

	// Security event journal; a failed open degrades to no journaling.
	journal, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		logger.Log.Warn("Audit journal disabled",
			zap.String("path", cfg.AuditLogPath),
			zap.Error(err),
		)
		journal = nil
	} else {
		defer journal.Close()
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTL, cfg.RememberTTL, cfg.Environment, journal)
	roleService := service.NewRoleService(db, userRepo, journal)
	newsService := service.NewNewsService(newsRepo)
	scheduleService := service.NewScheduleService(scheduleRepo)
	docService := service.NewDocumentService(docRepo, cfg.UploadDir, cfg.MaxUploadBytes(), cfg.AllowedExtensions, journal)
	mailClient := mailer.New(cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.MailgunBaseURL)
	signupService := service.NewSignupService(signupRepo, mailClient, cfg.MailTo)
	if !cfg.MailConfigured() {
		logger.Log.Warn("Mail not configured, contact form delivery disabled")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(authService, docService)
	docHandler := handler.NewDocumentHandler(docService)
	newsHandler := handler.NewNewsHandler(newsService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	publicHandler := handler.NewPublicHandler(newsService, signupService, trainerRepo)
	adminUsersHandler := handler.NewAdminUsersHandler(authService, roleService, docService, roleLogRepo)

	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.HSTS(isProduction))

	requireAuth := middleware.RequireAuth(cfg.JWTSecret, userRepo)

	// Public pages
	router.GET("/api/home", publicHandler.Home)
	router.GET("/api/news", newsHandler.List)
	router.GET("/api/news/:id", newsHandler.Get)
	router.GET("/api/schedule", scheduleHandler.List)
	router.GET("/api/trainers", publicHandler.Trainers)
	router.POST("/api/signup", publicHandler.Signup)
	router.POST("/api/contact", publicHandler.Contact)

	// Auth endpoints, rate limited when Redis is available
	auth := router.Group("/api")
	if limiter := buildRateLimiter(cfg); limiter != nil {
		auth.Use(limiter.Middleware())
	}
	auth.POST("/auth/register", authHandler.Register)
	auth.POST("/auth/login", authHandler.Login)
	auth.POST("/admin/login", authHandler.AdminLogin)

	router.POST("/api/auth/logout", authHandler.Logout)

	// Member area
	member := router.Group("/api", requireAuth)
	{
		member.GET("/profile", profileHandler.Overview)
		member.PUT("/profile", profileHandler.Update)
		member.POST("/profile/password", profileHandler.ChangePassword)
		member.GET("/profile/avatar", profileHandler.Avatar)
		member.POST("/profile/avatar", profileHandler.UploadAvatar)

		member.GET("/documents", docHandler.List)
		member.POST("/documents", docHandler.Upload)
		member.GET("/documents/:id/download", docHandler.Download)
		member.GET("/documents/:id/view", docHandler.View)
		member.DELETE("/documents/:id", docHandler.Delete)
	}

	// Back office
	admin := router.Group("/api/admin", requireAuth, middleware.RequireAdmin())
	{
		admin.POST("/news", newsHandler.Create)
		admin.PUT("/news/:id", newsHandler.Update)
		admin.DELETE("/news/:id", newsHandler.Delete)

		admin.GET("/schedule", scheduleHandler.AdminList)
		admin.POST("/schedule", scheduleHandler.Create)
		admin.PUT("/schedule/:id", scheduleHandler.Update)
		admin.DELETE("/schedule/:id", scheduleHandler.Delete)
		admin.POST("/schedule/copy-day", scheduleHandler.CopyDay)

		admin.GET("/documents", docHandler.AdminList)
		admin.GET("/signups", publicHandler.AdminSignups)

		admin.GET("/users", adminUsersHandler.List)
		admin.GET("/users/:id", adminUsersHandler.Detail)
	}

	// Role management stays with the superadmin
	super := router.Group("/api/admin", requireAuth, middleware.RequireSuperadmin())
	{
		super.POST("/users/:id/make-admin", adminUsersHandler.MakeAdmin)
		super.POST("/users/:id/remove-admin", adminUsersHandler.RemoveAdmin)
	}

	logger.Log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(cfg.ServerPort); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}

// buildRateLimiter wires the Redis-backed auth rate limiter; without a
// configured Redis the auth endpoints simply run unthrottled.
func buildRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if cfg.RedisURL == "" {
		logger.Log.Warn("REDIS_URL not set, auth rate limiting disabled")
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Log.Warn("Invalid REDIS_URL, auth rate limiting disabled", zap.Error(err))
		return nil
	}
	return middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
	})
}

// ensureSuperadmin bootstraps the first superadmin account from the
// environment. Missing configuration is logged and skipped; an existing
// account with the configured email is elevated if needed, with the
// elevation recorded in the role-change audit trail.
func ensureSuperadmin(db *gorm.DB, userRepo *repository.UserRepository, cfg *config.Config) {
	if cfg.SuperadminEmail == "" || cfg.AdminPassword == "" {
		if owner, err := userRepo.FirstSuperadmin(); err == nil && owner == nil {
			logger.Log.Warn("No superadmin account exists and SUPERADMIN_EMAIL / ADMIN_PASSWORD are not set")
		}
		return
	}

	existing, err := userRepo.GetByEmail(cfg.SuperadminEmail)
	if err != nil {
		logger.Log.Warn("Superadmin bootstrap lookup failed", zap.Error(err))
		return
	}
	if existing != nil {
		if existing.HasSuperadminRights() {
			return
		}
		oldRole := existing.Role
		existing.Role = models.RoleSuperadmin
		existing.IsAdmin = true
		existing.IsSuperadmin = true
		if err := userRepo.Update(existing); err != nil {
			logger.Log.Warn("Superadmin bootstrap elevation failed", zap.Error(err))
			return
		}
		if err := repository.NewRoleLogRepository(db).Append(&models.RoleChangeLog{
			ActorID:  existing.ID,
			TargetID: existing.ID,
			OldRole:  oldRole,
			NewRole:  models.RoleSuperadmin,
		}); err != nil {
			logger.Log.Warn("Failed to record bootstrap elevation", zap.Error(err))
		}
		logger.Log.Info("Existing account elevated to superadmin", zap.Uint("user_id", existing.ID))
		return
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		logger.Log.Warn("Superadmin bootstrap hashing failed", zap.Error(err))
		return
	}
	admin := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(cfg.SuperadminEmail)),
		PasswordHash: hash,
		Role:         models.RoleSuperadmin,
		IsActive:     true,
		IsAdmin:      true,
		IsSuperadmin: true,
	}
	if err := userRepo.Create(admin); err != nil {
		logger.Log.Warn("Superadmin bootstrap creation failed", zap.Error(err))
		return
	}
	logger.Log.Info("Superadmin account created", zap.Uint("user_id", admin.ID))
}
