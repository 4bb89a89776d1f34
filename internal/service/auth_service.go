package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/wiruacademy/clubsite/internal/audit"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/utils"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrWeakPassword          = errors.New("password must be at least 8 characters")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type AuthService struct {
	userRepo    *repository.UserRepository
	jwtSecret   string
	sessionTTL  time.Duration
	rememberTTL time.Duration
	environment string
	journal     *audit.Journal
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, sessionTTL, rememberTTL time.Duration, environment string, journal *audit.Journal) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		environment: environment,
		journal:     journal,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

// Register creates a regular member account. Email is normalized to
// lowercase; username is optional.
func (s *AuthService) Register(email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := validateRegisterInput(email, username, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	var usernamePtr *string
	if username != "" {
		existing, err = s.userRepo.GetByUsername(username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameAlreadyExists
		}
		usernamePtr = &username
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     usernamePtr,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Log.Error("Failed to create user",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", email),
	)
	return user, nil
}

// Authenticate resolves a login attempt. The identifier is matched against
// the normalized email first, then against the raw username. Unknown
// identity, inactive account and wrong password all collapse into
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Authenticate(identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.userRepo.GetByEmail(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByUsername(identifier)
		if err != nil {
			return nil, err
		}
	}

	if user == nil || !user.IsActive || !utils.VerifyPassword(password, user.PasswordHash) {
		logger.Log.Warn("Login failed",
			zap.String("identifier", identifier),
		)
		s.journal.Record(audit.EventLoginFailed, 0, 0, identifier)
		return nil, ErrInvalidCredentials
	}

	logger.Log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

// TokenFor issues a session token; remember selects the long TTL.
func (s *AuthService) TokenFor(user *models.User, remember bool) (string, time.Duration, error) {
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	token, err := utils.GenerateToken(user, s.jwtSecret, ttl)
	if err != nil {
		logger.Log.Error("Failed to generate session token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return "", 0, err
	}
	return token, ttl, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(user *models.User, current, newPassword string) error {
	if !utils.VerifyPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 || len(newPassword) > 128 {
		return ErrWeakPassword
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	logger.Log.Info("Password changed", zap.Uint("user_id", user.ID))
	return nil
}

// UpdateProfile applies the editable profile fields. Level and group are
// admin-managed attributes and only apply for admin-role users.
func (s *AuthService) UpdateProfile(user *models.User, username, fullName, level, groupName string) error {
	username = strings.TrimSpace(username)

	if username == "" {
		user.Username = nil
	} else if user.Username == nil || *user.Username != username {
		taken, err := s.userRepo.UsernameTaken(username, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameAlreadyExists
		}
		user.Username = &username
	}

	user.FullName = utils.SanitizeOptional(fullName)

	if user.HasAdminRights() {
		user.Level = utils.SanitizeOptional(level)
		user.GroupName = utils.SanitizeOptional(groupName)
	}

	return s.userRepo.Update(user)
}

// SetAvatarPath records a freshly stored avatar file for the user.
func (s *AuthService) SetAvatarPath(user *models.User, path string) error {
	user.AvatarPath = &path
	return s.userRepo.Update(user)
}

func (s *AuthService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// SearchUsers is the admin back-office listing, capped at 200 rows.
func (s *AuthService) SearchUsers(q string) ([]*models.User, error) {
	return s.userRepo.Search(q, 200)
}

func validateRegisterInput(email, username, password string) error {
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	if len(email) > 255 {
		return errors.New("email too long")
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	if len(password) > 128 {
		return errors.New("password too long")
	}
	if username != "" && len(username) > 80 {
		return errors.New("username must be at most 80 characters")
	}
	return nil
}
