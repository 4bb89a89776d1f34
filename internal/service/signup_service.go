package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wiruacademy/clubsite/internal/mailer"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/utils"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrSignupFieldsMissing = errors.New("name, email and activity are required")
	ErrInvalidSignupEmail  = errors.New("invalid email")
	ErrInvalidActivity     = errors.New("invalid activity")
	ErrMailNotConfigured   = errors.New("mail is not configured on the server")
	ErrMessageFieldsEmpty  = errors.New("all fields are required")
	ErrDangerousContent    = errors.New("message contains disallowed content")
)

var signupActivities = map[string]bool{
	"boxing":    true,
	"wrestling": true,
	"mma":       true,
}

// SignupService records trial-training requests and forwards contact
// messages to the club mailbox.
type SignupService struct {
	repo   *repository.SignupRepository
	mail   *mailer.Client
	mailTo string
}

func NewSignupService(repo *repository.SignupRepository, mail *mailer.Client, mailTo string) *SignupService {
	return &SignupService{repo: repo, mail: mail, mailTo: mailTo}
}

func (s *SignupService) Create(name, email, phone, activity string) (*models.Signup, error) {
	name = utils.SanitizePlainText(name)
	email = strings.ToLower(strings.TrimSpace(email))
	activity = strings.ToLower(strings.TrimSpace(activity))

	if name == "" || email == "" || activity == "" {
		return nil, ErrSignupFieldsMissing
	}
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidSignupEmail
	}
	if !signupActivities[activity] {
		return nil, ErrInvalidActivity
	}

	signup := &models.Signup{
		Name:     name,
		Email:    email,
		Phone:    utils.SanitizeOptional(phone),
		Activity: activity,
	}
	if err := s.repo.Create(signup); err != nil {
		return nil, err
	}

	logger.Log.Info("Trial signup recorded",
		zap.Uint("signup_id", signup.ID),
		zap.String("activity", activity),
	)
	return signup, nil
}

// List returns recorded trial requests for the back office, newest first.
func (s *SignupService) List(limit int) ([]*models.Signup, error) {
	return s.repo.List(limit)
}

// Count returns the total number of trial requests.
func (s *SignupService) Count() (int64, error) {
	return s.repo.Count()
}

// ContactMessage forwards a visitor message to the club mailbox. Missing
// mail configuration degrades this feature only.
func (s *SignupService) ContactMessage(name, email, message string) error {
	name = utils.SanitizePlainText(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" || email == "" || message == "" {
		return ErrMessageFieldsEmpty
	}
	// The message is forwarded verbatim to a mailbox, so markup is refused
	// outright instead of being stripped.
	if utils.ContainsDangerousInput(message) {
		return ErrDangerousContent
	}
	if s.mail == nil || !s.mail.Configured() || s.mailTo == "" {
		logger.Log.Warn("Contact message dropped: mail not configured")
		return ErrMailNotConfigured
	}

	body := fmt.Sprintf("New message from the club website\n\nName: %s\nEmail: %s\n\nMessage:\n%s\n",
		name, email, message)
	return s.mail.Send(s.mailTo, "Message from the club website", body)
}
