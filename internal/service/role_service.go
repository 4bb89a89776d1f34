package service

import (
	"errors"
	"fmt"

	"github.com/wiruacademy/clubsite/internal/audit"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSuperadminImmutable  = errors.New("superadmin role cannot be changed")
	ErrSuperadminSelfDemote = errors.New("superadmin cannot demote itself")
)

// RoleService performs role elevation and demotion. Every successful change
// appends an immutable RoleChangeLog row in the same transaction, before the
// role flip is committed, and keeps the legacy is_admin flag in sync with
// the role tag.
type RoleService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	journal  *audit.Journal
}

func NewRoleService(db *gorm.DB, userRepo *repository.UserRepository, journal *audit.Journal) *RoleService {
	return &RoleService{db: db, userRepo: userRepo, journal: journal}
}

// Promote elevates the target to admin.
func (s *RoleService) Promote(actor *models.User, targetID uint) (*models.User, error) {
	return s.change(actor, targetID, models.RoleAdmin)
}

// Demote reduces the target back to a regular user.
func (s *RoleService) Demote(actor *models.User, targetID uint) (*models.User, error) {
	return s.change(actor, targetID, models.RoleUser)
}

func (s *RoleService) change(actor *models.User, targetID uint, newRole models.Role) (*models.User, error) {
	target, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	// Self-demotion of a superadmin gets its own error before the general
	// immutability rule, for a clearer user-facing message.
	if actor.HasSuperadminRights() && actor.ID == target.ID && newRole != models.RoleSuperadmin {
		return nil, ErrSuperadminSelfDemote
	}
	if target.HasSuperadminRights() {
		return nil, ErrSuperadminImmutable
	}

	oldRole := target.Role
	if oldRole == newRole {
		return target, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Audit entry goes in first; the role flip commits with it or not at all.
		entry := &models.RoleChangeLog{
			ActorID:  actor.ID,
			TargetID: target.ID,
			OldRole:  oldRole,
			NewRole:  newRole,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		target.Role = newRole
		target.IsAdmin = models.RoleGrantsAdmin(newRole)
		return tx.Save(target).Error
	})
	if err != nil {
		logger.Log.Error("Role change failed",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("target_id", target.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.journal.Record(audit.EventRoleChange, actor.ID, target.ID,
		fmt.Sprintf("%s -> %s", oldRole, newRole))

	logger.Log.Info("Role changed",
		zap.Uint("actor_id", actor.ID),
		zap.Uint("target_id", target.ID),
		zap.String("old_role", string(oldRole)),
		zap.String("new_role", string(newRole)),
	)
	return target, nil
}
