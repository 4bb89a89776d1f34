package repository

import (
	"github.com/wiruacademy/clubsite/internal/models"
	"gorm.io/gorm"
)

// RoleLogRepository appends to and reads the role-change audit trail.
// There are deliberately no update or delete methods.
type RoleLogRepository struct {
	db *gorm.DB
}

func NewRoleLogRepository(db *gorm.DB) *RoleLogRepository {
	return &RoleLogRepository{db: db}
}

func (r *RoleLogRepository) Append(entry *models.RoleChangeLog) error {
	return r.db.Create(entry).Error
}

func (r *RoleLogRepository) ByTarget(targetID uint, limit int) ([]*models.RoleChangeLog, error) {
	var logs []*models.RoleChangeLog
	err := r.db.Where("target_id = ?", targetID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
