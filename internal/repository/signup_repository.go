package repository

import (
	"github.com/wiruacademy/clubsite/internal/models"
	"gorm.io/gorm"
)

type SignupRepository struct {
	db *gorm.DB
}

func NewSignupRepository(db *gorm.DB) *SignupRepository {
	return &SignupRepository{db: db}
}

func (r *SignupRepository) Create(s *models.Signup) error {
	return r.db.Create(s).Error
}

func (r *SignupRepository) List(limit int) ([]*models.Signup, error) {
	var signups []*models.Signup
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&signups).Error; err != nil {
		return nil, err
	}
	return signups, nil
}

func (r *SignupRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Signup{}).Count(&count).Error
	return count, err
}
