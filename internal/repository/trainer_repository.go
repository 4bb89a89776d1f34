package repository

import (
	"github.com/wiruacademy/clubsite/internal/models"
	"gorm.io/gorm"
)

type TrainerRepository struct {
	db *gorm.DB
}

func NewTrainerRepository(db *gorm.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

func (r *TrainerRepository) Create(t *models.Trainer) error {
	return r.db.Create(t).Error
}

func (r *TrainerRepository) List() ([]*models.Trainer, error) {
	var trainers []*models.Trainer
	if err := r.db.Find(&trainers).Error; err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *TrainerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Trainer{}).Count(&count).Error
	return count, err
}
