package repository

import (
	"errors"

	"github.com/wiruacademy/clubsite/internal/models"
	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(item *models.News) error {
	return r.db.Create(item).Error
}

func (r *NewsRepository) Update(item *models.News) error {
	return r.db.Save(item).Error
}

func (r *NewsRepository) Delete(id uint) error {
	return r.db.Delete(&models.News{}, id).Error
}

func (r *NewsRepository) GetByID(id uint) (*models.News, error) {
	var item models.News
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List returns news newest first. limit <= 0 means no cap.
func (r *NewsRepository) List(limit int) ([]*models.News, error) {
	var items []*models.News
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NewsRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.News{}).Count(&count).Error
	return count, err
}
