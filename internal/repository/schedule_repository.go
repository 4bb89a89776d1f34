package repository

import (
	"errors"

	"github.com/wiruacademy/clubsite/internal/models"
	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(item *models.Schedule) error {
	return r.db.Create(item).Error
}

func (r *ScheduleRepository) Update(item *models.Schedule) error {
	return r.db.Save(item).Error
}

func (r *ScheduleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Schedule{}, id).Error
}

func (r *ScheduleRepository) GetByID(id uint) (*models.Schedule, error) {
	var item models.Schedule
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List returns the whole weekly grid ordered by day, then time.
func (r *ScheduleRepository) List() ([]*models.Schedule, error) {
	var items []*models.Schedule
	err := r.db.Order("day_of_week ASC, time ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetByDayTime returns the entry occupying a (day, time) slot, or (nil, nil).
func (r *ScheduleRepository) GetByDayTime(day int, timeOfDay string) (*models.Schedule, error) {
	var item models.Schedule
	err := r.db.Where("day_of_week = ? AND time = ?", day, timeOfDay).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *ScheduleRepository) ListByDay(day int) ([]*models.Schedule, error) {
	var items []*models.Schedule
	err := r.db.Where("day_of_week = ?", day).Order("time ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ScheduleRepository) DeleteByDay(day int) error {
	return r.db.Where("day_of_week = ?", day).Delete(&models.Schedule{}).Error
}

func (r *ScheduleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Schedule{}).Count(&count).Error
	return count, err
}
