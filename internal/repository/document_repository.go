package repository

import (
	"errors"
	"strings"

	"github.com/wiruacademy/clubsite/internal/models"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *models.Document) error {
	return r.db.Create(doc).Error
}

func (r *DocumentRepository) GetByID(id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.First(&doc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// ListByUser returns the user's documents newest first. limit <= 0 means no cap.
func (r *DocumentRepository) ListByUser(userID uint, limit int) ([]*models.Document, error) {
	var docs []*models.Document
	query := r.db.Where("user_id = ?", userID).Order("uploaded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Search is the admin-side browse: optional owner filter plus a substring
// match over filename and note. Newest first, capped at limit.
func (r *DocumentRepository) Search(userID uint, q string, limit int) ([]*models.Document, error) {
	var docs []*models.Document
	query := r.db.Order("uploaded_at DESC").Limit(limit)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(filename) LIKE ? OR LOWER(note) LIKE ?", like, like)
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a metadata row. Storage cleanup is the service's job and
// must happen together with this.
func (r *DocumentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Document{}, id).Error
}
