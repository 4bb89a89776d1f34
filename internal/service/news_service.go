package service

import (
	"errors"
	"strings"

	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/utils"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrNewsNotFound = errors.New("news item not found")
	ErrTitleMissing = errors.New("title is required")
	ErrBodyMissing  = errors.New("body is required")
)

// NewsInput carries the editable fields of a news item. Title and image are
// sanitized to plain text at this boundary; body tags are stripped as well
// since the site renders plain paragraphs.
type NewsInput struct {
	Title string
	Body  string
	Image string
}

type NewsService struct {
	repo *repository.NewsRepository
}

func NewNewsService(repo *repository.NewsRepository) *NewsService {
	return &NewsService{repo: repo}
}

func (s *NewsService) List(limit int) ([]*models.News, error) {
	return s.repo.List(limit)
}

func (s *NewsService) Get(id uint) (*models.News, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNewsNotFound
	}
	return item, nil
}

func (s *NewsService) Create(in NewsInput) (*models.News, error) {
	title, body, image, err := sanitizeNews(in)
	if err != nil {
		return nil, err
	}
	item := &models.News{
		Title: title,
		Body:  body,
		Image: image,
	}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	logger.Log.Info("News item created", zap.Uint("news_id", item.ID))
	return item, nil
}

func (s *NewsService) Update(id uint, in NewsInput) (*models.News, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	title, body, image, err := sanitizeNews(in)
	if err != nil {
		return nil, err
	}
	item.Title = title
	item.Body = body
	item.Image = image
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *NewsService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func sanitizeNews(in NewsInput) (title, body string, image *string, err error) {
	title = utils.SanitizePlainText(in.Title)
	if title == "" {
		return "", "", nil, ErrTitleMissing
	}
	// Truncate on a rune boundary; Cyrillic titles must not end up as
	// invalid UTF-8.
	if runes := []rune(title); len(runes) > 200 {
		title = string(runes[:200])
	}
	body = utils.SanitizePlainText(in.Body)
	if body == "" {
		return "", "", nil, ErrBodyMissing
	}
	if img := strings.TrimSpace(in.Image); img != "" {
		image = &img
	}
	return title, body, image, nil
}
