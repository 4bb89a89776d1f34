package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/service"
)

type NewsHandler struct {
	newsService *service.NewsService
}

func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

type NewsRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	Image string `json:"image"`
}

// List returns news items, newest first.
// GET /api/news
func (h *NewsHandler) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	items, err := h.newsService.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": items})
}

// Get returns a single news item.
// GET /api/news/:id
func (h *NewsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news id"})
		return
	}

	item, err := h.newsService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": item})
}

// Create adds a news item.
// POST /api/admin/news
func (h *NewsHandler) Create(c *gin.Context) {
	var req NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.newsService.Create(service.NewsInput{
		Title: req.Title,
		Body:  req.Body,
		Image: req.Image,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "News created", "news": item})
}

// Update edits a news item.
// PUT /api/admin/news/:id
func (h *NewsHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news id"})
		return
	}

	var req NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.newsService.Update(uint(id), service.NewsInput{
		Title: req.Title,
		Body:  req.Body,
		Image: req.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "News updated", "news": item})
}

// Delete removes a news item.
// DELETE /api/admin/news/:id
func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news id"})
		return
	}

	if err := h.newsService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete news"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "News deleted"})
}
