package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/service"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

// PublicHandler serves the visitor-facing pages: home feed, trainers,
// trial signups and the contact form.
type PublicHandler struct {
	newsService   *service.NewsService
	signupService *service.SignupService
	trainers      *repository.TrainerRepository
}

func NewPublicHandler(newsService *service.NewsService, signupService *service.SignupService, trainers *repository.TrainerRepository) *PublicHandler {
	return &PublicHandler{
		newsService:   newsService,
		signupService: signupService,
		trainers:      trainers,
	}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Activity string `json:"activity" binding:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Home returns the landing page payload: the three latest news items.
// GET /api/home
func (h *PublicHandler) Home(c *gin.Context) {
	items, err := h.newsService.List(3)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": items})
}

// Trainers lists the coaching staff.
// GET /api/trainers
func (h *PublicHandler) Trainers(c *gin.Context) {
	trainers, err := h.trainers.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trainers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainers": trainers})
}

// Signup records a trial-training request.
// POST /api/signup
func (h *PublicHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	signup, err := h.signupService.Create(req.Name, req.Email, req.Phone, req.Activity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup received, we will get in touch shortly",
		"signup":  gin.H{"id": signup.ID, "activity": signup.Activity},
	})
}

// AdminSignups lists trial requests for the back office.
// GET /api/admin/signups
func (h *PublicHandler) AdminSignups(c *gin.Context) {
	signups, err := h.signupService.List(200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch signups"})
		return
	}
	total, err := h.signupService.Count()
	if err != nil {
		total = int64(len(signups))
	}
	c.JSON(http.StatusOK, gin.H{"signups": signups, "total": total})
}

// Contact forwards a visitor message to the club mailbox.
// POST /api/contact
func (h *PublicHandler) Contact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.signupService.ContactMessage(req.Name, req.Email, req.Message); err != nil {
		if errors.Is(err, service.ErrMailNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sending messages is temporarily unavailable"})
			return
		}
		if errors.Is(err, service.ErrMessageFieldsEmpty) || errors.Is(err, service.ErrDangerousContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Log.Error("Contact message delivery failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}
