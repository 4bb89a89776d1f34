package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/middleware"
	"github.com/wiruacademy/clubsite/internal/service"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService *service.DocumentService
}

func NewDocumentHandler(docService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// List returns the member's own documents.
// GET /api/documents
func (h *DocumentHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	docs, err := h.docService.ListByUser(user.ID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Upload accepts a multipart file plus an optional note.
// POST /api/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	doc, err := h.docService.Upload(
		user,
		fh.Filename,
		c.Request.ContentLength,
		f,
		fh.Header.Get("Content-Type"),
		c.PostForm("note"),
	)
	if err != nil {
		logger.Log.Warn("Document upload rejected",
			zap.Uint("user_id", user.ID),
			zap.String("filename", fh.Filename),
			zap.Error(err),
		)
		c.JSON(uploadErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Document uploaded", "document": doc})
}

// Download serves a document as an attachment after the access guard.
// GET /api/documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	h.serve(c, true)
}

// View serves a document inline.
// GET /api/documents/:id/view
func (h *DocumentHandler) View(c *gin.Context) {
	h.serve(c, false)
}

func (h *DocumentHandler) serve(c *gin.Context, attachment bool) {
	user := middleware.CurrentUser(c)

	docID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}

	doc, path, err := h.docService.Resolve(user, uint(docID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, service.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve document"})
		}
		return
	}

	if attachment {
		c.FileAttachment(path, doc.Filename)
		return
	}
	if doc.Mime != "" {
		c.Header("Content-Type", doc.Mime)
	}
	c.File(path)
}

// Delete removes a document and its stored file. Same access rule as
// downloads: owner or admin.
// DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	docID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}

	if err := h.docService.Remove(user, uint(docID)); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, service.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// AdminList browses documents across all users.
// GET /api/admin/documents
func (h *DocumentHandler) AdminList(c *gin.Context) {
	var userID uint64
	if v := c.Query("user_id"); v != "" {
		userID, _ = strconv.ParseUint(v, 10, 32)
	}

	docs, err := h.docService.SearchAll(uint(userID), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
