package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wiruacademy/clubsite/internal/audit"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/repository"
	"github.com/wiruacademy/clubsite/internal/utils"
	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrExtensionNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file too large")
	ErrStorageFailure      = errors.New("failed to store file")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrForbidden           = errors.New("forbidden")
)

// declaredLengthSlack allows for multipart framing overhead when checking
// the declared content length against the byte ceiling.
const declaredLengthSlack = 8192

// DocumentService stores uploaded files under a configured root and guards
// every read: owner-or-admin authorization plus canonical-path confinement.
type DocumentService struct {
	docRepo     *repository.DocumentRepository
	uploadDir   string
	maxBytes    int64
	allowedExts map[string]bool
	journal     *audit.Journal
}

func NewDocumentService(docRepo *repository.DocumentRepository, uploadDir string, maxBytes int64, allowedExts map[string]bool, journal *audit.Journal) *DocumentService {
	return &DocumentService{
		docRepo:     docRepo,
		uploadDir:   uploadDir,
		maxBytes:    maxBytes,
		allowedExts: allowedExts,
		journal:     journal,
	}
}

// Upload is the member-facing document intake: validate, write, re-check,
// then record metadata. The metadata row exists only for files that are
// durably on disk and within the size ceiling.
func (s *DocumentService) Upload(owner *models.User, filename string, declaredLen int64, src io.Reader, mime, note string) (*models.Document, error) {
	storedPath, size, err := s.writeFile(owner.ID, filename, declaredLen, src, "")
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		UserID:     owner.ID,
		Filename:   filename,
		StoredPath: storedPath,
		Mime:       mime,
		SizeBytes:  size,
		Note:       utils.SanitizeOptional(note),
		UploadedAt: time.Now().UTC(),
	}
	if err := s.docRepo.Create(doc); err != nil {
		// Metadata and storage live or die together.
		s.removeQuietly(storedPath)
		logger.Log.Error("Failed to record document",
			zap.Uint("user_id", owner.ID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Document uploaded",
		zap.Uint("user_id", owner.ID),
		zap.Uint("document_id", doc.ID),
		zap.Int64("size_bytes", size),
	)
	return doc, nil
}

// UploadAvatar runs the same validation pipeline but returns only the
// stored path; avatars are referenced from the user row, not the documents
// table.
func (s *DocumentService) UploadAvatar(owner *models.User, filename string, declaredLen int64, src io.Reader) (string, error) {
	storedPath, _, err := s.writeFile(owner.ID, filename, declaredLen, src, "avatar_")
	return storedPath, err
}

// Resolve authorizes a download and returns the document with its confined
// absolute path. The requester must own the document or hold admin rights.
func (s *DocumentService) Resolve(requester *models.User, docID uint) (*models.Document, string, error) {
	doc, err := s.docRepo.GetByID(docID)
	if err != nil {
		return nil, "", err
	}
	if doc == nil {
		return nil, "", ErrDocumentNotFound
	}
	if doc.UserID != requester.ID && !requester.HasAdminRights() {
		logger.Log.Warn("Cross-user document access denied",
			zap.Uint("user_id", requester.ID),
			zap.Uint("document_id", docID),
		)
		s.journal.Record(audit.EventAccessDenied, requester.ID, doc.UserID,
			fmt.Sprintf("document %d", docID))
		return nil, "", ErrForbidden
	}

	path, err := s.confinedPath(doc.StoredPath)
	if err != nil {
		return nil, "", err
	}
	return doc, path, nil
}

// ResolveAvatar confines a user's stored avatar path.
func (s *DocumentService) ResolveAvatar(user *models.User) (string, error) {
	if user.AvatarPath == nil || *user.AvatarPath == "" {
		return "", ErrDocumentNotFound
	}
	return s.confinedPath(*user.AvatarPath)
}

// ListByUser returns a user's documents, newest first.
func (s *DocumentService) ListByUser(userID uint, limit int) ([]*models.Document, error) {
	return s.docRepo.ListByUser(userID, limit)
}

// SearchAll is the admin browse over every user's documents.
func (s *DocumentService) SearchAll(userID uint, q string) ([]*models.Document, error) {
	return s.docRepo.Search(userID, q, 200)
}

// Remove deletes metadata and storage together.
func (s *DocumentService) Remove(requester *models.User, docID uint) error {
	doc, path, err := s.Resolve(requester, docID)
	if err != nil {
		return err
	}
	if err := s.docRepo.Delete(doc.ID); err != nil {
		return err
	}
	s.removeQuietly(path)
	return nil
}

// writeFile validates and persists an upload under
// <root>/<ownerID>/<prefix><uuid>.<ext>, re-checking the on-disk size after
// the write and cleaning up on any failure.
func (s *DocumentService) writeFile(ownerID uint, filename string, declaredLen int64, src io.Reader, prefix string) (string, int64, error) {
	ext := normalizedExt(filename)
	if !s.allowedExts[ext] {
		return "", 0, ErrExtensionNotAllowed
	}
	// Declared length is advisory; the authoritative check happens after
	// the write.
	if declaredLen > 0 && declaredLen > s.maxBytes+declaredLengthSlack {
		return "", 0, ErrFileTooLarge
	}

	userDir := filepath.Join(s.uploadDir, fmt.Sprintf("%d", ownerID))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		logger.Log.Error("Failed to create upload directory",
			zap.String("dir", userDir),
			zap.Error(err),
		)
		return "", 0, ErrStorageFailure
	}

	storedName := prefix + strings.ReplaceAll(uuid.New().String(), "-", "") + "." + ext
	storedPath := filepath.Join(userDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		return "", 0, ErrStorageFailure
	}
	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		s.removeQuietly(storedPath)
		return "", 0, ErrStorageFailure
	}

	info, err := os.Stat(storedPath)
	if err != nil {
		s.removeQuietly(storedPath)
		return "", 0, ErrStorageFailure
	}
	if info.Size() > s.maxBytes {
		s.removeQuietly(storedPath)
		return "", 0, ErrFileTooLarge
	}

	return storedPath, info.Size(), nil
}

// confinedPath canonicalizes a stored path and verifies it stays at or
// under the storage root. The lexical check runs before any filesystem
// access, so a "../"-corrupted path is rejected without touching disk;
// symlinks are then resolved and re-checked.
func (s *DocumentService) confinedPath(stored string) (string, error) {
	root, err := filepath.Abs(s.uploadDir)
	if err != nil {
		return "", ErrForbidden
	}
	candidate, err := filepath.Abs(stored)
	if err != nil {
		return "", ErrForbidden
	}
	// Lexical check against the unresolved root, so a corrupt path is
	// rejected without touching the filesystem and a root that itself lives
	// behind a symlink still matches its own files.
	if !withinRoot(root, candidate) {
		logger.Log.Warn("Path confinement violation",
			zap.String("path", stored),
		)
		return "", ErrForbidden
	}

	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		if !withinRoot(root, resolved) {
			return "", ErrForbidden
		}
		candidate = resolved
	}
	return candidate, nil
}

func withinRoot(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

func normalizedExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

func (s *DocumentService) removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn("Failed to remove stored file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}
