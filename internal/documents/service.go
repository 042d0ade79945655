package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerprep-backend/internal/shared/storage/object"
	"careerprep-backend/internal/shared/telemetry"
)

// DefaultMaxBytes bounds uploads when the service is built without a limit.
const DefaultMaxBytes int64 = 10 << 20

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// Service validates, stores and records uploaded resume files.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	MaxBytes int64
	Now      func() time.Time
}

// ValidateUpload rejects unsupported types and oversize files before anything is stored.
// A declared size of zero or less means unknown and is only enforced while reading.
func (s *Service) ValidateUpload(fileName string, declaredSize int64) error {
	if strings.TrimSpace(fileName) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %q (allowed: pdf, doc, docx, txt)", ErrUnsupportedType, ext)
	}
	if declaredSize > s.maxBytes() {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, declaredSize, s.maxBytes())
	}
	return nil
}

// Upload validates the file, saves it to object storage and records it.
func (s *Service) Upload(ctx context.Context, ownerID, fileName string, declaredSize int64, r io.Reader) (Document, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Document{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if err := s.ValidateUpload(fileName, declaredSize); err != nil {
		return Document{}, err
	}

	limited := &limitReader{r: r, remaining: s.maxBytes()}
	storageKey, size, mimeType, err := s.Store.Save(ctx, ownerID, fileName, limited)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	doc := Document{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		_ = s.Store.Delete(ctx, storageKey)
		return Document{}, err
	}

	telemetry.Info("document.uploaded", map[string]any{
		"document_id": doc.ID,
		"user_id":     ownerID,
		"size_bytes":  size,
		"mime_type":   mimeType,
	})
	return doc, nil
}

// Get returns one document owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, documentID string) (Document, error) {
	return s.Repo.GetByID(ctx, ownerID, documentID)
}

// Latest returns the owner's most recent upload.
func (s *Service) Latest(ctx context.Context, ownerID string) (Document, error) {
	if ownerID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetLatestByOwner(ctx, ownerID)
}

// List returns the owner's uploads, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Document, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// ReadContent loads the stored bytes of a document.
func (s *Service) ReadContent(ctx context.Context, doc Document) ([]byte, error) {
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, s.maxBytes()+1))
}

// Delete removes the stored object and the record.
func (s *Service) Delete(ctx context.Context, ownerID, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, ownerID, documentID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("delete stored document: %w", err)
	}
	return s.Repo.Delete(ctx, ownerID, documentID)
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return s.MaxBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// limitReader fails with ErrTooLarge once more than remaining bytes are read.
type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
