package documents

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentResponse is the outward-facing representation of an uploaded resume file.
// Kind is the lower-case extension ("pdf", "docx", "doc", "txt") the parser keys off.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	Kind       string    `json:"kind"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ToResponse converts a Document for JSON output. Storage keys stay internal.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		Kind:       strings.TrimPrefix(strings.ToLower(filepath.Ext(doc.FileName)), "."),
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		UploadedAt: doc.CreatedAt.UTC(),
	}
}
