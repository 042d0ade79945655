package documents

import "time"

// Document is an uploaded resume file owned by a principal.
type Document struct {
	ID         string
	OwnerID    string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	CreatedAt  time.Time
}
