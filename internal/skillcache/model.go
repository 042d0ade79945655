package skillcache

import (
	"errors"
	"time"
)

// Cache keys stored per owner.
const (
	KeySkills       = "skills"
	KeyLatestUpload = "latest_upload"
)

// ErrNotFound is returned when nothing is cached under a key.
var ErrNotFound = errors.New("not found")

// UploadInfo describes the most recent resume upload of an owner.
type UploadInfo struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Snapshot is everything cached for one owner.
type Snapshot struct {
	Skills       []string    `json:"skills"`
	LatestUpload *UploadInfo `json:"latestUpload"`
}
