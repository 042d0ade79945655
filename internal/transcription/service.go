// Package transcription turns recorded interview answers into text.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/telemetry"
)

// DefaultMaxBytes bounds one audio upload.
const DefaultMaxBytes int64 = 25 << 20

// Sources of a transcription result.
const (
	SourceBackend = "backend"
	// SourceBrowser tells the client to fall back to in-browser speech recognition.
	SourceBrowser = "browser"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("audio too large")
	// ErrBusy is returned while the same user already has a transcription running.
	ErrBusy = errors.New("transcription already in progress")
)

// Transcriber is the primary transcription backend.
type Transcriber interface {
	Transcribe(ctx context.Context, fileName string, r io.Reader) (backend.Transcription, error)
}

// Fallback answers when the primary transcriber fails.
type Fallback interface {
	Transcribe(ctx context.Context, cause error) (Result, error)
}

// Result is a finished transcription.
type Result struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	// UseBrowserRecognition asks the client to transcribe locally instead.
	UseBrowserRecognition bool   `json:"useBrowserRecognition"`
	Reason                string `json:"reason,omitempty"`
}

// BrowserFallback signals the client to use the browser's speech recognition.
type BrowserFallback struct{}

func (BrowserFallback) Transcribe(ctx context.Context, cause error) (Result, error) {
	return Result{
		Source:                SourceBrowser,
		UseBrowserRecognition: true,
		Reason:                "Server transcription is unavailable; using browser speech recognition.",
	}, nil
}

type Service struct {
	Primary  Transcriber
	Fallback Fallback
	MaxBytes int64

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Transcribe runs one transcription for the user. A second call while the
// first is running fails with ErrBusy.
func (s *Service) Transcribe(ctx context.Context, userID, fileName string, size int64, r io.Reader) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return Result{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if size > s.maxBytes() {
		return Result{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, s.maxBytes())
	}
	if !s.acquire(userID) {
		return Result{}, ErrBusy
	}
	defer s.release(userID)

	if s.Primary != nil {
		out, err := s.Primary.Transcribe(ctx, fileName, io.LimitReader(r, s.maxBytes()+1))
		if err == nil {
			telemetry.Info("transcription.complete", map[string]any{
				"user_id": userID,
				"source":  SourceBackend,
				"chars":   len(out.Text),
			})
			return Result{Text: strings.TrimSpace(out.Text), Source: SourceBackend}, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		telemetry.Warn("transcription.primary_failed", map[string]any{
			"user_id": userID,
			"err":     err,
		})
		return s.fallback(ctx, err)
	}
	return s.fallback(ctx, errors.New("no transcription backend configured"))
}

func (s *Service) fallback(ctx context.Context, cause error) (Result, error) {
	fb := s.Fallback
	if fb == nil {
		fb = BrowserFallback{}
	}
	return fb.Transcribe(ctx, cause)
}

func (s *Service) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[string]struct{})
	}
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *Service) release(userID string) {
	s.mu.Lock()
	delete(s.inFlight, userID)
	s.mu.Unlock()
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return s.MaxBytes
}
