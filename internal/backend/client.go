// Package backend is a typed client for the external career backend. Every
// response is decoded into a struct and validated before callers see it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker/v2"

	"careerprep-backend/internal/shared/metrics"
)

// Config configures a Client.
type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	TranscribeURL string
	Breaker       BreakerSettings
	HTTPClient    *http.Client
}

// Client calls the backend over HTTP through a circuit breaker.
type Client struct {
	baseURL       string
	token         string
	transcribeURL string
	httpClient    *http.Client
	breaker       *gobreaker.CircuitBreaker[[]byte]
	validate      *validator.Validate
}

// New constructs a Client. Zero breaker settings fall back to the defaults.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	breaker := cfg.Breaker
	if breaker == (BreakerSettings{}) {
		breaker = DefaultBreakerSettings()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	transcribe := strings.TrimSpace(cfg.TranscribeURL)
	if transcribe == "" {
		transcribe = base + "/transcribe"
	}
	return &Client{
		baseURL:       base,
		token:         cfg.Token,
		transcribeURL: transcribe,
		httpClient:    httpClient,
		breaker:       newBreaker("backend", breaker),
		validate:      validator.New(),
	}
}

// BreakerState reports the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// UploadResume sends a resume file for server-side analysis.
func (c *Client) UploadResume(ctx context.Context, fileName string, r io.Reader) (ResumeUpload, error) {
	var out ResumeUpload
	err := c.multipart(ctx, "upload_resume", c.baseURL+"/resumes/upload", "file", fileName, r, &out)
	return out, err
}

// GetAnalysis fetches the current analysis status of an uploaded resume.
func (c *Client) GetAnalysis(ctx context.Context, resumeID string) (AnalysisStatus, error) {
	var out AnalysisStatus
	err := c.doJSON(ctx, "get_analysis", http.MethodGet, "/resumes/"+url.PathEscape(resumeID)+"/analysis", nil, &out)
	return out, err
}

// DeleteResume removes a resume from the backend.
func (c *Client) DeleteResume(ctx context.Context, resumeID string) error {
	return c.doJSON(ctx, "delete_resume", http.MethodDelete, "/resumes/"+url.PathEscape(resumeID), nil, nil)
}

// WaitForAnalysis polls until the analysis is COMPLETE or FAILED or ctx ends.
func (c *Client) WaitForAnalysis(ctx context.Context, resumeID string, interval time.Duration) (AnalysisStatus, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		status, err := c.GetAnalysis(ctx, resumeID)
		if err != nil {
			return AnalysisStatus{}, err
		}
		if status.Status == StatusFailed {
			return status, fmt.Errorf("%w: %s", ErrAnalysisFailed, status.Error)
		}
		if status.Terminal() {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}

// SearchJobs runs a job search.
func (c *Client) SearchJobs(ctx context.Context, req JobSearchRequest) (JobList, error) {
	q := url.Values{}
	if req.Query != "" {
		q.Set("q", req.Query)
	}
	if req.Location != "" {
		q.Set("location", req.Location)
	}
	if req.Page > 0 {
		q.Set("page", fmt.Sprint(req.Page))
	}
	path := "/jobs/search"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out JobList
	err := c.doJSON(ctx, "search_jobs", http.MethodGet, path, nil, &out)
	return out, err
}

// RecommendJobs returns jobs matching the given skills.
func (c *Client) RecommendJobs(ctx context.Context, req JobRecommendationRequest) (JobList, error) {
	var out JobList
	err := c.doJSON(ctx, "recommend_jobs", http.MethodPost, "/jobs/recommendations", req, &out)
	return out, err
}

// GenerateQuiz asks the backend for assessment questions.
func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) (QuizResponse, error) {
	var out QuizResponse
	err := c.doJSON(ctx, "generate_quiz", http.MethodPost, "/assessments/generate", req, &out)
	return out, err
}

// EvaluateQuiz scores a submission. The backend score is authoritative.
func (c *Client) EvaluateQuiz(ctx context.Context, req EvaluationRequest) (EvaluationResponse, error) {
	var out EvaluationResponse
	err := c.doJSON(ctx, "evaluate_quiz", http.MethodPost, "/assessments/evaluate", req, &out)
	return out, err
}

// AnalyzePerformanceGaps requests the performance-gap section of a report.
func (c *Client) AnalyzePerformanceGaps(ctx context.Context, req PerformanceGapRequest) (PerformanceGapAnalysis, error) {
	var out PerformanceGapAnalysis
	err := c.doJSON(ctx, "performance_gaps", http.MethodPost, "/analysis/performance-gaps", req, &out)
	return out, err
}

// RecommendSkills requests the skill-recommendation section of a report.
func (c *Client) RecommendSkills(ctx context.Context, req SkillRecommendationRequest) (SkillRecommendations, error) {
	var out SkillRecommendations
	err := c.doJSON(ctx, "skill_recommendations", http.MethodPost, "/analysis/skill-recommendations", req, &out)
	return out, err
}

// Transcribe uploads recorded audio to the transcription endpoint.
func (c *Client) Transcribe(ctx context.Context, fileName string, r io.Reader) (Transcription, error) {
	var out Transcription
	err := c.multipart(ctx, "transcribe", c.transcribeURL, "audio", fileName, r, &out)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		if err := c.validate.Struct(in); err != nil {
			return fmt.Errorf("backend %s: invalid request: %w", op, err)
		}
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = payload
	}
	return c.execute(ctx, op, out, func() (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
}

func (c *Client) multipart(ctx context.Context, op, target, field, fileName string, r io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("backend %s: read upload: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return err
	}
	payload := buf.Bytes()
	return c.execute(ctx, op, out, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req, nil
	})
}

func (c *Client) execute(ctx context.Context, op string, out any, build func() (*http.Request, error)) error {
	start := time.Now()
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := build()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
				return nil, fmt.Errorf("backend %s: request timeout: %w", op, err)
			}
			return nil, fmt.Errorf("backend %s: network error: %w", op, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
		if err != nil {
			return nil, fmt.Errorf("backend %s: read body: %w", op, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{Operation: op, Status: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveBackendMs(op, outcome, float64(time.Since(start).Microseconds())/1000.0)
	if err != nil {
		if IsUnavailable(err) {
			return fmt.Errorf("backend %s: service unavailable (network circuit open): %w", op, err)
		}
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		if out != nil {
			return fmt.Errorf("%w: %s: empty body", ErrInvalidResponse, op)
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op, err)
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op, err)
	}
	return nil
}
