package documents

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/storage/object/local"
)

func newDocumentsRouter(t *testing.T, maxBytes int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := &Service{
		Store:    local.New(t.TempDir()),
		Repo:     NewMemoryRepo(),
		MaxBytes: maxBytes,
	}
	router := gin.New()
	api := router.Group("/api/v1", middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)
	return router
}

func uploadRequest(t *testing.T, name, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Guest-Id", "test-guest")
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	if req.Header.Get("X-Guest-Id") == "" {
		req.Header.Set("X-Guest-Id", "test-guest")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestUploadCurrentListDelete(t *testing.T) {
	router := newDocumentsRouter(t, 0)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any upload, got %d", resp.Code)
	}

	resp = serve(router, uploadRequest(t, "Jane Resume.txt", "JANE DOE\nEXPERIENCE\nEngineer"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created DocumentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	if created.DocumentID == "" || created.Kind != "txt" || !strings.HasPrefix(created.MimeType, "text/plain") {
		t.Fatalf("unexpected upload response: %+v", created)
	}
	if strings.Contains(resp.Body.String(), "storageKey") {
		t.Fatalf("storage key leaked: %s", resp.Body.String())
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil))
	var current DocumentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &current); err != nil {
		t.Fatalf("decode current: %v", err)
	}
	if current.DocumentID != created.DocumentID || current.FileName != "Jane Resume.txt" {
		t.Fatalf("unexpected current document: %+v", current)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	other.Header.Set("X-Guest-Id", "someone-else")
	if resp := serve(router, other); resp.Code != http.StatusNotFound {
		t.Fatalf("expected documents scoped per owner, got %d", resp.Code)
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents?limit=500", nil))
	var list []DocumentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one document, got %d", len(list))
	}

	resp = serve(router, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = serve(router, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}

func TestUploadRejections(t *testing.T) {
	cases := []struct {
		name     string
		file     string
		content  string
		maxBytes int64
		status   int
		code     string
	}{
		{"image", "photo.png", "\x89PNG", 0, http.StatusUnsupportedMediaType, "unsupported_file_type"},
		{"too large", "resume.txt", strings.Repeat("a", 64), 16, http.StatusRequestEntityTooLarge, "file_too_large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newDocumentsRouter(t, tc.maxBytes)
			resp := serve(router, uploadRequest(t, tc.file, tc.content))
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			_ = json.Unmarshal(resp.Body.Bytes(), &body)
			if body.Error.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Error.Code)
			}
		})
	}

	router := newDocumentsRouter(t, 0)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	if resp := serve(router, req); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", resp.Code)
	}
}
