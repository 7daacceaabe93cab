package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/smartflow/configs"
	"github.com/maheshrc27/smartflow/internal/api/handlers"
	"github.com/maheshrc27/smartflow/internal/api/middleware"
	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/repository"
	"github.com/maheshrc27/smartflow/internal/service"
	"github.com/maheshrc27/smartflow/pkg/utils"
)

type testServer struct {
	app   *fiber.App
	posts repository.PostRepository
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{SecretKey: "test-secret", CookieName: "session", TokenDuration: time.Hour}

	posts := repository.NewMemoryPostRepository()
	analytics := repository.NewMemoryAnalyticsRepository()
	history := repository.NewMemoryPostingHistoryRepository()
	users := repository.NewMemoryUserRepository()
	tenants := repository.NewMemoryTenantRepository()
	media := service.NewMediaService(service.NewMemoryStore("http://media.test"))

	app := fiber.New()
	RegisterRoutes(app, middleware.NewAuthMiddleware(cfg), Handlers{
		Auth:      handlers.NewAuthHandler(cfg, service.NewAuthService(cfg, users, tenants)),
		User:      handlers.NewUserHandler(service.NewUserService(users), service.NewTenantService(tenants)),
		Post:      handlers.NewPostHandler(service.NewPostService(posts, history)),
		Scheduler: handlers.NewSchedulerHandler(service.NewSchedulerService(posts)),
		Analytics: handlers.NewAnalyticsHandler(service.NewAnalyticsService(posts, analytics)),
		Content:   handlers.NewContentHandler(nil, media),
	})

	token, err := utils.GenerateToken(cfg.SecretKey, "u1", models.DefaultTenantID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return &testServer{app: app, posts: posts, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func (s *testServer) createPost(t *testing.T, content string) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/posts", map[string]any{"content": content, "platform": "twitter"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create post status = %d body = %v", resp.StatusCode, body)
	}
	return body["id"].(string)
}

func TestRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ name, header string }{
		{"missing", ""},
		{"garbage", "Bearer nope"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/scheduler/scheduled", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, _ := s.send(t, req)
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestCookieAuth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tenant", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: s.token})
	resp, body := s.send(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["id"] != models.DefaultTenantID {
		t.Errorf("tenant = %v", body)
	}
}

func TestScheduleAndCancelFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.createPost(t, "ship it")
	when := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)

	resp, body := s.do(t, http.MethodPost, "/api/scheduler/schedule", map[string]any{"postId": id, "scheduledAt": when})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("schedule status = %d body = %v", resp.StatusCode, body)
	}
	post := body["post"].(map[string]any)
	if post["status"] != "scheduled" || post["scheduledAt"] == nil {
		t.Errorf("scheduled post = %v", post)
	}
	if body["message"] == nil {
		t.Error("missing message")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler/scheduled", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var list []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&list)
	if len(list) != 1 || list[0]["id"] != id {
		t.Errorf("scheduled list = %v", list)
	}

	resp, body = s.do(t, http.MethodPost, "/api/scheduler/cancel/"+id, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("cancel status = %d body = %v", resp.StatusCode, body)
	}
	post = body["post"].(map[string]any)
	if post["status"] != "draft" || post["scheduledAt"] != nil {
		t.Errorf("cancelled post = %v", post)
	}

	resp, _ = s.do(t, http.MethodPost, "/api/scheduler/cancel/"+id, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("second cancel status = %d, want 400", resp.StatusCode)
	}
}

func TestScheduleBadRequests(t *testing.T) {
	s := newTestServer(t)
	id := s.createPost(t, "hello")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing post id", map[string]any{"scheduledAt": time.Now().Format(time.RFC3339)}},
		{"missing time", map[string]any{"postId": id}},
		{"bad time", map[string]any{"postId": id, "scheduledAt": "tomorrow"}},
		{"unknown post", map[string]any{"postId": "nope", "scheduledAt": time.Now().Format(time.RFC3339)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/api/scheduler/schedule", tt.body)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if body["error"] == nil {
				t.Errorf("body = %v, want error field", body)
			}
		})
	}

	resp, _ := s.do(t, http.MethodPost, "/api/scheduler/cancel/nope", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("cancel unknown status = %d, want 400", resp.StatusCode)
	}
}

func TestPostRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.createPost(t, "draft one")

	resp, body := s.do(t, http.MethodPut, "/api/posts/"+id, map[string]any{"content": "edited"})
	if resp.StatusCode != fiber.StatusOK || body["content"] != "edited" {
		t.Errorf("update status = %d body = %v", resp.StatusCode, body)
	}

	resp, _ = s.do(t, http.MethodGet, "/api/posts/missing", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("get missing status = %d, want 404", resp.StatusCode)
	}

	resp, _ = s.do(t, http.MethodPost, "/api/posts", map[string]any{"content": "", "platform": "twitter"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("create empty status = %d, want 400", resp.StatusCode)
	}

	resp, _ = s.do(t, http.MethodDelete, "/api/posts/"+id, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	if _, err := s.posts.GetByID(context.Background(), id); err == nil {
		t.Error("post still stored after delete")
	}
}

func TestAnalyticsRoutes(t *testing.T) {
	s := newTestServer(t)
	s.createPost(t, "hello #go")

	resp, body := s.do(t, http.MethodGet, "/api/analytics/overview?timeframe=7d", nil)
	if resp.StatusCode != fiber.StatusOK || body["totalPosts"] != float64(1) {
		t.Errorf("overview status = %d body = %v", resp.StatusCode, body)
	}

	resp, _ = s.do(t, http.MethodGet, "/api/analytics/insights?timeframe=1y", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad timeframe status = %d, want 400", resp.StatusCode)
	}
}

func TestAIRoutesUnavailableWithoutProvider(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api/ai/generate-content", map[string]any{"prompt": "x"})
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestMediaUpload(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("file", "pic.png")
	part.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'})
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, body := s.send(t, req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d body = %v", resp.StatusCode, body)
	}
	if url, _ := body["url"].(string); url == "" {
		t.Errorf("body = %v", body)
	}
}

func TestRegisterThenProfile(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		bytes.NewReader([]byte(`{"email":"ana@example.com","password":"correct-horse","name":"Ana"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, body := s.send(t, req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d body = %v", resp.StatusCode, body)
	}
	s.token = body["token"].(string)

	resp, body = s.do(t, http.MethodGet, "/api/user/profile", nil)
	if resp.StatusCode != fiber.StatusOK || body["email"] != "ana@example.com" {
		t.Errorf("profile status = %d body = %v", resp.StatusCode, body)
	}
	if _, leaked := body["passwordHash"]; leaked {
		t.Error("password hash exposed")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"ana@example.com","password":"wrong-horse"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = s.send(t, req)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.send(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.StatusCode != fiber.StatusOK || body["status"] != "ok" {
		t.Errorf("status = %d body = %v", resp.StatusCode, body)
	}
}
