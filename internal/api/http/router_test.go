package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskflow/task-service/internal/api/http/handlers"
	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/config"
	"github.com/taskflow/task-service/internal/domain"
	"github.com/taskflow/task-service/internal/events"
	"github.com/taskflow/task-service/internal/observability"
	"github.com/taskflow/task-service/internal/service"
)

// In-memory repositories backing the full HTTP stack. They mirror the
// Postgres implementations' contract, including pgx.ErrNoRows on misses and
// case-insensitive email lookups.

type stubUsers struct {
	seq   int
	byKey map[string]*domain.User
}

func newStubUsers() *stubUsers { return &stubUsers{byKey: make(map[string]*domain.User)} }

func (r *stubUsers) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = "u" + strconv.Itoa(r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byKey[strings.ToLower(user.Email)] = user
	return nil
}

func (r *stubUsers) Update(_ context.Context, user *domain.User) error {
	r.byKey[strings.ToLower(user.Email)] = user
	return nil
}

func (r *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byKey {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byKey[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byKey[strings.ToLower(email)]
	return ok, nil
}

func (r *stubUsers) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.byKey {
		out = append(out, *u)
	}
	return out, nil
}

type stubProjects struct {
	seq  int
	byID map[string]*domain.Project
}

func newStubProjects() *stubProjects { return &stubProjects{byID: make(map[string]*domain.Project)} }

func (r *stubProjects) Create(_ context.Context, project *domain.Project) error {
	r.seq++
	project.ID = "p" + strconv.Itoa(r.seq)
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.byID[project.ID] = project
	return nil
}

func (r *stubProjects) Update(_ context.Context, project *domain.Project) error {
	project.UpdatedAt = time.Now()
	r.byID[project.ID] = project
	return nil
}

func (r *stubProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := r.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubProjects) ListByOwnerEmail(_ context.Context, email string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range r.byID {
		if strings.EqualFold(p.OwnerEmail, email) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProjects) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type stubTasks struct {
	seq  int
	byID map[string]*domain.Task
}

func newStubTasks() *stubTasks { return &stubTasks{byID: make(map[string]*domain.Task)} }

func (r *stubTasks) Create(_ context.Context, task *domain.Task) error {
	r.seq++
	task.ID = "t" + strconv.Itoa(r.seq)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.byID[task.ID] = task
	return nil
}

func (r *stubTasks) Update(_ context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now()
	r.byID[task.ID] = task
	return nil
}

func (r *stubTasks) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if t, ok := r.byID[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubTasks) ListByProject(_ context.Context, projectID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.byID {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTasks) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type stubComments struct {
	seq      int
	comments []domain.Comment
}

func newStubComments() *stubComments { return &stubComments{} }

func (r *stubComments) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = "c" + strconv.Itoa(r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *stubComments) ListByTask(_ context.Context, taskID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

const testSecret = "unit-secret"

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()

	authCfg := config.AuthConfig{
		Issuer:                "taskflow",
		JWTSecret:             testSecret,
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLHours:  24,
		BcryptCost:            4,
	}

	users := newStubUsers()
	projects := newStubProjects()
	tasks := newStubTasks()
	comments := newStubComments()

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()

	authSvc := service.NewAuthService(authCfg, users)
	projectSvc := service.NewProjectService(projects, dispatcher)
	taskSvc := service.NewTaskService(tasks, comments, users, projectSvc, dispatcher)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Auth:           handlers.NewAuthHandler(authSvc),
		Projects:       handlers.NewProjectsHandler(projectSvc),
		Tasks:          handlers.NewTasksHandler(taskSvc),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.TokenManager(), users, logger),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func register(t *testing.T, app *fiber.App, email, fullName string) (accessToken, refreshToken string) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    email,
		"fullName": fullName,
		"password": "s3cret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["accessToken"].(string), body["refreshToken"].(string)
}

func createProject(t *testing.T, app *fiber.App, token, name string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/projects", token, fiber.Map{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["data"].(map[string]any)["id"].(string)
}

func TestRegisterLoginAndProtectedAccess(t *testing.T) {
	app := newTestServer(t)

	access, _ := register(t, app, "alice@example.com", "Alice Example")

	resp, body := doJSON(t, app, http.MethodGet, "/api/projects", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "data")

	// Second registration with the same email conflicts.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "Alice@example.com", "fullName": "Imposter", "password": "s3cret-password",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "s3cret-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice@example.com", body["user"].(map[string]any)["email"])
}

func TestProtectedEndpointsRejectBadTokens(t *testing.T) {
	app := newTestServer(t)
	_, refresh := register(t, app, "alice@example.com", "Alice")

	for name, token := range map[string]string{
		"no token":      "",
		"garbage":       "not-a-token",
		"refresh token": refresh,
		"expired":       expiredAccessToken(t, "alice@example.com"),
		"wrong issuer":  tokenFrom(t, auth.NewSigner(testSecret, "someone-else"), "alice@example.com"),
		"wrong key":     tokenFrom(t, auth.NewSigner("other-secret", "taskflow"), "alice@example.com"),
	} {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/projects", token, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
	}
}

func TestForeignProjectReadsAsNotFound(t *testing.T) {
	app := newTestServer(t)
	aliceToken, _ := register(t, app, "alice@example.com", "Alice")
	bobToken, _ := register(t, app, "bob@example.com", "Bob")

	projectID := createProject(t, app, aliceToken, "Launch Website")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/projects/"+projectID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A foreign project is indistinguishable from a missing one.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/projects/"+projectID, bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/projects/"+projectID, bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/projects/"+projectID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshEndpoint(t *testing.T) {
	app := newTestServer(t)
	access, refresh := register(t, app, "alice@example.com", "Alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/refresh", refresh, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["accessToken"])
	require.NotEmpty(t, body["refreshToken"])

	// An access token presented to refresh is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/refresh", access, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskLifecycle(t *testing.T) {
	app := newTestServer(t)
	aliceToken, _ := register(t, app, "alice@example.com", "Alice")
	bobToken, _ := register(t, app, "bob@example.com", "Bob")

	projectID := createProject(t, app, aliceToken, "Launch Website")

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/projects/%s/tasks", projectID), aliceToken, fiber.Map{
		"title": "Write landing page copy",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := body["data"].(map[string]any)
	require.Equal(t, string(domain.TaskStatusBacklog), task["status"])
	taskID := task["id"].(string)

	resp, body = doJSON(t, app, http.MethodPatch, "/api/tasks/"+taskID+"/status", aliceToken, fiber.Map{
		"status": "IN_PROGRESS",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, string(domain.TaskStatusInProgress), body["data"].(map[string]any)["status"])

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/tasks/"+taskID+"/status", aliceToken, fiber.Map{
		"status": "SHIPPED",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/tasks/"+taskID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Write landing page copy", body["data"].(map[string]any)["title"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/tasks/"+taskID, bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/tasks/"+taskID+"/comments", aliceToken, fiber.Map{
		"body": "First draft is up.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "alice@example.com", body["data"].(map[string]any)["authorEmail"])

	// Tasks inherit access from their project.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/tasks/"+taskID+"/comments", bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/tasks/"+taskID+"/comments", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["data"].([]any), 1)
}

func tokenFrom(t *testing.T, signer *auth.Signer, subject string) string {
	t.Helper()
	token, err := signer.Sign(&auth.Claims{
		TokenType: auth.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signer.Issuer(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	require.NoError(t, err)
	return token
}

func expiredAccessToken(t *testing.T, subject string) string {
	t.Helper()
	signer := auth.NewSigner(testSecret, "taskflow")
	token, err := signer.Sign(&auth.Claims{
		TokenType: auth.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signer.Issuer(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	require.NoError(t, err)
	return token
}
