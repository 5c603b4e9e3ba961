package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

const testSigningKey = "api-test-signing-key"

// testEnv bundles a fully wired server over in-memory SQLite, a
// temp-dir blob store and (optionally) a miniredis-backed cache.
type testEnv struct {
	server *Server
	store  *storage.Store
	redis  *miniredis.Miniredis // nil unless withCache
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;

		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE(user_id, name)
		);

		CREATE TABLE todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed INTEGER NOT NULL DEFAULT 0,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
			deadline TIMESTAMP,
			overdue_at TIMESTAMP,
			attachment_name TEXT NOT NULL DEFAULT '',
			attachment_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`)
	require.NoError(t, err)
	return db
}

func newTestEnv(t *testing.T, withCache bool) *testEnv {
	t.Helper()

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	store := storage.NewStoreWithDB(newTestDB(t), logger)

	tokens, err := auth.NewTokenService([]byte(testSigningKey), 30*time.Minute, logger)
	require.NoError(t, err)
	authService := auth.NewService(store, tokens, nil, logger)
	resolver := auth.NewResolver(tokens, store, nil)

	blobs, err := storage.NewFilesystemBlobStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{store: store}

	var cache *storage.TodoCache
	if withCache {
		env.redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: env.redis.Addr()})
		t.Cleanup(func() { client.Close() })
		cache = storage.NewTodoCache(client, time.Hour, nil)
	}

	env.server = NewServer(Deps{
		Store:       store,
		Cache:       cache,
		Blobs:       blobs,
		AuthService: authService,
		Resolver:    resolver,
		Logger:      logger,
		MaxFileSize: 1024, // small cap so oversize tests stay cheap
	})
	return env
}

// do runs a JSON request against the server; token may be empty.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates a user through the API and returns its token.
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	password := "Sup3r$ecret"
	rec := e.do(t, "POST", "/api/v1/users/register", "", RegisterRequest{Username: username, Password: password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, "POST", "/api/v1/users/login", "", LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) *storage.Todo {
	t.Helper()
	var todo storage.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todo))
	return &todo
}

func decodeTodos(t *testing.T, rec *httptest.ResponseRecorder) []*storage.Todo {
	t.Helper()
	var todos []*storage.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	return todos
}

// multipartUpload posts a file to a todo's attachment endpoint.
func (e *testEnv) multipartUpload(t *testing.T, todoID int64, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/v1/todos/%d/attachment", todoID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}
