package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub-io/taskhub/pkg/httputil"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, "POST", "/api/v1/users/register", "", RegisterRequest{
		Username: "alice", Password: "Sup3r$ecret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.UserID, int64(0))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t, false)

	body := RegisterRequest{Username: "alice", Password: "Sup3r$ecret"}
	rec := env.do(t, "POST", "/api/v1/users/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, "POST", "/api/v1/users/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name      string
		username  string
		password  string
		wantField string
	}{
		{"username too short", "ab", "Sup3r$ecret", "username"},
		{"username bad chars", "alice!", "Sup3r$ecret", "username"},
		{"password too short", "alice", "Ab1$", "password"},
		{"password no symbol", "alice", "Passw0rdd", "password"},
		{"password no digit", "alice", "Password$$", "password"},
		{"password no uppercase", "alice", "passw0rd$$", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", "/api/v1/users/register", "", RegisterRequest{
				Username: tt.username, Password: tt.password,
			})
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantField, resp.Field)
		})
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerAndLogin(t, "alice")

	// Wrong password and unknown user must be indistinguishable
	rec1 := env.do(t, "POST", "/api/v1/users/login", "", LoginRequest{Username: "alice", Password: "Wr0ng$pass"})
	rec2 := env.do(t, "POST", "/api/v1/users/login", "", LoginRequest{Username: "nobody", Password: "Wr0ng$pass"})

	assert.Equal(t, http.StatusUnauthorized, rec1.Code)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Equal(t, rec1.Body.String(), rec2.Body.String())
}

func TestLogin_TokenTypeBearer(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerAndLogin(t, "alice")

	rec := env.do(t, "POST", "/api/v1/users/login", "", LoginRequest{Username: "alice", Password: "Sup3r$ecret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestDeleteUser_SelfOnly(t *testing.T) {
	env := newTestEnv(t, false)
	aliceToken := env.registerAndLogin(t, "alice")
	env.registerAndLogin(t, "bob")

	// Look up ids through the register responses: alice is 1, bob is 2
	rec := env.do(t, "DELETE", "/api/v1/users/2", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, "DELETE", "/api/v1/users/1", aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteUser_OutstandingTokenRejected(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, "DELETE", "/api/v1/users/1", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The token is still cryptographically valid but the subject is gone
	rec = env.do(t, "GET", "/api/v1/todos", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteUser_RequiresAuth(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerAndLogin(t, "alice")

	rec := env.do(t, "DELETE", "/api/v1/users/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteUser_CascadesOwnedData(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, "POST", "/api/v1/todos", token, CreateTodoRequest{Title: "orphan-to-be"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, "DELETE", "/api/v1/users/1", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The admin listing crosses all users, so the cascade is visible there
	rec = env.do(t, "GET", "/api/v1/admin/todos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeTodos(t, rec), 0)
}
