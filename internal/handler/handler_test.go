package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/fitness-tracker-backend/internal/config"
	"github.com/yusufkecer/fitness-tracker-backend/internal/db"
	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"github.com/yusufkecer/fitness-tracker-backend/internal/repository"
	"github.com/yusufkecer/fitness-tracker-backend/internal/token"
)

const testPassword = "Tr41l-Runner!"

var testToday = domain.NewDate(2024, time.June, 15)

type testServer struct {
	t      *testing.T
	router http.Handler
	conn   *sql.DB
	tokens *token.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(conn, config.DriverSQLite, zap.NewNop()))

	tokens := token.NewManager("test-secret", "fitness-tracker", time.Hour, 24*time.Hour)
	router := NewRouter(Deps{
		Users:        repository.NewUserRepository(conn),
		Activities:   repository.NewActivityRepository(conn),
		Tokens:       tokens,
		Denylist:     token.NewSQLDenylist(repository.NewTokenRepository(conn)),
		Logger:       zap.NewNop(),
		PasswordCost: bcrypt.MinCost,
		Ping:         conn.PingContext,
		Today:        func() domain.Date { return testToday },
	})
	return &testServer{t: t, router: router, conn: conn, tokens: tokens}
}

func (s *testServer) do(method, path, access string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

type session struct {
	ID      int64
	Access  string
	Refresh string
}

func (s *testServer) register(username string) session {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/auth/register/", "", map[string]interface{}{
		"username":  username,
		"email":     username + "@example.com",
		"password":  testPassword,
		"password2": testPassword,
	})
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		User   struct{ ID int64 }
		Tokens domain.TokenPair
	}
	decode(s.t, rr, &resp)
	return session{ID: resp.User.ID, Access: resp.Tokens.Access, Refresh: resp.Tokens.Refresh}
}

func (s *testServer) createActivity(access string, body map[string]interface{}) ActivityView {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/activities/", access, body)
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	var v ActivityView
	decode(s.t, rr, &v)
	return v
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func fieldErrors(t *testing.T, rr *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	var errs map[string][]string
	decode(t, rr, &errs)
	return errs
}

func activityPath(id int64) string {
	return "/api/activities/" + strconv.FormatInt(id, 10) + "/"
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRequiresAuthentication(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/activities/", "/api/activities/metrics/", "/api/users/me/", "/api/activities/recent"} {
		rr := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}
