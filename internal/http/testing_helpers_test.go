package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/loans"
	"github.com/mrlokans/library/internal/database/stats"
	"github.com/mrlokans/library/internal/database/students"
	"github.com/mrlokans/library/internal/library"
)

var testNow = time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)

type testServer struct {
	db     *database.Database
	router *gin.Engine
	policy library.Policy
}

func policyAt(now time.Time) library.Policy {
	p := library.DefaultPolicy()
	p.Now = func() time.Time { return now }
	return p
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	policy := policyAt(testNow)
	router := NewRouter(RouterConfig{
		Students: students.NewRepository(db.DB),
		Books:    books.NewRepository(db.DB),
		Loans:    loans.NewRepository(db.DB, policy),
		Stats:    stats.NewRepository(db.DB),
		Database: db,
		Version:  "test",
	})
	return &testServer{db: db, router: router, policy: policy}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
