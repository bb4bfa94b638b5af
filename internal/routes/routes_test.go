package routes

import (
    "context"
    "errors"
    "io"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/AdamWudarczyk/qa-portal/internal/database"
    "github.com/AdamWudarczyk/qa-portal/internal/middleware"
)

func init() {
    gin.SetMode(gin.TestMode)
}

// unreachable behaves like a database that cannot be dialled.
type unreachable struct{ calls int }

func (u *unreachable) Open(ctx context.Context) (*database.Session, error) {
    u.calls++
    return nil, errors.New("dial tcp: connection refused")
}

func newTestRouter(opener database.Opener) *gin.Engine {
    log := logrus.New()
    log.SetOutput(io.Discard)
    return New(opener, Metadata{Title: "QA Portal", Version: "0.1.0"}, log)
}

func TestPing_WithoutDatabase(t *testing.T) {
    opener := &unreachable{}
    r := newTestRouter(opener)

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

    assert.Equal(t, http.StatusOK, w.Code)
    assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
    assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
    assert.Equal(t, 0, opener.calls)
}

func TestOpenAPI_CarriesMetadata(t *testing.T) {
    r := newTestRouter(&unreachable{})

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

    require.Equal(t, http.StatusOK, w.Code)
    assert.Contains(t, w.Body.String(), `"title":"QA Portal"`)
    assert.Contains(t, w.Body.String(), `"version":"0.1.0"`)
}

func TestRoutes_Registered(t *testing.T) {
    r := newTestRouter(&unreachable{})

    got := map[string]bool{}
    for _, ri := range r.Routes() {
        got[ri.Method+" "+ri.Path] = true
    }
    assert.Equal(t, map[string]bool{
        "GET /ping":         true,
        "GET /openapi.json": true,
    }, got)
}

func TestUnknownRoute(t *testing.T) {
    r := newTestRouter(&unreachable{})

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ping", nil))
    assert.Equal(t, http.StatusNotFound, w.Code)
}
