package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/genuxhq/genux-api/internal/api"
	mw "github.com/genuxhq/genux-api/internal/api/middleware"
	"github.com/genuxhq/genux-api/internal/auth"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	codec := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	return api.NewRouter(api.Dependencies{
		Session:   mw.NewSession(codec),
		RateLimit: mw.NewRateLimit(nopCache{}, 60),
	})
}

type nopCache struct{}

func (nopCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (nopCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (nopCache) Delete(_ context.Context, _ string) error                         { return nil }
func (nopCache) Ping(_ context.Context) error                                     { return nil }
func (nopCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

func TestRouter_UnwiredHandlersReturn501(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRouter_UnknownRoute404(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ProtectedRoutesRejectWithoutSession(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apikeys/list", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
