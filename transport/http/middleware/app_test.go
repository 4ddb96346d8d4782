package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	otelMocks "gamasa/infras/otel/mocks"
	cacheMocks "gamasa/shared/cache/mocks"
	"gamasa/transport/http/middleware"
)

const rateLimitKey = "limiter:10.0.0.1:gamasa-test"

func rateLimitConfig(enable bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 3
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func serveRateLimited(t *testing.T, cfg *config.Config, setupMock func(m *cacheMocks.MockRedisCache)) *httptest.ResponseRecorder {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	setupMock(redisCache)

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache)

	handler := app.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/properties", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
	req.Header.Set("User-Agent", "gamasa-test")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	tests := []struct {
		name          string
		cfg           *config.Config
		setupMock     func(m *cacheMocks.MockRedisCache)
		wantStatus    int
		wantRemaining string
	}{
		{
			name:       "disabled",
			cfg:        rateLimitConfig(false),
			setupMock:  func(_ *cacheMocks.MockRedisCache) {},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "first request opens the window",
			cfg:  rateLimitConfig(true),
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Increment(gomock.Any(), rateLimitKey, 60).Return(int64(1), nil)
			},
			wantStatus:    http.StatusNoContent,
			wantRemaining: "2",
		},
		{
			name: "counts within the window",
			cfg:  rateLimitConfig(true),
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Increment(gomock.Any(), rateLimitKey, 60).Return(int64(3), nil)
			},
			wantStatus:    http.StatusNoContent,
			wantRemaining: "0",
		},
		{
			name: "over the limit",
			cfg:  rateLimitConfig(true),
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Increment(gomock.Any(), rateLimitKey, 60).Return(int64(4), nil)
			},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "cache failure lets the request through",
			cfg:  rateLimitConfig(true),
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Increment(gomock.Any(), rateLimitKey, 60).Return(int64(0), errors.New("redis down"))
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveRateLimited(t, tt.cfg, tt.setupMock)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}
}

func TestAppMiddleware_CORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://gamasa.test"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet, http.MethodPost}

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil)

	handler := app.CORS()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{name: "allowed origin", origin: "https://gamasa.test", wantHeader: "https://gamasa.test"},
		{name: "unknown origin", origin: "https://evil.test", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/properties", nil)
			req.Header.Set("Origin", tt.origin)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantHeader, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestAppMiddleware_Tracing(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "gamasa"

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil)

	handler := app.Tracing(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/properties", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
