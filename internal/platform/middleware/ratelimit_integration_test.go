//go:build integration

package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"fiducia/internal/platform/middleware"
	platformredis "fiducia/internal/platform/redis"
	"fiducia/pkg/domain"
	"fiducia/pkg/requestcontext"
	"fiducia/pkg/testutil/containers"
)

type RateLimitSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRateLimitSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RateLimitSuite))
}

func (s *RateLimitSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RateLimitSuite) TearDownSuite() {
	if s.redis != nil {
		_ = s.redis.Client.Close()
		_ = s.redis.Container.Terminate(context.Background())
	}
}

func (s *RateLimitSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RateLimitSuite) newLimitedHandler(perMinute int) http.Handler {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	client := &platformredis.Client{Client: s.redis.Client}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.RateLimit(client, perMinute, logger)(inner)
}

func (s *RateLimitSuite) request(h http.Handler, user domain.UserID) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestcontext.WithUserID(req.Context(), user))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func (s *RateLimitSuite) TestLimitEnforcedPerUser() {
	h := s.newLimitedHandler(3)

	alice, err := domain.ParseUserID("3f1f9c70-0f6a-4f7e-9a34-0000000000aa")
	s.Require().NoError(err)
	bob, err := domain.ParseUserID("3f1f9c70-0f6a-4f7e-9a34-0000000000bb")
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		s.Equal(http.StatusOK, s.request(h, alice))
	}
	s.Equal(http.StatusTooManyRequests, s.request(h, alice))

	// A different user has their own window.
	s.Equal(http.StatusOK, s.request(h, bob))
}

func (s *RateLimitSuite) TestAnonymousRequestsKeyedByAddr() {
	h := s.newLimitedHandler(2)

	for i := 0; i < 2; i++ {
		s.Equal(http.StatusOK, s.request(h, domain.UserID{}))
	}
	s.Equal(http.StatusTooManyRequests, s.request(h, domain.UserID{}))
}
