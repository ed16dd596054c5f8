package test

import (
	"context"
	"net/http"

	"github.com/2beens/dadhichi/internal/auth"
)

func (s *IntegrationTestSuite) TestLoginLogout() {
	ctx := context.Background()

	status, body := doRequest(ctx, s.T(), "POST", "/a/login", "", auth.Credentials{
		Email:    testEmail,
		Password: "wrong",
	})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "INVALID_PASSWORD")

	status, _ = doRequest(ctx, s.T(), "GET", "/workouts/list/page/1/size/1", "", nil)
	s.Equal(http.StatusUnauthorized, status)

	token := doLogin(ctx, s.T())
	s.Equal(testIDToken, token)

	status, body = doRequest(ctx, s.T(), "GET", "/workouts/list/page/1/size/1", token, nil)
	s.Equal(http.StatusOK, status, string(body))

	doLogout(ctx, s.T(), token)

	status, _ = doRequest(ctx, s.T(), "GET", "/workouts/list/page/1/size/1", token, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestSignUp() {
	ctx := context.Background()

	status, body := doRequest(ctx, s.T(), "POST", "/a/signup", "", auth.Credentials{
		Email:    "meera@dadhichi.app",
		Password: "vrikshasana",
	})
	s.Equal(http.StatusCreated, status, string(body))

	status, body = doRequest(ctx, s.T(), "POST", "/a/signup", "", auth.Credentials{
		Email:    testEmail,
		Password: testPassword,
	})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "EMAIL_EXISTS")
}

func (s *IntegrationTestSuite) TestPublicRoutes() {
	ctx := context.Background()

	status, body := doRequest(ctx, s.T(), "GET", "/version", "", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("test-version-info", string(body))

	status, body = doRequest(ctx, s.T(), "GET", "/health", "", nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"postgres":"ok","redis":"ok"}`, string(body))

	resp, err := http.Get("http://" + serverHost + ":" + metricsPort + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
