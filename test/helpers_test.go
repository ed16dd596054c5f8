package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/dadhichi/internal/auth"
	"github.com/2beens/dadhichi/pkg"

	"github.com/stretchr/testify/require"
)

func doRequest(ctx context.Context, t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(pkg.AuthTokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func doLogin(ctx context.Context, t *testing.T) string {
	status, respBytes := doRequest(ctx, t, "POST", "/a/login", "", auth.Credentials{
		Email:    testEmail,
		Password: testPassword,
	})
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var session auth.Session
	require.NoError(t, json.Unmarshal(respBytes, &session))
	require.NotEmpty(t, session.Token)

	return session.Token
}

func doLogout(ctx context.Context, t *testing.T, token string) {
	status, respBytes := doRequest(ctx, t, "GET", "/a/logout", token, nil)
	require.Equal(t, http.StatusOK, status, fmt.Sprintf("logout: %s", respBytes))
}
