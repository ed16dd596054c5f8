package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/dadhichi/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

const DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

var ErrMissingCredentials = errors.New("please enter both email and password")

// ProviderError carries the error exactly as the identity provider reported it.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %d %s", e.Code, e.Message)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// User is the provider account returned on sign-in and sign-up.
type User struct {
	LocalID      string        `json:"localId"`
	Email        string        `json:"email"`
	IDToken      string        `json:"idToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"-"`
	Registered   bool          `json:"registered"`
}

// IdentityToolkit is a client of the Firebase Identity Toolkit REST API.
type IdentityToolkit struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewIdentityToolkit(baseURL, apiKey string, httpClient *http.Client) *IdentityToolkit {
	if baseURL == "" {
		baseURL = DefaultIdentityToolkitURL
	}
	return &IdentityToolkit{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Registered   bool   `json:"registered"`
}

func (r accountResponse) user() *User {
	u := &User{
		LocalID:      r.LocalID,
		Email:        r.Email,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		Registered:   r.Registered,
	}
	if secs, err := strconv.Atoi(r.ExpiresIn); err == nil && secs > 0 {
		u.ExpiresIn = time.Duration(secs) * time.Second
	}
	return u
}

func (p *IdentityToolkit) SignIn(ctx context.Context, creds Credentials) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.identityToolkit.signIn")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var resp accountResponse
	if err := p.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             creds.Email,
		"password":          creds.Password,
		"returnSecureToken": true,
	}, &resp); err != nil {
		return nil, err
	}

	return resp.user(), nil
}

func (p *IdentityToolkit) SignUp(ctx context.Context, creds Credentials) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.identityToolkit.signUp")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var resp accountResponse
	if err := p.call(ctx, "accounts:signUp", map[string]any{
		"email":             creds.Email,
		"password":          creds.Password,
		"returnSecureToken": true,
	}, &resp); err != nil {
		return nil, err
	}

	return resp.user(), nil
}

func (p *IdentityToolkit) SendEmailVerification(ctx context.Context, idToken string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.identityToolkit.sendEmailVerification")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return p.call(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}, nil)
}

func (p *IdentityToolkit) call(ctx context.Context, method string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", p.baseURL, method, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error ProviderError `json:"error"`
		}
		if err := json.Unmarshal(respBytes, &errResp); err != nil || errResp.Error.Message == "" {
			log.Debugf("identity provider %s: unexpected response %d: %s", method, resp.StatusCode, respBytes)
			return &ProviderError{Code: resp.StatusCode, Message: string(respBytes)}
		}
		return &errResp.Error
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", method, err)
	}
	return nil
}
