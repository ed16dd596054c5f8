package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/dadhichi/internal/middleware"
	"github.com/2beens/dadhichi/internal/telemetry/metrics"
	"github.com/2beens/dadhichi/internal/telemetry/tracing"
	"github.com/2beens/dadhichi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type SignUpResponse struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/signup", handler.HandleSignUp).
		Methods("POST", "OPTIONS").Name("signup")
	loginSubrouter.
		HandleFunc("/logout", handler.HandleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the auth endpoints, each attempt is a provider call
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", allowedPerMin, metricsManager))
}

func readCredentials(r *http.Request) (Credentials, error) {
	var creds Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return Credentials{}, err
		}
		return creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return Credentials{}, err
	}
	return Credentials{
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("login, read credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	session, err := handler.service.SignIn(ctx, creds)
	if err != nil {
		handler.writeAuthErr(w, "log in", "Login failed", err)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Tracef("login success for user: %s", session.UserID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

func (handler *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signup")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("sign up, read credentials: %s", err)
		http.Error(w, "sign up failed", http.StatusBadRequest)
		return
	}

	user, err := handler.service.SignUp(ctx, creds)
	if err != nil {
		handler.writeAuthErr(w, "sign up", "Sign up failed", err)
		return
	}

	respJson, err := json.Marshal(SignUpResponse{
		UserID:  user.LocalID,
		Email:   user.Email,
		Message: "Sign up successful! Please check your email for verification.",
	})
	if err != nil {
		log.Errorf("marshal sign up response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := pkg.AuthToken(r)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.service.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

// writeAuthErr passes provider messages through unchanged.
func (handler *Handler) writeAuthErr(w http.ResponseWriter, action, prefix string, err error) {
	var providerErr *ProviderError
	switch {
	case errors.Is(err, ErrMissingCredentials):
		http.Error(w, "Please enter both email and password to "+action+".", http.StatusBadRequest)
	case errors.As(err, &providerErr):
		log.Debugf("%s rejected by provider: %s", action, providerErr)
		http.Error(w, prefix+": "+providerErr.Message, http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, prefix, http.StatusInternalServerError)
	}
}
