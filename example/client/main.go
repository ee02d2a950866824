package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zitadel/logging"

	"github.com/healthfed/platformlogin/pkg/client"
	httphelper "github.com/healthfed/platformlogin/pkg/http"
	"github.com/healthfed/platformlogin/pkg/platform"
)

const (
	defaultPort  = "9999"
	callbackPath = "/auth/callback"
)

type config struct {
	Port        string
	Host        string
	ClientID    string
	RedirectURI string
	CookieKey   string
}

// fromEnvVars loads the demo configuration from environment variables,
// falling back to values that show the wire formats without a real
// Platform account.
func fromEnvVars() *config {
	cfg := &config{
		Port:      defaultPort,
		Host:      "auth.platform.example",
		ClientID:  "demo-client",
		CookieKey: "test1234test1234test1234test1234",
	}
	if value, ok := os.LookupEnv("PORT"); ok {
		cfg.Port = value
	}
	if value, ok := os.LookupEnv("PLATFORM_HOST"); ok {
		cfg.Host = value
	}
	if value, ok := os.LookupEnv("CLIENT_ID"); ok {
		cfg.ClientID = value
	}
	if value, ok := os.LookupEnv("REDIRECT_URI"); ok {
		cfg.RedirectURI = value
	}
	if value, ok := os.LookupEnv("COOKIE_KEY"); ok {
		cfg.CookieKey = value
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = "http://localhost:" + cfg.Port + callbackPath
	}
	return cfg
}

func main() {
	cfg := fromEnvVars()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cookieHandler := httphelper.NewCookieHandler(
		[]byte(cfg.CookieKey),
		nil,
		httphelper.WithUnsecure(),
		httphelper.WithMaxAge(300),
	)
	c, err := client.New(cfg.Host, cfg.ClientID, cfg.RedirectURI,
		platform.Scopes{platform.ScopeOpenID, platform.ScopeProfile},
		client.WithCookieHandler(cookieHandler),
		client.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// a per-request logger, so all request logs share a session id
			ctx := logging.ToContext(r.Context(), logger.With("session_id", uuid.NewString()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})

	// /login builds the request, stores its JSON form in the cookie and
	// redirects the browser to the Platform
	router.Get("/login", client.AuthURLHandler(c,
		platform.WithDisplay(platform.DisplayPage),
		platform.WithAllowRegistration(true),
	))

	// the callback restores the pending request and echoes its JSON form;
	// a real relying party would continue with the code exchange here
	router.Get(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		pending, err := client.PendingRequest(r, c)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		httphelper.MarshalJSON(w, pending)
	})

	logger.Info("demo client listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
