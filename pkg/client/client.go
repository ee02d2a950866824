// Package client holds a relying party's registration with the Platform and
// builds, stores and restores authentication requests on its behalf.
package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/zitadel/logging"
	"github.com/zitadel/schema"

	otelinternal "github.com/healthfed/platformlogin/internal/otel"
	httphelper "github.com/healthfed/platformlogin/pkg/http"
	"github.com/healthfed/platformlogin/pkg/platform"
)

var Tracer = otelinternal.Tracer("github.com/healthfed/platformlogin/pkg/client")

// PendingRequestCookie names the cookie carrying the JSON form of the
// pending authentication request between the login redirect and the
// callback.
const PendingRequestCookie = "platform.pending-auth-request"

type Client struct {
	host        string
	clientID    string
	redirectURI string
	scopes      platform.Scopes

	cookieHandler *httphelper.CookieHandler
	tokens        platform.TokenSource
	logger        *slog.Logger
}

type Option func(*Client)

// WithCookieHandler sets the handler used for the pending request transfer
// cookie. Without one, AuthURLHandler and PendingRequest are unavailable.
func WithCookieHandler(handler *httphelper.CookieHandler) Option {
	return func(c *Client) {
		c.cookieHandler = handler
	}
}

// WithTokenSource overrides the secure random source used to default state
// and nonce on built requests.
func WithTokenSource(tokens platform.TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for a relying party registered with the Platform at
// host. The scope list is validated per request, the registration fields
// right here.
func New(host, clientID, redirectURI string, scopes platform.Scopes, options ...Option) (*Client, error) {
	switch {
	case host == "":
		return nil, platform.ErrInvalidRequest().WithDescription("host is empty")
	case clientID == "":
		return nil, platform.ErrInvalidRequest().WithDescription("client_id is empty")
	case redirectURI == "":
		return nil, platform.ErrInvalidRequest().WithDescription("redirect_uri is empty")
	}
	c := &Client{
		host:        host,
		clientID:    clientID,
		redirectURI: redirectURI,
		scopes:      append(platform.Scopes(nil), scopes...),
		tokens:      platform.NewTokenSource(),
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// Logger returns the logger from the context, falling back to the client's.
func (c *Client) Logger(ctx context.Context) (logger *slog.Logger, ok bool) {
	logger, ok = logging.FromContext(ctx)
	if ok {
		return logger, ok
	}
	return c.logger, c.logger != nil
}

// NewAuthenticationRequest builds a request from the client's registration.
// Per-request options are applied on top and may override any field except
// the scope list.
func (c *Client) NewAuthenticationRequest(ctx context.Context, opts ...platform.Option) (*platform.AuthenticationRequest, error) {
	ctx, span := Tracer.Start(ctx, "NewAuthenticationRequest")
	defer span.End()

	base := []platform.Option{
		platform.WithHost(c.host),
		platform.WithClientID(c.clientID),
		platform.WithRedirectURI(c.redirectURI),
		platform.WithTokenSource(c.tokens),
	}
	request, err := platform.NewAuthenticationRequest(c.scopes, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if logger, ok := c.Logger(ctx); ok {
		logger.DebugContext(ctx, "built authentication request", "request", request)
	}
	return request, nil
}

// AuthURLHandler answers with a redirect to the Platform's authorize
// endpoint, after persisting the pending request's JSON form in the secure
// cookie so the callback can restore it.
func AuthURLHandler(client *Client, opts ...platform.Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := Tracer.Start(r.Context(), "AuthURLHandler")
		defer span.End()
		ctx = logCtxWithClientData(ctx, client, "client_id", client.clientID)

		request, err := client.NewAuthenticationRequest(ctx, opts...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := SetPendingRequest(w, client, request); err != nil {
			http.Error(w, "failed to store pending request: "+err.Error(), http.StatusInternalServerError)
			return
		}
		authorizeURL, err := request.AuthorizeURL()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if logger, ok := client.Logger(ctx); ok {
			logger.InfoContext(ctx, "redirecting to the Platform", "request", request)
		}
		http.Redirect(w, r, authorizeURL, http.StatusFound)
	}
}

// SetPendingRequest stores the request's JSON form in the transfer cookie.
func SetPendingRequest(w http.ResponseWriter, client *Client, request *platform.AuthenticationRequest) error {
	if client.cookieHandler == nil {
		return platform.ErrServerError().WithDescription("no cookie handler configured")
	}
	data, err := json.Marshal(request)
	if err != nil {
		return platform.ErrServerError().WithDescription("failed to marshal pending request").WithParent(err)
	}
	return client.cookieHandler.SetCookie(w, PendingRequestCookie, string(data))
}

// PendingRequest restores the pending authentication request from the
// transfer cookie on a callback request and verifies that the returned
// state parameter matches the stored one.
func PendingRequest(r *http.Request, client *Client) (*platform.AuthenticationRequest, error) {
	if client.cookieHandler == nil {
		return nil, platform.ErrServerError().WithDescription("no cookie handler configured")
	}
	value, err := client.cookieHandler.CheckCookie(r, PendingRequestCookie)
	if err != nil {
		return nil, platform.ErrInvalidRequest().WithDescription("no pending authentication request").WithParent(err)
	}
	request, err := platform.UnmarshalAuthenticationRequest([]byte(value))
	if err != nil {
		return nil, err
	}
	if state := r.FormValue(platform.QueryState); state != request.State {
		return nil, platform.ErrInvalidRequest().WithDescription("state of the callback does not match the pending request")
	}
	return request, nil
}

var decoder = func() httphelper.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ParseAuthenticationRequest decodes an authorize query built for the given
// host back into a request. The query carries no host, so it is supplied by
// the caller. Unknown parameters are ignored.
func ParseAuthenticationRequest(host string, query url.Values) (*platform.AuthenticationRequest, error) {
	request := new(platform.AuthenticationRequest)
	if err := decoder.Decode(request, query); err != nil {
		return nil, platform.ErrInvalidRequest().WithDescription("malformed authorize query").WithParent(err)
	}
	request.Host = host
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return request, nil
}
