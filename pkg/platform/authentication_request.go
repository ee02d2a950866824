package platform

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/muhlemmer/gu"
)

// Authorize query parameter names, in the order the Platform expects them.
const (
	QueryScope                 = "scope"
	QueryResponseType          = "response_type"
	QueryClientID              = "client_id"
	QueryRedirectURI           = "redirect_uri"
	QueryState                 = "state"
	QueryNonce                 = "nonce"
	QueryDisplay               = "display"
	QueryPrompt                = "prompt"
	QueryVectorOfTrust         = "vtr"
	QueryFidoAuthResponse      = "fido_auth_response"
	QueryAssertedLoginIdentity = "asserted_login_identity"
	QueryAllowRegistration     = "allow_registration"
)

const authorizePath = "/authorize"

// AuthenticationRequest is the request sent to the Platform's authorize
// endpoint to start an authentication. Values are treated as immutable once
// constructed: use Clone to derive a request with overridden fields.
//
// The JSON form is the session representation of a pending request. It uses
// the field names below, with one deliberate asymmetry: Scopes is carried as
// a single space-joined string, not an array (see Scopes.MarshalJSON).
type AuthenticationRequest struct {
	ResponseType          ResponseType   `json:"responseType" schema:"response_type"`
	Host                  string         `json:"host" schema:"-"`
	Scopes                Scopes         `json:"scopes" schema:"scope"`
	ClientID              string         `json:"clientId" schema:"client_id"`
	RedirectURI           string         `json:"redirectUri" schema:"redirect_uri"`
	State                 string         `json:"state" schema:"state"`
	Nonce                 string         `json:"nonce" schema:"nonce"`
	Display               Display        `json:"display,omitempty" schema:"display"`
	Prompt                Prompt         `json:"prompt,omitempty" schema:"prompt"`
	VectorOfTrust         *VectorOfTrust `json:"vectorOfTrust,omitempty" schema:"vtr"`
	FidoAuthResponse      string         `json:"fidoAuthResponse,omitempty" schema:"fido_auth_response"`
	AssertedLoginIdentity string         `json:"assertedLoginIdentity,omitempty" schema:"asserted_login_identity"`

	// AllowRegistration is three-state: nil means the parameter is absent,
	// false is a legitimate value and is never collapsed to absent.
	AllowRegistration *bool `json:"allowRegistration,omitempty" schema:"allow_registration"`
}

type requestOptions struct {
	request AuthenticationRequest
	tokens  TokenSource
}

type Option func(*requestOptions)

func WithHost(host string) Option {
	return func(o *requestOptions) { o.request.Host = host }
}

func WithClientID(clientID string) Option {
	return func(o *requestOptions) { o.request.ClientID = clientID }
}

func WithRedirectURI(redirectURI string) Option {
	return func(o *requestOptions) { o.request.RedirectURI = redirectURI }
}

func WithState(state string) Option {
	return func(o *requestOptions) { o.request.State = state }
}

func WithNonce(nonce string) Option {
	return func(o *requestOptions) { o.request.Nonce = nonce }
}

func WithDisplay(display Display) Option {
	return func(o *requestOptions) { o.request.Display = display }
}

func WithPrompt(prompt Prompt) Option {
	return func(o *requestOptions) { o.request.Prompt = prompt }
}

func WithVectorOfTrust(vot *VectorOfTrust) Option {
	return func(o *requestOptions) { o.request.VectorOfTrust = vot }
}

func WithFidoAuthResponse(response string) Option {
	return func(o *requestOptions) { o.request.FidoAuthResponse = response }
}

func WithAssertedLoginIdentity(identity string) Option {
	return func(o *requestOptions) { o.request.AssertedLoginIdentity = identity }
}

func WithAllowRegistration(allow bool) Option {
	return func(o *requestOptions) { o.request.AllowRegistration = gu.Ptr(allow) }
}

// WithTokenSource overrides the secure random source used to default the
// state and nonce parameters.
func WithTokenSource(tokens TokenSource) Option {
	return func(o *requestOptions) { o.tokens = tokens }
}

// NewAuthenticationRequest builds a validated request for the given scopes.
// The scope list must be non-empty and contain ScopeOpenID. ResponseType is
// always ResponseTypeCode. When no WithState / WithNonce option is passed,
// each is defaulted from its own draw of the token source, once, at
// construction; they are never regenerated on serialization.
func NewAuthenticationRequest(scopes Scopes, opts ...Option) (*AuthenticationRequest, error) {
	if len(scopes) == 0 {
		return nil, ErrInvalidScope().WithDescription("at least one scope must be requested")
	}
	if !scopes.Contains(ScopeOpenID) {
		return nil, ErrInvalidScope().WithDescription("the %s scope is mandatory", ScopeOpenID)
	}
	o := requestOptions{tokens: NewTokenSource()}
	for _, opt := range opts {
		opt(&o)
	}
	request := o.request
	request.ResponseType = ResponseTypeCode
	request.Scopes = append(Scopes(nil), scopes...)
	if request.State == "" {
		state, err := o.tokens.Token()
		if err != nil {
			return nil, err
		}
		request.State = state
	}
	if request.Nonce == "" {
		// a separate draw: state and nonce must not be correlated
		nonce, err := o.tokens.Token()
		if err != nil {
			return nil, err
		}
		request.Nonce = nonce
	}
	return &request, nil
}

// Clone returns a copy of the request with the given field overrides
// applied. The receiver is left untouched. Scope changes go through
// NewAuthenticationRequest so the scope invariants stay enforced.
func (a AuthenticationRequest) Clone(opts ...Option) *AuthenticationRequest {
	o := requestOptions{request: a}
	o.request.Scopes = append(Scopes(nil), a.Scopes...)
	for _, opt := range opts {
		opt(&o)
	}
	return &o.request
}

// Validate checks the fields every serialized or projected request must
// carry: host, scopes, client id, redirect URI, state and nonce.
func (a *AuthenticationRequest) Validate() error {
	switch {
	case a.Host == "":
		return ErrInvalidRequest().WithDescription("host is empty")
	case len(a.Scopes) == 0:
		return ErrInvalidRequest().WithDescription("scopes are empty")
	case a.ClientID == "":
		return ErrInvalidRequest().WithDescription("client_id is empty")
	case a.RedirectURI == "":
		return ErrInvalidRequest().WithDescription("redirect_uri is empty")
	case a.State == "":
		return ErrInvalidRequest().WithDescription("state is empty")
	case a.Nonce == "":
		return ErrInvalidRequest().WithDescription("nonce is empty")
	}
	return nil
}

type queryParam struct {
	key   string
	value string
}

// queryParams returns the authorize parameters in the Platform's wire order.
// Absent optional fields produce no parameter at all.
func (a *AuthenticationRequest) queryParams() []queryParam {
	params := []queryParam{
		{QueryScope, a.Scopes.String()},
		{QueryResponseType, string(a.ResponseType)},
		{QueryClientID, a.ClientID},
		{QueryRedirectURI, a.RedirectURI},
		{QueryState, a.State},
		{QueryNonce, a.Nonce},
	}
	if a.Display != "" {
		params = append(params, queryParam{QueryDisplay, a.Display.String()})
	}
	if a.Prompt != PromptUnspecified {
		params = append(params, queryParam{QueryPrompt, a.Prompt.String()})
	}
	if a.VectorOfTrust != nil {
		params = append(params, queryParam{QueryVectorOfTrust, a.VectorOfTrust.String()})
	}
	if a.FidoAuthResponse != "" {
		params = append(params, queryParam{QueryFidoAuthResponse, a.FidoAuthResponse})
	}
	if a.AssertedLoginIdentity != "" {
		params = append(params, queryParam{QueryAssertedLoginIdentity, a.AssertedLoginIdentity})
	}
	if a.AllowRegistration != nil {
		params = append(params, queryParam{QueryAllowRegistration, strconv.FormatBool(*a.AllowRegistration)})
	}
	return params
}

// QueryParams returns the authorize parameters as url.Values, for callers
// that work on the parameter map rather than the final URL.
func (a *AuthenticationRequest) QueryParams() (url.Values, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	values := make(url.Values)
	for _, param := range a.queryParams() {
		values.Set(param.key, param.value)
	}
	return values, nil
}

// AuthorizeURL renders the https URL of the Platform's authorize endpoint
// with the request's parameters in wire order. The Platform's parser is
// order-sensitive enough that url.Values.Encode (which sorts keys) cannot
// be used here.
func (a *AuthenticationRequest) AuthorizeURL() (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	var query strings.Builder
	for i, param := range a.queryParams() {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(param.key)
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(param.value))
	}
	u := url.URL{
		Scheme:   "https",
		Host:     a.Host,
		Path:     authorizePath,
		RawQuery: query.String(),
	}
	return u.String(), nil
}

// UnmarshalAuthenticationRequest decodes the JSON session form of a request.
// Unknown keys are ignored. A missing non-optional field is a decode error,
// except responseType, which is taken as-is and never inferred: decoding is
// faithful to the input and does not re-apply construction-time defaulting.
func UnmarshalAuthenticationRequest(data []byte) (*AuthenticationRequest, error) {
	request := new(AuthenticationRequest)
	if err := json.Unmarshal(data, request); err != nil {
		return nil, ErrInvalidRequest().WithDescription("malformed authentication request").WithParent(err)
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return request, nil
}

// LogValue implements slog.LogValuer. State and nonce are security tokens
// and are logged by length only.
func (a *AuthenticationRequest) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Any("scopes", a.Scopes),
		slog.String("response_type", string(a.ResponseType)),
		slog.String("host", a.Host),
		slog.String("client_id", a.ClientID),
		slog.String("redirect_uri", a.RedirectURI),
		slog.Int("state_len", len(a.State)),
		slog.Int("nonce_len", len(a.Nonce)),
	}
	if a.Display != "" {
		attrs = append(attrs, slog.String("display", a.Display.String()))
	}
	if a.Prompt != PromptUnspecified {
		attrs = append(attrs, slog.String("prompt", a.Prompt.String()))
	}
	if a.VectorOfTrust != nil {
		attrs = append(attrs, slog.String("vtr", a.VectorOfTrust.String()))
	}
	if a.AllowRegistration != nil {
		attrs = append(attrs, slog.Bool("allow_registration", *a.AllowRegistration))
	}
	return slog.GroupValue(attrs...)
}
