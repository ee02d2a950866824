package platform

import (
	"encoding/json"
	"strings"
)

const (
	// ScopeOpenID is the scope every authentication request must carry.
	// The Platform spells it in camelCase on the wire.
	ScopeOpenID Scope = "openId"

	// ScopeProfile requests the user's basic demographics.
	ScopeProfile Scope = "profile"

	// ScopeProfileExtended requests the extended demographics set.
	ScopeProfileExtended Scope = "profile_extended"

	// ScopeEmail requests the email and email_verified claims.
	ScopeEmail Scope = "email"

	// ScopePhone requests the phone_number and phone_number_verified claims.
	ScopePhone Scope = "phone"

	// ResponseTypeCode is the only response type the Platform supports;
	// every request uses the authorization code flow.
	ResponseTypeCode ResponseType = "code"

	DisplayPage  Display = "page"
	DisplayPopup Display = "popup"
	DisplayTouch Display = "touch"
	DisplayWAP   Display = "wap"
)

type Scope string

type ResponseType string

// Scopes is an ordered list of requested scopes. The order is part of the
// wire contract: both the authorize query and the JSON form carry the list
// as a single string joined with single spaces, in list order.
type Scopes []Scope

func (s Scopes) String() string {
	values := make([]string, len(s))
	for i, scope := range s {
		values[i] = string(scope)
	}
	return strings.Join(values, " ")
}

func (s Scopes) Contains(scope Scope) bool {
	for _, candidate := range s {
		if candidate == scope {
			return true
		}
	}
	return false
}

func (s Scopes) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText splits the space-joined wire form back into the ordered
// list. A blank string or a blank component (doubled separator) is a decode
// error, not a phantom empty scope.
func (s *Scopes) UnmarshalText(text []byte) error {
	values := strings.Split(string(text), " ")
	scopes := make(Scopes, len(values))
	for i, value := range values {
		if value == "" {
			return ErrInvalidRequest().WithDescription("empty scope in %q", text)
		}
		scopes[i] = Scope(value)
	}
	*s = scopes
	return nil
}

// MarshalJSON encodes the list as a space-joined JSON string, not an array.
// The session channel predates the list representation and still expects
// the flattened form.
func (s Scopes) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Scopes) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(joined))
}

// Display is the UX hint telling the Platform how to render the login UI.
// It serializes by name on every channel.
type Display string

var displayValues = map[string]Display{
	"page":  DisplayPage,
	"popup": DisplayPopup,
	"touch": DisplayTouch,
	"wap":   DisplayWAP,
}

func (d Display) String() string {
	return string(d)
}

func (d Display) MarshalText() ([]byte, error) {
	return []byte(d), nil
}

func (d *Display) UnmarshalText(text []byte) error {
	display, ok := displayValues[string(text)]
	if !ok {
		return ErrInvalidRequest().WithDescription("unknown display value %q", text)
	}
	*d = display
	return nil
}

// Prompt is the UX hint controlling whether the Platform re-authenticates
// the user. The wire values are fixed by the Platform and are not derivable
// from the Go identifiers, so the type keeps an explicit mapping in both
// directions.
type Prompt int

const (
	PromptUnspecified Prompt = iota
	PromptNone
	PromptLogin
	PromptConsent
	PromptSelectAccount
)

var promptWireValues = map[Prompt]string{
	PromptNone:          "none",
	PromptLogin:         "login",
	PromptConsent:       "consent",
	PromptSelectAccount: "select_account",
}

var promptValues = map[string]Prompt{
	"none":           PromptNone,
	"login":          PromptLogin,
	"consent":        PromptConsent,
	"select_account": PromptSelectAccount,
}

// String returns the Platform's wire value for the prompt, or the empty
// string when the prompt is unspecified or unknown.
func (p Prompt) String() string {
	return promptWireValues[p]
}

func (p Prompt) MarshalText() ([]byte, error) {
	value, ok := promptWireValues[p]
	if !ok {
		return nil, ErrInvalidRequest().WithDescription("unknown prompt value %d", p)
	}
	return []byte(value), nil
}

func (p *Prompt) UnmarshalText(text []byte) error {
	prompt, ok := promptValues[string(text)]
	if !ok {
		return ErrInvalidRequest().WithDescription("unknown prompt value %q", text)
	}
	*p = prompt
	return nil
}

// VectorOfTrust describes the requested identity and authentication
// assurance as an ordered list of vector components, rendered with a `.`
// separator (e.g. P9.Cp.Cd). The request treats the value as opaque;
// this type owns both directions of the encoding.
type VectorOfTrust struct {
	components []string
}

func NewVectorOfTrust(components ...string) (*VectorOfTrust, error) {
	if len(components) == 0 {
		return nil, ErrInvalidRequest().WithDescription("vector of trust needs at least one component")
	}
	for _, component := range components {
		if component == "" || strings.ContainsAny(component, ". ") {
			return nil, ErrInvalidRequest().WithDescription("invalid vector of trust component %q", component)
		}
	}
	return &VectorOfTrust{components: append([]string(nil), components...)}, nil
}

func ParseVectorOfTrust(value string) (*VectorOfTrust, error) {
	return NewVectorOfTrust(strings.Split(value, ".")...)
}

func (v *VectorOfTrust) String() string {
	return strings.Join(v.components, ".")
}

func (v *VectorOfTrust) Components() []string {
	return append([]string(nil), v.components...)
}

func (v *VectorOfTrust) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *VectorOfTrust) UnmarshalText(text []byte) error {
	parsed, err := ParseVectorOfTrust(string(text))
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}
