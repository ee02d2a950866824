package platform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopes_String(t *testing.T) {
	tests := []struct {
		name   string
		scopes Scopes
		want   string
	}{
		{
			"single",
			Scopes{ScopeOpenID},
			"openId",
		},
		{
			"order preserved",
			Scopes{ScopeOpenID, ScopeProfile, ScopeEmail},
			"openId profile email",
		},
		{
			"reversed order preserved",
			Scopes{ScopeProfile, ScopeOpenID},
			"profile openId",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scopes.String())
		})
	}
}

func TestScopes_JSON(t *testing.T) {
	scopes := Scopes{ScopeOpenID, ScopeProfile}

	data, err := json.Marshal(scopes)
	require.NoError(t, err)
	// a flattened string, never a JSON array
	assert.JSONEq(t, `"openId profile"`, string(data))

	var got Scopes
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, scopes, got)
}

func TestScopes_UnmarshalText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Scopes
		wantErr bool
	}{
		{
			name: "single",
			text: "openId",
			want: Scopes{ScopeOpenID},
		},
		{
			name: "order preserved",
			text: "profile openId",
			want: Scopes{ScopeProfile, ScopeOpenID},
		},
		{
			name:    "blank string",
			text:    "",
			wantErr: true,
		},
		{
			name:    "blank component",
			text:    "openId  profile",
			wantErr: true,
		},
		{
			name:    "trailing separator",
			text:    "openId ",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Scopes
			err := got.UnmarshalText([]byte(tt.text))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopes_UnmarshalJSON_rejectsArray(t *testing.T) {
	var got Scopes
	err := json.Unmarshal([]byte(`["openId","profile"]`), &got)
	assert.Error(t, err)
}

func TestScopes_Contains(t *testing.T) {
	scopes := Scopes{ScopeOpenID, ScopeProfile}
	assert.True(t, scopes.Contains(ScopeProfile))
	assert.False(t, scopes.Contains(ScopePhone))
}

func TestDisplay_UnmarshalText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Display
		wantErr bool
	}{
		{
			"page",
			"page",
			DisplayPage,
			false,
		},
		{
			"touch",
			"touch",
			DisplayTouch,
			false,
		},
		{
			"unknown value",
			"billboard",
			"",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Display
			err := d.UnmarshalText([]byte(tt.text))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestPrompt_wireValues(t *testing.T) {
	tests := []struct {
		name   string
		prompt Prompt
		want   string
	}{
		{
			"login",
			PromptLogin,
			"login",
		},
		{
			// the wire value is not the Go identifier
			"select account",
			PromptSelectAccount,
			"select_account",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prompt.String())

			text, err := tt.prompt.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(text))

			var p Prompt
			require.NoError(t, p.UnmarshalText(text))
			assert.Equal(t, tt.prompt, p)
		})
	}
}

func TestPrompt_UnmarshalText_unknown(t *testing.T) {
	var p Prompt
	err := p.UnmarshalText([]byte("shout"))
	require.ErrorIs(t, err, ErrInvalidRequest())
}

func TestPrompt_MarshalText_unspecified(t *testing.T) {
	_, err := PromptUnspecified.MarshalText()
	require.ErrorIs(t, err, ErrInvalidRequest())
}

func TestVectorOfTrust(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{
			"proofing and authentication",
			"P9.Cp.Cd",
			false,
		},
		{
			"single component",
			"P0",
			false,
		},
		{
			"empty component",
			"P9..Cd",
			true,
		},
		{
			"empty value",
			"",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vot, err := ParseVectorOfTrust(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, vot.String())
		})
	}
}

func TestVectorOfTrust_JSON(t *testing.T) {
	vot, err := NewVectorOfTrust("P9", "Cp", "Cd")
	require.NoError(t, err)

	data, err := json.Marshal(vot)
	require.NoError(t, err)
	assert.JSONEq(t, `"P9.Cp.Cd"`, string(data))

	got := new(VectorOfTrust)
	require.NoError(t, json.Unmarshal(data, got))
	assert.Equal(t, vot, got)
}

func TestNewVectorOfTrust_invalidComponent(t *testing.T) {
	_, err := NewVectorOfTrust("P9", "C d")
	require.ErrorIs(t, err, ErrInvalidRequest())
}
