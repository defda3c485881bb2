package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer
	// AuthAPIKey sends the key in a named header.
	AuthAPIKey
	// AuthRaw sends the key as the whole Authorization value, without a scheme.
	AuthRaw
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer) or raw value (AuthRaw).
	Token string
	// Key is the API key value (AuthAPIKey).
	Key string
	// Name is the header name (AuthAPIKey). Defaults to "X-API-Key".
	Name string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuthHeader creates an API key auth config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Name: headerName}
}

// RawAuth sends token as the Authorization header verbatim.
func RawAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthRaw, Token: token}
}

// Headers returns the headers this auth config sets.
func (a *AuthConfig) Headers() map[string]string {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		return map[string]string{"Authorization": "Bearer " + a.Token}
	case AuthRaw:
		return map[string]string{"Authorization": a.Token}
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		return map[string]string{name: a.Key}
	default:
		return nil
	}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	for k, v := range a.Headers() {
		req.Header.Set(k, v)
	}
}
