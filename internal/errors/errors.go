package errors

import (
	"errors"
	"net/http"
)

// AuthErrorType is the closed set of failure categories the authentication
// layer reports. The sign-in orchestrator classifies outcomes by category,
// never by error text.
type AuthErrorType string

const (
	// CallbackRouteError wraps a failure raised inside the credentials
	// callback, including a rejected email/password pair.
	CallbackRouteError AuthErrorType = "CallbackRouteError"
	// CredentialsSignin is a direct rejection of a credentials sign-in.
	CredentialsSignin AuthErrorType = "CredentialsSignin"
	// OAuthSignInError is a failure during an external provider exchange.
	OAuthSignInError AuthErrorType = "OAuthSignInError"
	// AccessDenied is a refusal from the provider or an authorization rule.
	AccessDenied AuthErrorType = "AccessDenied"
	// Configuration is a misconfigured provider or signing secret.
	Configuration AuthErrorType = "Configuration"
)

// AuthError is a categorized authentication failure.
type AuthError struct {
	Type AuthErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Err.Error()
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError wraps err with a failure category.
func NewAuthError(t AuthErrorType, err error) *AuthError {
	return &AuthError{Type: t, Err: err}
}

// AsAuthError reports whether err carries an authentication category.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// SignInResult is the outcome returned to sign-in callers. Either Success
// is true and the other fields are zero, or Success is false and Error /
// StatusCode describe the failure.
type SignInResult struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// SignInSuccess is the single success outcome.
func SignInSuccess() SignInResult {
	return SignInResult{Success: true}
}

// ClassifySignInError converts any sign-in failure into the typed result.
// Invalid credentials and callback failures collapse to one message so a
// caller cannot tell an unknown email from a wrong password. Failures that
// carry no category keep the legacy empty-message 401 shape.
func ClassifySignInError(err error) SignInResult {
	if authErr, ok := AsAuthError(err); ok {
		switch authErr.Type {
		case CallbackRouteError, CredentialsSignin:
			return SignInResult{
				Success:    false,
				Error:      "Incorrect Email or Password",
				StatusCode: http.StatusUnauthorized,
			}
		default:
			return SignInResult{
				Success:    false,
				Error:      "oops, Something went wrong",
				StatusCode: http.StatusInternalServerError,
			}
		}
	}
	return SignInResult{
		Success:    false,
		Error:      "",
		StatusCode: http.StatusUnauthorized,
	}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
