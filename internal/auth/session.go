package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"authportal/internal/model"
)

// Trigger names the event a token callback runs for.
type Trigger string

const (
	// TriggerSignIn is the initial issuance right after a successful
	// credentials or provider exchange.
	TriggerSignIn Trigger = "signIn"
	// TriggerUpdate is an explicit session update requested by the caller.
	TriggerUpdate Trigger = "update"
)

// SessionUser is the user projection exposed to session consumers.
type SessionUser struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// Session is the client-facing view of a session token. It is rebuilt from
// the token on every read and never stores an independent copy.
type Session struct {
	User SessionUser `json:"user"`
}

// SessionPatch carries the partial user object supplied with an update
// trigger.
type SessionPatch struct {
	User map[string]any `json:"user"`
}

// IssueOrRefresh returns the next token state for a token lifecycle event.
// It never mutates the token it is given.
//
// On an update trigger the patch user fields are shallow-merged into the
// token, later write wins. That is the only path that can change identity
// fields after issuance.
//
// Otherwise, when a user object is present this is issuance time: the one
// moment the user record is available, so id and role are stamped onto the
// token here. Subsequent refreshes arrive with a nil user and the token
// passes through unchanged.
func IssueOrRefresh(token jwt.MapClaims, user *model.User, trigger Trigger, patch *SessionPatch) jwt.MapClaims {
	next := make(jwt.MapClaims, len(token)+2)
	for k, v := range token {
		next[k] = v
	}

	if trigger == TriggerUpdate {
		if patch != nil {
			for k, v := range patch.User {
				next[k] = v
			}
		}
		return next
	}

	if user != nil {
		if user.ID != uuid.Nil {
			next["id"] = user.ID.String()
		}
		if user.Role != "" {
			next["role"] = user.Role
		}
	}
	return next
}

// NewSessionClaims builds the provider-issued portion of a fresh token from
// the authenticated user's profile.
func NewSessionClaims(user *model.User) jwt.MapClaims {
	claims := jwt.MapClaims{}
	if user == nil {
		return claims
	}
	if user.Email != "" {
		claims["email"] = user.Email
	}
	if user.Image != "" {
		claims["picture"] = user.Image
	}
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		claims["name"] = name
	}
	return claims
}

// ReadSession projects the token's identity claims onto the session. Claims
// missing from the token project as zero values.
func ReadSession(session Session, token jwt.MapClaims) Session {
	session.User.ID = stringClaim(token, "id")
	session.User.Role = stringClaim(token, "role")
	if email := stringClaim(token, "email"); email != "" {
		session.User.Email = email
	}
	if image := stringClaim(token, "picture"); image != "" {
		session.User.Image = image
	}
	return session
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
