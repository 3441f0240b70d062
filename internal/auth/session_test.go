package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"authportal/internal/model"
)

func TestIssueOrRefresh_StampsIdentityOnIssuance(t *testing.T) {
	user := &model.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
		Role:  "admin",
	}

	token := NewSessionClaims(user)
	token = IssueOrRefresh(token, user, TriggerSignIn, nil)

	assert.Equal(t, user.ID.String(), token["id"])
	assert.Equal(t, "admin", token["role"])
	assert.Equal(t, "ada@example.com", token["email"])
}

func TestIssueOrRefresh_RefreshWithoutUserKeepsToken(t *testing.T) {
	token := jwt.MapClaims{"id": "u1", "role": "admin", "extra": "x"}

	refreshed := IssueOrRefresh(token, nil, TriggerSignIn, nil)

	assert.Equal(t, token, refreshed)
}

func TestIssueOrRefresh_UpdateMergesWithoutDroppingFields(t *testing.T) {
	token := jwt.MapClaims{"id": "u1", "role": "admin", "extra": "x"}

	updated := IssueOrRefresh(token, nil, TriggerUpdate, &SessionPatch{
		User: map[string]any{"role": "editor"},
	})

	assert.Equal(t, "u1", updated["id"])
	assert.Equal(t, "editor", updated["role"])
	assert.Equal(t, "x", updated["extra"])
	// the previous token state is untouched
	assert.Equal(t, "admin", token["role"])
}

func TestIssueOrRefresh_UpdateIgnoresStaleUserObject(t *testing.T) {
	token := jwt.MapClaims{"id": "u1", "role": "admin"}
	user := &model.User{ID: uuid.New(), Role: "user"}

	updated := IssueOrRefresh(token, user, TriggerUpdate, &SessionPatch{
		User: map[string]any{"role": "editor"},
	})

	// Update trigger wins, the user object does not re-stamp identity.
	assert.Equal(t, "u1", updated["id"])
	assert.Equal(t, "editor", updated["role"])
}

func TestReadSession_ProjectsTokenOntoSession(t *testing.T) {
	token := jwt.MapClaims{
		"id":      "u1",
		"role":    "admin",
		"email":   "ada@example.com",
		"picture": "https://example.com/a.png",
	}

	session := ReadSession(Session{}, token)

	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, "admin", session.User.Role)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.Equal(t, "https://example.com/a.png", session.User.Image)
}

func TestReadSession_IsIdempotentPerToken(t *testing.T) {
	token := jwt.MapClaims{"id": "u1", "role": "admin"}

	first := ReadSession(Session{}, token)
	second := ReadSession(Session{}, token)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, first.User.Role, second.User.Role)
}

func TestReadSession_MissingClaimsProjectAsZeroValues(t *testing.T) {
	session := ReadSession(Session{}, jwt.MapClaims{})

	assert.Empty(t, session.User.ID)
	assert.Empty(t, session.User.Role)
}
