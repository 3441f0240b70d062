package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"authportal/internal/auth"
	apperrors "authportal/internal/errors"
	"authportal/internal/model"
	"authportal/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrMalformedInput is returned when the sign-in payload is not an object.
	ErrMalformedInput = errors.New("invalid JSON object")
)

// SignInService drives authentication: credential sign-in, provider
// sign-in, registration and session updates.
type SignInService interface {
	// SignIn validates raw caller input, verifies credentials and returns
	// the typed outcome. On success the second return value is the signed
	// session token; it is empty otherwise. SignIn never returns an error:
	// every failure is folded into the result.
	SignIn(ctx context.Context, raw any) (apperrors.SignInResult, string)
	// SignInWithProvider completes an external provider sign-in for an
	// already exchanged identity, linking the account if needed.
	SignInWithProvider(ctx context.Context, identity *Identity) (apperrors.SignInResult, string)
	// Register creates a credentials user with a hashed password.
	Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, error)
	// UpdateSession applies a session patch to an existing token and
	// returns the re-signed token.
	UpdateSession(ctx context.Context, tokenString string, patch *auth.SessionPatch) (string, error)
}

type signInService struct {
	users      repository.UserRepository
	accounts   repository.AccountRepository
	linkHook   LinkHook
	jwtService *auth.JWTService
	validate   *validator.Validate
}

// NewSignInService creates the sign-in orchestrator.
func NewSignInService(users repository.UserRepository, accounts repository.AccountRepository, linkHook LinkHook, jwtService *auth.JWTService) SignInService {
	return &signInService{
		users:      users,
		accounts:   accounts,
		linkHook:   linkHook,
		jwtService: jwtService,
		validate:   validator.New(),
	}
}

// signInCredentials is the schema the raw sign-in payload must satisfy
// before any lookup happens.
type signInCredentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (s *signInService) SignIn(ctx context.Context, raw any) (apperrors.SignInResult, string) {
	result, token := s.signIn(ctx, raw)
	if !result.Success && result.Error == "" {
		// Unclassified failures keep their empty message, but they are
		// worth a trace internally.
		log.Printf("signin: unclassified failure (status %d)", result.StatusCode)
	}
	return result, token
}

func (s *signInService) signIn(ctx context.Context, raw any) (apperrors.SignInResult, string) {
	fields, ok := raw.(map[string]any)
	if !ok || fields == nil {
		return apperrors.ClassifySignInError(ErrMalformedInput), ""
	}

	creds := signInCredentials{}
	creds.Email, _ = fields["email"].(string)
	creds.Password, _ = fields["password"].(string)
	if err := s.validate.Struct(&creds); err != nil {
		// Schema rejection is indistinguishable from bad credentials.
		return apperrors.ClassifySignInError(
			apperrors.NewAuthError(apperrors.CredentialsSignin, err)), ""
	}

	user := s.verifyCredentials(ctx, creds.Email, creds.Password)
	if user == nil {
		return apperrors.ClassifySignInError(
			apperrors.NewAuthError(apperrors.CallbackRouteError, ErrInvalidCredentials)), ""
	}

	token, err := s.issueSession(user)
	if err != nil {
		return apperrors.ClassifySignInError(
			apperrors.NewAuthError(apperrors.Configuration, err)), ""
	}
	return apperrors.SignInSuccess(), token
}

// verifyCredentials checks an email/password pair against the user
// directory. Unknown email, provider-only account and wrong password all
// return nil so callers cannot tell them apart. On match the returned user
// has its password hash stripped.
func (s *signInService) verifyCredentials(ctx context.Context, email, password string) *model.User {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}
	if !user.HasPassword() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil
	}
	return user.Sanitized()
}

func (s *signInService) SignInWithProvider(ctx context.Context, identity *Identity) (apperrors.SignInResult, string) {
	if identity == nil || identity.Provider == "" || identity.ProviderAccountID == "" {
		return apperrors.ClassifySignInError(
			apperrors.NewAuthError(apperrors.OAuthSignInError, errors.New("incomplete provider identity"))), ""
	}

	user, err := s.resolveProviderUser(ctx, identity)
	if err != nil {
		return apperrors.ClassifySignInError(
			apperrors.NewAuthError(apperrors.OAuthSignInError, err)), ""
	}

	token, err := s.issueSession(user.Sanitized())
	if err != nil {
		return apperrors.ClassifySignInError(
			apperrors.NewAuthError(apperrors.Configuration, err)), ""
	}
	return apperrors.SignInSuccess(), token
}

// resolveProviderUser maps a provider identity to a local user, creating
// the user and the account link on first sign-in. A fresh link fires the
// account-linked hook.
func (s *signInService) resolveProviderUser(ctx context.Context, identity *Identity) (*model.User, error) {
	account, err := s.accounts.FindByProviderID(ctx, identity.Provider, identity.ProviderAccountID)
	if err == nil {
		return s.users.FindByID(ctx, account.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find account link: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, identity.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			Email:     identity.Email,
			Role:      model.RoleUser,
			Image:     identity.Image,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	link := &model.Account{
		UserID:            user.ID,
		Provider:          identity.Provider,
		ProviderAccountID: identity.ProviderAccountID,
		Type:              "oauth",
	}
	if err := s.accounts.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create account link: %w", err)
	}

	s.linkHook.OnAccountLinked(ctx, user, link)
	return user, nil
}

// issueSession builds a fresh token for the user and signs it.
func (s *signInService) issueSession(user *model.User) (string, error) {
	claims := auth.NewSessionClaims(user)
	claims = auth.IssueOrRefresh(claims, user, auth.TriggerSignIn, nil)
	return s.jwtService.SignSession(claims)
}

func (s *signInService) Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	hash := string(hashed)

	user := &model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *signInService) UpdateSession(ctx context.Context, tokenString string, patch *auth.SessionPatch) (string, error) {
	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		return "", fmt.Errorf("validate session token: %w", err)
	}
	next := auth.IssueOrRefresh(claims, nil, auth.TriggerUpdate, patch)
	return s.jwtService.SignSession(next)
}
