package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"authportal/internal/auth"
	"authportal/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByProviderID(ctx context.Context, provider, providerAccountID string) (*model.Account, error) {
	args := m.Called(ctx, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

// recordingLinkHook counts hook invocations.
type recordingLinkHook struct {
	calls []string
}

func (h *recordingLinkHook) OnAccountLinked(ctx context.Context, user *model.User, account *model.Account) {
	h.calls = append(h.calls, account.Provider)
}

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(hashed)
	return &hash
}

func newTestService(users *MockUserRepository, accounts *MockAccountRepository) (SignInService, *recordingLinkHook, *auth.JWTService) {
	hook := &recordingLinkHook{}
	jwtService := auth.NewJWTService("test-secret")
	return NewSignInService(users, accounts, hook, jwtService), hook, jwtService
}

func TestSignIn_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil input", raw: nil},
		{name: "string input", raw: "email=x"},
		{name: "number input", raw: 42.0},
		{name: "array input", raw: []any{"x@y.com", "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(&MockUserRepository{}, &MockAccountRepository{})

			result, token := svc.SignIn(context.Background(), tt.raw)

			assert.False(t, result.Success)
			assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
			assert.Equal(t, "", result.Error)
			assert.Empty(t, token)
		})
	}
}

func TestSignIn_CredentialFailuresAreIndistinguishable(t *testing.T) {
	stored := hashOf(t, "correct-password")

	tests := []struct {
		name      string
		input     map[string]any
		setupMock func(*MockUserRepository)
	}{
		{
			name:  "unknown email",
			input: map[string]any{"email": "ghost@example.com", "password": "whatever"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
		},
		{
			name:  "provider-only account without password hash",
			input: map[string]any{"email": "oauth@example.com", "password": "whatever"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "oauth@example.com").Return(&model.User{
					ID:    uuid.New(),
					Email: "oauth@example.com",
					Role:  model.RoleUser,
				}, nil)
			},
		},
		{
			name:  "wrong password",
			input: map[string]any{"email": "x@y.com", "password": "wrong"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "x@y.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "x@y.com",
					PasswordHash: stored,
					Role:         model.RoleUser,
				}, nil)
			},
		},
		{
			name:      "schema rejection before any lookup",
			input:     map[string]any{"email": "not-an-email", "password": "whatever"},
			setupMock: func(m *MockUserRepository) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserRepository{}
			tt.setupMock(users)
			svc, _, _ := newTestService(users, &MockAccountRepository{})

			result, token := svc.SignIn(context.Background(), tt.input)

			assert.False(t, result.Success)
			assert.Equal(t, "Incorrect Email or Password", result.Error)
			assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
			assert.Empty(t, token)
			users.AssertExpectations(t)
		})
	}
}

func TestSignIn_Success(t *testing.T) {
	userID := uuid.New()
	users := &MockUserRepository{}
	users.On("FindByEmail", mock.Anything, "ada@example.com").Return(&model.User{
		ID:           userID,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: hashOf(t, "password123"),
		Role:         model.RoleAdmin,
	}, nil)

	svc, _, jwtService := newTestService(users, &MockAccountRepository{})

	result, token := svc.SignIn(context.Background(), map[string]any{
		"email":    "ada@example.com",
		"password": "password123",
	})

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Zero(t, result.StatusCode)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims["id"])
	assert.Equal(t, model.RoleAdmin, claims["role"])
	assert.Equal(t, "ada@example.com", claims["email"])
}

func TestSignInWithProvider_FirstLoginLinksAndFiresHook(t *testing.T) {
	users := &MockUserRepository{}
	accounts := &MockAccountRepository{}

	accounts.On("FindByProviderID", mock.Anything, "google", "sub-1").Return(nil, gorm.ErrRecordNotFound)
	users.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	accounts.On("Create", mock.Anything, mock.AnythingOfType("*model.Account")).Return(nil)

	svc, hook, _ := newTestService(users, accounts)

	result, token := svc.SignInWithProvider(context.Background(), &Identity{
		Provider:          "google",
		ProviderAccountID: "sub-1",
		Email:             "a@b.com",
		EmailVerified:     true,
		FirstName:         "Ada",
	})

	assert.True(t, result.Success)
	assert.NotEmpty(t, token)
	assert.Equal(t, []string{"google"}, hook.calls)
	users.AssertExpectations(t)
	accounts.AssertExpectations(t)
}

func TestSignInWithProvider_ExistingLinkDoesNotRefire(t *testing.T) {
	userID := uuid.New()
	users := &MockUserRepository{}
	accounts := &MockAccountRepository{}

	accounts.On("FindByProviderID", mock.Anything, "google", "sub-1").Return(&model.Account{
		UserID:            userID,
		Provider:          "google",
		ProviderAccountID: "sub-1",
	}, nil)
	users.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Email: "a@b.com",
		Role:  model.RoleUser,
	}, nil)

	svc, hook, _ := newTestService(users, accounts)

	result, token := svc.SignInWithProvider(context.Background(), &Identity{
		Provider:          "google",
		ProviderAccountID: "sub-1",
		Email:             "a@b.com",
	})

	assert.True(t, result.Success)
	assert.NotEmpty(t, token)
	assert.Empty(t, hook.calls)
}

func TestSignInWithProvider_IncompleteIdentity(t *testing.T) {
	svc, _, _ := newTestService(&MockUserRepository{}, &MockAccountRepository{})

	result, token := svc.SignInWithProvider(context.Background(), nil)

	assert.False(t, result.Success)
	assert.Equal(t, "oops, Something went wrong", result.Error)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	assert.Empty(t, token)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "new@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "user already exists",
			email: "existing@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserRepository{}
			tt.setupMock(users)
			svc, _, _ := newTestService(users, &MockAccountRepository{})

			user, err := svc.Register(context.Background(), tt.email, "password123", "Test", "User")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Nil(t, user.PasswordHash)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestUpdateSession_MergesPatchIntoToken(t *testing.T) {
	svc, _, jwtService := newTestService(&MockUserRepository{}, &MockAccountRepository{})

	original, err := jwtService.SignSession(map[string]any{"id": "u1", "role": "admin", "extra": "x"})
	require.NoError(t, err)

	updated, err := svc.UpdateSession(context.Background(), original, &auth.SessionPatch{
		User: map[string]any{"role": "editor"},
	})
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(updated)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["id"])
	assert.Equal(t, "editor", claims["role"])
	assert.Equal(t, "x", claims["extra"])
}
